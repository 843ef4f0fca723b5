package models

// Personel rolleri.
const (
	RoleAdmin = "admin" // referans veri yönetimi + inceleme
	RoleStaff = "staff" // yalnızca inceleme
)

// User, yönetim paneline giriş yapan personel.
type User struct {
	BaseModel
	Name     string       `json:"name" db:"name"`
	Email    string       `json:"email" db:"email"`
	Password string       `json:"-" db:"password"`
	Role     string       `json:"role" db:"role"`
	Status   RecordStatus `json:"status" db:"status"`
}

func (u *User) GetID() int64     { return u.ID }
func (u *User) GetEmail() string { return u.Email }
func (u *User) GetRole() string  { return u.Role }

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
