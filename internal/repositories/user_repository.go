package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/database"
)

type UserRepository struct {
	base
}

func NewUserRepository(db *sql.DB, grammar database.Grammar) *UserRepository {
	return &UserRepository{base{db: db, grammar: grammar, table: "users"}}
}

func (r *UserRepository) FindByID(id int64) (*models.User, error) {
	var user models.User
	if err := r.findByID(id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail, e-posta büyük/küçük harf duyarsız aranır.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.query().Where("email", "=", strings.ToLower(strings.TrimSpace(email))).First(&user)
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	id, err := r.insert(map[string]interface{}{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
		"role":     user.Role,
		"status":   user.Status,
	})
	if err != nil {
		return err
	}
	user.ID = id
	user.Initialize()
	return nil
}

// UpdatePassword, rehash sonrası şifreyi günceller.
func (r *UserRepository) UpdatePassword(id int64, hash string) error {
	if err := r.updateByID(id, map[string]interface{}{"password": hash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
