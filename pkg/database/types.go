package database

// OrderDirection, ORDER BY yönünü temsil eder. Sadece whitelist'teki değerler kabul edilir.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// OrderClause, tek bir ORDER BY ifadesini tutar.
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// WhereClause, tek bir WHERE koşulunu tutar.
//
// Group doluysa clause bir parantez grubudur: Column/Operator/Value yok sayılır ve
// grup içindeki koşullar kendi Boolean değerleriyle birleştirilir.
//
// Örnek:
//
//	`status` = ? AND (`name` LIKE ? OR `cnic` LIKE ?)
type WhereClause struct {
	Column   string
	Operator string
	Value    interface{}
	Boolean  string // "AND" veya "OR"
	Group    []WhereClause
}

// IsGroup, clause'un parantezli bir grup olup olmadığını döndürür.
func (w WhereClause) IsGroup() bool {
	return len(w.Group) > 0
}
