package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error kodları.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// IsDuplicateKey, hatanın unique index ihlalinden kaynaklanıp kaynaklanmadığını döndürür.
// Eşzamanlı iki aynı başvurudan ikincisi commit sırasında bu hatayı alır.
func IsDuplicateKey(err error) bool {
	return hasMySQLCode(err, mysqlErrDuplicateEntry)
}

// IsForeignKeyViolation, silinmek istenen satıra başka satırların bağlı olduğunu
// veya insert edilen satırın var olmayan bir satıra referans verdiğini belirtir.
func IsForeignKeyViolation(err error) bool {
	return hasMySQLCode(err, mysqlErrRowIsReferenced) || hasMySQLCode(err, mysqlErrNoReferencedRow)
}

func hasMySQLCode(err error, code uint16) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == code
	}
	return false
}
