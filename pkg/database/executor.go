package database

import "database/sql"

// QueryExecutor, *sql.DB ve *sql.Tx'in ortak alt kümesidir.
// Builder ve repository'ler bu interface üzerinden çalışır; aynı sorgu kodu
// transaction içinde veya dışında değişmeden kullanılabilir.
type QueryExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
