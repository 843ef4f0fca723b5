package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// -----------------------------------------------------------------------------
// QUERY BUILDER
// -----------------------------------------------------------------------------
// Builder; tablo, kolonlar, where'lar, order, limit ve offset state'ini tutar.
// Okuma (Get, First, Count) ve yazma (ExecInsert, ExecUpdate, ExecDelete)
// işlemleri grammar tarafından derlenen prepared statement'lar ile çalışır.
//
// GÜVENLİK:
// - Tüm identifier'lar validateIdentifier'dan geçer
// - Değerler her zaman placeholder ile bağlanır
// - OrderBy yönü whitelist kontrolünden geçer
// -----------------------------------------------------------------------------

// validIdentifierRegex, güvenli SQL identifier pattern'ini tanımlar.
// Sadece alphanumeric, underscore ve nokta (table.column için) kabul eder.
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_\.]+$`)

type QueryBuilder struct {
	executor QueryExecutor
	grammar  Grammar
	table    string
	columns  []string
	wheres   []WhereClause
	groups   []string
	orders   []OrderClause
	limit    int
	offset   int
}

// NewBuilder, veritabanı bağlantısını alarak yeni QueryBuilder üretir.
//
// Parametreler:
//   - executor: SQL komutlarını çalıştıracak executor (*sql.DB veya *sql.Tx)
//   - grammar: SQL dialect'ini yöneten grammar
func NewBuilder(executor QueryExecutor, grammar Grammar) *QueryBuilder {
	return &QueryBuilder{
		executor: executor,
		grammar:  grammar,
		columns:  []string{"*"},
	}
}

// validateIdentifier, SQL identifier'ı (column/table adı) validate eder.
// Güvensiz bir identifier programlama hatasıdır ve panic ile sonuçlanır;
// identifier'lar asla kullanıcı input'undan gelmemelidir.
func validateIdentifier(identifier string, context string) {
	if identifier == "*" {
		return
	}

	if strings.TrimSpace(identifier) == "" {
		panic(fmt.Sprintf("Invalid %s name: empty identifier", context))
	}

	if !validIdentifierRegex.MatchString(identifier) {
		panic(fmt.Sprintf("Invalid %s name: '%s' (contains unsafe characters)", context, identifier))
	}

	if strings.Contains(identifier, ".") {
		parts := strings.Split(identifier, ".")
		if len(parts) > 2 {
			panic(fmt.Sprintf("Invalid %s name: '%s' (too many dots)", context, identifier))
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				panic(fmt.Sprintf("Invalid %s name: '%s' (empty part)", context, identifier))
			}
		}
	}
}

func (qb *QueryBuilder) Table(tableName string) *QueryBuilder {
	validateIdentifier(tableName, "table")
	qb.table = tableName
	return qb
}

// Select, seçilecek kolonları belirler. `COUNT(*) as total` gibi aggregate
// ifadeler kabul edilir, ancak `;` veya `--` içeremezler.
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, col := range columns {
		if strings.Contains(col, "(") && strings.Contains(col, ")") {
			if strings.Contains(col, ";") || strings.Contains(col, "--") {
				panic(fmt.Sprintf("Invalid column expression: '%s' (suspicious content)", col))
			}
			continue
		}

		if alias := splitAlias(col); alias != nil {
			validateIdentifier(alias[0], "column")
			validateIdentifier(alias[1], "column alias")
			continue
		}

		validateIdentifier(col, "column")
	}

	qb.columns = columns
	return qb
}

// splitAlias, "column as alias" ifadesini [column, alias] olarak ayırır.
func splitAlias(col string) []string {
	lower := strings.ToLower(col)
	idx := strings.Index(lower, " as ")
	if idx < 0 {
		return nil
	}
	return []string{strings.TrimSpace(col[:idx]), strings.TrimSpace(col[idx+4:])}
}

func (qb *QueryBuilder) Where(column string, operator string, value interface{}) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{Column: column, Operator: operator, Value: value, Boolean: "AND"})
	return qb
}

func (qb *QueryBuilder) OrWhere(column string, operator string, value interface{}) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{Column: column, Operator: operator, Value: value, Boolean: "OR"})
	return qb
}

// WhereAny, verilen kolonlardan herhangi biri koşulu sağlıyorsa eşleşen
// parantezli bir OR grubu ekler. Serbest metin aramaları için kullanılır.
//
// Örnek:
//
//	qb.WhereAny([]string{"full_name", "cnic"}, "LIKE", "%ali%")
//	// ... AND (`full_name` LIKE ? OR `cnic` LIKE ?)
func (qb *QueryBuilder) WhereAny(columns []string, operator string, value interface{}) *QueryBuilder {
	if len(columns) == 0 {
		return qb
	}

	group := make([]WhereClause, 0, len(columns))
	for i, col := range columns {
		validateIdentifier(col, "column")
		boolean := "OR"
		if i == 0 {
			boolean = "AND"
		}
		group = append(group, WhereClause{Column: col, Operator: operator, Value: value, Boolean: boolean})
	}

	qb.wheres = append(qb.wheres, WhereClause{Boolean: "AND", Group: group})
	return qb
}

func (qb *QueryBuilder) WhereIn(column string, values []interface{}) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{Column: column, Operator: "IN", Value: values, Boolean: "AND"})
	return qb
}

func (qb *QueryBuilder) WhereNotIn(column string, values []interface{}) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{Column: column, Operator: "NOT IN", Value: values, Boolean: "AND"})
	return qb
}

func (qb *QueryBuilder) WhereBetween(column string, min, max interface{}) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: "BETWEEN",
		Value:    []interface{}{min, max},
		Boolean:  "AND",
	})
	return qb
}

func (qb *QueryBuilder) WhereNull(column string) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{Column: column, Operator: "IS", Boolean: "AND"})
	return qb
}

func (qb *QueryBuilder) WhereNotNull(column string) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{Column: column, Operator: "IS NOT", Boolean: "AND"})
	return qb
}

// WhereDate, DATETIME kolonunun tarih kısmını karşılaştırır.
// operator: =, <, <=, >, >= gibi whitelist'teki operatörler.
func (qb *QueryBuilder) WhereDate(column string, operator string, date string) *QueryBuilder {
	validateIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   "DATE(" + column + ")",
		Operator: operator,
		Value:    date,
		Boolean:  "AND",
	})
	return qb
}

// GroupBy, aggregate sorgular için GROUP BY kolonlarını ekler.
func (qb *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	for _, col := range columns {
		validateIdentifier(col, "column")
	}
	qb.groups = append(qb.groups, columns...)
	return qb
}

func (qb *QueryBuilder) OrderBy(column string, direction string) *QueryBuilder {
	validateIdentifier(column, "column")

	orderDir := OrderAsc
	if strings.ToUpper(strings.TrimSpace(direction)) == "DESC" {
		orderDir = OrderDesc
	}

	qb.orders = append(qb.orders, OrderClause{Column: column, Direction: orderDir})
	return qb
}

func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.limit = limit
	return qb
}

func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.offset = offset
	return qb
}

// Get, sorguyu çalıştırır ve sonuçları struct slice'ına tarar.
func (qb *QueryBuilder) Get(dest any) error {
	sqlStr, args, err := qb.ToSQL()
	if err != nil {
		return fmt.Errorf("query compilation failed: %w", err)
	}

	rows, err := qb.executor.Query(sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	return ScanSlice(rows, dest)
}

// First, ilk satırı dest'e tarar. Satır yoksa sql.ErrNoRows döner.
func (qb *QueryBuilder) First(dest any) error {
	qb.Limit(1)

	sqlStr, args, err := qb.ToSQL()
	if err != nil {
		return fmt.Errorf("query compilation failed: %w", err)
	}

	rows, err := qb.executor.Query(sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}

	return ScanStruct(rows, dest)
}

// Count, mevcut where koşullarıyla eşleşen satır sayısını döndürür.
// Limit, offset ve order bilgileri sayım sırasında yok sayılır.
func (qb *QueryBuilder) Count() (int64, error) {
	counter := &QueryBuilder{
		executor: qb.executor,
		grammar:  qb.grammar,
		table:    qb.table,
		columns:  []string{"COUNT(*) as aggregate"},
		wheres:   qb.wheres,
	}

	sqlStr, args, err := counter.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("count compilation failed: %w", err)
	}

	var total int64
	if err := qb.executor.QueryRow(sqlStr, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Exists, where koşullarıyla eşleşen en az bir satır olup olmadığını döndürür.
func (qb *QueryBuilder) Exists() (bool, error) {
	total, err := qb.Count()
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (qb *QueryBuilder) ToSQL() (string, []interface{}, error) {
	return qb.grammar.CompileSelect(qb)
}

func (qb *QueryBuilder) ExecInsert(data map[string]interface{}) (sql.Result, error) {
	for column := range data {
		validateIdentifier(column, "column")
	}

	sqlStr, args, err := qb.grammar.CompileInsert(qb.table, data)
	if err != nil {
		return nil, fmt.Errorf("insert compilation failed: %w", err)
	}
	return qb.executor.Exec(sqlStr, args...)
}

func (qb *QueryBuilder) ExecUpdate(data map[string]interface{}) (sql.Result, error) {
	for column := range data {
		validateIdentifier(column, "column")
	}

	sqlStr, args, err := qb.grammar.CompileUpdate(qb.table, data, qb.wheres)
	if err != nil {
		return nil, fmt.Errorf("update compilation failed: %w", err)
	}
	return qb.executor.Exec(sqlStr, args...)
}

func (qb *QueryBuilder) ExecDelete() (sql.Result, error) {
	sqlStr, args, err := qb.grammar.CompileDelete(qb.table, qb.wheres)
	if err != nil {
		return nil, fmt.Errorf("delete compilation failed: %w", err)
	}
	return qb.executor.Exec(sqlStr, args...)
}
