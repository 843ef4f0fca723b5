package database

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// MySQL Grammar
// -----------------------------------------------------------------------------
// QueryBuilder state'ini MySQL SQL metnine derler. Wrap() hatalı identifier'da
// panic atmaz, error döner; böylece HTTP request ortasında crash riski yoktur.
// Kolon sırası INSERT/UPDATE için alfabetiktir, üretilen SQL deterministiktir.
// -----------------------------------------------------------------------------

type MySQLGrammar struct{}

func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{}
}

var validIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_\.]+$`)

var allowedOperators = map[string]bool{
	"=":           true,
	"!=":          true,
	"<>":          true,
	"<":           true,
	">":           true,
	"<=":          true,
	">=":          true,
	"LIKE":        true,
	"NOT LIKE":    true,
	"IN":          true,
	"NOT IN":      true,
	"BETWEEN":     true,
	"NOT BETWEEN": true,
	"IS":          true,
	"IS NOT":      true,
}

// Wrap, kolon ve tablo isimlerini MySQL backtick'leri ile sarmalar.
// "table.column" formatı parça parça sarılır, "col as alias" her iki taraf sarılır.
// Parantez içeren ifadeler (aggregate) builder'da doğrulandığı için olduğu gibi bırakılır.
func (g *MySQLGrammar) Wrap(value string) (string, error) {
	if value == "*" {
		return value, nil
	}

	if strings.Contains(value, "(") {
		return value, nil
	}

	if alias := splitAlias(value); alias != nil {
		col, err := g.Wrap(alias[0])
		if err != nil {
			return "", err
		}
		as, err := g.Wrap(alias[1])
		if err != nil {
			return "", err
		}
		return col + " AS " + as, nil
	}

	parts := strings.Split(value, ".")
	wrapped := make([]string, len(parts))
	for i, part := range parts {
		if !validIdentifierPattern.MatchString(part) {
			return "", fmt.Errorf("invalid SQL identifier: %s (contains unsafe characters)", part)
		}
		wrapped[i] = fmt.Sprintf("`%s`", part)
	}
	return strings.Join(wrapped, "."), nil
}

// validateOperator, verilen operatörün whitelist'te olup olmadığını kontrol eder.
func (g *MySQLGrammar) validateOperator(operator string) error {
	op := strings.ToUpper(strings.TrimSpace(operator))
	if !allowedOperators[op] {
		return fmt.Errorf("invalid SQL operator: %s (not in whitelist)", operator)
	}
	return nil
}

// CompileSelect, QueryBuilder'dan SELECT sorgusu üretir.
func (g *MySQLGrammar) CompileSelect(qb *QueryBuilder) (string, []interface{}, error) {
	wrappedCols := make([]string, len(qb.columns))
	for i, col := range qb.columns {
		wrapped, err := g.Wrap(col)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		wrappedCols[i] = wrapped
	}

	wrappedTable, err := g.Wrap(qb.table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(wrappedCols, ", "), wrappedTable)

	where, args, err := g.compileWheres(qb.wheres)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(qb.groups) > 0 {
		wrappedGroups := make([]string, len(qb.groups))
		for i, col := range qb.groups {
			wrappedCol, err := g.Wrap(col)
			if err != nil {
				return "", nil, fmt.Errorf("group column wrap error: %w", err)
			}
			wrappedGroups[i] = wrappedCol
		}
		sb.WriteString(" GROUP BY " + strings.Join(wrappedGroups, ", "))
	}

	if len(qb.orders) > 0 {
		wrappedOrders := make([]string, len(qb.orders))
		for i, order := range qb.orders {
			wrappedCol, err := g.Wrap(order.Column)
			if err != nil {
				return "", nil, fmt.Errorf("order column wrap error: %w", err)
			}
			wrappedOrders[i] = fmt.Sprintf("%s %s", wrappedCol, order.Direction)
		}
		sb.WriteString(" ORDER BY " + strings.Join(wrappedOrders, ", "))
	}

	if qb.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", qb.limit)
	}

	if qb.offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", qb.offset)
	}

	return sb.String(), args, nil
}

// compileWheres, where clause listesini (gruplar dahil) SQL parçasına derler.
func (g *MySQLGrammar) compileWheres(wheres []WhereClause) (string, []interface{}, error) {
	var sb strings.Builder
	var args []interface{}

	for i, w := range wheres {
		if i > 0 {
			fmt.Fprintf(&sb, " %s ", w.Boolean)
		}

		if w.IsGroup() {
			inner, innerArgs, err := g.compileWheres(w.Group)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString("(" + inner + ")")
			args = append(args, innerArgs...)
			continue
		}

		if err := g.validateOperator(w.Operator); err != nil {
			return "", nil, fmt.Errorf("where clause error: %w", err)
		}

		wrappedCol, err := g.wrapWhereColumn(w.Column)
		if err != nil {
			return "", nil, fmt.Errorf("where column wrap error: %w", err)
		}

		operator := strings.ToUpper(strings.TrimSpace(w.Operator))

		switch operator {
		case "IN", "NOT IN":
			values, ok := w.Value.([]interface{})
			if !ok {
				return "", nil, fmt.Errorf("IN/NOT IN operator requires []interface{} value")
			}
			if len(values) == 0 {
				// Boş IN listesi hiçbir satırla eşleşmez; NOT IN hepsiyle eşleşir.
				if operator == "IN" {
					sb.WriteString("1 = 0")
				} else {
					sb.WriteString("1 = 1")
				}
				continue
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			fmt.Fprintf(&sb, "%s %s (%s)", wrappedCol, operator, placeholders)
			args = append(args, values...)

		case "BETWEEN", "NOT BETWEEN":
			values, ok := w.Value.([]interface{})
			if !ok || len(values) != 2 {
				return "", nil, fmt.Errorf("BETWEEN operator requires exactly 2 values")
			}
			fmt.Fprintf(&sb, "%s %s ? AND ?", wrappedCol, operator)
			args = append(args, values[0], values[1])

		case "IS", "IS NOT":
			if w.Value == nil {
				fmt.Fprintf(&sb, "%s %s NULL", wrappedCol, operator)
			} else {
				fmt.Fprintf(&sb, "%s %s ?", wrappedCol, operator)
				args = append(args, w.Value)
			}

		default:
			fmt.Fprintf(&sb, "%s %s ?", wrappedCol, operator)
			args = append(args, w.Value)
		}
	}

	return sb.String(), args, nil
}

// wrapWhereColumn, DATE(col) gibi fonksiyon ifadelerinde sadece iç kolonu sarar.
func (g *MySQLGrammar) wrapWhereColumn(column string) (string, error) {
	open := strings.Index(column, "(")
	if open < 0 || !strings.HasSuffix(column, ")") {
		return g.Wrap(column)
	}

	inner, err := g.Wrap(column[open+1 : len(column)-1])
	if err != nil {
		return "", err
	}
	return column[:open+1] + inner + ")", nil
}

// sortedKeys, INSERT/UPDATE kolonlarını deterministik sırada döndürür.
func sortedKeys(data map[string]interface{}) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CompileInsert, INSERT sorgusu üretir.
func (g *MySQLGrammar) CompileInsert(table string, data map[string]interface{}) (string, []interface{}, error) {
	wrappedTable, err := g.Wrap(table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	keys := sortedKeys(data)
	cols := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))

	for _, k := range keys {
		wrappedCol, err := g.Wrap(k)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		cols = append(cols, wrappedCol)
		args = append(args, data[k])
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		wrappedTable,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", "),
	)

	return sql, args, nil
}

// CompileUpdate, UPDATE sorgusu üretir.
func (g *MySQLGrammar) CompileUpdate(table string, data map[string]interface{}, wheres []WhereClause) (string, []interface{}, error) {
	wrappedTable, err := g.Wrap(table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	keys := sortedKeys(data)
	sets := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))

	for _, k := range keys {
		wrappedCol, err := g.Wrap(k)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		sets = append(sets, fmt.Sprintf("%s = ?", wrappedCol))
		args = append(args, data[k])
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", wrappedTable, strings.Join(sets, ", "))

	where, whereArgs, err := g.compileWheres(wheres)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		sql += " WHERE " + where
		args = append(args, whereArgs...)
	}

	return sql, args, nil
}

// CompileDelete, DELETE sorgusu üretir.
func (g *MySQLGrammar) CompileDelete(table string, wheres []WhereClause) (string, []interface{}, error) {
	wrappedTable, err := g.Wrap(table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	sql := fmt.Sprintf("DELETE FROM %s", wrappedTable)

	where, args, err := g.compileWheres(wheres)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		sql += " WHERE " + where
	}

	return sql, args, nil
}
