package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

// -----------------------------------------------------------------------------
// QUERY BUILDER TESTLERİ
// -----------------------------------------------------------------------------
// Builder'ın ürettiği SQL ve argümanlar ile identifier güvenliği doğrulanır.
// Executor gerekmez; sadece ToSQL / Compile* çıktıları kontrol edilir.
// -----------------------------------------------------------------------------

func expectPanic(t *testing.T, input string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for malicious input '%s', but no panic occurred", input)
		}
	}()
	fn()
}

func TestSQLInjection_MaliciousIdentifiers(t *testing.T) {
	malicious := []string{
		"id; DROP TABLE admission_forms--",
		"id' OR '1'='1",
		"id/**/OR/**/1=1",
		"cnic`",
		"a.b.c",
		" ",
	}

	for _, input := range malicious {
		t.Run("where "+input, func(t *testing.T) {
			expectPanic(t, input, func() { NewBuilder(nil, NewMySQLGrammar()).Table("admission_forms").Where(input, "=", 1) })
		})
		t.Run("order "+input, func(t *testing.T) {
			expectPanic(t, input, func() { NewBuilder(nil, NewMySQLGrammar()).Table("admission_forms").OrderBy(input, "DESC") })
		})
		t.Run("table "+input, func(t *testing.T) {
			expectPanic(t, input, func() { NewBuilder(nil, NewMySQLGrammar()).Table(input) })
		})
		t.Run("any "+input, func(t *testing.T) {
			expectPanic(t, input, func() {
				NewBuilder(nil, NewMySQLGrammar()).Table("admission_forms").WhereAny([]string{"full_name", input}, "LIKE", "%x%")
			})
		})
	}
}

func TestSelect_AggregatesAllowed(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar()).
		Table("admission_forms").
		Select("status", "COUNT(*) as total").
		GroupBy("status")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT `status`, COUNT(*) as total FROM `admission_forms` GROUP BY `status`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}

	expectPanic(t, "COUNT(*); DROP TABLE users--", func() {
		NewBuilder(nil, NewMySQLGrammar()).Table("users").Select("COUNT(*); DROP TABLE users--")
	})
}

func TestWhereAny_CompilesParenthesizedGroup(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar()).
		Table("admission_forms").
		Where("status", "=", "pending").
		WhereAny([]string{"full_name", "cnic"}, "LIKE", "%ali%").
		OrderBy("id", "desc").
		Limit(20).
		Offset(40)

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `admission_forms` WHERE `status` = ? AND (`full_name` LIKE ? OR `cnic` LIKE ?) ORDER BY `id` DESC LIMIT 20 OFFSET 40"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 3 || args[1] != "%ali%" || args[2] != "%ali%" {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestWhereIn_PlaceholdersAndEmptyList(t *testing.T) {
	maliciousValues := []interface{}{"pending", "'; DROP TABLE admission_forms--"}

	sql, args, err := NewBuilder(nil, NewMySQLGrammar()).
		Table("admission_forms").
		WhereIn("status", maliciousValues).
		ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}
	if strings.Contains(sql, "DROP TABLE") {
		t.Error("SQL injection detected in WhereIn")
	}
	if !strings.Contains(sql, "`status` IN (?, ?)") || len(args) != 2 {
		t.Errorf("WhereIn should use placeholders, got %s %v", sql, args)
	}

	sql, args, err = NewBuilder(nil, NewMySQLGrammar()).
		Table("programs").
		WhereIn("program_group_id", []interface{}{}).
		ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}
	if !strings.HasSuffix(sql, "WHERE 1 = 0") || len(args) != 0 {
		t.Errorf("Empty IN should match nothing, got %s %v", sql, args)
	}
}

func TestWhereDateAndNull(t *testing.T) {
	sql, args, err := NewBuilder(nil, NewMySQLGrammar()).
		Table("admission_forms").
		WhereDate("created_at", ">=", "2025-01-01").
		WhereNotNull("active_marker").
		WhereNull("deleted_at").
		ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `admission_forms` WHERE DATE(`created_at`) >= ? AND `active_marker` IS NOT NULL AND `deleted_at` IS NULL"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 1 {
		t.Errorf("Expected 1 arg, got %d", len(args))
	}
}

func TestCompileInsertAndUpdate_DeterministicOrder(t *testing.T) {
	g := NewMySQLGrammar()

	sql, args, err := g.CompileInsert("form_examinations", map[string]interface{}{
		"obtained_marks": 850.0,
		"name":           "Matric",
		"total_marks":    1100.0,
	})
	if err != nil {
		t.Fatalf("Failed to compile insert: %v", err)
	}
	expected := "INSERT INTO `form_examinations` (`name`, `obtained_marks`, `total_marks`) VALUES (?, ?, ?)"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if args[0] != "Matric" {
		t.Errorf("Args should follow column order, got %v", args)
	}

	sql, args, err = g.CompileUpdate("admission_forms",
		map[string]interface{}{"status": "rejected", "active_marker": nil},
		[]WhereClause{{Column: "id", Operator: "=", Value: int64(7), Boolean: "AND"}},
	)
	if err != nil {
		t.Fatalf("Failed to compile update: %v", err)
	}
	expected = "UPDATE `admission_forms` SET `active_marker` = ?, `status` = ? WHERE `id` = ?"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 3 || args[2] != int64(7) {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestCompileWheres_RejectsUnknownOperator(t *testing.T) {
	_, _, err := NewBuilder(nil, NewMySQLGrammar()).
		Table("admission_forms").
		Where("id", "= 1 OR 1 =", 1).
		ToSQL()
	if err == nil {
		t.Error("Expected operator whitelist error")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	wrapped := fmt.Errorf("insert failed: %w", dup)

	if !IsDuplicateKey(wrapped) {
		t.Error("Wrapped 1062 should be classified as duplicate key")
	}
	if IsDuplicateKey(errors.New("Duplicate entry")) {
		t.Error("Plain errors must not be classified by message text")
	}
	if !IsForeignKeyViolation(&mysql.MySQLError{Number: 1451}) {
		t.Error("1451 should be classified as foreign key violation")
	}
}
