package migration

import (
	"strings"
	"testing"
)

func TestCompileCreateTable(t *testing.T) {
	b := NewBlueprint("document_requirements")
	b.ID()
	b.ForeignID("program_id").Nullable()
	b.ForeignID("program_group_id").Nullable()
	b.Boolean("is_required").Default(1)
	b.Decimal("percentage", 5, 2)
	b.String("note", 20).Default("it's")
	b.UniqueAs("document_requirements_program_unique", "document_id", "program_id")
	b.Foreign("program_id").On("programs").OnDelete("CASCADE")
	b.Check("document_requirements_scope_check", "(`program_id` IS NULL) <> (`program_group_id` IS NULL)")

	ddl := NewMySQLGrammar().CompileCreateTable(b.table, b.columns, b.indexes, b.foreigns, b.checks)

	want := []string{
		"CREATE TABLE `document_requirements` (",
		"`id` BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
		"`program_id` BIGINT UNSIGNED NULL",
		"`is_required` TINYINT(1) NOT NULL DEFAULT 1",
		"`percentage` DECIMAL(5,2) NOT NULL",
		"`note` VARCHAR(20) NOT NULL DEFAULT 'it''s'",
		"UNIQUE KEY `document_requirements_program_unique` (`document_id`, `program_id`)",
		"CONSTRAINT `document_requirements_program_id_foreign` FOREIGN KEY (`program_id`) REFERENCES `programs` (`id`) ON DELETE CASCADE",
		"CONSTRAINT `document_requirements_scope_check` CHECK ((`program_id` IS NULL) <> (`program_group_id` IS NULL))",
		"ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	}
	for _, fragment := range want {
		if !strings.Contains(ddl, fragment) {
			t.Errorf("DDL missing %q\n%s", fragment, ddl)
		}
	}
}

func TestBlueprintIndexNames(t *testing.T) {
	b := NewBlueprint("form_examinations")
	b.Unique("admission_form_id", "name")
	b.Index("created_at")

	if b.indexes[0].Name != "form_examinations_admission_form_id_name_unique" || b.indexes[0].Type != IndexTypeUnique {
		t.Errorf("unique index = %+v", b.indexes[0])
	}
	if b.indexes[1].Name != "form_examinations_created_at_index" {
		t.Errorf("index = %+v", b.indexes[1])
	}
}
