// Package migrations, uygulamanın tüm tablo tanımlarını sıralı bir liste
// olarak tutar. cmd/migrate bu listeyi migration.Migrator'a verir.
//
// Yeni bir migration her zaman listenin sonuna eklenir; çalışmış bir
// migration'ın adı veya içeriği değiştirilmez.
package migrations

import (
	"github.com/biyonik/admission-api/pkg/database/migration"
)

// ActiveApplicationIndex, aynı CNIC için aynı vardiya, program ve ders
// kombinasyonunda birden fazla aktif başvuruyu engelleyen unique index.
// active_marker reddedilen başvurularda NULL olduğundan MySQL bu satırları
// çakışma olarak saymaz.
const ActiveApplicationIndex = "admission_forms_active_application_unique"

// All, migration'ları çalışma sırasıyla döndürür.
func All() []migration.Migration {
	return []migration.Migration{
		createUsersTable(),
		createShiftsTable(),
		createProgramGroupsTable(),
		createProgramsTable(),
		createExaminationResultsTable(),
		createExaminationPivotTables(),
		createDocumentsTable(),
		createDocumentRequirementsTable(),
		createSubjectCombinationsTable(),
		createAdmissionFormsTable(),
		createAdmissionFormDocumentsTable(),
		createFormExaminationsTable(),
	}
}

func dropTable(name string) func(m *migration.Migrator) error {
	return func(m *migration.Migrator) error {
		return m.DropTable(name)
	}
}

func createUsersTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000001_create_users_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("users", func(t *migration.Blueprint) {
				t.ID()
				t.String("name", 100)
				t.String("email", 191).Unique()
				t.String("password", 255)
				t.String("role", 20).Default("staff")
				t.String("status", 20).Default("active")
				t.Timestamps()
			})
		},
		Down: dropTable("users"),
	}
}

func createShiftsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000002_create_shifts_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("shifts", func(t *migration.Blueprint) {
				t.ID()
				t.String("name", 50).Unique()
				t.String("status", 20).Default("active")
				t.Timestamps()
			})
		},
		Down: dropTable("shifts"),
	}
}

func createProgramGroupsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000003_create_program_groups_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("program_groups", func(t *migration.Blueprint) {
				t.ID()
				t.String("name", 100).Unique()
				t.String("status", 20).Default("active")
				t.Timestamps()
			})
		},
		Down: dropTable("program_groups"),
	}
}

func createProgramsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000004_create_programs_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("programs", func(t *migration.Blueprint) {
				t.ID()
				t.ForeignID("program_group_id")
				t.ForeignID("shift_id").Nullable()
				t.String("name", 150)
				t.String("abbreviation", 30)
				t.String("status", 20).Default("active")
				t.Timestamps()

				t.Unique("program_group_id", "name")
				t.Foreign("program_group_id").On("program_groups").OnDelete("RESTRICT")
				t.Foreign("shift_id").On("shifts").OnDelete("RESTRICT")
			})
		},
		Down: dropTable("programs"),
	}
}

func createExaminationResultsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000005_create_examination_results_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("examination_results", func(t *migration.Blueprint) {
				t.ID()
				t.String("title", 100).Unique()
				t.String("subtitle", 255).Nullable()
				t.Timestamps()
			})
		},
		Down: dropTable("examination_results"),
	}
}

// createExaminationPivotTables, program ve grup seviyesindeki sınav
// pivotlarını oluşturur. Pivot id'si katalogdaki sınav sırasını taşır.
func createExaminationPivotTables() migration.Migration {
	pivot := func(table, owner, ownerTable string) func(m *migration.Migrator) error {
		return func(m *migration.Migrator) error {
			return m.CreateTable(table, func(t *migration.Blueprint) {
				t.ID()
				t.ForeignID(owner)
				t.ForeignID("examination_result_id")

				t.Unique(owner, "examination_result_id")
				t.Foreign(owner).On(ownerTable).OnDelete("CASCADE")
				t.Foreign("examination_result_id").On("examination_results").OnDelete("RESTRICT")
			})
		}
	}

	return migration.Migration{
		Name: "2024_01_01_000006_create_examination_pivot_tables",
		Up: func(m *migration.Migrator) error {
			if err := pivot("program_examination_results", "program_id", "programs")(m); err != nil {
				return err
			}
			return pivot("program_group_examination_results", "program_group_id", "program_groups")(m)
		},
		Down: func(m *migration.Migrator) error {
			if err := m.DropTable("program_group_examination_results"); err != nil {
				return err
			}
			return m.DropTable("program_examination_results")
		},
	}
}

func createDocumentsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000007_create_documents_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("documents", func(t *migration.Blueprint) {
				t.ID()
				t.String("name", 150).Unique()
				t.String("document_key", 100).Unique()
				t.Timestamps()
			})
		},
		Down: dropTable("documents"),
	}
}

// createDocumentRequirementsTable, gereksinimin kapsamı program veya program
// grubudur; ikisinden tam olarak biri dolu olmalıdır.
func createDocumentRequirementsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000008_create_document_requirements_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("document_requirements", func(t *migration.Blueprint) {
				t.ID()
				t.ForeignID("document_id")
				t.ForeignID("program_id").Nullable()
				t.ForeignID("program_group_id").Nullable()
				t.Boolean("is_required").Default(1)
				t.Timestamps()

				t.UniqueAs("document_requirements_program_unique", "document_id", "program_id")
				t.UniqueAs("document_requirements_group_unique", "document_id", "program_group_id")
				t.Foreign("document_id").On("documents").OnDelete("RESTRICT")
				t.Foreign("program_id").On("programs").OnDelete("CASCADE")
				t.Foreign("program_group_id").On("program_groups").OnDelete("CASCADE")
				t.Check("document_requirements_scope_check", "(`program_id` IS NULL) <> (`program_group_id` IS NULL)")
			})
		},
		Down: dropTable("document_requirements"),
	}
}

func createSubjectCombinationsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000009_create_subject_combinations_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("subject_combinations", func(t *migration.Blueprint) {
				t.ID()
				t.ForeignID("program_id")
				t.ForeignID("shift_id").Nullable()
				t.JSON("subjects")
				t.String("status", 20).Default("active")
				t.Timestamps()

				t.Foreign("program_id").On("programs").OnDelete("CASCADE")
				t.Foreign("shift_id").On("shifts").OnDelete("RESTRICT")
			})
		},
		Down: dropTable("subject_combinations"),
	}
}

func createAdmissionFormsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000010_create_admission_forms_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("admission_forms", func(t *migration.Blueprint) {
				t.ID()
				t.String("shift", 50)
				t.ForeignID("program_id")
				t.String("subject_combination", 255).Default("")

				t.String("full_name", 100)
				t.String("father_name", 100)
				t.String("cnic", 15)
				t.Date("date_of_birth")
				t.String("gender", 10)
				t.String("religion", 50)
				t.String("nationality", 50)
				t.String("email", 191)
				t.String("phone", 20)
				t.String("guardian_name", 100)
				t.String("guardian_relation", 50)
				t.String("guardian_phone", 20)
				t.BigInteger("guardian_income").Nullable()
				t.Text("address")
				t.String("city", 100)
				t.String("photo_path", 255)

				t.String("status", 20).Default("pending")
				t.TinyInteger("active_marker").Nullable().Default(1)
				t.Timestamps()

				t.UniqueAs(ActiveApplicationIndex, "cnic", "shift", "program_id", "subject_combination", "active_marker")
				t.Index("status")
				t.Index("created_at")
				t.Foreign("program_id").On("programs").OnDelete("RESTRICT")
			})
		},
		Down: dropTable("admission_forms"),
	}
}

func createAdmissionFormDocumentsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000011_create_admission_form_documents_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("admission_form_documents", func(t *migration.Blueprint) {
				t.ID()
				t.ForeignID("admission_form_id")
				t.String("name", 150)
				t.String("document_key", 100)
				t.String("original_name", 255)
				t.String("mime_type", 100)
				t.BigInteger("size")
				t.String("path", 255)
				t.Timestamps()

				t.Unique("admission_form_id", "document_key")
				t.Foreign("admission_form_id").On("admission_forms").OnDelete("CASCADE")
			})
		},
		Down: dropTable("admission_form_documents"),
	}
}

func createFormExaminationsTable() migration.Migration {
	return migration.Migration{
		Name: "2024_01_01_000012_create_form_examinations_table",
		Up: func(m *migration.Migrator) error {
			return m.CreateTable("form_examinations", func(t *migration.Blueprint) {
				t.ID()
				t.ForeignID("admission_form_id")
				t.String("name", 100)
				t.Integer("year")
				t.String("board", 100)
				t.String("roll_no", 50)
				t.Decimal("total_marks", 8, 2)
				t.Decimal("obtained_marks", 8, 2)
				t.Decimal("percentage", 5, 2)
				t.Timestamps()

				t.Unique("admission_form_id", "name")
				t.Foreign("admission_form_id").On("admission_forms").OnDelete("CASCADE")
			})
		},
		Down: dropTable("form_examinations"),
	}
}
