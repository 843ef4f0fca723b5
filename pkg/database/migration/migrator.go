// Package migration, Go kodu ile tanımlanan şema migration'larını çalıştırır.
//
// Her migration bir isim ve Up/Down fonksiyonu taşır. Çalışan migration'lar
// `migrations` tablosunda batch numarası ile kaydedilir; Rollback son batch'i
// ters sırada geri alır.
package migration

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// Migration, tek bir şema değişikliğidir.
type Migration struct {
	Name string
	Up   func(m *Migrator) error
	Down func(m *Migrator) error
}

type Migrator struct {
	db      *sql.DB
	grammar Grammar
	logger  *log.Logger
}

// Grammar, Blueprint'i belirli bir SQL dialect'inin DDL'ine derler.
type Grammar interface {
	CompileCreateTable(table string, columns []Column, indexes []Index, foreigns []ForeignKey, checks []Check) string
	CompileDropTable(table string) string
	CompileAddColumn(table string, column Column) string
	CompileDropColumn(table string, columnName string) string
	CompileAddIndex(table string, index Index) string
	CompileDropIndex(table string, indexName string) string
}

func NewMigrator(db *sql.DB, grammar Grammar, logger *log.Logger) *Migrator {
	return &Migrator{db: db, grammar: grammar, logger: logger}
}

// CreateTable, callback ile doldurulan Blueprint'ten tablo oluşturur.
func (m *Migrator) CreateTable(tableName string, callback func(*Blueprint)) error {
	blueprint := NewBlueprint(tableName)
	callback(blueprint)

	ddl := m.grammar.CompileCreateTable(blueprint.table, blueprint.columns, blueprint.indexes, blueprint.foreigns, blueprint.checks)
	if _, err := m.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	m.logger.Printf("✅ Created table: %s", tableName)
	return nil
}

func (m *Migrator) DropTable(tableName string) error {
	if _, err := m.db.Exec(m.grammar.CompileDropTable(tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	m.logger.Printf("🗑️  Dropped table: %s", tableName)
	return nil
}

// AlterTable, mevcut tabloya kolon ve index ekler.
func (m *Migrator) AlterTable(tableName string, callback func(*Blueprint)) error {
	blueprint := NewBlueprint(tableName)
	callback(blueprint)

	for _, column := range blueprint.columns {
		if _, err := m.db.Exec(m.grammar.CompileAddColumn(tableName, column)); err != nil {
			return fmt.Errorf("failed to add column %s: %w", column.Name, err)
		}
	}

	for _, index := range blueprint.indexes {
		if _, err := m.db.Exec(m.grammar.CompileAddIndex(tableName, index)); err != nil {
			return fmt.Errorf("failed to add index %s: %w", index.Name, err)
		}
	}

	m.logger.Printf("✅ Altered table: %s", tableName)
	return nil
}

func (m *Migrator) HasTable(tableName string) (bool, error) {
	query := "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"

	var count int
	if err := m.db.QueryRow(query, tableName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Migrator) createMigrationsTable() error {
	exists, err := m.HasTable("migrations")
	if err != nil || exists {
		return err
	}

	return m.CreateTable("migrations", func(t *Blueprint) {
		t.ID()
		t.String("migration", 255)
		t.Integer("batch")
		t.Timestamp("created_at").UseCurrent()
	})
}

func (m *Migrator) ranMigrations() (map[string]int, error) {
	rows, err := m.db.Query("SELECT migration, batch FROM migrations ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ran := make(map[string]int)
	for rows.Next() {
		var name string
		var batch int
		if err := rows.Scan(&name, &batch); err != nil {
			return nil, err
		}
		ran[name] = batch
	}
	return ran, rows.Err()
}

func (m *Migrator) lastBatch() (int, error) {
	var batch sql.NullInt64
	if err := m.db.QueryRow("SELECT MAX(batch) FROM migrations").Scan(&batch); err != nil {
		return 0, err
	}
	return int(batch.Int64), nil
}

// Run, henüz çalışmamış migration'ları verilen sırada yeni bir batch olarak çalıştırır.
func (m *Migrator) Run(migrations []Migration) error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to prepare migrations table: %w", err)
	}

	ran, err := m.ranMigrations()
	if err != nil {
		return err
	}

	batch, err := m.lastBatch()
	if err != nil {
		return err
	}
	batch++

	pending := 0
	for _, mig := range migrations {
		if _, done := ran[mig.Name]; done {
			continue
		}

		m.logger.Printf("🔄 Migrating: %s", mig.Name)
		if err := mig.Up(m); err != nil {
			return fmt.Errorf("migration %s failed: %w", mig.Name, err)
		}
		if _, err := m.db.Exec("INSERT INTO migrations (migration, batch) VALUES (?, ?)", mig.Name, batch); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.Name, err)
		}
		pending++
	}

	if pending == 0 {
		m.logger.Println("Nothing to migrate.")
	}
	return nil
}

// Rollback, son batch'teki migration'ları ters sırada geri alır.
func (m *Migrator) Rollback(migrations []Migration) error {
	if err := m.createMigrationsTable(); err != nil {
		return err
	}

	ran, err := m.ranMigrations()
	if err != nil {
		return err
	}
	batch, err := m.lastBatch()
	if err != nil || batch == 0 {
		return err
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		mig := migrations[i]
		if ran[mig.Name] != batch {
			continue
		}

		m.logger.Printf("↩️  Rolling back: %s", mig.Name)
		if err := mig.Down(m); err != nil {
			return fmt.Errorf("rollback %s failed: %w", mig.Name, err)
		}
		if _, err := m.db.Exec("DELETE FROM migrations WHERE migration = ?", mig.Name); err != nil {
			return err
		}
	}
	return nil
}

// Status, her migration için çalışıp çalışmadığını döndürür.
func (m *Migrator) Status(migrations []Migration) (map[string]bool, error) {
	if err := m.createMigrationsTable(); err != nil {
		return nil, err
	}
	ran, err := m.ranMigrations()
	if err != nil {
		return nil, err
	}

	status := make(map[string]bool, len(migrations))
	for _, mig := range migrations {
		_, status[mig.Name] = ran[mig.Name]
	}
	return status, nil
}

// -----------------------------------------------------------------------------
// BLUEPRINT
// -----------------------------------------------------------------------------

type Blueprint struct {
	table    string
	columns  []Column
	indexes  []Index
	foreigns []ForeignKey
	checks   []Check
}

func NewBlueprint(tableName string) *Blueprint {
	return &Blueprint{table: tableName}
}

func (b *Blueprint) ID() *Column {
	return b.addColumn(Column{
		Name:          "id",
		Type:          ColumnTypeUnsignedBigInt,
		AutoIncrement: true,
		Primary:       true,
	})
}

// ForeignID, başka tablonun id kolonuna referans veren unsigned bigint kolon ekler.
func (b *Blueprint) ForeignID(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeUnsignedBigInt})
}

func (b *Blueprint) String(name string, length int) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeString, Length: length})
}

func (b *Blueprint) Text(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeText})
}

func (b *Blueprint) JSON(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeJSON})
}

func (b *Blueprint) Integer(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeInteger})
}

func (b *Blueprint) TinyInteger(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeTinyInt})
}

func (b *Blueprint) BigInteger(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeBigInt})
}

func (b *Blueprint) Boolean(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeBoolean})
}

// Decimal, sabit hassasiyetli sayı kolonu ekler (örn. Decimal("percentage", 5, 2)).
func (b *Blueprint) Decimal(name string, precision, scale int) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeDecimal, Precision: precision, Scale: scale})
}

func (b *Blueprint) Date(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeDate})
}

func (b *Blueprint) Timestamp(name string) *Column {
	return b.addColumn(Column{Name: name, Type: ColumnTypeTimestamp})
}

func (b *Blueprint) Timestamps() {
	b.Timestamp("created_at").Nullable()
	b.Timestamp("updated_at").Nullable()
}

func (b *Blueprint) addColumn(column Column) *Column {
	b.columns = append(b.columns, column)
	return &b.columns[len(b.columns)-1]
}

// Unique, otomatik isimli unique index ekler.
func (b *Blueprint) Unique(columns ...string) {
	b.UniqueAs(fmt.Sprintf("%s_%s_unique", b.table, strings.Join(columns, "_")), columns...)
}

// UniqueAs, isim verilmiş unique index ekler. MySQL index isimleri 64 karakterle sınırlıdır.
func (b *Blueprint) UniqueAs(name string, columns ...string) {
	b.indexes = append(b.indexes, Index{Name: name, Columns: columns, Type: IndexTypeUnique})
}

func (b *Blueprint) Index(columns ...string) {
	b.indexes = append(b.indexes, Index{
		Name:    fmt.Sprintf("%s_%s_index", b.table, strings.Join(columns, "_")),
		Columns: columns,
		Type:    IndexTypeIndex,
	})
}

// Foreign, foreign key constraint ekler ve zincirleme ayar için pointer döndürür.
//
// Örnek:
//
//	t.Foreign("program_id").References("id").On("programs").OnDelete("CASCADE")
func (b *Blueprint) Foreign(column string) *ForeignKey {
	b.foreigns = append(b.foreigns, ForeignKey{
		Name:             fmt.Sprintf("%s_%s_foreign", b.table, column),
		Column:           column,
		ReferencedColumn: "id",
	})
	return &b.foreigns[len(b.foreigns)-1]
}

// Check, tablo seviyesinde CHECK constraint ekler. MySQL 8.0.16 öncesi
// CHECK ifadelerini ayrıştırır ama uygulamaz.
//
// Örnek:
//
//	t.Check("document_requirements_scope_check",
//	    "(program_id IS NULL) <> (program_group_id IS NULL)")
func (b *Blueprint) Check(name, expression string) {
	b.checks = append(b.checks, Check{Name: name, Expression: expression})
}

type ColumnType string

const (
	ColumnTypeString         ColumnType = "VARCHAR"
	ColumnTypeText           ColumnType = "TEXT"
	ColumnTypeJSON           ColumnType = "JSON"
	ColumnTypeInteger        ColumnType = "INT"
	ColumnTypeTinyInt        ColumnType = "TINYINT"
	ColumnTypeBigInt         ColumnType = "BIGINT"
	ColumnTypeUnsignedBigInt ColumnType = "BIGINT UNSIGNED"
	ColumnTypeBoolean        ColumnType = "TINYINT(1)"
	ColumnTypeTimestamp      ColumnType = "TIMESTAMP"
	ColumnTypeDate           ColumnType = "DATE"
	ColumnTypeDecimal        ColumnType = "DECIMAL"
)

type Column struct {
	Name          string
	Type          ColumnType
	Length        int
	Precision     int
	Scale         int
	IsNullable    bool
	DefaultValue  interface{}
	DefaultRaw    string
	AutoIncrement bool
	Primary       bool
	IsUnique      bool
}

func (c *Column) Nullable() *Column {
	c.IsNullable = true
	return c
}

func (c *Column) Default(value interface{}) *Column {
	c.DefaultValue = value
	return c
}

// UseCurrent, TIMESTAMP kolonuna DEFAULT CURRENT_TIMESTAMP ekler.
func (c *Column) UseCurrent() *Column {
	c.DefaultRaw = "CURRENT_TIMESTAMP"
	return c
}

func (c *Column) Unique() *Column {
	c.IsUnique = true
	return c
}

type IndexType string

const (
	IndexTypeIndex  IndexType = "INDEX"
	IndexTypeUnique IndexType = "UNIQUE"
)

type Index struct {
	Name    string
	Columns []string
	Type    IndexType
}

type Check struct {
	Name       string
	Expression string
}

type ForeignKey struct {
	Name             string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
	OnDeleteAction   string
}

func (fk *ForeignKey) References(column string) *ForeignKey {
	fk.ReferencedColumn = column
	return fk
}

func (fk *ForeignKey) On(table string) *ForeignKey {
	fk.ReferencedTable = table
	return fk
}

func (fk *ForeignKey) OnDelete(action string) *ForeignKey {
	fk.OnDeleteAction = action
	return fk
}
