package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biyonik/admission-api/pkg/database"
)

var (
	// ErrNotFound, kayıt bulunamadı.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate, unique index ihlali.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse, kayıt başka kayıtlar tarafından referans ediliyor.
	ErrInUse = errors.New("record is referenced by other records")
)

// base, tablo bazlı tekrar eden builder işlemlerini toplar. Her
// repository kendi tablosu için bir base taşır.
type base struct {
	db      database.QueryExecutor
	grammar database.Grammar
	table   string
}

func (b base) query() *database.QueryBuilder {
	return database.NewBuilder(b.db, b.grammar).Table(b.table)
}

// classify, MySQL hatalarını repository sentinel'lerine çevirir.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrInUse, err)
	}
	return err
}

func (b base) insert(data map[string]interface{}) (int64, error) {
	now := time.Now().UTC()
	data["created_at"] = now
	data["updated_at"] = now

	result, err := b.query().ExecInsert(data)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", b.table, classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert into %s: last insert id: %w", b.table, err)
	}
	return id, nil
}

func (b base) updateByID(id int64, data map[string]interface{}) error {
	data["updated_at"] = time.Now().UTC()

	result, err := b.query().Where("id", "=", id).ExecUpdate(data)
	if err != nil {
		return fmt.Errorf("update %s: %w", b.table, classify(err))
	}

	// Bağlantı ClientFoundRows ile açılır; 0 satır kaydın olmadığı anlamına gelir.
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: rows affected: %w", b.table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (b base) deleteByID(id int64) error {
	result, err := b.query().Where("id", "=", id).ExecDelete()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", b.table, classify(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: rows affected: %w", b.table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (b base) findByID(id int64, dest any) error {
	if err := b.query().Where("id", "=", id).First(dest); err != nil {
		return classify(err)
	}
	return nil
}

// pivotRow, çoktan çoğa tablolardan okunan (sahip, sınav) çifti.
type pivotRow struct {
	OwnerID             int64 `db:"owner_id"`
	ExaminationResultID int64 `db:"examination_result_id"`
}

// syncPivot, sahip kaydın pivot satırlarını verilen ID listesiyle değiştirir.
// Sıra korunur; listedeki sıra katalogdaki sınav sırasını belirler.
func syncPivot(exec database.QueryExecutor, grammar database.Grammar, table, ownerColumn string, ownerID int64, examinationResultIDs []int64) error {
	if _, err := database.NewBuilder(exec, grammar).Table(table).Where(ownerColumn, "=", ownerID).ExecDelete(); err != nil {
		return fmt.Errorf("clear %s: %w", table, classify(err))
	}

	for _, examID := range examinationResultIDs {
		_, err := database.NewBuilder(exec, grammar).Table(table).ExecInsert(map[string]interface{}{
			ownerColumn:             ownerID,
			"examination_result_id": examID,
		})
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, classify(err))
		}
	}
	return nil
}

func readPivot(exec database.QueryExecutor, grammar database.Grammar, table, ownerColumn string) ([]pivotRow, error) {
	var rows []pivotRow
	err := database.NewBuilder(exec, grammar).
		Table(table).
		Select(ownerColumn+" as owner_id", "examination_result_id").
		OrderBy("id", "ASC").
		Get(&rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return rows, nil
}

// Page, sayfalama parametreleri.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 || p.PerPage > 100 {
		p.PerPage = 20
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.PerPage
}
