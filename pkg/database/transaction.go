package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Transaction, *sql.Tx'i grammar ile birlikte taşır; içinden açılan builder'lar
// aynı transaction üzerinde çalışır.
type Transaction struct {
	Tx      *sql.Tx
	grammar Grammar
	logger  *log.Logger
}

func BeginTransaction(db *sql.DB, grammar Grammar, logger *log.Logger) (*Transaction, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	logger.Println("🔄 Transaction başladı.")
	return &Transaction{Tx: tx, grammar: grammar, logger: logger}, nil
}

func (t *Transaction) NewBuilder() *QueryBuilder {
	return NewBuilder(t.Tx, t.grammar)
}

func (t *Transaction) Commit() error {
	err := t.Tx.Commit()
	if err == nil {
		t.logger.Println("✅ Transaction commit edildi.")
	}
	return err
}

func (t *Transaction) Rollback() error {
	err := t.Tx.Rollback()
	if err == nil {
		t.logger.Println("❌ Transaction geri alındı.")
	}
	return err
}

// WithTransaction, fn'i tek bir transaction içinde çalıştırır.
// fn hata dönerse veya panic olursa rollback yapılır, aksi halde commit edilir.
// fn'in döndürdüğü hata sarmalanmadan geri verilir; çağıran errors.As ile
// kendi tiplerini yakalayabilir.
func WithTransaction(db *sql.DB, grammar Grammar, logger *log.Logger, fn func(tx *Transaction) error) (err error) {
	tx, err := BeginTransaction(db, grammar, logger)
	if err != nil {
		return fmt.Errorf("transaction başlatılamadı: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Printf("⚠️  Rollback hatası: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit edilemedi: %w", err)
	}
	return nil
}
