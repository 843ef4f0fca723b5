package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ConnectionConfig, MySQL bağlantı ve pool ayarlarını tutar.
type ConnectionConfig struct {
	Host            string
	Port            int
	Database        string
	Username        string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN, driver'ın kendi Config tipiyle DSN üretir.
// parseTime açık olmalıdır; scanner DATETIME kolonlarını time.Time'a tarar.
// ClientFoundRows ile RowsAffected değişen değil eşleşen satır sayısını verir.
func (c ConnectionConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Connect, MySQL bağlantı havuzunu açar ve Ping ile doğrular.
func Connect(cfg ConnectionConfig, logger *log.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Printf("Veritabanına bağlanılıyor... (%s:%d/%s)", cfg.Host, cfg.Port, cfg.Database)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Println("✅ Veritabanı bağlantısı başarılı!")
	return db, nil
}
