// Command migrate, şema migration'larını çalıştırır.
//
//	migrate up       bekleyen migration'ları uygular
//	migrate down     son batch'i geri alır
//	migrate status   her migration'ın durumunu listeler
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biyonik/admission-api/internal/config"
	"github.com/biyonik/admission-api/internal/database/migrations"
	"github.com/biyonik/admission-api/pkg/database"
	"github.com/biyonik/admission-api/pkg/database/migration"
)

func main() {
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down|status]")
	}
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("❌ Config hatası: %v", err)
	}

	db, err := database.Connect(database.ConnectionConfig{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		Database:        cfg.DB.Database,
		Username:        cfg.DB.Username,
		Password:        cfg.DB.Password,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatalf("❌ %v", err)
	}
	defer db.Close()

	migrator := migration.NewMigrator(db, migration.NewMySQLGrammar(), logger)
	all := migrations.All()

	switch command {
	case "up":
		err = migrator.Run(all)
	case "down":
		err = migrator.Rollback(all)
	case "status":
		var ran map[string]bool
		ran, err = migrator.Status(all)
		if err == nil {
			for _, m := range all {
				state := "pending"
				if ran[m.Name] {
					state = "ran"
				}
				fmt.Printf("%-8s %s\n", state, m.Name)
			}
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatalf("❌ migrate %s: %v", command, err)
	}
}
