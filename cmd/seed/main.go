// Command seed, referans verisini (vardiyalar, sınavlar, belgeler, program
// grupları, programlar) ve ilk kullanıcıları YAML dosyasından yükler.
// Boş, migrate edilmiş bir veritabanı bekler.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/biyonik/admission-api/internal/config"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/internal/seed"
	"github.com/biyonik/admission-api/internal/services"
	"github.com/biyonik/admission-api/pkg/database"
	"github.com/biyonik/admission-api/pkg/events"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags)

	file := flag.String("file", "seeds/catalog.yaml", "seed dosyası")
	flag.Parse()

	data, err := seed.Load(*file)
	if err != nil {
		logger.Fatalf("❌ %v", err)
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

	grammar := database.NewMySQLGrammar()
	reference := services.NewReferenceService(
		repositories.NewShiftRepository(db, grammar),
		repositories.NewExaminationResultRepository(db, grammar),
		repositories.NewProgramGroupRepository(db, grammar, logger),
		repositories.NewProgramRepository(db, grammar, logger),
		repositories.NewDocumentRepository(db, grammar),
		repositories.NewSubjectCombinationRepository(db, grammar),
		events.NewDispatcher(logger),
		logger,
	)

	if _, err := seed.NewSeeder(reference, repositories.NewUserRepository(db, grammar), logger).Run(data); err != nil {
		logger.Fatalf("❌ Seed başarısız: %v", err)
	}
}
