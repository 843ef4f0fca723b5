// Command api, başvuru API'sini başlatır: ayarları okur, veritabanı, cache
// ve storage bağlantılarını kurar, servisleri bağlar ve HTTP sunucusunu
// SIGINT/SIGTERM gelene kadar çalıştırır.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biyonik/admission-api/internal/config"
)

func main() {
	logger := log.New(os.Stdout, "[admission-api] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("❌ Config hatası: %v", err)
	}

	app, err := bootstrap(cfg, logger)
	if err != nil {
		logger.Fatalf("❌ Uygulama başlatılamadı: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var workerDone chan struct{}
	if app.worker != nil {
		workerDone = make(chan struct{})
		go func() {
			defer close(workerDone)
			app.worker.Run(ctx, cfg.Queue.Name)
		}()
	}

	go func() {
		logger.Printf("🚀 %s dinleniyor: %s (%s)", cfg.App.Name, cfg.Addr(), cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("❌ HTTP sunucu hatası: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("🛑 Kapatma sinyali alındı, açık istekler bekleniyor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("⚠️  Sunucu düzgün kapatılamadı: %v", err)
	}
	if workerDone != nil {
		<-workerDone
	}
	logger.Println("✅ Sunucu kapatıldı")
}
