package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/biyonik/admission-api/internal/config"
	"github.com/biyonik/admission-api/internal/controllers"
	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/jobs"
	"github.com/biyonik/admission-api/internal/middleware"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/internal/services"
	"github.com/biyonik/admission-api/pkg/auth"
	"github.com/biyonik/admission-api/pkg/cache"
	"github.com/biyonik/admission-api/pkg/database"
	"github.com/biyonik/admission-api/pkg/events"
	"github.com/biyonik/admission-api/pkg/mail"
	"github.com/biyonik/admission-api/pkg/queue"
	"github.com/biyonik/admission-api/pkg/storage"
)

// app, çalışan sürecin bağımlılık grafiği.
type app struct {
	cfg    *config.Config
	logger *log.Logger

	db         *sql.DB
	redis      *database.RedisClient
	cache      cache.Cache
	public     *storage.LocalStorage
	dispatcher *events.Dispatcher
	limiter    *middleware.RateLimiter
	guard      *auth.JWTGuard
	queue      queue.Queue
	worker     *queue.Worker // yalnızca redis queue driver'ında

	catalog   *controllers.CatalogController
	admission *controllers.AdmissionController
	auth      *controllers.AuthController
	review    *controllers.ReviewController
	reference *controllers.ReferenceController
}

func bootstrap(cfg *config.Config, logger *log.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	db, err := database.Connect(database.ConnectionConfig{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		Database:        cfg.DB.Database,
		Username:        cfg.DB.Username,
		Password:        cfg.DB.Password,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.db = db

	if err := a.openCache(); err != nil {
		a.Close()
		return nil, err
	}

	a.public, err = storage.NewLocalStorage(cfg.Storage.PublicPath, cfg.Storage.PublicURL, storage.VisibilityPublic, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("public storage: %w", err)
	}
	private, err := storage.NewLocalStorage(cfg.Storage.PrivatePath, "", storage.VisibilityPrivate, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("private storage: %w", err)
	}

	grammar := database.NewMySQLGrammar()
	a.dispatcher = events.NewDispatcher(logger)

	// Repositories
	catalogRepo := repositories.NewCatalogRepository(db, grammar, logger)
	admissions := repositories.NewAdmissionRepository(db, grammar, logger)
	users := repositories.NewUserRepository(db, grammar)
	shifts := repositories.NewShiftRepository(db, grammar)

	// Services
	catalog := services.NewCatalogService(catalogRepo, a.cache, cfg.Admission.CatalogTTL, logger)
	notifier, err := a.openQueue()
	if err != nil {
		a.Close()
		return nil, err
	}
	services.RegisterListeners(a.dispatcher, catalog, notifier, logger)

	limits := services.DefaultRuleLimits()
	limits.PhotoMaxBytes = cfg.Admission.PhotoMaxBytes
	limits.DocumentMaxBytes = cfg.Admission.DocumentMaxBytes

	submissions := services.NewSubmissionService(catalog, shifts, admissions, a.public, private, a.dispatcher, limits, logger)
	review := services.NewReviewService(admissions, catalog, a.public, private, a.dispatcher, logger)
	receipts := services.NewReceiptService(cfg.JWT.Secret)

	jwtConfig := &auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}
	a.guard = auth.NewJWTGuard(jwtConfig)
	authService := services.NewAuthService(users, jwtConfig, a.dispatcher, logger)

	reference := services.NewReferenceService(
		shifts,
		repositories.NewExaminationResultRepository(db, grammar),
		repositories.NewProgramGroupRepository(db, grammar, logger),
		repositories.NewProgramRepository(db, grammar, logger),
		repositories.NewDocumentRepository(db, grammar),
		repositories.NewSubjectCombinationRepository(db, grammar),
		a.dispatcher,
		logger,
	)

	if cfg.RateLimit.Enabled {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimit.SubmissionsPerMinute, cfg.RateLimit.Burst, time.Minute)
	}

	// Controllers
	a.catalog = controllers.NewCatalogController(catalog, submissions, reference, logger)
	a.admission = controllers.NewAdmissionController(submissions, receipts, review, request.SubmissionLimits{
		MaxMemory:        cfg.Admission.MultipartMemory,
		PhotoMaxBytes:    cfg.Admission.PhotoMaxBytes,
		DocumentMaxBytes: cfg.Admission.DocumentMaxBytes,
	}, logger)
	a.auth = controllers.NewAuthController(authService, logger)
	a.review = controllers.NewReviewController(review, logger)
	a.reference = controllers.NewReferenceController(reference, logger)

	return a, nil
}

// openRedis, cache ve queue driver'ları için tek bir Redis bağlantısı açar.
func (a *app) openRedis() (*database.RedisClient, error) {
	if a.redis != nil {
		return a.redis, nil
	}

	redisConfig := database.DefaultRedisConfig()
	redisConfig.Host = a.cfg.Redis.Host
	redisConfig.Port = a.cfg.Redis.Port
	redisConfig.Password = a.cfg.Redis.Password
	redisConfig.DB = a.cfg.Redis.DB

	client, err := database.NewRedisClient(redisConfig, a.logger)
	if err != nil {
		return nil, err
	}
	a.redis = client
	return client, nil
}

// openCache, CACHE_DRIVER'a göre katalog cache'ini kurar.
func (a *app) openCache() error {
	switch a.cfg.Cache.Driver {
	case "redis":
		client, err := a.openRedis()
		if err != nil {
			return err
		}
		a.cache = cache.NewRedisCache(client.Client(), a.logger, a.cfg.Cache.Prefix)

	case "file":
		fc, err := cache.NewFileCache(a.cfg.Cache.FileDir, a.logger)
		if err != nil {
			return fmt.Errorf("file cache: %w", err)
		}
		a.cache = fc

	default:
		a.cache = cache.NewMemoryCache(a.logger, 5*time.Minute)
	}

	a.logger.Printf("✅ Cache driver: %s", a.cfg.Cache.Driver)
	return nil
}

// openQueue, MAIL_DRIVER ve QUEUE_DRIVER'a göre bildirim hattını kurar.
func (a *app) openQueue() (*services.NotificationService, error) {
	from := mail.Address{Email: a.cfg.Mail.FromAddress, Name: a.cfg.Mail.FromName}

	var mailer mail.Mailer = mail.NewLogMailer(from, a.logger)
	if a.cfg.Mail.Driver == "smtp" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     a.cfg.Mail.Host,
			Port:     a.cfg.Mail.Port,
			Username: a.cfg.Mail.Username,
			Password: a.cfg.Mail.Password,
			From:     from,
		}, a.logger)
	}

	registry := queue.NewRegistry()
	jobs.Register(registry, mailer, a.logger)

	switch a.cfg.Queue.Driver {
	case "redis":
		client, err := a.openRedis()
		if err != nil {
			return nil, err
		}
		a.queue = queue.NewRedisQueue(client.Client(), registry, a.logger, a.cfg.Cache.Prefix)
		a.worker = queue.NewWorker(a.queue, a.logger).SetRetryDelay(a.cfg.Queue.RetryDelay)
	default:
		a.queue = queue.NewSyncQueue(a.logger)
	}

	statusURL := strings.TrimRight(a.cfg.App.URL, "/") + "/api/v1/admissions/status"
	return services.NewNotificationService(a.queue, registry, a.cfg.Queue.Name, statusURL, a.logger), nil
}

// health handles GET /health
func (a *app) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]any{"database": "ok"}

	if err := a.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}
	if a.redis != nil {
		checks["redis"] = "ok"
		if err := a.redis.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["redis"] = err.Error()
		}
	}
	if s, ok := a.cache.(cache.Stats); ok {
		checks["cache"] = s.Stats()
	}
	checks["listeners"] = a.dispatcher.Stats()
	if a.worker != nil {
		checks["queue"] = a.worker.Stats(ctx, a.cfg.Queue.Name)
	}

	writeHealth(w, status, checks)
}

func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if mc, ok := a.cache.(*cache.MemoryCache); ok {
		mc.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Printf("⚠️  Veritabanı kapatılamadı: %v", err)
		}
	}
}
