// Package config, uygulama ayarlarını ortam değişkenlerinden okur.
// Çalışma dizininde bir .env dosyası varsa önce o yüklenir; dosyanın
// olmaması hata değildir. Ortamda zaten tanımlı değişkenler .env tarafından
// ezilmez.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-this-admission-jwt-secret-in-production"

type Config struct {
	App struct {
		Name  string
		Env   string // development, production, test
		Debug bool
		URL   string
	}

	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}

	DB struct {
		Host            string
		Port            int
		Database        string
		Username        string
		Password        string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	Redis struct {
		Host     string
		Port     int
		Password string
		DB       int
	}

	Cache struct {
		Driver  string // redis, file, memory
		Prefix  string
		FileDir string
	}

	Storage struct {
		PublicPath  string // Fotoğraflar; URL ile erişilebilir
		PublicURL   string
		PrivatePath string // Belgeler; yalnızca yetkili endpoint üzerinden
	}

	JWT struct {
		Secret     string
		Issuer     string
		AccessTTL  time.Duration
		RefreshTTL time.Duration
	}

	RateLimit struct {
		Enabled              bool
		SubmissionsPerMinute int
		Burst                int
	}

	Admission struct {
		CatalogTTL       time.Duration
		PhotoMaxBytes    int64
		DocumentMaxBytes int64
		MultipartMemory  int64 // ParseMultipartForm bellek limiti
		MaxRequestBytes  int64 // Toplam gövde limiti
	}

	CORS struct {
		AllowedOrigins []string
	}

	Mail struct {
		Driver      string // smtp, log
		Host        string
		Port        int
		Username    string
		Password    string
		FromAddress string
		FromName    string
	}

	Queue struct {
		Driver     string // redis, sync
		Name       string
		RetryDelay time.Duration
	}
}

// Load, .env dosyasını (varsa) ve ortam değişkenlerini okuyup doğrulanmış
// bir Config döndürür.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  .env okunamadı: %v", err)
	}

	cfg := &Config{}

	cfg.App.Name = getEnv("APP_NAME", "Admission API")
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Debug = getEnvAsBool("APP_DEBUG", false)
	cfg.App.URL = getEnv("APP_URL", "http://localhost:8000")

	cfg.Server.Host = getEnv("SERVER_HOST", "")
	cfg.Server.Port = getEnv("PORT", "8000")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second)
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", 120*time.Second)

	cfg.DB.Host = getEnv("DB_HOST", "127.0.0.1")
	cfg.DB.Port = getEnvAsInt("DB_PORT", 3306)
	cfg.DB.Database = getEnv("DB_DATABASE", "admission")
	cfg.DB.Username = getEnv("DB_USERNAME", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "")
	cfg.DB.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DB.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", 10)
	cfg.DB.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)

	cfg.Redis.Host = getEnv("REDIS_HOST", "127.0.0.1")
	cfg.Redis.Port = getEnvAsInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.Cache.Driver = strings.ToLower(getEnv("CACHE_DRIVER", "memory"))
	cfg.Cache.Prefix = getEnv("CACHE_PREFIX", "admission:")
	cfg.Cache.FileDir = getEnv("CACHE_FILE_DIR", "./storage/cache")

	cfg.Storage.PublicPath = getEnv("STORAGE_PUBLIC_PATH", "./storage/public")
	cfg.Storage.PublicURL = getEnv("STORAGE_PUBLIC_URL", "http://localhost:8000/storage")
	cfg.Storage.PrivatePath = getEnv("STORAGE_PRIVATE_PATH", "./storage/private")

	cfg.JWT.Secret = getEnv("JWT_SECRET", defaultJWTSecret)
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", "admission-api")
	cfg.JWT.AccessTTL = getEnvAsDuration("JWT_ACCESS_TTL", time.Hour)
	cfg.JWT.RefreshTTL = getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour)

	cfg.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", true)
	cfg.RateLimit.SubmissionsPerMinute = getEnvAsInt("RATE_LIMIT_SUBMISSIONS_PER_MINUTE", 6)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 3)

	cfg.Admission.CatalogTTL = getEnvAsDuration("ADMISSION_CATALOG_TTL", 10*time.Minute)
	cfg.Admission.PhotoMaxBytes = getEnvAsInt64("ADMISSION_PHOTO_MAX_BYTES", 2*1024*1024)
	cfg.Admission.DocumentMaxBytes = getEnvAsInt64("ADMISSION_DOCUMENT_MAX_BYTES", 5*1024*1024)
	cfg.Admission.MultipartMemory = getEnvAsInt64("ADMISSION_MULTIPART_MEMORY", 8*1024*1024)
	cfg.Admission.MaxRequestBytes = getEnvAsInt64("ADMISSION_MAX_REQUEST_BYTES", 64*1024*1024)

	cfg.CORS.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	cfg.Mail.Driver = strings.ToLower(getEnv("MAIL_DRIVER", "log"))
	cfg.Mail.Host = getEnv("MAIL_HOST", "localhost")
	cfg.Mail.Port = getEnvAsInt("MAIL_PORT", 1025)
	cfg.Mail.Username = getEnv("MAIL_USERNAME", "")
	cfg.Mail.Password = getEnv("MAIL_PASSWORD", "")
	cfg.Mail.FromAddress = getEnv("MAIL_FROM_ADDRESS", "admissions@example.edu")
	cfg.Mail.FromName = getEnv("MAIL_FROM_NAME", "Admissions Office")

	cfg.Queue.Driver = strings.ToLower(getEnv("QUEUE_DRIVER", "sync"))
	cfg.Queue.Name = getEnv("QUEUE_NAME", "mail")
	cfg.Queue.RetryDelay = getEnvAsDuration("QUEUE_RETRY_DELAY", time.Minute)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate, çalışmayı imkansız kılacak veya güvensiz ayarları reddeder.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET production'da değiştirilmelidir")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET production'da en az 32 karakter olmalı")
		}
	}

	validDrivers := map[string]bool{"redis": true, "file": true, "memory": true}
	if !validDrivers[c.Cache.Driver] {
		return fmt.Errorf("geçersiz CACHE_DRIVER: %s (redis, file veya memory olmalı)", c.Cache.Driver)
	}

	if c.Mail.Driver != "smtp" && c.Mail.Driver != "log" {
		return fmt.Errorf("geçersiz MAIL_DRIVER: %s (smtp veya log olmalı)", c.Mail.Driver)
	}
	if c.Queue.Driver != "redis" && c.Queue.Driver != "sync" {
		return fmt.Errorf("geçersiz QUEUE_DRIVER: %s (redis veya sync olmalı)", c.Queue.Driver)
	}

	if c.Storage.PublicPath == "" || c.Storage.PrivatePath == "" {
		return fmt.Errorf("STORAGE_PUBLIC_PATH ve STORAGE_PRIVATE_PATH boş olamaz")
	}
	if c.Storage.PublicPath == c.Storage.PrivatePath {
		return fmt.Errorf("public ve private storage aynı dizini paylaşamaz")
	}

	positives := map[string]int64{
		"ADMISSION_CATALOG_TTL":        int64(c.Admission.CatalogTTL),
		"ADMISSION_PHOTO_MAX_BYTES":    c.Admission.PhotoMaxBytes,
		"ADMISSION_DOCUMENT_MAX_BYTES": c.Admission.DocumentMaxBytes,
		"ADMISSION_MULTIPART_MEMORY":   c.Admission.MultipartMemory,
		"ADMISSION_MAX_REQUEST_BYTES":  c.Admission.MaxRequestBytes,
		"JWT_ACCESS_TTL":               int64(c.JWT.AccessTTL),
		"JWT_REFRESH_TTL":              int64(c.JWT.RefreshTTL),
	}
	for key, value := range positives {
		if value <= 0 {
			return fmt.Errorf("%s pozitif olmalı", key)
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.SubmissionsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit açıkken RATE_LIMIT_SUBMISSIONS_PER_MINUTE ve RATE_LIMIT_BURST pozitif olmalı")
	}

	if c.IsProduction() && c.Cache.Driver == "memory" {
		log.Println("⚠️  UYARI: Memory cache birden fazla instance ile tutarsız olur!")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Addr, http.Server için dinlenecek adresi döndürür.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️  Uyarı: %s için geçersiz değer: %s, varsayılan (%d) kullanılıyor.", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("⚠️  Uyarı: %s için geçersiz değer: %s, varsayılan (%d) kullanılıyor.", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️  Uyarı: %s için geçersiz boolean değer: %s, varsayılan (%t) kullanılıyor.", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration, "10m", "90s" gibi Go duration formatını ve çıplak saniye
// sayısını kabul eder.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}

	log.Printf("⚠️  Uyarı: %s için geçersiz süre: %s, varsayılan (%s) kullanılıyor.", key, valueStr, defaultValue)
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
