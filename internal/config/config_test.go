package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Admission.CatalogTTL != 10*time.Minute {
		t.Errorf("CatalogTTL = %v, want 10m", cfg.Admission.CatalogTTL)
	}
	if cfg.Admission.PhotoMaxBytes != 2*1024*1024 {
		t.Errorf("PhotoMaxBytes = %d", cfg.Admission.PhotoMaxBytes)
	}
	if cfg.Admission.DocumentMaxBytes != 5*1024*1024 {
		t.Errorf("DocumentMaxBytes = %d", cfg.Admission.DocumentMaxBytes)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("Cache.Driver = %s", cfg.Cache.Driver)
	}
	if cfg.Queue.Driver != "sync" || cfg.Mail.Driver != "log" {
		t.Errorf("Queue.Driver = %s, Mail.Driver = %s", cfg.Queue.Driver, cfg.Mail.Driver)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("ADMISSION_CATALOG_TTL", "90s")
	t.Setenv("JWT_ACCESS_TTL", "120")
	t.Setenv("CACHE_DRIVER", "REDIS")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://apply.college.edu.pk, https://admin.college.edu.pk")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Admission.CatalogTTL != 90*time.Second {
		t.Errorf("CatalogTTL = %v", cfg.Admission.CatalogTTL)
	}
	if cfg.JWT.AccessTTL != 2*time.Minute {
		t.Errorf("AccessTTL = %v", cfg.JWT.AccessTTL)
	}
	if cfg.Cache.Driver != "redis" {
		t.Errorf("Cache.Driver = %s", cfg.Cache.Driver)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "production with default secret",
			env:     map[string]string{"APP_ENV": "production"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown cache driver",
			env:     map[string]string{"APP_ENV": "test", "CACHE_DRIVER": "memcached"},
			wantErr: "CACHE_DRIVER",
		},
		{
			name:    "non positive document limit",
			env:     map[string]string{"APP_ENV": "test", "ADMISSION_DOCUMENT_MAX_BYTES": "0"},
			wantErr: "ADMISSION_DOCUMENT_MAX_BYTES",
		},
		{
			name:    "shared storage directory",
			env:     map[string]string{"APP_ENV": "test", "STORAGE_PUBLIC_PATH": "/srv/files", "STORAGE_PRIVATE_PATH": "/srv/files"},
			wantErr: "storage",
		},
		{
			name:    "unknown queue driver",
			env:     map[string]string{"APP_ENV": "test", "QUEUE_DRIVER": "sqs"},
			wantErr: "QUEUE_DRIVER",
		},
		{
			name:    "unknown mail driver",
			env:     map[string]string{"APP_ENV": "test", "MAIL_DRIVER": "sendmail"},
			wantErr: "MAIL_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
