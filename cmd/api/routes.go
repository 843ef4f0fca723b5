package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/biyonik/admission-api/internal/middleware"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/router"
)

// Handler, API router'ını, /health ve /storage/ yollarıyla birlikte döndürür.
func (a *app) Handler() http.Handler {
	r := router.New()
	r.Use(middleware.PanicRecovery(a.logger))
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(a.cfg.CORS.AllowedOrigins))

	api := r.Group("/api/v1")

	// Public
	api.GET("/catalog", a.catalog.Index)
	api.GET("/catalog/programs/{id}/requirements", a.catalog.Requirements)
	api.GET("/shifts", a.catalog.Shifts)

	submit := api.POST("/admissions", a.admission.Store)
	if a.limiter != nil {
		submit.Middleware(a.limiter.Middleware(a.logger))
	}
	submit.Middleware(middleware.BodyLimit(a.cfg.Admission.MaxRequestBytes))
	api.GET("/admissions/status", a.admission.Status)

	// Auth
	api.POST("/auth/login", a.auth.Login)
	api.POST("/auth/refresh", a.auth.Refresh)
	api.GET("/auth/me", a.auth.Me).Middleware(middleware.Auth(a.guard))

	// Staff
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(a.guard))
	admin.Use(middleware.Role(models.RoleAdmin, models.RoleStaff))

	admin.GET("/dashboard", a.review.Dashboard)
	admin.GET("/admissions", a.review.Index)
	admin.GET("/admissions/{id}", a.review.Show)
	admin.PATCH("/admissions/{id}/status", a.review.UpdateStatus)
	admin.GET("/admissions/{id}/documents/{document_key}", a.review.Document)

	// Reference data, yalnızca admin
	ref := admin.Group("")
	ref.Use(middleware.Role(models.RoleAdmin))

	ref.GET("/shifts", a.reference.ShiftIndex)
	ref.POST("/shifts", a.reference.ShiftSave)
	ref.PUT("/shifts/{id}", a.reference.ShiftSave)
	ref.DELETE("/shifts/{id}", a.reference.ShiftDelete)

	ref.GET("/examination-results", a.reference.ExaminationResultIndex)
	ref.POST("/examination-results", a.reference.ExaminationResultSave)
	ref.PUT("/examination-results/{id}", a.reference.ExaminationResultSave)
	ref.DELETE("/examination-results/{id}", a.reference.ExaminationResultDelete)

	ref.GET("/program-groups", a.reference.ProgramGroupIndex)
	ref.POST("/program-groups", a.reference.ProgramGroupSave)
	ref.PUT("/program-groups/{id}", a.reference.ProgramGroupSave)
	ref.DELETE("/program-groups/{id}", a.reference.ProgramGroupDelete)

	ref.GET("/programs", a.reference.ProgramIndex)
	ref.POST("/programs", a.reference.ProgramSave)
	ref.PUT("/programs/{id}", a.reference.ProgramSave)
	ref.DELETE("/programs/{id}", a.reference.ProgramDelete)

	ref.GET("/documents", a.reference.DocumentIndex)
	ref.POST("/documents", a.reference.DocumentSave)
	ref.PUT("/documents/{id}", a.reference.DocumentSave)
	ref.DELETE("/documents/{id}", a.reference.DocumentDelete)

	ref.GET("/document-requirements", a.reference.DocumentRequirementIndex)
	ref.POST("/document-requirements", a.reference.DocumentRequirementSave)
	ref.PUT("/document-requirements/{id}", a.reference.DocumentRequirementSave)
	ref.DELETE("/document-requirements/{id}", a.reference.DocumentRequirementDelete)

	ref.GET("/subject-combinations", a.reference.SubjectCombinationIndex)
	ref.POST("/subject-combinations", a.reference.SubjectCombinationSave)
	ref.PUT("/subject-combinations/{id}", a.reference.SubjectCombinationSave)
	ref.DELETE("/subject-combinations/{id}", a.reference.SubjectCombinationDelete)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.health)
	mux.Handle("/storage/", http.StripPrefix("/storage/", http.FileServer(http.Dir(a.cfg.Storage.PublicPath))))
	mux.Handle("/", r)
	return mux
}

func writeHealth(w http.ResponseWriter, status int, checks map[string]any) {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
