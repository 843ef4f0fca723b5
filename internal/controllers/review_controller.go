package controllers

import (
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/services"
)

type Reviewer interface {
	List(query map[string]string) (*services.AdmissionPage, error)
	Show(id int64) (*models.AdmissionForm, error)
	ChangeStatus(id int64, next models.FormStatus, actorID int64) (*models.AdmissionForm, error)
	OpenDocument(formID int64, documentKey string) (*models.FormDocument, io.ReadCloser, error)
	Dashboard() (*services.Dashboard, error)
}

// ReviewController, personelin başvuruları incelediği endpoint'ler.
type ReviewController struct {
	review Reviewer
	logger *log.Logger
}

func NewReviewController(review Reviewer, logger *log.Logger) *ReviewController {
	return &ReviewController{review: review, logger: logger}
}

// Index handles GET /api/v1/admin/admissions
func (c *ReviewController) Index(w http.ResponseWriter, r *request.Request) {
	page, err := c.review.List(r.QueryMap())
	if err != nil {
		handleError(w, c.logger, err)
		return
	}

	response.Success(w, http.StatusOK, page.Data, map[string]any{
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
	})
}

// Show handles GET /api/v1/admin/admissions/{id}
func (c *ReviewController) Show(w http.ResponseWriter, r *request.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	form, err := c.review.Show(id)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, form, nil)
}

// UpdateStatus handles PATCH /api/v1/admin/admissions/{id}/status
func (c *ReviewController) UpdateStatus(w http.ResponseWriter, r *request.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Status models.FormStatus `json:"status"`
	}
	if err := r.ParseJSON(&payload); err != nil {
		response.InvalidJSON(w)
		return
	}

	form, err := c.review.ChangeStatus(id, payload.Status, r.AuthUserID())
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, form, nil)
}

// Document handles GET /api/v1/admin/admissions/{id}/documents/{document_key}
//
// Belge private alandan stream edilir; herkese açık bir URL'i yoktur.
func (c *ReviewController) Document(w http.ResponseWriter, r *request.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	doc, stream, err := c.review.OpenDocument(id, r.RouteParam("document_key"))
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName}))
	if doc.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	}
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, stream); err != nil {
		c.logger.Printf("⚠️  Belge gönderilemedi (form #%d, %s): %v", id, doc.DocumentKey, err)
	}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (c *ReviewController) Dashboard(w http.ResponseWriter, r *request.Request) {
	d, err := c.review.Dashboard()
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, d, nil)
}
