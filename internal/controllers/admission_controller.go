package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/services"
)

type Submitter interface {
	Submit(in *services.SubmissionInput) (*models.AdmissionForm, error)
}

type ReceiptIssuer interface {
	Issue(form *models.AdmissionForm) (*services.Receipt, error)
}

type StatusLookup interface {
	Lookup(formNo int64, cnic string) (*models.AdmissionForm, error)
}

// AdmissionController handles the public submission endpoints
type AdmissionController struct {
	submissions Submitter
	receipts    ReceiptIssuer
	lookup      StatusLookup
	limits      request.SubmissionLimits
	logger      *log.Logger
}

func NewAdmissionController(submissions Submitter, receipts ReceiptIssuer, lookup StatusLookup, limits request.SubmissionLimits, logger *log.Logger) *AdmissionController {
	return &AdmissionController{
		submissions: submissions,
		receipts:    receipts,
		lookup:      lookup,
		limits:      limits,
		logger:      logger,
	}
}

// Store handles POST /api/v1/admissions
func (c *AdmissionController) Store(w http.ResponseWriter, r *request.Request) {
	// 1. Multipart gövdeyi çöz
	in, err := r.SubmissionInput(c.limits)
	if err != nil {
		response.BadRequest(w, "The submission could not be read. Please send the form as multipart/form-data.")
		return
	}

	// 2. Başvuru hattını çalıştır
	form, err := c.submissions.Submit(in)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}

	// 3. Makbuz; form kaydedildiği için makbuz hatası başvuruyu bozmaz
	receipt, err := c.receipts.Issue(form)
	if err != nil {
		c.logger.Printf("⚠️  Form #%d için makbuz üretilemedi: %v", form.ID, err)
	}

	response.Success(w, http.StatusCreated, map[string]any{
		"form":    form,
		"receipt": receipt,
	}, nil)
}

// Status handles GET /api/v1/admissions/status?form_no=&cnic=
func (c *AdmissionController) Status(w http.ResponseWriter, r *request.Request) {
	formNo, ok := request.ParseID(r.Query("form_no", ""))
	cnic := strings.TrimSpace(r.Query("cnic", ""))

	errs := map[string][]string{}
	if !ok {
		errs["form_no"] = []string{"The form no field must be a valid form number."}
	}
	if cnic == "" {
		errs["cnic"] = []string{"The cnic field is required."}
	}
	if len(errs) > 0 {
		msg := "The form no and cnic fields are required."
		response.ValidationError(w, msg, errs)
		return
	}

	form, err := c.lookup.Lookup(formNo, cnic)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"form_no":    form.ID,
		"status":     form.Status,
		"program":    form.ProgramName,
		"full_name":  form.FullName,
		"created_at": form.CreatedAt,
		"updated_at": form.UpdatedAt,
	}, nil)
}
