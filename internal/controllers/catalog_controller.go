package controllers

import (
	"log"
	"net/http"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/services"
)

type CatalogProvider interface {
	ProgramGroups() ([]models.ProgramGroup, error)
}

type RulesProvider interface {
	Rules(programID int64) (*services.Requirements, services.RuleSet, error)
}

type ShiftLister interface {
	Shifts(activeOnly bool) ([]models.Shift, error)
}

// CatalogController, başvuru formunun ihtiyaç duyduğu herkese açık
// katalog endpoint'leri.
type CatalogController struct {
	catalog CatalogProvider
	rules   RulesProvider
	shifts  ShiftLister
	logger  *log.Logger
}

func NewCatalogController(catalog CatalogProvider, rules RulesProvider, shifts ShiftLister, logger *log.Logger) *CatalogController {
	return &CatalogController{catalog: catalog, rules: rules, shifts: shifts, logger: logger}
}

// Index handles GET /api/v1/catalog
func (c *CatalogController) Index(w http.ResponseWriter, r *request.Request) {
	groups, err := c.catalog.ProgramGroups()
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, groups, nil)
}

// Requirements handles GET /api/v1/catalog/programs/{id}/requirements
func (c *CatalogController) Requirements(w http.ResponseWriter, r *request.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	req, rules, err := c.rules.Rules(id)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"requirements": req,
		"rules":        rules,
	}, nil)
}

// Shifts handles GET /api/v1/shifts
func (c *CatalogController) Shifts(w http.ResponseWriter, r *request.Request) {
	shifts, err := c.shifts.Shifts(true)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, shifts, nil)
}
