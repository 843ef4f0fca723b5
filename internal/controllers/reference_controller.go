package controllers

import (
	"log"
	"net/http"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/services"
)

// ReferenceManager, katalog referans verisinin yönetimi. Her yazma
// işleminden sonra servis catalog.changed yayınlar.
type ReferenceManager interface {
	Shifts(activeOnly bool) ([]models.Shift, error)
	SaveShift(id int64, p services.ShiftPayload) (*models.Shift, error)
	DeleteShift(id int64) error

	ExaminationResults() ([]models.ExaminationResult, error)
	SaveExaminationResult(id int64, p services.ExaminationResultPayload) (*models.ExaminationResult, error)
	DeleteExaminationResult(id int64) error

	ProgramGroups() ([]models.ProgramGroup, error)
	SaveProgramGroup(id int64, p services.ProgramGroupPayload) (*models.ProgramGroup, error)
	DeleteProgramGroup(id int64) error

	Programs(groupID int64) ([]models.Program, error)
	SaveProgram(id int64, p services.ProgramPayload) (*models.Program, error)
	DeleteProgram(id int64) error

	Documents() ([]models.Document, error)
	SaveDocument(id int64, p services.DocumentPayload) (*models.Document, error)
	DeleteDocument(id int64) error

	DocumentRequirements() ([]models.DocumentRequirement, error)
	SaveDocumentRequirement(id int64, p services.DocumentRequirementPayload) (*models.DocumentRequirement, error)
	DeleteDocumentRequirement(id int64) error

	SubjectCombinations(programID int64) ([]models.SubjectCombination, error)
	SaveSubjectCombination(id int64, p services.SubjectCombinationPayload) (*models.SubjectCombination, error)
	DeleteSubjectCombination(id int64) error
}

// ReferenceController, /api/v1/admin altındaki referans verisi CRUD'u.
// Aynı route şeması her varlık için tekrarlanır:
//
//	GET    /{resource}       liste
//	POST   /{resource}       oluştur (201)
//	PUT    /{resource}/{id}  güncelle
//	DELETE /{resource}/{id}  sil (204)
type ReferenceController struct {
	ref    ReferenceManager
	logger *log.Logger
}

func NewReferenceController(ref ReferenceManager, logger *log.Logger) *ReferenceController {
	return &ReferenceController{ref: ref, logger: logger}
}

func sendList[M any](c *ReferenceController, w http.ResponseWriter, items []M, err error) {
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	if items == nil {
		items = []M{}
	}
	response.Success(w, http.StatusOK, items, map[string]any{"total": len(items)})
}

// save, JSON gövdeyi P'ye çözer ve fn'i çağırır. {id} parametresi yoksa
// kayıt oluşturulur.
func save[P any, M any](c *ReferenceController, w http.ResponseWriter, r *request.Request, fn func(int64, P) (M, error)) {
	var id int64
	if r.RouteParam("id") != "" {
		var ok bool
		if id, ok = routeID(w, r); !ok {
			return
		}
	}

	var payload P
	if err := r.ParseJSON(&payload); err != nil {
		response.InvalidJSON(w)
		return
	}

	item, err := fn(id, payload)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	response.Success(w, status, item, nil)
}

func (c *ReferenceController) destroy(w http.ResponseWriter, r *request.Request, fn func(int64) error) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	if err := fn(id); err != nil {
		handleError(w, c.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Shifts ---

func (c *ReferenceController) ShiftIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.Shifts(false)
	sendList(c, w, items, err)
}

func (c *ReferenceController) ShiftSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveShift)
}

func (c *ReferenceController) ShiftDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteShift)
}

// --- Examination results ---

func (c *ReferenceController) ExaminationResultIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.ExaminationResults()
	sendList(c, w, items, err)
}

func (c *ReferenceController) ExaminationResultSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveExaminationResult)
}

func (c *ReferenceController) ExaminationResultDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteExaminationResult)
}

// --- Program groups ---

func (c *ReferenceController) ProgramGroupIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.ProgramGroups()
	sendList(c, w, items, err)
}

func (c *ReferenceController) ProgramGroupSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveProgramGroup)
}

func (c *ReferenceController) ProgramGroupDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteProgramGroup)
}

// --- Programs ---

// ProgramIndex, ?program_group_id= ile filtrelenebilir.
func (c *ReferenceController) ProgramIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.Programs(queryID(r, "program_group_id"))
	sendList(c, w, items, err)
}

func (c *ReferenceController) ProgramSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveProgram)
}

func (c *ReferenceController) ProgramDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteProgram)
}

// --- Documents ---

func (c *ReferenceController) DocumentIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.Documents()
	sendList(c, w, items, err)
}

func (c *ReferenceController) DocumentSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveDocument)
}

func (c *ReferenceController) DocumentDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteDocument)
}

// --- Document requirements ---

func (c *ReferenceController) DocumentRequirementIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.DocumentRequirements()
	sendList(c, w, items, err)
}

func (c *ReferenceController) DocumentRequirementSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveDocumentRequirement)
}

func (c *ReferenceController) DocumentRequirementDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteDocumentRequirement)
}

// --- Subject combinations ---

// SubjectCombinationIndex, ?program_id= ile filtrelenebilir.
func (c *ReferenceController) SubjectCombinationIndex(w http.ResponseWriter, r *request.Request) {
	items, err := c.ref.SubjectCombinations(queryID(r, "program_id"))
	sendList(c, w, items, err)
}

func (c *ReferenceController) SubjectCombinationSave(w http.ResponseWriter, r *request.Request) {
	save(c, w, r, c.ref.SaveSubjectCombination)
}

func (c *ReferenceController) SubjectCombinationDelete(w http.ResponseWriter, r *request.Request) {
	c.destroy(w, r, c.ref.DeleteSubjectCombination)
}
