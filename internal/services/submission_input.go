package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UploadedFile, multipart isteğinden okunmuş dosya. MIME türü istemcinin
// bildirdiği Content-Type'tan değil, içerikten tespit edilir.
type UploadedFile struct {
	Filename string
	Content  []byte
	MIME     string
}

// NewUploadedFile, içeriği koklayarak MIME türünü belirler.
func NewUploadedFile(filename string, content []byte) *UploadedFile {
	detected := mimetype.Detect(content).String()
	if base, _, ok := strings.Cut(detected, ";"); ok {
		detected = base
	}
	return &UploadedFile{
		Filename: filename,
		Content:  content,
		MIME:     strings.TrimSpace(detected),
	}
}

func (f *UploadedFile) FileSize() int64  { return int64(len(f.Content)) }
func (f *UploadedFile) FileMIME() string { return f.MIME }

// describe, log için içerik yerine "ad (mime, boyut)" döndürür.
func (f *UploadedFile) describe() string {
	if f == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s (%s, %d bytes)", f.Filename, f.MIME, f.FileSize())
}

// ApplicantProfile, başvuru sahibinin sabit şekilli profil alanları.
type ApplicantProfile struct {
	FullName         string `json:"full_name" validate:"required,notblank,max=100"`
	FatherName       string `json:"father_name" validate:"required,notblank,max=100"`
	CNIC             string `json:"cnic" validate:"required,cnic"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender           string `json:"gender" validate:"required,oneof=male female other"`
	Religion         string `json:"religion" validate:"required,max=50"`
	Nationality      string `json:"nationality" validate:"required,max=50"`
	Email            string `json:"email" validate:"required,email,max=255"`
	Phone            string `json:"phone" validate:"required,phone"`
	GuardianName     string `json:"guardian_name" validate:"required,notblank,max=100"`
	GuardianRelation string `json:"guardian_relation" validate:"required,max=50"`
	GuardianPhone    string `json:"guardian_phone" validate:"omitempty,phone"`
	GuardianIncome   string `json:"guardian_income" validate:"omitempty,number"`
	Address          string `json:"address" validate:"required,notblank,max=255"`
	City             string `json:"city" validate:"required,notblank,max=100"`
}

// ExaminationInput, gönderilen tek bir sınav bloğu; değerler ham metindir.
type ExaminationInput struct {
	Name          string
	Year          string
	Board         string
	RollNo        string
	TotalMarks    string
	ObtainedMarks string
}

// DocumentInput, gönderilen tek bir belge. File nil olabilir.
type DocumentInput struct {
	Name string
	File *UploadedFile
}

// SubmissionInput, bir başvuru isteğinin tipli hali. Program, vardiya ve
// kombinasyon ID'leri ham metin olarak taşınır ve katalogla çözülür.
type SubmissionInput struct {
	ProgramID            string
	ShiftID              string
	SubjectCombinationID string
	Profile              ApplicantProfile
	Examinations         []ExaminationInput
	Documents            []DocumentInput
	Photo                *UploadedFile
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// data, dinamik kural şemasının doğrulayacağı haritayı üretir. Dizi
// alanları her zaman (boş da olsa) bulunur; nil dosyalar haritaya konmaz.
func (in *SubmissionInput) data() map[string]any {
	data := map[string]any{
		"program_id": in.ProgramID,
		"shift_id":   in.ShiftID,
	}
	if strings.TrimSpace(in.SubjectCombinationID) != "" {
		data["subject_combination_id"] = in.SubjectCombinationID
	}
	if in.Photo != nil {
		data["photo"] = in.Photo
	}

	exams := make([]any, len(in.Examinations))
	for i, e := range in.Examinations {
		exams[i] = map[string]any{
			"name":           e.Name,
			"year":           e.Year,
			"board":          e.Board,
			"roll_no":        e.RollNo,
			"total_marks":    e.TotalMarks,
			"obtained_marks": e.ObtainedMarks,
		}
	}
	data["examination"] = exams

	docs := make([]any, len(in.Documents))
	for i, d := range in.Documents {
		doc := map[string]any{"name": d.Name}
		if d.File != nil {
			doc["file"] = d.File
		}
		docs[i] = doc
	}
	data["documents"] = docs

	return data
}

// examinationNames / documentNames, hata çevirisi için gönderilen adlar.
func (in *SubmissionInput) examinationNames() []string {
	names := make([]string, len(in.Examinations))
	for i, e := range in.Examinations {
		names[i] = strings.TrimSpace(e.Name)
	}
	return names
}

func (in *SubmissionInput) documentNames() []string {
	names := make([]string, len(in.Documents))
	for i, d := range in.Documents {
		names[i] = strings.TrimSpace(d.Name)
	}
	return names
}

// MaskCNIC, son dört hane dışındaki rakamları gizler.
func MaskCNIC(cnic string) string {
	digits := 0
	for _, r := range cnic {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	var b strings.Builder
	seen := 0
	for _, r := range cnic {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= digits-4 {
				b.WriteByte('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Redacted, hata loglarına yazılacak maskelenmiş kopyayı JSON olarak
// döndürür. CNIC maskelenir; dosya içerikleri yerine tanımları yazılır.
func (in *SubmissionInput) Redacted() string {
	profile := in.Profile
	profile.CNIC = MaskCNIC(profile.CNIC)

	docs := make([]map[string]string, len(in.Documents))
	for i, d := range in.Documents {
		docs[i] = map[string]string{"name": d.Name, "file": d.File.describe()}
	}

	out, err := json.Marshal(map[string]any{
		"program_id":             in.ProgramID,
		"shift_id":               in.ShiftID,
		"subject_combination_id": in.SubjectCombinationID,
		"profile":                profile,
		"examination":            in.Examinations,
		"documents":              docs,
		"photo":                  in.Photo.describe(),
	})
	if err != nil {
		return fmt.Sprintf("<unserializable input: %v>", err)
	}
	return string(out)
}

func parseMarks(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
