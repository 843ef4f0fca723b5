package request

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strconv"

	"github.com/biyonik/admission-api/internal/services"
)

// maxBlocks, examination[] ve documents[] için kabul edilen en yüksek
// eleman sayısı. Daha büyük index'ler isteği reddettirir.
const maxBlocks = 20

// ErrMalformedSubmission, multipart gövde çözümlenemedi.
var ErrMalformedSubmission = errors.New("malformed submission form")

// indexedField, "examination[0][obtained_marks]" / "documents[1][file]".
var indexedField = regexp.MustCompile(`^(examination|documents)\[(\d+)\]\[([a-z_]+)\]$`)

// SubmissionLimits, dosya okuma sınırları. Sınırdan büyük dosyalar bir
// byte fazlasıyla okunur; boyut kuralı onları reddeder.
type SubmissionLimits struct {
	MaxMemory        int64
	PhotoMaxBytes    int64
	DocumentMaxBytes int64
}

// SubmissionInput, multipart başvuru formunu tipli girdiye çevirir.
// program_category / program_value gibi eski alanlar okunmaz.
func (r *Request) SubmissionInput(limits SubmissionLimits) (*services.SubmissionInput, error) {
	if err := r.ParseMultipartForm(limits.MaxMemory); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}
	form := r.MultipartForm

	in := &services.SubmissionInput{
		ProgramID:            first(form.Value, "program_id"),
		ShiftID:              first(form.Value, "shift_id"),
		SubjectCombinationID: first(form.Value, "subject_combination_id"),
		Profile: services.ApplicantProfile{
			FullName:         first(form.Value, "full_name"),
			FatherName:       first(form.Value, "father_name"),
			CNIC:             first(form.Value, "cnic"),
			DateOfBirth:      first(form.Value, "date_of_birth"),
			Gender:           first(form.Value, "gender"),
			Religion:         first(form.Value, "religion"),
			Nationality:      first(form.Value, "nationality"),
			Email:            first(form.Value, "email"),
			Phone:            first(form.Value, "phone"),
			GuardianName:     first(form.Value, "guardian_name"),
			GuardianRelation: first(form.Value, "guardian_relation"),
			GuardianPhone:    first(form.Value, "guardian_phone"),
			GuardianIncome:   first(form.Value, "guardian_income"),
			Address:          first(form.Value, "address"),
			City:             first(form.Value, "city"),
		},
	}

	for key, vals := range form.Value {
		m := indexedField.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		index, err := blockIndex(m[2])
		if err != nil {
			return nil, err
		}

		switch m[1] {
		case "examination":
			in.Examinations = growExams(in.Examinations, index)
			setExamField(&in.Examinations[index], m[3], vals[0])
		case "documents":
			if m[3] == "name" {
				in.Documents = growDocs(in.Documents, index)
				in.Documents[index].Name = vals[0]
			}
		}
	}

	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}

		if key == "photo" {
			file, err := readUpload(headers[0], limits.PhotoMaxBytes)
			if err != nil {
				return nil, err
			}
			in.Photo = file
			continue
		}

		m := indexedField.FindStringSubmatch(key)
		if m == nil || m[1] != "documents" || m[3] != "file" {
			continue
		}
		index, err := blockIndex(m[2])
		if err != nil {
			return nil, err
		}
		file, err := readUpload(headers[0], limits.DocumentMaxBytes)
		if err != nil {
			return nil, err
		}
		in.Documents = growDocs(in.Documents, index)
		in.Documents[index].File = file
	}

	return in, nil
}

func first(values map[string][]string, key string) string {
	if vals := values[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func blockIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 || index >= maxBlocks {
		return 0, fmt.Errorf("%w: index %s out of range", ErrMalformedSubmission, raw)
	}
	return index, nil
}

func growExams(list []services.ExaminationInput, index int) []services.ExaminationInput {
	for len(list) <= index {
		list = append(list, services.ExaminationInput{})
	}
	return list
}

func growDocs(list []services.DocumentInput, index int) []services.DocumentInput {
	for len(list) <= index {
		list = append(list, services.DocumentInput{})
	}
	return list
}

func setExamField(e *services.ExaminationInput, field, value string) {
	switch field {
	case "name":
		e.Name = value
	case "year":
		e.Year = value
	case "board":
		e.Board = value
	case "roll_no":
		e.RollNo = value
	case "total_marks":
		e.TotalMarks = value
	case "obtained_marks":
		e.ObtainedMarks = value
	}
}

// readUpload, dosyayı en fazla limit+1 byte okur. MIME türü içerikten
// tespit edilir.
func readUpload(header *multipart.FileHeader, limit int64) (*services.UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer f.Close()

	reader := io.Reader(f)
	if limit > 0 {
		reader = io.LimitReader(f, limit+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	if len(content) == 0 {
		return nil, nil
	}
	return services.NewUploadedFile(header.Filename, content), nil
}
