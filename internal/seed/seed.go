// Package seed, referans verisini (vardiyalar, sınavlar, belgeler, program
// grupları, programlar, ders kombinasyonları ve personel) bir YAML
// dosyasından okuyup boş bir veritabanına yükler.
//
// Kayıtlar ReferenceService üzerinden yazılır; böylece panelden girilen
// veriyle aynı doğrulamadan geçer ve her yazma catalog.changed yayınlar.
package seed

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/services"
	"github.com/biyonik/admission-api/pkg/auth"
)

// File, seed dosyasının kökü. İlişkiler isimle kurulur.
type File struct {
	Shifts             []Shift             `yaml:"shifts"`
	ExaminationResults []ExaminationResult `yaml:"examination_results"`
	Documents          []string            `yaml:"documents"`
	ProgramGroups      []ProgramGroup      `yaml:"program_groups"`
	Users              []User              `yaml:"users"`
}

type Shift struct {
	Name     string `yaml:"name"`
	Inactive bool   `yaml:"inactive"`
}

type ExaminationResult struct {
	Title    string  `yaml:"title"`
	Subtitle *string `yaml:"subtitle"`
}

// Requirement, bir belgenin grup veya program için gerekliliği.
type Requirement struct {
	Document string `yaml:"document"`
	Required bool   `yaml:"required"`
}

type ProgramGroup struct {
	Name         string        `yaml:"name"`
	Examinations []string      `yaml:"examinations"`
	Documents    []Requirement `yaml:"documents"`
	Programs     []Program     `yaml:"programs"`
}

type Program struct {
	Name                string        `yaml:"name"`
	Abbreviation        string        `yaml:"abbreviation"`
	Shift               string        `yaml:"shift"` // boş = tüm vardiyalar
	Examinations        []string      `yaml:"examinations"`
	Documents           []Requirement `yaml:"documents"`
	SubjectCombinations []Combination `yaml:"subject_combinations"`
}

type Combination struct {
	Subjects []string `yaml:"subjects"`
	Shift    string   `yaml:"shift"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Load, seed dosyasını diskten okur.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse, YAML'ı çözer ve isim referanslarını doğrular. Bilinmeyen anahtarlar
// yazım hatası kabul edilir ve reddedilir.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate, dosya içindeki isim referanslarının tanımlı olduğunu kontrol
// eder. Tüm hatalar birlikte döner.
func (f *File) Validate() error {
	shifts := set(len(f.Shifts))
	for _, s := range f.Shifts {
		shifts[s.Name] = true
	}
	exams := set(len(f.ExaminationResults))
	for _, e := range f.ExaminationResults {
		exams[e.Title] = true
	}
	docs := set(len(f.Documents))
	for _, d := range f.Documents {
		docs[d] = true
	}

	var errs []error
	ref := func(kind, name, owner string, known map[string]bool) {
		if name != "" && !known[name] {
			errs = append(errs, fmt.Errorf("%s: unknown %s %q", owner, kind, name))
		}
	}

	for _, g := range f.ProgramGroups {
		for _, e := range g.Examinations {
			ref("examination", e, g.Name, exams)
		}
		for _, d := range g.Documents {
			ref("document", d.Document, g.Name, docs)
		}
		for _, p := range g.Programs {
			owner := g.Name + " / " + p.Name
			ref("shift", p.Shift, owner, shifts)
			for _, e := range p.Examinations {
				ref("examination", e, owner, exams)
			}
			for _, d := range p.Documents {
				ref("document", d.Document, owner, docs)
			}
			for _, c := range p.SubjectCombinations {
				ref("shift", c.Shift, owner, shifts)
			}
		}
	}

	for _, u := range f.Users {
		if u.Role != models.RoleAdmin && u.Role != models.RoleStaff {
			errs = append(errs, fmt.Errorf("user %s: role must be admin or staff", u.Email))
		}
	}
	return errors.Join(errs...)
}

func set(n int) map[string]bool {
	return make(map[string]bool, n)
}

// Reference, seed'in kullandığı ReferenceService yazma işlemleri.
type Reference interface {
	SaveShift(id int64, p services.ShiftPayload) (*models.Shift, error)
	SaveExaminationResult(id int64, p services.ExaminationResultPayload) (*models.ExaminationResult, error)
	SaveDocument(id int64, p services.DocumentPayload) (*models.Document, error)
	SaveProgramGroup(id int64, p services.ProgramGroupPayload) (*models.ProgramGroup, error)
	SaveProgram(id int64, p services.ProgramPayload) (*models.Program, error)
	SaveDocumentRequirement(id int64, p services.DocumentRequirementPayload) (*models.DocumentRequirement, error)
	SaveSubjectCombination(id int64, p services.SubjectCombinationPayload) (*models.SubjectCombination, error)
}

type UserCreator interface {
	Create(user *models.User) error
}

// Summary, yüklenen kayıt sayıları.
type Summary struct {
	Shifts, Examinations, Documents, Groups, Programs, Requirements, Combinations, Users int
}

type Seeder struct {
	ref      Reference
	users    UserCreator
	hashCost int
	logger   *log.Logger

	shiftIDs map[string]int64
	examIDs  map[string]int64
	docIDs   map[string]int64
}

func NewSeeder(ref Reference, users UserCreator, logger *log.Logger) *Seeder {
	return &Seeder{ref: ref, users: users, hashCost: auth.HashCost, logger: logger}
}

// Run, dosyayı bağımlılık sırasıyla yükler ve ilk hatada durur. Seed boş
// bir veritabanı için tasarlanmıştır; tekrar çalıştırmak duplicate hatası verir.
func (s *Seeder) Run(f *File) (*Summary, error) {
	s.shiftIDs = make(map[string]int64)
	s.examIDs = make(map[string]int64)
	s.docIDs = make(map[string]int64)
	sum := &Summary{}

	for _, sh := range f.Shifts {
		status := models.StatusActive
		if sh.Inactive {
			status = models.StatusInactive
		}
		saved, err := s.ref.SaveShift(0, services.ShiftPayload{Name: sh.Name, Status: status})
		if err != nil {
			return sum, fmt.Errorf("shift %q: %w", sh.Name, err)
		}
		s.shiftIDs[sh.Name] = saved.ID
		sum.Shifts++
	}

	for _, e := range f.ExaminationResults {
		saved, err := s.ref.SaveExaminationResult(0, services.ExaminationResultPayload{Title: e.Title, Subtitle: e.Subtitle})
		if err != nil {
			return sum, fmt.Errorf("examination %q: %w", e.Title, err)
		}
		s.examIDs[e.Title] = saved.ID
		sum.Examinations++
	}

	for _, name := range f.Documents {
		saved, err := s.ref.SaveDocument(0, services.DocumentPayload{Name: name})
		if err != nil {
			return sum, fmt.Errorf("document %q: %w", name, err)
		}
		s.docIDs[name] = saved.ID
		sum.Documents++
	}

	for _, g := range f.ProgramGroups {
		if err := s.group(g, sum); err != nil {
			return sum, err
		}
	}

	for _, u := range f.Users {
		hash, err := auth.HashWithCost(u.Password, s.hashCost)
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		user := &models.User{Name: u.Name, Email: u.Email, Password: hash, Role: u.Role, Status: models.StatusActive}
		if err := s.users.Create(user); err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		sum.Users++
	}

	s.logger.Printf("🌱 Seed tamamlandı: %d vardiya, %d sınav, %d belge, %d grup, %d program, %d gereksinim, %d kombinasyon, %d personel",
		sum.Shifts, sum.Examinations, sum.Documents, sum.Groups, sum.Programs, sum.Requirements, sum.Combinations, sum.Users)
	return sum, nil
}

func (s *Seeder) group(g ProgramGroup, sum *Summary) error {
	saved, err := s.ref.SaveProgramGroup(0, services.ProgramGroupPayload{
		Name:                 g.Name,
		Status:               models.StatusActive,
		ExaminationResultIDs: s.ids(s.examIDs, g.Examinations),
	})
	if err != nil {
		return fmt.Errorf("program group %q: %w", g.Name, err)
	}
	sum.Groups++

	groupID := saved.ID
	for _, d := range g.Documents {
		if err := s.requirement(d, nil, &groupID); err != nil {
			return fmt.Errorf("program group %q: %w", g.Name, err)
		}
		sum.Requirements++
	}

	for _, p := range g.Programs {
		if err := s.program(groupID, p, sum); err != nil {
			return fmt.Errorf("program %q: %w", p.Name, err)
		}
	}
	return nil
}

func (s *Seeder) program(groupID int64, p Program, sum *Summary) error {
	saved, err := s.ref.SaveProgram(0, services.ProgramPayload{
		ProgramGroupID:       groupID,
		ShiftID:              s.optionalID(s.shiftIDs, p.Shift),
		Name:                 p.Name,
		Abbreviation:         p.Abbreviation,
		Status:               models.StatusActive,
		ExaminationResultIDs: s.ids(s.examIDs, p.Examinations),
	})
	if err != nil {
		return err
	}
	sum.Programs++

	programID := saved.ID
	for _, d := range p.Documents {
		if err := s.requirement(d, &programID, nil); err != nil {
			return err
		}
		sum.Requirements++
	}

	for _, c := range p.SubjectCombinations {
		_, err := s.ref.SaveSubjectCombination(0, services.SubjectCombinationPayload{
			ProgramID: programID,
			ShiftID:   s.optionalID(s.shiftIDs, c.Shift),
			Subjects:  c.Subjects,
			Status:    models.StatusActive,
		})
		if err != nil {
			return fmt.Errorf("subject combination %v: %w", c.Subjects, err)
		}
		sum.Combinations++
	}
	return nil
}

func (s *Seeder) requirement(r Requirement, programID, groupID *int64) error {
	_, err := s.ref.SaveDocumentRequirement(0, services.DocumentRequirementPayload{
		DocumentID:     s.docIDs[r.Document],
		ProgramID:      programID,
		ProgramGroupID: groupID,
		IsRequired:     r.Required,
	})
	if err != nil {
		return fmt.Errorf("requirement %q: %w", r.Document, err)
	}
	return nil
}

func (s *Seeder) ids(known map[string]int64, names []string) []int64 {
	out := make([]int64, 0, len(names))
	for _, n := range names {
		out = append(out, known[n])
	}
	return out
}

func (s *Seeder) optionalID(known map[string]int64, name string) *int64 {
	if name == "" {
		return nil
	}
	id := known[name]
	return &id
}
