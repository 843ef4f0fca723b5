package services

import (
	"errors"
	"testing"

	"github.com/biyonik/admission-api/internal/models"
)

func TestMergeCatalogPushesGroupRequirementsDown(t *testing.T) {
	groups := MergeCatalog(catalogTree())

	for _, g := range groups {
		if g.ExaminationResults != nil || g.DocumentRequirements != nil {
			t.Errorf("group %q still carries its own lists", g.Name)
		}
	}

	preMed := groups[0].Programs[0]
	if got := preMed.ExaminationTitles(); len(got) != 1 || got[0] != "Matric" {
		t.Errorf("F.Sc.Pre-Med exams = %v, want [Matric]", got)
	}

	ics := groups[0].Programs[1]
	if got := ics.ExaminationTitles(); len(got) != 1 {
		t.Errorf("I.C.S exams must be deduplicated by id, got %v", got)
	}

	bcom := groups[1].Programs[0]
	if got := bcom.ExaminationTitles(); len(got) != 2 || got[0] != "Matric" || got[1] != "Intermediate" {
		t.Errorf("B.Com-IT exams = %v", got)
	}
	if len(bcom.DocumentRequirements) != 2 {
		t.Fatalf("B.Com-IT requirements = %+v", bcom.DocumentRequirements)
	}
	if bcom.DocumentRequirements[0].Document.Name != "Domicile" || bcom.DocumentRequirements[0].IsRequired {
		t.Errorf("group requirement should come first and stay optional: %+v", bcom.DocumentRequirements[0])
	}
}

func TestMergeCatalogProgramRequirementOverridesGroup(t *testing.T) {
	tree := catalogTree()
	tree[1].Programs[0].DocumentRequirements = append(tree[1].Programs[0].DocumentRequirements,
		models.DocumentRequirement{ID: 3, DocumentID: domicile.ID, Scope: models.ForProgram(20), IsRequired: true, Document: domicile})

	bcom := MergeCatalog(tree)[1].Programs[0]
	if len(bcom.DocumentRequirements) != 2 {
		t.Fatalf("requirements = %+v", bcom.DocumentRequirements)
	}
	if !bcom.DocumentRequirements[0].IsRequired || bcom.DocumentRequirements[0].Scope.Kind() != models.ScopeProgram {
		t.Errorf("program level must win: %+v", bcom.DocumentRequirements[0])
	}
}

func TestCatalogServiceCachesTree(t *testing.T) {
	source := &fakeCatalogSource{groups: catalogTree()}
	svc := newCatalogService(t, source)

	for i := 0; i < 3; i++ {
		groups, err := svc.ProgramGroups()
		if err != nil {
			t.Fatal(err)
		}
		if len(groups) != 2 {
			t.Fatalf("groups = %d, want 2", len(groups))
		}
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}

	if err := svc.Forget(); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ProgramGroups(); err != nil {
		t.Fatal(err)
	}
	if source.calls != 2 {
		t.Errorf("after Forget source calls = %d, want 2", source.calls)
	}
}

func TestCatalogServiceCachedCopyKeepsScopes(t *testing.T) {
	svc := newCatalogService(t, &fakeCatalogSource{groups: catalogTree()})

	// İlk çağrı depodan, ikincisi JSON cache'ten gelir.
	if _, err := svc.Snapshot(); err != nil {
		t.Fatal(err)
	}
	catalog, err := svc.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	program, ok := catalog.FindProgram(20)
	if !ok {
		t.Fatal("program 20 missing from cached catalog")
	}
	if program.ShiftID == nil || *program.ShiftID != 1 {
		t.Errorf("shift restriction lost: %+v", program.ShiftID)
	}
	if got := program.DocumentRequirements[1].Scope; got.Kind() != models.ScopeProgram || got.ID() != 20 {
		t.Errorf("scope lost through cache: %+v", got)
	}
}

func TestCatalogServiceSourceError(t *testing.T) {
	boom := errors.New("db down")
	svc := newCatalogService(t, &fakeCatalogSource{err: boom})

	if _, err := svc.Snapshot(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestResolveRequirements(t *testing.T) {
	catalog := &Catalog{Groups: MergeCatalog(catalogTree())}

	req, err := ResolveRequirements(catalog, 20)
	if err != nil {
		t.Fatal(err)
	}
	if got := req.RequiredDocumentNames(); len(got) != 1 || got[0] != "Character Certificate" {
		t.Errorf("required documents = %v", got)
	}
	if got := req.DocumentNames(); len(got) != 2 {
		t.Errorf("accepted documents = %v", got)
	}
	if len(req.SubjectCombinations) != 1 {
		t.Errorf("combinations = %+v", req.SubjectCombinations)
	}

	req, err = ResolveRequirements(catalog, 10)
	if err != nil {
		t.Fatal(err)
	}
	if req.DocumentRequirements == nil || len(req.DocumentRequirements) != 0 {
		t.Errorf("program without documents should resolve to an empty list: %#v", req.DocumentRequirements)
	}

	for _, id := range []int64{0, -1, 999} {
		_, err := ResolveRequirements(catalog, id)
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Field != "program_id" {
			t.Errorf("id %d: err = %v, want NotFoundError on program_id", id, err)
		}
	}
}
