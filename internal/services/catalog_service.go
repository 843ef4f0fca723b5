package services

import (
	"fmt"
	"log"
	"time"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/cache"
)

// CatalogCacheKey, birleştirilmiş program ağacının cache anahtarı.
const CatalogCacheKey = "catalog:program_groups"

// DefaultCatalogTTL, katalog cache süresi.
const DefaultCatalogTTL = 10 * time.Minute

// CatalogSource, referans veri deposundan ham ağacı okur.
type CatalogSource interface {
	LoadTree() ([]models.ProgramGroup, error)
}

// Catalog, birleştirilmiş program ağacının değiştirilmeyen bir kopyasıdır.
// Çözümleyici, kural üretici ve hata çevirici aynı kopyayı kullanır.
type Catalog struct {
	Groups []models.ProgramGroup
}

// Programs, ağacı düz bir program listesine çevirir.
func (c *Catalog) Programs() []models.Program {
	var programs []models.Program
	for _, group := range c.Groups {
		programs = append(programs, group.Programs...)
	}
	return programs
}

// FindProgram, katalog küçük olduğu için doğrusal arama yapar.
func (c *Catalog) FindProgram(id int64) (models.Program, bool) {
	for _, group := range c.Groups {
		for _, program := range group.Programs {
			if program.ID == id {
				return program, true
			}
		}
	}
	return models.Program{}, false
}

// CatalogService, program kataloğunu TTL'li cache üzerinden sunar.
type CatalogService struct {
	source CatalogSource
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

func NewCatalogService(source CatalogSource, c cache.Cache, ttl time.Duration, logger *log.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogService{source: source, cache: c, ttl: ttl, logger: logger}
}

// ProgramGroups, birleştirilmiş grup ağacını döndürür. Cache miss veya süre
// dolumunda depodan okunur ve cache'e yazılır. Eşzamanlı miss'ler depoyu
// birden fazla kez okuyabilir.
func (s *CatalogService) ProgramGroups() ([]models.ProgramGroup, error) {
	var groups []models.ProgramGroup
	err := cache.Remember(s.cache, s.logger, CatalogCacheKey, s.ttl, &groups, func() (interface{}, error) {
		s.logger.Println("🔄 Program kataloğu yeniden oluşturuluyor...")
		tree, err := s.source.LoadTree()
		if err != nil {
			return nil, err
		}
		return MergeCatalog(tree), nil
	})
	if err != nil {
		return nil, fmt.Errorf("load program catalog: %w", err)
	}
	if groups == nil {
		groups = []models.ProgramGroup{}
	}
	return groups, nil
}

// Snapshot, bu istek boyunca kullanılacak katalog kopyasını döndürür.
func (s *CatalogService) Snapshot() (*Catalog, error) {
	groups, err := s.ProgramGroups()
	if err != nil {
		return nil, err
	}
	return &Catalog{Groups: groups}, nil
}

// Forget, cache'teki ağacı siler; sonraki okuma depodan yapılır.
func (s *CatalogService) Forget() error {
	if err := s.cache.Delete(CatalogCacheKey); err != nil {
		return fmt.Errorf("evict program catalog: %w", err)
	}
	s.logger.Println("🧹 Program kataloğu cache'ten silindi")
	return nil
}

// MergeCatalog, grup düzeyindeki sınav ve belge gereksinimlerini her
// programa aktarır ve gruptan kaldırır. Sınavlar ID'ye göre tekilleşir,
// önce grubun listesi gelir. Aynı belge için program düzeyi kayıt grup
// düzeyindekinin yerini alır.
func MergeCatalog(groups []models.ProgramGroup) []models.ProgramGroup {
	merged := make([]models.ProgramGroup, len(groups))

	for i, group := range groups {
		programs := make([]models.Program, len(group.Programs))
		for j, program := range group.Programs {
			program.ExaminationResults = models.MergeExaminationResults(group.ExaminationResults, program.ExaminationResults)
			program.DocumentRequirements = models.MergeDocumentRequirements(group.DocumentRequirements, program.DocumentRequirements)
			if program.SubjectCombinations == nil {
				program.SubjectCombinations = []models.SubjectCombination{}
			}
			programs[j] = program
		}

		group.Programs = programs
		group.ExaminationResults = nil
		group.DocumentRequirements = nil
		merged[i] = group
	}
	return merged
}
