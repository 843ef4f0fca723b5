package models

// ExaminationResult, bir programın talep edebileceği önceki öğrenim
// belgesinin kontrollü etiketi (ör. "Matric").
type ExaminationResult struct {
	BaseModel
	Title    string  `json:"title" db:"title"`
	Subtitle *string `json:"subtitle,omitempty" db:"subtitle"`
}

// MergeExaminationResults, listeleri sırayı koruyarak birleştirir; aynı ID'ye
// sahip kayıtlar bir kez alınır.
func MergeExaminationResults(lists ...[]ExaminationResult) []ExaminationResult {
	seen := make(map[int64]bool)
	merged := make([]ExaminationResult, 0)

	for _, list := range lists {
		for _, result := range list {
			if seen[result.ID] {
				continue
			}
			seen[result.ID] = true
			merged = append(merged, result)
		}
	}
	return merged
}
