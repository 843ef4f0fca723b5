package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ScopeKind, bir belge gereksiniminin bağlı olduğu sahip türü.
type ScopeKind string

const (
	ScopeProgram      ScopeKind = "program"
	ScopeProgramGroup ScopeKind = "program_group"
)

// ErrInvalidScope, gereksinimin ne programa ne gruba (veya ikisine birden)
// bağlandığı durumlarda döner.
var ErrInvalidScope = errors.New("document requirement must belong to exactly one of program or program group")

// RequirementScope, {ForProgram(id) | ForProgramGroup(id)} varyantıdır.
// Alanlar dışa kapalıdır; geçerli bir değer yalnızca kurucular veya
// UnmarshalJSON ile oluşturulabilir.
type RequirementScope struct {
	kind ScopeKind
	id   int64
}

func ForProgram(programID int64) RequirementScope {
	return RequirementScope{kind: ScopeProgram, id: programID}
}

func ForProgramGroup(groupID int64) RequirementScope {
	return RequirementScope{kind: ScopeProgramGroup, id: groupID}
}

// ScopeFromColumns, nullable iki foreign key kolonundan varyantı kurar.
// Repository sınırında kullanılır.
func ScopeFromColumns(programID, programGroupID *int64) (RequirementScope, error) {
	switch {
	case programID != nil && programGroupID == nil:
		return ForProgram(*programID), nil
	case programID == nil && programGroupID != nil:
		return ForProgramGroup(*programGroupID), nil
	default:
		return RequirementScope{}, ErrInvalidScope
	}
}

func (s RequirementScope) Kind() ScopeKind { return s.kind }
func (s RequirementScope) ID() int64       { return s.id }

func (s RequirementScope) IsValid() bool {
	return (s.kind == ScopeProgram || s.kind == ScopeProgramGroup) && s.id > 0
}

// Columns, varyantı (program_id, program_group_id) kolon çiftine çevirir.
func (s RequirementScope) Columns() (programID, programGroupID *int64) {
	id := s.id
	switch s.kind {
	case ScopeProgram:
		return &id, nil
	case ScopeProgramGroup:
		return nil, &id
	}
	return nil, nil
}

// AppliesTo, gereksinimin verilen programa (doğrudan veya grubu üzerinden)
// uygulanıp uygulanmadığını söyler.
func (s RequirementScope) AppliesTo(programID, groupID int64) bool {
	switch s.kind {
	case ScopeProgram:
		return s.id == programID
	case ScopeProgramGroup:
		return s.id == groupID
	}
	return false
}

type scopeJSON struct {
	Type ScopeKind `json:"type"`
	ID   int64     `json:"id"`
}

func (s RequirementScope) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, ErrInvalidScope
	}
	return json.Marshal(scopeJSON{Type: s.kind, ID: s.id})
}

func (s *RequirementScope) UnmarshalJSON(data []byte) error {
	var raw scopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("requirement scope: %w", err)
	}

	candidate := RequirementScope{kind: raw.Type, id: raw.ID}
	if !candidate.IsValid() {
		return ErrInvalidScope
	}
	*s = candidate
	return nil
}

// DocumentRequirement, bir belgenin bir program veya program grubu için
// zorunlu olup olmadığını belirtir.
type DocumentRequirement struct {
	ID         int64            `json:"id"`
	DocumentID int64            `json:"document_id"`
	Scope      RequirementScope `json:"scope"`
	IsRequired bool             `json:"is_required"`
	Document   Document         `json:"document"`
}

// MergeDocumentRequirements, grup ve program seviyesindeki gereksinimleri
// birleştirir. Aynı belge için program seviyesindeki kayıt grup kaydını ezer.
// Sıra: önce grup kayıtları (ezilenler yerinde güncellenir), sonra
// programa özgü yeni belgeler.
func MergeDocumentRequirements(groupLevel, programLevel []DocumentRequirement) []DocumentRequirement {
	merged := make([]DocumentRequirement, 0, len(groupLevel)+len(programLevel))
	index := make(map[int64]int)

	for _, req := range groupLevel {
		if _, ok := index[req.DocumentID]; ok {
			continue
		}
		index[req.DocumentID] = len(merged)
		merged = append(merged, req)
	}
	for _, req := range programLevel {
		if pos, ok := index[req.DocumentID]; ok {
			merged[pos] = req
			continue
		}
		index[req.DocumentID] = len(merged)
		merged = append(merged, req)
	}
	return merged
}
