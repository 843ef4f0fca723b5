package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList, JSON kolonunda saklanan sıralı string listesi.
// Okuma/yazma dönüşümü yalnızca bu tipte yapılır.
type StringList []string

// Scan, sql.Scanner implementasyonu. NULL boş liste olarak okunur.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringList: unsupported source type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Value, driver.Valuer implementasyonu.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
