package database

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// -----------------------------------------------------------------------------
// Reflection-Based SQL Scanner
// -----------------------------------------------------------------------------
// Satırları `db` tag'lerine göre struct alanlarına tarar. Her struct tipi için
// kolon → alan yolu eşlemesi bir kez hesaplanır ve cache'lenir. Tip kümesi
// derleme zamanında sabit olduğu için cache'in temizlenmesine gerek yoktur.
// -----------------------------------------------------------------------------

// fieldMap, kolon adından alan index yoluna eşlemedir (embedded struct'lar için çok seviyeli).
type fieldMap map[string][]int

var fieldMapCache sync.Map // reflect.Type -> fieldMap

// structFieldMap, bir struct tipini analiz eder ve cache'den döndürür.
func structFieldMap(structType reflect.Type) fieldMap {
	if cached, ok := fieldMapCache.Load(structType); ok {
		return cached.(fieldMap)
	}

	mapping := make(fieldMap)
	collectFields(structType, nil, mapping)

	actual, _ := fieldMapCache.LoadOrStore(structType, mapping)
	return actual.(fieldMap)
}

func collectFields(structType reflect.Type, prefix []int, mapping fieldMap) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		index := append(append([]int{}, prefix...), i)

		// Embedded struct'ları (BaseModel gibi) özyineli işle
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectFields(field.Type, index, mapping)
			continue
		}

		if !field.IsExported() {
			continue
		}

		tag := strings.SplitN(field.Tag.Get("db"), ",", 2)[0]
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = strings.ToLower(field.Name)
		}

		mapping[tag] = index
	}
}

// ScanStruct, tek bir *sql.Rows satırını bir struct'a tarar.
// Struct'ta karşılığı olmayan kolonlar sessizce atlanır.
func ScanStruct(rows *sql.Rows, dest any) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("scanner: dest bir struct pointer olmalıdır, %T alındı", dest)
	}

	destElem := destValue.Elem()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	mapping := structFieldMap(destElem.Type())

	scanArgs := make([]any, len(cols))
	for i, colName := range cols {
		index, ok := mapping[colName]
		if !ok {
			scanArgs[i] = new(sql.RawBytes)
			continue
		}

		fieldVal := destElem.FieldByIndex(index)
		if !fieldVal.CanSet() {
			return fmt.Errorf("scanner: '%s' alanı ayarlanamıyor", colName)
		}
		scanArgs[i] = fieldVal.Addr().Interface()
	}

	return rows.Scan(scanArgs...)
}

// ScanSlice, tüm *sql.Rows sonuç kümesini bir struct slice'ına tarar.
func ScanSlice(rows *sql.Rows, dest any) error {
	sliceValue := reflect.ValueOf(dest)
	if sliceValue.Kind() != reflect.Ptr || sliceValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("scanner: dest bir slice pointer olmalıdır, %T alındı", dest)
	}

	sliceElem := sliceValue.Elem()
	structType := sliceElem.Type().Elem()

	for rows.Next() {
		item := reflect.New(structType)
		if err := ScanStruct(rows, item.Interface()); err != nil {
			return err
		}
		sliceElem.Set(reflect.Append(sliceElem, item.Elem()))
	}

	return rows.Err()
}
