package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NutrientKind discriminates the value shapes found in raw nutrient maps.
type NutrientKind int

const (
	NutrientAbsent NutrientKind = iota
	NutrientNumber
	NutrientText
)

// NutrientValue is one entry of a recipe's nutrient map. Raw datasets mix
// numbers, unit-suffixed strings and nulls under the same keys, so the value
// carries an explicit kind instead of an interface{}.
type NutrientValue struct {
	Kind   NutrientKind
	Number float64
	Text   string
}

// NumberValue returns a numeric nutrient value.
func NumberValue(n float64) NutrientValue {
	return NutrientValue{Kind: NutrientNumber, Number: n}
}

// TextValue returns a textual nutrient value.
func TextValue(s string) NutrientValue {
	return NutrientValue{Kind: NutrientText, Text: s}
}

// MarshalJSON serializes the value in its original wire shape; absent
// values become null.
func (v NutrientValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case NutrientNumber:
		return json.Marshal(v.Number)
	case NutrientText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON dispatches on the wire shape. Shapes other than number,
// string and null degrade to absent rather than failing the whole map.
func (v *NutrientValue) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*v = NutrientValue{}
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			*v = NutrientValue{}
			return nil
		}
		*v = NumberValue(n)
	}
	return nil
}

// NutrientMap is the JSONB nutrients column.
type NutrientMap map[string]NutrientValue

// Value implements the driver.Valuer interface.
func (m NutrientMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface.
func (m *NutrientMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported nutrients column type %T", value)
	}

	return json.Unmarshal(data, m)
}

// Recipe is a normalized catalog entry. Records are created during ingestion
// and immutable afterwards; CaloriesNum is derived from Nutrients at that
// point and never edited independently. Optional columns are pointers so
// absent values round-trip as SQL NULL and JSON null.
type Recipe struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Cuisine     *string     `gorm:"size:255" json:"cuisine"`
	Title       *string     `gorm:"size:255" json:"title"`
	Rating      *float64    `json:"rating"`
	PrepTime    *int        `json:"prep_time"`
	CookTime    *int        `json:"cook_time"`
	TotalTime   *int        `json:"total_time"`
	Description *string     `gorm:"type:text" json:"description"`
	Nutrients   NutrientMap `gorm:"type:jsonb" json:"nutrients"`
	Serves      *string     `gorm:"size:50" json:"serves"`
	CaloriesNum *int        `json:"calories_num"`
}
