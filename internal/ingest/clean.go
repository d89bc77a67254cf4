// Package ingest normalizes raw heterogeneous recipe data into catalog
// records and loads them in batches.
package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/tastebase/recipes-api/internal/model"
)

// CleanNumber normalizes a raw numeric-ish value of unknown shape. Anything
// it cannot interpret degrades to absent (ok=false) rather than erroring, so
// stored numeric fields are always either absent or a finite number.
func CleanNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		switch strings.ToLower(s) {
		case "nan", "null":
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return CleanNumber(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// CaloriesFromNutrients extracts an integer calorie count from a nutrient
// map. Numeric values truncate; strings yield their first contiguous run of
// decimal digits ("389 kcal" -> 389); everything else is absent.
func CaloriesFromNutrients(nutrients model.NutrientMap) (int, bool) {
	if nutrients == nil {
		return 0, false
	}
	v, ok := nutrients["calories"]
	if !ok {
		return 0, false
	}

	switch v.Kind {
	case model.NutrientNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return 0, false
		}
		return int(v.Number), true
	case model.NutrientText:
		return firstDigitRun(v.Text)
	default:
		return 0, false
	}
}

// NutrientsFromRaw converts a raw nutrients field into the typed map.
// Anything that is not an object yields a nil map.
func NutrientsFromRaw(value interface{}) model.NutrientMap {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}

	m := make(model.NutrientMap, len(raw))
	for key, v := range raw {
		switch t := v.(type) {
		case string:
			m[key] = model.TextValue(t)
		case float64:
			m[key] = model.NumberValue(t)
		case int:
			m[key] = model.NumberValue(float64(t))
		default:
			m[key] = model.NutrientValue{}
		}
	}
	return m
}

func firstDigitRun(s string) (int, bool) {
	start := -1
	end := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
