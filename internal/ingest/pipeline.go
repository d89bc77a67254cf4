package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/tastebase/recipes-api/internal/model"
)

var (
	// ErrSourceMissing means the dataset artifact does not exist. Fatal,
	// surfaced before any record is processed.
	ErrSourceMissing = errors.New("recipe dataset not found")

	// ErrInvalidShape means the dataset, after unwrapping, is not a list of
	// recipe records. Fatal, aborts the run.
	ErrInvalidShape = errors.New("expected a list of recipe records after normalization")
)

const insertBatchSize = 500

// Pipeline loads a raw recipe dataset, normalizes each record and inserts
// the results in batches.
type Pipeline struct {
	db *gorm.DB
}

func NewPipeline(db *gorm.DB) *Pipeline {
	return &Pipeline{db: db}
}

// Run executes one ingestion run over the dataset at path and returns the
// number of recipes imported.
func (p *Pipeline) Run(path string) (int, error) {
	raws, err := LoadDataset(path)
	if err != nil {
		return 0, err
	}

	recipes, skipped := Normalize(raws)
	if skipped > 0 {
		log.Printf("Skipped %d entries that were not recipe objects", skipped)
	}
	if len(recipes) == 0 {
		return 0, nil
	}

	if err := p.db.CreateInBatches(&recipes, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("failed to insert recipes: %w", err)
	}
	return len(recipes), nil
}

// LoadDataset reads the raw dataset. Both a JSON array of records and an
// object keyed by arbitrary strings are accepted; the keyed form is
// unwrapped by taking its values (key order carries no meaning).
func LoadDataset(path string) ([]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}

	switch v := raw.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		records := make([]interface{}, 0, len(v))
		for _, r := range v {
			records = append(records, r)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, path)
	}
}

// Normalize converts raw records into recipes. Entries that are not objects
// are skipped, not fatal; the skip count is returned alongside the recipes.
func Normalize(raws []interface{}) ([]model.Recipe, int) {
	recipes := make([]model.Recipe, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		record, ok := raw.(map[string]interface{})
		if !ok {
			skipped++
			continue
		}
		recipes = append(recipes, normalizeRecord(record))
	}
	return recipes, skipped
}

func normalizeRecord(record map[string]interface{}) model.Recipe {
	nutrients := NutrientsFromRaw(record["nutrients"])

	recipe := model.Recipe{
		Cuisine:     textField(record, "cuisine"),
		Title:       textField(record, "title"),
		Description: textField(record, "description"),
		Serves:      textField(record, "serves"),
		Nutrients:   nutrients,
		PrepTime:    intField(record, "prep_time"),
		CookTime:    intField(record, "cook_time"),
		TotalTime:   intField(record, "total_time"),
	}

	if rating, ok := CleanNumber(record["rating"]); ok {
		recipe.Rating = &rating
	}
	if calories, ok := CaloriesFromNutrients(nutrients); ok {
		recipe.CaloriesNum = &calories
	}
	return recipe
}

func textField(record map[string]interface{}, key string) *string {
	if s, ok := record[key].(string); ok {
		return &s
	}
	return nil
}

func intField(record map[string]interface{}, key string) *int {
	if v, ok := CleanNumber(record[key]); ok {
		n := int(v)
		return &n
	}
	return nil
}
