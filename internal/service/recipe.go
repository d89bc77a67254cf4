package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/tastebase/recipes-api/internal/filter"
	"github.com/tastebase/recipes-api/internal/model"
)

// Columns numeric filters may target. Column names and operators both come
// from closed sets, so assembled SQL fragments never carry user input.
const (
	columnRating      = "rating"
	columnTotalTime   = "total_time"
	columnCaloriesNum = "calories_num"
)

// SearchParams carries the validated inputs of one search call. Page and
// Limit bounds are enforced by the caller; the numeric filter strings are
// parsed here.
type SearchParams struct {
	Page  int
	Limit int

	Title   string
	Cuisine string

	Rating    string
	TotalTime string
	Calories  string
}

// ResultPage is one page of recipes plus the count of all matches.
type ResultPage struct {
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
	Data  []model.Recipe `json:"data"`
}

// FilterFieldError reports which search field carried a malformed filter
// string. A single bad filter aborts the whole query; nothing is silently
// ignored.
type FilterFieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FilterFieldError) Error() string {
	return fmt.Sprintf("invalid %s filter %q: %v", e.Field, e.Raw, e.Err)
}

func (e *FilterFieldError) Unwrap() error { return e.Err }

// RecipeService handles catalog queries.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// List returns one unfiltered page.
func (s *RecipeService) List(ctx context.Context, page, limit int) (*ResultPage, error) {
	query := s.db.WithContext(ctx).Model(&model.Recipe{})
	return s.paginate(query, page, limit)
}

// Search returns one page of recipes matching the conjunction of all active
// filters.
func (s *RecipeService) Search(ctx context.Context, params SearchParams) (*ResultPage, error) {
	query, err := s.compose(s.db.WithContext(ctx).Model(&model.Recipe{}), params)
	if err != nil {
		return nil, err
	}
	return s.paginate(query, params.Page, params.Limit)
}

// Get retrieves a recipe by ID.
func (s *RecipeService) Get(ctx context.Context, id uint64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// compose ANDs all active predicates onto query. Numeric fields are
// evaluated in a fixed order so the first malformed filter wins.
func (s *RecipeService) compose(query *gorm.DB, params SearchParams) (*gorm.DB, error) {
	if params.Title != "" {
		query = s.contains(query, "title", params.Title)
	}
	if params.Cuisine != "" {
		query = s.contains(query, "cuisine", params.Cuisine)
	}

	numeric := []struct {
		field   string
		column  string
		raw     string
		castInt bool
	}{
		{"rating", columnRating, params.Rating, false},
		{"total_time", columnTotalTime, params.TotalTime, true},
		{"calories", columnCaloriesNum, params.Calories, true},
	}
	for _, f := range numeric {
		if f.raw == "" {
			continue
		}
		expr, err := filter.Parse(f.raw)
		if err != nil {
			return nil, &FilterFieldError{Field: f.field, Raw: f.raw, Err: err}
		}
		query = applyNumericFilter(query, f.column, expr, f.castInt)
	}
	return query, nil
}

// contains adds a case-insensitive substring predicate.
func (s *RecipeService) contains(query *gorm.DB, column, term string) *gorm.DB {
	if s.db.Dialector.Name() == "postgres" {
		return query.Where(column+" ILIKE ?", "%"+term+"%")
	}
	return query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
}

// applyNumericFilter adds one comparison predicate. Integer columns truncate
// the parsed value, they do not round.
func applyNumericFilter(query *gorm.DB, column string, expr filter.Expression, castInt bool) *gorm.DB {
	cond := fmt.Sprintf("%s %s ?", column, expr.Op)
	if castInt {
		return query.Where(cond, int(expr.Value))
	}
	return query.Where(cond, expr.Value)
}

// paginate counts before slicing so total reflects the full predicate set,
// never the unfiltered collection and never the page size.
func (s *RecipeService) paginate(query *gorm.DB, page, limit int) (*ResultPage, error) {
	// New session so count and fetch each run the statement independently.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	// An offset that would overflow int is past any representable catalog;
	// a wrapped negative value would make GORM skip the OFFSET clause and
	// hand back page-1 rows again.
	if page-1 > math.MaxInt/limit {
		return &ResultPage{Page: page, Limit: limit, Total: total, Data: []model.Recipe{}}, nil
	}

	offset := (page - 1) * limit
	var recipes []model.Recipe
	if err := query.Order(s.stableOrder()).Offset(offset).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	return &ResultPage{Page: page, Limit: limit, Total: total, Data: recipes}, nil
}

// stableOrder keeps pages disjoint across requests: rating descending with
// unrated recipes last, then the monotonic id as tie-break.
func (s *RecipeService) stableOrder() string {
	if s.db.Dialector.Name() == "postgres" {
		return "rating DESC NULLS LAST, id ASC"
	}
	return "rating IS NULL, rating DESC, id ASC"
}
