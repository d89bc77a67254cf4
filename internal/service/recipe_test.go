package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tastebase/recipes-api/internal/model"
	"github.com/tastebase/recipes-api/internal/testdb"
)

func strPtr(s string) *string    { return &s }
func intPtr(n int) *int          { return &n }
func floatPtr(f float64) *float64 { return &f }

func seedRecipes(t *testing.T, db *gorm.DB) []model.Recipe {
	t.Helper()
	recipes := []model.Recipe{
		{Title: strPtr("Avocado Toast"), Cuisine: strPtr("American"), Rating: floatPtr(4.5), TotalTime: intPtr(10), CaloriesNum: intPtr(250)},
		{Title: strPtr("Pad Thai"), Cuisine: strPtr("Thai"), Rating: floatPtr(4.5), TotalTime: intPtr(40), CaloriesNum: intPtr(560)},
		{Title: strPtr("Mystery Stew"), Cuisine: strPtr("American"), TotalTime: intPtr(90)},
		{Title: strPtr("Caesar Salad"), Cuisine: strPtr("Italian"), Rating: floatPtr(3.8), TotalTime: intPtr(15), CaloriesNum: intPtr(320)},
		{Title: strPtr("Lasagna"), Cuisine: strPtr("Italian"), Rating: floatPtr(4.9), TotalTime: intPtr(120), CaloriesNum: intPtr(850)},
	}
	require.NoError(t, db.Create(&recipes).Error)
	return recipes
}

func TestListOrdering(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	page, err := svc.List(context.Background(), 1, 15)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Data, 5)

	// Rating descending, equal ratings broken by id ascending, unrated last.
	titles := make([]string, 0, len(page.Data))
	for _, r := range page.Data {
		titles = append(titles, *r.Title)
	}
	assert.Equal(t, []string{"Lasagna", "Avocado Toast", "Pad Thai", "Caesar Salad", "Mystery Stew"}, titles)
}

func TestListPaginationIsPartition(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	seen := map[uint64]int{}
	var collected []uint64
	for p := 1; p <= 3; p++ {
		page, err := svc.List(context.Background(), p, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 5, page.Total)
		assert.LessOrEqual(t, len(page.Data), 2)
		for _, r := range page.Data {
			seen[r.ID]++
			collected = append(collected, r.ID)
		}
	}

	assert.Len(t, collected, 5)
	for id, n := range seen {
		assert.Equal(t, 1, n, "recipe %d appeared %d times", id, n)
	}
}

func TestListPageBeyondTotal(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	page, err := svc.List(context.Background(), 10, 15)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Empty(t, page.Data)
}

func TestListHugePageIsEmpty(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	// A page this large would wrap the offset multiplication; it must
	// behave like any other page past the end, never re-serve page 1.
	page, err := svc.List(context.Background(), math.MaxInt/2, 200)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Empty(t, page.Data)

	page, err = svc.List(context.Background(), math.MaxInt, 200)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Empty(t, page.Data)
}

func TestSearchHugePageIsEmpty(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	page, err := svc.Search(context.Background(), SearchParams{
		Page:   math.MaxInt/2 + 1,
		Limit:  50,
		Rating: ">=4",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Empty(t, page.Data)
}

func TestSearchCombinesFilters(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	page, err := svc.Search(context.Background(), SearchParams{
		Page:   1,
		Limit:  15,
		Title:  "a",
		Rating: ">=4",
	})
	require.NoError(t, err)

	// "a" matches four titles case-insensitively; rating >= 4 keeps three
	// and excludes both the 3.8 and the unrated record.
	assert.EqualValues(t, 3, page.Total)
	for _, r := range page.Data {
		require.NotNil(t, r.Rating)
		assert.GreaterOrEqual(t, *r.Rating, 4.0)
	}
}

func TestSearchTextFiltersAreCaseInsensitive(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	page, err := svc.Search(context.Background(), SearchParams{Page: 1, Limit: 15, Cuisine: "ITALIAN"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.Search(context.Background(), SearchParams{Page: 1, Limit: 15, Title: "pad"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Pad Thai", *page.Data[0].Title)
}

func TestSearchNumericOperators(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	tests := []struct {
		name   string
		params SearchParams
		total  int64
	}{
		{"calories <=400", SearchParams{Calories: "<=400"}, 2},
		{"total_time <30", SearchParams{TotalTime: "<30"}, 2},
		{"total_time =90", SearchParams{TotalTime: "90"}, 1},
		{"rating >4.5", SearchParams{Rating: ">4.5"}, 1},
		{"rating =4.5", SearchParams{Rating: "4.5"}, 2},
		{"calories >=850", SearchParams{Calories: ">=850"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Page = 1
			tt.params.Limit = 15
			page, err := svc.Search(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Total)
			assert.Len(t, page.Data, int(tt.total))
		})
	}
}

func TestSearchIntegerFieldsTruncate(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	// 10.9 truncates to 10, so only the 10-minute recipe matches <=10.
	page, err := svc.Search(context.Background(), SearchParams{Page: 1, Limit: 15, TotalTime: "<=10.9"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Avocado Toast", *page.Data[0].Title)
}

func TestSearchInvalidFilter(t *testing.T) {
	db := testdb.Open(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	_, err := svc.Search(context.Background(), SearchParams{Page: 1, Limit: 15, Calories: "cheap"})
	require.Error(t, err)

	var fieldErr *FilterFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "calories", fieldErr.Field)
	assert.Equal(t, "cheap", fieldErr.Raw)
}

func TestSearchFirstInvalidFieldWins(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)

	_, err := svc.Search(context.Background(), SearchParams{
		Page:     1,
		Limit:    15,
		Rating:   "bad",
		Calories: "also bad",
	})
	require.Error(t, err)

	var fieldErr *FilterFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "rating", fieldErr.Field)
}

func TestGet(t *testing.T) {
	db := testdb.Open(t)
	seeded := seedRecipes(t, db)
	svc := NewRecipeService(db)

	recipe, err := svc.Get(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Avocado Toast", *recipe.Title)

	_, err = svc.Get(context.Background(), 99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// Exercises the postgres dialect branch (ILIKE, NULLS LAST) end to end.
func TestSearchOrderingPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testdb.OpenPostgres(t)
	seedRecipes(t, db)
	svc := NewRecipeService(db)

	// ILIKE path.
	page, err := svc.Search(context.Background(), SearchParams{Page: 1, Limit: 15, Cuisine: "iTALian"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	// NULLS LAST path.
	page, err = svc.List(context.Background(), 1, 15)
	require.NoError(t, err)
	require.Len(t, page.Data, 5)
	assert.Nil(t, page.Data[4].Rating, "unrated recipe sorts last")
	for i := 1; i < 4; i++ {
		prev, cur := page.Data[i-1], page.Data[i]
		require.NotNil(t, prev.Rating)
		require.NotNil(t, cur.Rating)
		assert.GreaterOrEqual(t, *prev.Rating, *cur.Rating)
	}
}
