// Package storetest holds the behaviour every store.Store implementation must
// share. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
	"github.com/goliatone/go-catalog-cache/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

var (
	industryTools  = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	industryFood   = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	merchantAcme   = uuid.MustParse("33333333-3333-4333-8333-333333333333")
	baseTime       = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	defaultBuilder = query.NewBuilder()
)

// Item returns a valid, unsaved item with the given title and price.
func Item(title, price string) catalog.Item {
	return catalog.Item{
		PublicID:           uuid.New(),
		Title:              title,
		Description:        "Description of " + title,
		IndustryID:         industryTools,
		IndustryName:       "Tools",
		Categories:         []string{},
		Tags:               []string{},
		Price:              decimal.RequireFromString(price),
		MerchantID:         merchantAcme,
		Rating:             3,
		ComplianceStatus:   catalog.Compliant,
		AvailabilityStatus: catalog.Available,
		CreatedOn:          baseTime,
		UpdatedOn:          baseTime,
	}
}

// AssertSameItem compares items field by field, tolerating representation
// differences of decimals and timestamps introduced by a store.
func AssertSameItem(t *testing.T, want, got catalog.Item) {
	t.Helper()
	assert.Equal(t, want.PublicID, got.PublicID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.IndustryID, got.IndustryID)
	assert.Equal(t, want.IndustryName, got.IndustryName)
	assert.ElementsMatch(t, want.Categories, got.Categories)
	assert.ElementsMatch(t, want.Tags, got.Tags)
	assert.True(t, want.Price.Equal(got.Price), "price: want %s got %s", want.Price, got.Price)
	assert.Equal(t, want.MerchantID, got.MerchantID)
	assert.InDelta(t, want.Rating, got.Rating, 1e-9)
	assert.Equal(t, want.ComplianceStatus, got.ComplianceStatus)
	assert.Equal(t, want.AvailabilityStatus, got.AvailabilityStatus)
	assert.True(t, want.CreatedOn.Equal(got.CreatedOn), "createdOn: want %s got %s", want.CreatedOn, got.CreatedOn)
	assert.True(t, want.UpdatedOn.Equal(got.UpdatedOn), "updatedOn: want %s got %s", want.UpdatedOn, got.UpdatedOn)
}

// Run exercises newStore against the store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("save inserts and assigns id", func(t *testing.T) { testInsert(t, newStore(t)) })
	t.Run("save replaces", func(t *testing.T) { testReplace(t, newStore(t)) })
	t.Run("save unknown id", func(t *testing.T) { testReplaceMissing(t, newStore(t)) })
	t.Run("duplicate public id", func(t *testing.T) { testConflict(t, newStore(t)) })
	t.Run("delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("price range", func(t *testing.T) { testPriceRange(t, newStore(t)) })
	t.Run("text matching", func(t *testing.T) { testText(t, newStore(t)) })
	t.Run("contains any", func(t *testing.T) { testContainsAny(t, newStore(t)) })
	t.Run("exact fields", func(t *testing.T) { testExact(t, newStore(t)) })
	t.Run("pagination", func(t *testing.T) { testPagination(t, newStore(t)) })
	t.Run("sorting", func(t *testing.T) { testSorting(t, newStore(t)) })
}

func save(t *testing.T, s store.Store, item catalog.Item) catalog.Item {
	t.Helper()
	saved, err := s.Save(context.Background(), item)
	require.NoError(t, err)
	return saved
}

func titles(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func testInsert(t *testing.T, s store.Store) {
	ctx := context.Background()
	item := Item("Hammer", "12.50")
	item.Categories = []string{"hand", "steel"}
	item.Tags = []string{"sale"}

	saved := save(t, s, item)
	require.NotZero(t, saved.ID)
	AssertSameItem(t, item, saved)

	got, err := s.GetByPublicID(ctx, item.PublicID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	AssertSameItem(t, item, got)

	byID, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	AssertSameItem(t, item, byID)

	second := save(t, s, Item("Wrench", "8"))
	assert.Greater(t, second.ID, saved.ID)

	_, err = s.GetByPublicID(ctx, uuid.New())
	assert.True(t, catalog.IsNotFound(err))
	_, err = s.Get(ctx, second.ID+100)
	assert.True(t, catalog.IsNotFound(err))
}

func testReplace(t *testing.T, s store.Store) {
	ctx := context.Background()
	saved := save(t, s, Item("Hammer", "12.50"))

	saved.Title = "Claw Hammer"
	saved.Tags = []string{"new"}
	saved.Price = decimal.RequireFromString("14")
	saved.UpdatedOn = baseTime.Add(time.Hour)
	replaced := save(t, s, saved)
	assert.Equal(t, saved.ID, replaced.ID)

	got, err := s.GetByPublicID(ctx, saved.PublicID)
	require.NoError(t, err)
	AssertSameItem(t, saved, got)

	n, err := s.Count(ctx, query.All())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func testReplaceMissing(t *testing.T, s store.Store) {
	item := Item("Ghost", "1")
	item.ID = 999
	_, err := s.Save(context.Background(), item)
	assert.True(t, catalog.IsNotFound(err), "got %v", err)
}

func testConflict(t *testing.T, s store.Store) {
	first := save(t, s, Item("Hammer", "1"))

	dup := Item("Other", "2")
	dup.PublicID = first.PublicID
	_, err := s.Save(context.Background(), dup)
	assert.True(t, catalog.IsConflict(err), "got %v", err)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	saved := save(t, s, Item("Hammer", "1"))

	require.NoError(t, s.DeleteByPublicID(ctx, saved.PublicID))

	_, err := s.GetByPublicID(ctx, saved.PublicID)
	assert.True(t, catalog.IsNotFound(err))

	err = s.DeleteByPublicID(ctx, saved.PublicID)
	assert.True(t, catalog.IsNotFound(err))
}

func testPriceRange(t *testing.T, s store.Store) {
	ctx := context.Background()
	save(t, s, Item("Ten", "10"))
	save(t, s, Item("Fifty", "50"))
	save(t, s, Item("Hundred", "100"))

	minPrice := decimal.NewFromInt(20)
	maxPrice := decimal.NewFromInt(100)
	p := defaultBuilder.Build(query.Criteria{MinPrice: &minPrice, MaxPrice: &maxPrice})

	got, err := s.Scan(ctx, p)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Fifty", "Hundred"}, titles(got))

	n, err := s.Count(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	spec := query.PageSpec{Page: 0, Size: 10, Sort: []query.SortKey{query.Descending(query.FieldPrice)}}
	page, err := s.ScanPage(ctx, p, spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hundred", "Fifty"}, titles(page))
}

func testText(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := Item("Industrial Pump", "1")
	a.Description = "Moves 100% of liquid_fast"
	a.IndustryName = "Manufacturing"
	b := Item("Garden pump", "1")
	b.IndustryName = "Agriculture"
	c := Item("Pump Jack", "1")
	c.Description = "Oil field equipment"
	save(t, s, a)
	save(t, s, b)
	save(t, s, c)

	str := func(v string) *string { return &v }
	tests := []struct {
		criteria query.Criteria
		want     []string
	}{
		{query.Criteria{Title: str("PUMP")}, []string{"Industrial Pump", "Garden pump", "Pump Jack"}},
		{query.Criteria{Title: str("pump*")}, []string{"Pump Jack"}},
		{query.Criteria{Title: str("*pump")}, []string{"Industrial Pump", "Garden pump", "Pump Jack"}},
		{query.Criteria{IndustryName: str("manu*")}, []string{"Industrial Pump"}},
		{query.Criteria{IndustryName: str("cult")}, []string{"Garden pump"}},
		{query.Criteria{Description: str("100%")}, []string{"Industrial Pump"}},
		{query.Criteria{Description: str("liquid_f")}, []string{"Industrial Pump"}},
		{query.Criteria{Description: str("oil")}, []string{"Pump Jack"}},
		{query.Criteria{Description: str("field")}, []string{"Pump Jack"}},
		{query.Criteria{Title: str("  ")}, []string{"Industrial Pump", "Garden pump", "Pump Jack"}},
	}

	for i, tt := range tests {
		got, err := s.Scan(ctx, defaultBuilder.Build(tt.criteria))
		require.NoError(t, err)
		assert.ElementsMatch(t, tt.want, titles(got), "case %d", i)
	}
}

func testContainsAny(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := Item("A", "1")
	a.Categories = []string{"x", "y"}
	a.Tags = []string{"red"}
	b := Item("B", "1")
	b.Categories = []string{"z"}
	c := Item("C", "1")
	save(t, s, a)
	save(t, s, b)
	save(t, s, c)

	p := defaultBuilder.Build(query.Criteria{Categories: []string{"y", "z"}})
	got, err := s.Scan(ctx, p)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, titles(got))

	all, err := s.Scan(ctx, query.All())
	require.NoError(t, err)
	for _, it := range all {
		matched := it.HasCategory("y") || it.HasCategory("z")
		assert.Equal(t, matched, query.Matches(p, it), it.Title)
	}

	both := defaultBuilder.Build(query.Criteria{Categories: []string{"x", "z"}, Tags: []string{"red"}})
	got, err = s.Scan(ctx, both)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(got))
}

func testExact(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := Item("A", "1")
	a.Rating = 4.5
	a.ComplianceStatus = catalog.NonCompliant
	b := Item("B", "1")
	b.IndustryID = industryFood
	b.AvailabilityStatus = catalog.Unavailable
	b.Rating = 1
	save(t, s, a)
	save(t, s, b)

	nonCompliant := catalog.NonCompliant
	unavailable := catalog.Unavailable
	minRating := 4.5
	maxRating := 2.0
	tests := []struct {
		criteria query.Criteria
		want     []string
	}{
		{query.Criteria{ComplianceStatus: &nonCompliant}, []string{"A"}},
		{query.Criteria{AvailabilityStatus: &unavailable}, []string{"B"}},
		{query.Criteria{IndustryID: &industryFood}, []string{"B"}},
		{query.Criteria{MerchantID: &merchantAcme}, []string{"A", "B"}},
		{query.Criteria{MinRating: &minRating}, []string{"A"}},
		{query.Criteria{MaxRating: &maxRating}, []string{"B"}},
		{query.Criteria{MinRating: &minRating, IndustryID: &industryFood}, []string{}},
	}
	for i, tt := range tests {
		got, err := s.Scan(ctx, defaultBuilder.Build(tt.criteria))
		require.NoError(t, err)
		assert.ElementsMatch(t, tt.want, titles(got), "case %d", i)
	}
}

func testPagination(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		save(t, s, Item(fmt.Sprintf("Item %d", i), "5"))
	}

	total, err := s.Count(ctx, query.All())
	require.NoError(t, err)
	require.Equal(t, int64(7), total)

	size := 3
	var walked []string
	for page := 0; page < query.TotalPages(total, size); page++ {
		items, err := s.ScanPage(ctx, query.All(), query.PageSpec{Page: page, Size: size})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(items), size)
		walked = append(walked, titles(items)...)
	}

	all, err := s.Scan(ctx, query.All())
	require.NoError(t, err)
	assert.Equal(t, titles(all), walked)

	beyond, err := s.ScanPage(ctx, query.All(), query.PageSpec{Page: 10, Size: size})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func testSorting(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := Item("Bravo", "20")
	b.Rating = 2
	a := Item("Alpha", "20")
	a.Rating = 5
	c := Item("Charlie", "10")
	c.Rating = 5
	save(t, s, b)
	save(t, s, a)
	save(t, s, c)

	spec := func(keys ...query.SortKey) query.PageSpec {
		return query.PageSpec{Page: 0, Size: 10, Sort: keys}
	}

	got, err := s.ScanPage(ctx, query.All(), spec(query.Ascending(query.FieldTitle)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, titles(got))

	got, err = s.ScanPage(ctx, query.All(), spec(query.Descending(query.FieldPrice)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, titles(got), "ties fall back to insertion order")

	got, err = s.ScanPage(ctx, query.All(), spec(query.Descending(query.FieldRating), query.Ascending(query.FieldPrice)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, titles(got))

	got, err = s.ScanPage(ctx, query.All(), spec())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, titles(got))

	_, err = s.ScanPage(ctx, query.All(), spec(query.SortKey{Field: "secret", Direction: query.Asc}))
	assert.True(t, catalog.IsValidation(err))
}
