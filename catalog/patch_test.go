package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedItem(t *testing.T) Item {
	t.Helper()
	item, err := NewItem(validDraft(), uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	item.ID = 42
	return item
}

func TestPatchApplyMergesFieldByField(t *testing.T) {
	current := storedItem(t)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	title := "Quiet Industrial Pump"
	rating := 0.0
	price := decimal.NewFromInt(25)

	next, err := Patch{Title: &title, Rating: &rating, Price: &price}.Apply(current, now)
	require.NoError(t, err)

	assert.Equal(t, title, next.Title)
	assert.Equal(t, 0.0, next.Rating)
	assert.True(t, next.Price.Equal(price))
	assert.Equal(t, current.Description, next.Description)
	assert.Equal(t, current.Categories, next.Categories)
	assert.Equal(t, current.MerchantID, next.MerchantID)

	assert.Equal(t, current.ID, next.ID)
	assert.Equal(t, current.PublicID, next.PublicID)
	assert.Equal(t, current.CreatedOn, next.CreatedOn)
	assert.Equal(t, now, next.UpdatedOn)
}

func TestPatchApplyCollections(t *testing.T) {
	current := storedItem(t)

	kept, err := Patch{}.Apply(current, time.Now())
	require.NoError(t, err)
	assert.Equal(t, current.Tags, kept.Tags)

	cleared, err := Patch{Tags: []string{}}.Apply(current, time.Now())
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)
	assert.NotNil(t, cleared.Tags)

	replaced, err := Patch{Categories: []string{"valves"}}.Apply(current, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"valves"}, replaced.Categories)
	assert.Equal(t, []string{"pumps", "hydraulics"}, current.Categories)
}

func TestPatchApplyIsIdempotent(t *testing.T) {
	current := storedItem(t)
	now := time.Now()
	status := NonCompliant
	p := Patch{ComplianceStatus: &status}

	once, err := p.Apply(current, now)
	require.NoError(t, err)
	twice, err := p.Apply(once, now)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestPatchApplyValidatesMergedItem(t *testing.T) {
	current := storedItem(t)
	blank := " "

	_, err := Patch{IndustryName: &blank}.Apply(current, time.Now())
	assert.True(t, IsValidation(err))
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{Tags: []string{}}.IsEmpty())
}

func TestPatchValidate(t *testing.T) {
	blank := "   "
	short := "ab"
	negative := decimal.NewFromInt(-1)
	tooHigh := 5.5
	bogus := ComplianceStatus("MAYBE")
	nilID := uuid.Nil
	title := "Valid Title"

	tests := []struct {
		name  string
		patch Patch
		field string
	}{
		{name: "empty patch", patch: Patch{}},
		{name: "valid title", patch: Patch{Title: &title}},
		{name: "blank title", patch: Patch{Title: &blank}, field: "title"},
		{name: "short title", patch: Patch{Title: &short}, field: "title"},
		{name: "negative price", patch: Patch{Price: &negative}, field: "price"},
		{name: "rating above range", patch: Patch{Rating: &tooHigh}, field: "rating"},
		{name: "unknown compliance", patch: Patch{ComplianceStatus: &bogus}, field: "complianceStatus"},
		{name: "nil merchant", patch: Patch{MerchantID: &nilID}, field: "merchantId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidationAcceptsRealIDs(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.Validate())

	item, err := NewItem(d, uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, item.Validate())

	industry := uuid.New()
	merchant := uuid.New()
	name := "Logistics"
	p := Patch{IndustryID: &industry, IndustryName: &name, MerchantID: &merchant}
	require.NoError(t, p.Validate())

	next, err := p.Apply(item, time.Now())
	require.NoError(t, err)
	assert.Equal(t, industry, next.IndustryID)
	assert.Equal(t, merchant, next.MerchantID)
}

func TestRequiredUUIDRule(t *testing.T) {
	id := uuid.New()
	nilID := uuid.Nil
	var nilPtr *uuid.UUID
	text := id.String()

	assert.NoError(t, requiredUUID.Validate(id))
	assert.NoError(t, requiredUUID.Validate(&id))
	assert.NoError(t, requiredUUID.Validate(text))
	assert.NoError(t, requiredUUID.Validate(&text))
	assert.Error(t, requiredUUID.Validate(uuid.Nil))
	assert.Error(t, requiredUUID.Validate(&nilID))
	assert.Error(t, requiredUUID.Validate(nilPtr))
	assert.Error(t, requiredUUID.Validate("not-a-uuid"))
}
