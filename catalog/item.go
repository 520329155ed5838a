package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a single catalog record. ID is the store-assigned internal key and is
// never serialised; PublicID is the externally stable identifier.
type Item struct {
	ID                 int64              `json:"-"`
	PublicID           uuid.UUID          `json:"publicId"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	IndustryID         uuid.UUID          `json:"industryId"`
	IndustryName       string             `json:"industryName"`
	Categories         []string           `json:"categories"`
	Tags               []string           `json:"tags"`
	Price              decimal.Decimal    `json:"price"`
	MerchantID         uuid.UUID          `json:"merchantId"`
	Rating             float64            `json:"rating"`
	ComplianceStatus   ComplianceStatus   `json:"complianceStatus"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
	CreatedOn          time.Time          `json:"createdOn"`
	UpdatedOn          time.Time          `json:"updatedOn"`
}

// Draft carries the caller supplied attributes of a new item. System managed
// fields (internal key, public id, timestamps) are not part of it.
type Draft struct {
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	IndustryID         uuid.UUID          `json:"industryId"`
	IndustryName       string             `json:"industryName"`
	Categories         []string           `json:"categories"`
	Tags               []string           `json:"tags"`
	Price              *decimal.Decimal   `json:"price"`
	MerchantID         uuid.UUID          `json:"merchantId"`
	Rating             float64            `json:"rating"`
	ComplianceStatus   ComplianceStatus   `json:"complianceStatus"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
}

// NewItem validates d and builds an item with both timestamps set to now.
// Collections are copied so later changes to d cannot reach the item.
func NewItem(d Draft, publicID uuid.UUID, now time.Time) (Item, error) {
	if err := d.Validate(); err != nil {
		return Item{}, &ValidationError{Op: "create", Err: err}
	}
	if publicID == uuid.Nil {
		return Item{}, NewValidationError("create", "publicId: cannot be blank")
	}

	now = now.UTC()
	return Item{
		PublicID:           publicID,
		Title:              d.Title,
		Description:        d.Description,
		IndustryID:         d.IndustryID,
		IndustryName:       d.IndustryName,
		Categories:         cloneStrings(d.Categories),
		Tags:               cloneStrings(d.Tags),
		Price:              *d.Price,
		MerchantID:         d.MerchantID,
		Rating:             d.Rating,
		ComplianceStatus:   d.ComplianceStatus,
		AvailabilityStatus: d.AvailabilityStatus,
		CreatedOn:          now,
		UpdatedOn:          now,
	}, nil
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	it.Categories = cloneStrings(it.Categories)
	it.Tags = cloneStrings(it.Tags)
	return it
}

// CloneItems deep copies every item of items.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

// HasCategory reports whether the item carries the given category.
func (it Item) HasCategory(category string) bool {
	return containsString(it.Categories, category)
}

// HasTag reports whether the item carries the given tag.
func (it Item) HasTag(tag string) bool {
	return containsString(it.Tags, tag)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
