package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patch is a partial update. Nil fields keep the stored value. For Categories
// and Tags a nil slice keeps the stored value and a non-nil slice, even an
// empty one, replaces it.
type Patch struct {
	Title              *string             `json:"title,omitempty"`
	Description        *string             `json:"description,omitempty"`
	IndustryID         *uuid.UUID          `json:"industryId,omitempty"`
	IndustryName       *string             `json:"industryName,omitempty"`
	Categories         []string            `json:"categories,omitempty"`
	Tags               []string            `json:"tags,omitempty"`
	Price              *decimal.Decimal    `json:"price,omitempty"`
	MerchantID         *uuid.UUID          `json:"merchantId,omitempty"`
	Rating             *float64            `json:"rating,omitempty"`
	ComplianceStatus   *ComplianceStatus   `json:"complianceStatus,omitempty"`
	AvailabilityStatus *AvailabilityStatus `json:"availabilityStatus,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IndustryID == nil &&
		p.IndustryName == nil && p.Categories == nil && p.Tags == nil &&
		p.Price == nil && p.MerchantID == nil && p.Rating == nil &&
		p.ComplianceStatus == nil && p.AvailabilityStatus == nil
}

// Apply merges the patch over current and returns the result. The internal
// key, public id and CreatedOn always come from current; UpdatedOn is set to
// now. The merged item is validated and current is never modified.
func (p Patch) Apply(current Item, now time.Time) (Item, error) {
	next := current.Clone()

	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.IndustryID != nil {
		next.IndustryID = *p.IndustryID
	}
	if p.IndustryName != nil {
		next.IndustryName = *p.IndustryName
	}
	if p.Categories != nil {
		next.Categories = cloneStrings(p.Categories)
	}
	if p.Tags != nil {
		next.Tags = cloneStrings(p.Tags)
	}
	if p.Price != nil {
		next.Price = *p.Price
	}
	if p.MerchantID != nil {
		next.MerchantID = *p.MerchantID
	}
	if p.Rating != nil {
		next.Rating = *p.Rating
	}
	if p.ComplianceStatus != nil {
		next.ComplianceStatus = *p.ComplianceStatus
	}
	if p.AvailabilityStatus != nil {
		next.AvailabilityStatus = *p.AvailabilityStatus
	}

	next.ID = current.ID
	next.PublicID = current.PublicID
	next.CreatedOn = current.CreatedOn
	next.UpdatedOn = now.UTC()

	if err := next.Validate(); err != nil {
		return Item{}, &ValidationError{Op: "update", Err: err}
	}
	return next, nil
}
