package query

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// Criteria is a sparse filter over catalog items. Every field is optional and
// a nil (or empty) field places no constraint on the result.
//
// Title, Description and IndustryName accept a trailing "*" to request a
// prefix match; without it the text matches anywhere in the field.
// IndustryName follows the same rule at every length: a short name such as
// "IT" is a substring match, not an exact one. Use IndustryID for an exact
// industry.
type Criteria struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	IndustryName *string `json:"industryName,omitempty"`

	IndustryID *uuid.UUID `json:"industryId,omitempty"`
	MerchantID *uuid.UUID `json:"merchantId,omitempty"`

	// Categories and Tags match items holding any of the listed values.
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	MinPrice  *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice  *decimal.Decimal `json:"maxPrice,omitempty"`
	MinRating *float64         `json:"minRating,omitempty"`
	MaxRating *float64         `json:"maxRating,omitempty"`

	ComplianceStatus   *catalog.ComplianceStatus   `json:"complianceStatus,omitempty"`
	AvailabilityStatus *catalog.AvailabilityStatus `json:"availabilityStatus,omitempty"`
}

// IsEmpty reports whether no field is populated.
func (c Criteria) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.IndustryName == nil &&
		c.IndustryID == nil && c.MerchantID == nil &&
		len(c.Categories) == 0 && len(c.Tags) == 0 &&
		c.MinPrice == nil && c.MaxPrice == nil &&
		c.MinRating == nil && c.MaxRating == nil &&
		c.ComplianceStatus == nil && c.AvailabilityStatus == nil
}
