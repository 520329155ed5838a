package catalog

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 255
	DescriptionMinLength = 10
	DescriptionMaxLength = 4000
	RatingMin            = 0.0
	RatingMax            = 5.0
)

var (
	notBlank = validation.By(func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v != nil {
				s = *v
			}
		}
		if strings.TrimSpace(s) == "" {
			return errors.New("cannot be blank")
		}
		return nil
	})

	// requiredUUID switches on the raw value: ozzo's Indirect turns a
	// uuid.UUID into its driver.Valuer string.
	requiredUUID = validation.By(func(value interface{}) error {
		var id uuid.UUID
		switch v := value.(type) {
		case uuid.UUID:
			id = v
		case *uuid.UUID:
			if v != nil {
				id = *v
			}
		case string:
			id, _ = uuid.Parse(v)
		case *string:
			if v != nil {
				id, _ = uuid.Parse(*v)
			}
		}
		if id == uuid.Nil {
			return errors.New("cannot be blank")
		}
		return nil
	})

	nonNegativePrice = validation.By(func(value interface{}) error {
		switch p := value.(type) {
		case decimal.Decimal:
			if p.IsNegative() {
				return errors.New("must be no less than 0")
			}
		case *decimal.Decimal:
			if p == nil {
				return errors.New("cannot be blank")
			}
			if p.IsNegative() {
				return errors.New("must be no less than 0")
			}
		}
		return nil
	})

	complianceRule   = validation.In(Compliant, NonCompliant).Error("must be COMPLIANT or NON_COMPLIANT")
	availabilityRule = validation.In(Available, Unavailable).Error("must be AVAILABLE or UNAVAILABLE")
	ratingRules      = []validation.Rule{validation.Min(RatingMin), validation.Max(RatingMax)}
)

// Validate checks the draft against the item field rules.
func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, notBlank, validation.RuneLength(TitleMinLength, TitleMaxLength)),
		validation.Field(&d.Description, notBlank, validation.RuneLength(DescriptionMinLength, DescriptionMaxLength)),
		validation.Field(&d.IndustryID, requiredUUID),
		validation.Field(&d.IndustryName, notBlank),
		validation.Field(&d.Price, nonNegativePrice),
		validation.Field(&d.MerchantID, requiredUUID),
		validation.Field(&d.Rating, ratingRules...),
		validation.Field(&d.ComplianceStatus, validation.Required, complianceRule),
		validation.Field(&d.AvailabilityStatus, validation.Required, availabilityRule),
	)
}

// Validate checks a fully built item. Timestamps and the internal key are not
// validated.
func (it Item) Validate() error {
	return validation.ValidateStruct(&it,
		validation.Field(&it.PublicID, requiredUUID),
		validation.Field(&it.Title, notBlank, validation.RuneLength(TitleMinLength, TitleMaxLength)),
		validation.Field(&it.Description, notBlank, validation.RuneLength(DescriptionMinLength, DescriptionMaxLength)),
		validation.Field(&it.IndustryID, requiredUUID),
		validation.Field(&it.IndustryName, notBlank),
		validation.Field(&it.Price, nonNegativePrice),
		validation.Field(&it.MerchantID, requiredUUID),
		validation.Field(&it.Rating, ratingRules...),
		validation.Field(&it.ComplianceStatus, validation.Required, complianceRule),
		validation.Field(&it.AvailabilityStatus, validation.Required, availabilityRule),
	)
}

// Validate checks the populated fields of the patch on their own, so a bad
// patch is rejected before the stored item is read.
func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.When(p.Title != nil, notBlank, validation.RuneLength(TitleMinLength, TitleMaxLength))),
		validation.Field(&p.Description, validation.When(p.Description != nil, notBlank, validation.RuneLength(DescriptionMinLength, DescriptionMaxLength))),
		validation.Field(&p.IndustryID, validation.When(p.IndustryID != nil, requiredUUID)),
		validation.Field(&p.IndustryName, validation.When(p.IndustryName != nil, notBlank)),
		validation.Field(&p.Price, validation.When(p.Price != nil, nonNegativePrice)),
		validation.Field(&p.MerchantID, validation.When(p.MerchantID != nil, requiredUUID)),
		validation.Field(&p.Rating, ratingRules...),
		validation.Field(&p.ComplianceStatus, validation.When(p.ComplianceStatus != nil, validation.Required, complianceRule)),
		validation.Field(&p.AvailabilityStatus, validation.When(p.AvailabilityStatus != nil, validation.Required, availabilityRule)),
	)
}
