package bunstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

const (
	tableName          = "catalog_items"
	tableAlias         = "ci"
	publicIDIndex      = "catalog_items_public_id_uidx"
	likeEscape         = "!"
	compiledEmptyMatch = "1 = 0"
)

// itemRow is the persisted layout of a catalog item. Categories and tags are
// stored as JSON arrays.
type itemRow struct {
	bun.BaseModel `bun:"table:catalog_items,alias:ci"`

	ID                 int64           `bun:"id,pk,autoincrement"`
	PublicID           uuid.UUID       `bun:"public_id,type:varchar(36),notnull"`
	Title              string          `bun:"title,notnull"`
	Description        string          `bun:"description,notnull"`
	IndustryID         uuid.UUID       `bun:"industry_id,type:varchar(36),notnull"`
	IndustryName       string          `bun:"industry_name,notnull"`
	Categories         []string        `bun:"categories,type:jsonb,notnull"`
	Tags               []string        `bun:"tags,type:jsonb,notnull"`
	Price              decimal.Decimal `bun:"price,type:decimal(12,2),notnull"`
	MerchantID         uuid.UUID       `bun:"merchant_id,type:varchar(36),notnull"`
	Rating             float64         `bun:"rating,type:double precision,notnull"`
	ComplianceStatus   string          `bun:"compliance_status,notnull"`
	AvailabilityStatus string          `bun:"availability_status,notnull"`
	CreatedOn          time.Time       `bun:"created_on,notnull"`
	UpdatedOn          time.Time       `bun:"updated_on,notnull"`
}

func toRow(it catalog.Item) *itemRow {
	return &itemRow{
		ID:                 it.ID,
		PublicID:           it.PublicID,
		Title:              it.Title,
		Description:        it.Description,
		IndustryID:         it.IndustryID,
		IndustryName:       it.IndustryName,
		Categories:         nonNil(it.Categories),
		Tags:               nonNil(it.Tags),
		Price:              it.Price,
		MerchantID:         it.MerchantID,
		Rating:             it.Rating,
		ComplianceStatus:   it.ComplianceStatus.String(),
		AvailabilityStatus: it.AvailabilityStatus.String(),
		CreatedOn:          it.CreatedOn.UTC(),
		UpdatedOn:          it.UpdatedOn.UTC(),
	}
}

func (r *itemRow) item() catalog.Item {
	return catalog.Item{
		ID:                 r.ID,
		PublicID:           r.PublicID,
		Title:              r.Title,
		Description:        r.Description,
		IndustryID:         r.IndustryID,
		IndustryName:       r.IndustryName,
		Categories:         nonNil(r.Categories),
		Tags:               nonNil(r.Tags),
		Price:              r.Price,
		MerchantID:         r.MerchantID,
		Rating:             r.Rating,
		ComplianceStatus:   catalog.ComplianceStatus(r.ComplianceStatus),
		AvailabilityStatus: catalog.AvailabilityStatus(r.AvailabilityStatus),
		CreatedOn:          r.CreatedOn.UTC(),
		UpdatedOn:          r.UpdatedOn.UTC(),
	}
}

func rowsToItems(rows []*itemRow) []catalog.Item {
	out := make([]catalog.Item, len(rows))
	for i, r := range rows {
		out[i] = r.item()
	}
	return out
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
