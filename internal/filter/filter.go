// Package filter translates the optional query constraints of the
// expense listing endpoints into a GORM query. All supplied constraints
// combine with AND; absent constraints impose no restriction.
package filter

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type Filters struct {
	DateFrom        *time.Time
	DateTo          *time.Time
	AmountMin       *decimal.Decimal
	AmountMax       *decimal.Decimal
	CategoryID      *uint
	TagIDs          []uint
	TransactionType *models.TransactionType
	Search          string
	IsRecurring     *bool
	Ordering        []string
}

// orderable maps the caller-facing ordering keys to columns. Unknown
// keys are ignored, matching the listing behavior callers rely on.
var orderable = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// Parse reads filter constraints from query parameters. Malformed
// dates, numbers, ids or enum values fail with ErrInvalidFilter.
func Parse(q url.Values) (Filters, error) {
	var f Filters

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "date_from %q", v)
		}
		f.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "date_to %q", v)
		}
		f.DateTo = &t
	}
	if v := q.Get("amount_min"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "amount_min %q", v)
		}
		f.AmountMin = &d
	}
	if v := q.Get("amount_max"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "amount_max %q", v)
		}
		f.AmountMax = &d
	}
	if v := q.Get("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "category %q", v)
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	if v := q.Get("tags"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return f, apperr.Wrap(apperr.ErrInvalidFilter, "tags %q", part)
			}
			f.TagIDs = append(f.TagIDs, uint(id))
		}
	}
	if v := q.Get("transaction_type"); v != "" {
		tt := models.TransactionType(v)
		if !tt.Valid() {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "transaction_type %q", v)
		}
		f.TransactionType = &tt
	}
	if v := q.Get("search"); v != "" {
		f.Search = v
	}
	if v := q.Get("is_recurring"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperr.Wrap(apperr.ErrInvalidFilter, "is_recurring %q", v)
		}
		f.IsRecurring = &b
	}
	if v := q.Get("ordering"); v != "" {
		f.Ordering = strings.Split(v, ",")
	}

	return f, nil
}

// Apply narrows db to records matching every supplied constraint. The
// query stays lazy; callers decide when to execute and how to page it.
func (f Filters) Apply(db *gorm.DB) *gorm.DB {
	if f.DateFrom != nil {
		db = db.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("date <= ?", *f.DateTo)
	}
	if f.AmountMin != nil {
		db = db.Where("amount >= ?", *f.AmountMin)
	}
	if f.AmountMax != nil {
		db = db.Where("amount <= ?", *f.AmountMax)
	}
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if len(f.TagIDs) > 0 {
		// ANY-of-tags via subquery keeps the result deduplicated even
		// when a record holds several matching tags.
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("expense_tags").
			Select("expense_id").
			Where("tag_id IN ?", f.TagIDs)
		db = db.Where("expenses.id IN (?)", sub)
	}
	if f.TransactionType != nil {
		db = db.Where("transaction_type = ?", *f.TransactionType)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where(
			"LOWER(description) LIKE ? OR LOWER(location) LIKE ? OR LOWER(payment_method) LIKE ?",
			like, like, like,
		)
	}
	if f.IsRecurring != nil {
		db = db.Where("is_recurring = ?", *f.IsRecurring)
	}
	return db
}

// Order applies caller-specified ordering, falling back to date
// descending then creation time descending.
func (f Filters) Order(db *gorm.DB) *gorm.DB {
	applied := false
	for _, key := range f.Ordering {
		key = strings.TrimSpace(key)
		desc := strings.HasPrefix(key, "-")
		col, ok := orderable[strings.TrimPrefix(key, "-")]
		if !ok {
			continue
		}
		if desc {
			col += " DESC"
		}
		db = db.Order(col)
		applied = true
	}
	if !applied {
		db = db.Order("date DESC").Order("created_at DESC")
	}
	return db
}
