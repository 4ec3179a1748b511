// Package report computes the summary and monthly breakdowns over an
// already-scoped, already-filtered expense query. All money arithmetic
// uses fixed-point decimals; totals are only rounded when emitted.
package report

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/internal/filter"
	"github.com/jaiparmani/ToolBoxWebServices/internal/scope"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CategoryAmount is one entry of the expense category breakdown.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// CategoryBreakdown serializes as a JSON object whose keys keep the
// slice order (sum descending, name ascending on ties).
type CategoryBreakdown []CategoryAmount

func (cb CategoryBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cb {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteByte('"')
		buf.WriteString(c.Amount.StringFixed(2))
		buf.WriteByte('"')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Summary struct {
	TotalExpenses     decimal.Decimal
	TotalIncome       decimal.Decimal
	TotalDebt         decimal.Decimal
	TotalCredit       decimal.Decimal
	NetBalance        decimal.Decimal
	TransactionCount  int
	CategoryBreakdown CategoryBreakdown
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"total_expenses":     s.TotalExpenses.StringFixed(2),
		"total_income":       s.TotalIncome.StringFixed(2),
		"total_debt":         s.TotalDebt.StringFixed(2),
		"total_credit":       s.TotalCredit.StringFixed(2),
		"net_balance":        s.NetBalance.StringFixed(2),
		"transaction_count":  s.TransactionCount,
		"category_breakdown": s.CategoryBreakdown,
	})
}

// Summarize computes per-kind totals, net balance and the expense
// category breakdown over the user's filtered records. Repayment
// records count toward transaction_count but toward none of the four
// totals.
func (e *Engine) Summarize(userID uint, f filter.Filters) (Summary, error) {
	var expenses []models.Expense
	q := f.Apply(scope.Owned(e.db.Model(&models.Expense{}), userID))
	if err := q.Preload("Category").Find(&expenses).Error; err != nil {
		return Summary{}, err
	}

	s := Summary{
		TotalExpenses: decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalDebt:     decimal.Zero,
		TotalCredit:   decimal.Zero,
	}
	byCategory := map[string]decimal.Decimal{}

	for _, exp := range expenses {
		switch exp.TransactionType {
		case models.TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(exp.Amount)
			byCategory[exp.Category.Name] = byCategory[exp.Category.Name].Add(exp.Amount)
		case models.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(exp.Amount)
		case models.TypeDebt:
			s.TotalDebt = s.TotalDebt.Add(exp.Amount)
		case models.TypeCredit:
			s.TotalCredit = s.TotalCredit.Add(exp.Amount)
		}
	}

	s.TransactionCount = len(expenses)
	s.NetBalance = s.TotalIncome.Add(s.TotalCredit).Sub(s.TotalExpenses.Add(s.TotalDebt))

	s.CategoryBreakdown = make(CategoryBreakdown, 0, len(byCategory))
	for name, total := range byCategory {
		s.CategoryBreakdown = append(s.CategoryBreakdown, CategoryAmount{Name: name, Amount: total})
	}
	sort.Slice(s.CategoryBreakdown, func(i, j int) bool {
		a, b := s.CategoryBreakdown[i], s.CategoryBreakdown[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Name < b.Name
	})

	return s, nil
}

type DayTotal struct {
	Date  string `json:"date"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

type CategoryTotal struct {
	Name  string `json:"category__name"`
	Color string `json:"category__color"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

type Monthly struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	DailyTotals    []DayTotal      `json:"daily_totals"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
	TotalAmount    string          `json:"total_amount"`
	TotalCount     int             `json:"total_count"`
}

// MonthOf normalizes a report period. Zero values default to the
// current year and month; an out-of-range month or a year before 1
// fails with ErrInvalidDateRange.
func MonthOf(year, month int, now time.Time) (int, int, error) {
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, apperr.Wrap(apperr.ErrInvalidDateRange, "month %d", month)
	}
	if year < 1 {
		return 0, 0, apperr.Wrap(apperr.ErrInvalidDateRange, "year %d", year)
	}
	return year, month, nil
}

// MonthlyReport restricts the user's records to the given month and
// produces per-day totals (date ascending), per-category totals (sum
// descending) and the grand total.
func (e *Engine) MonthlyReport(userID uint, year, month int) (Monthly, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	var expenses []models.Expense
	err := scope.Owned(e.db.Model(&models.Expense{}), userID).
		Where("date >= ? AND date < ?", first, next).
		Preload("Category").
		Find(&expenses).Error
	if err != nil {
		return Monthly{}, err
	}

	type agg struct {
		total decimal.Decimal
		count int
		name  string
		color string
	}
	byDay := map[string]*agg{}
	byCategory := map[uint]*agg{}
	total := decimal.Zero

	for _, exp := range expenses {
		day := exp.Date.Format(filter.DateLayout)
		d, ok := byDay[day]
		if !ok {
			d = &agg{}
			byDay[day] = d
		}
		d.total = d.total.Add(exp.Amount)
		d.count++

		c, ok := byCategory[exp.CategoryID]
		if !ok {
			c = &agg{name: exp.Category.Name, color: exp.Category.Color}
			byCategory[exp.CategoryID] = c
		}
		c.total = c.total.Add(exp.Amount)
		c.count++

		total = total.Add(exp.Amount)
	}

	m := Monthly{
		Year:        year,
		Month:       month,
		TotalAmount: total.StringFixed(2),
		TotalCount:  len(expenses),
	}

	m.DailyTotals = make([]DayTotal, 0, len(byDay))
	for day, a := range byDay {
		m.DailyTotals = append(m.DailyTotals, DayTotal{Date: day, Total: a.total.StringFixed(2), Count: a.count})
	}
	sort.Slice(m.DailyTotals, func(i, j int) bool { return m.DailyTotals[i].Date < m.DailyTotals[j].Date })

	type catEntry struct {
		agg   *agg
		total decimal.Decimal
	}
	entries := make([]catEntry, 0, len(byCategory))
	for _, a := range byCategory {
		entries = append(entries, catEntry{agg: a, total: a.total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].total.Equal(entries[j].total) {
			return entries[i].total.GreaterThan(entries[j].total)
		}
		return entries[i].agg.name < entries[j].agg.name
	})
	m.CategoryTotals = make([]CategoryTotal, 0, len(entries))
	for _, e := range entries {
		m.CategoryTotals = append(m.CategoryTotals, CategoryTotal{
			Name:  e.agg.name,
			Color: e.agg.color,
			Total: e.total.StringFixed(2),
			Count: e.agg.count,
		})
	}

	return m, nil
}
