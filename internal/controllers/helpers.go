package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/internal/filter"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// respondError maps an error kind to its status and emits the JSON
// error body shared by every endpoint.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
}

// pagination reads page/page_size with the standard defaults and cap.
func pagination(c *gin.Context) (page, size int) {
	page = 1
	size = defaultPageSize
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			size = s
		}
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// paginated is the standard list envelope.
type paginated struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  any   `json:"results"`
}

// parseID reads a numeric path id. A non-numeric id behaves like any
// other miss.
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrNotFound, "id %q", c.Param("id"))
	}
	return uint(id), nil
}

// expenseView selects the response shape for an expense. List rows
// carry the summary fields; detail adds the ownership and debt-chain
// fields.
type expenseView int

const (
	expenseListView expenseView = iota
	expenseDetailView
)

func serializeExpense(e models.Expense, view expenseView, now time.Time) gin.H {
	tags := e.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	body := gin.H{
		"id":               e.ID,
		"amount":           e.Amount.StringFixed(2),
		"amount_display":   "₹" + e.Amount.StringFixed(2),
		"transaction_type": e.TransactionType,
		"category":         e.Category,
		"description":      e.Description,
		"date":             e.Date.Format(filter.DateLayout),
		"tags":             tags,
		"is_recent":        e.IsRecent(now),
		"balance_effect":   e.BalanceEffect().StringFixed(2),
		"created_at":       e.CreatedAt,
		"updated_at":       e.UpdatedAt,
	}
	if view == expenseDetailView {
		body["user"] = e.UserID
		body["related_expense"] = e.RelatedExpenseID
		body["lender_borrower"] = e.LenderBorrower
		body["receipt_image"] = e.ReceiptImage
		body["location"] = e.Location
		body["payment_method"] = e.PaymentMethod
		body["is_recurring"] = e.IsRecurring
		body["recurring_interval"] = e.RecurringInterval
		body["is_debt_related"] = e.IsDebtRelated()
	}
	return body
}

func serializeExpenses(list []models.Expense, view expenseView, now time.Time) []gin.H {
	out := make([]gin.H, len(list))
	for i, e := range list {
		out[i] = serializeExpense(e, view, now)
	}
	return out
}
