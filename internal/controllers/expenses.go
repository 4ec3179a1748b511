package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/internal/filter"
	"github.com/jaiparmani/ToolBoxWebServices/internal/report"
	"github.com/jaiparmani/ToolBoxWebServices/internal/scope"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

type ExpenseController struct {
	DB      *gorm.DB
	Reports *report.Engine
	Log     *logrus.Logger
}

// expenseRequest covers both create and update. Pointers distinguish
// absent fields from zero values so PUT can be partial.
type expenseRequest struct {
	Amount            *decimal.Decimal `json:"amount"`
	TransactionType   *string          `json:"transaction_type"`
	CategoryID        *uint            `json:"category_id"`
	Description       *string          `json:"description"`
	Date              *string          `json:"date"`
	TagIDs            *[]uint          `json:"tag_ids"`
	RelatedExpenseID  *uint            `json:"related_expense"`
	LenderBorrower    *string          `json:"lender_borrower"`
	ReceiptImage      *string          `json:"receipt_image"`
	Location          *string          `json:"location"`
	PaymentMethod     *string          `json:"payment_method"`
	IsRecurring       *bool            `json:"is_recurring"`
	RecurringInterval *string          `json:"recurring_interval"`
}

var minAmount = decimal.NewFromFloat(0.01)

// List returns the scoped, filtered, paginated records. Without an
// account parameter it degrades to an empty page rather than failing;
// mutating endpoints reject instead.
func (e ExpenseController) List(c *gin.Context) {
	page, size := pagination(c)

	user, ok := scope.FromContext(c)
	if !ok {
		c.JSON(http.StatusOK, paginated{Count: 0, Page: page, PageSize: size, Results: []gin.H{}})
		return
	}

	f, err := filter.Parse(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	base := func() *gorm.DB {
		return f.Apply(scope.Owned(e.DB.Model(&models.Expense{}), user.ID))
	}

	var count int64
	if err := base().Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	var expenses []models.Expense
	err = f.Order(base()).
		Preload("Category").
		Preload("Tags").
		Limit(size).
		Offset((page - 1) * size).
		Find(&expenses).Error
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginated{
		Count:    count,
		Page:     page,
		PageSize: size,
		Results:  serializeExpenses(expenses, expenseListView, time.Now()),
	})
}

func (e ExpenseController) Create(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Amount == nil || req.CategoryID == nil || req.Description == nil || req.Date == nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "amount, category_id, description and date are required"))
		return
	}
	if req.Amount.LessThan(minAmount) {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "amount must be greater than zero"))
		return
	}
	date, err := time.Parse(filter.DateLayout, *req.Date)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "date %q", *req.Date))
		return
	}

	category, err := e.fetchCategory(*req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Kind defaults to the category's declared kind; an explicit kind
	// must agree with it.
	txType := category.TransactionType
	if req.TransactionType != nil {
		txType = models.TransactionType(*req.TransactionType)
		if !txType.Valid() {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "transaction_type %q", *req.TransactionType))
			return
		}
		if txType != category.TransactionType {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "transaction type must match category type (%s)", category.TransactionType))
			return
		}
	}

	exp := models.Expense{
		UserID:           user.ID,
		Amount:           *req.Amount,
		TransactionType:  txType,
		CategoryID:       category.ID,
		Description:      *req.Description,
		Date:             date,
		RelatedExpenseID: req.RelatedExpenseID,
	}
	if req.LenderBorrower != nil {
		exp.LenderBorrower = *req.LenderBorrower
	}
	if req.ReceiptImage != nil {
		exp.ReceiptImage = *req.ReceiptImage
	}
	if req.Location != nil {
		exp.Location = *req.Location
	}
	if req.PaymentMethod != nil {
		exp.PaymentMethod = *req.PaymentMethod
	}
	if req.IsRecurring != nil {
		exp.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		exp.RecurringInterval = *req.RecurringInterval
	}

	var tags []models.Tag
	if req.TagIDs != nil && len(*req.TagIDs) > 0 {
		// Tags belonging to other accounts are silently dropped.
		if err := scope.Owned(e.DB, user.ID).Where("id IN ?", *req.TagIDs).Find(&tags).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	err = e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exp).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			return tx.Model(&exp).Association("Tags").Append(&tags)
		}
		return nil
	})
	if err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}

	created, err := e.fetchOwned(user.ID, exp.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	e.Log.WithFields(logrus.Fields{"expense_id": created.ID, "account": user.ID}).Info("expense created")
	c.JSON(http.StatusCreated, serializeExpense(created, expenseDetailView, time.Now()))
}

func (e ExpenseController) Get(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	exp, err := e.fetchOwned(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializeExpense(exp, expenseDetailView, time.Now()))
}

func (e ExpenseController) Update(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	exp, err := e.fetchOwned(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}

	if req.Amount != nil {
		if req.Amount.LessThan(minAmount) {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "amount must be greater than zero"))
			return
		}
		exp.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := time.Parse(filter.DateLayout, *req.Date)
		if err != nil {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "date %q", *req.Date))
			return
		}
		exp.Date = date
	}
	if req.Description != nil {
		exp.Description = *req.Description
	}

	category := exp.Category
	if req.CategoryID != nil && *req.CategoryID != exp.CategoryID {
		category, err = e.fetchCategory(*req.CategoryID)
		if err != nil {
			respondError(c, err)
			return
		}
		exp.CategoryID = category.ID
		exp.Category = category
	}
	if req.TransactionType != nil {
		txType := models.TransactionType(*req.TransactionType)
		if !txType.Valid() {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "transaction_type %q", *req.TransactionType))
			return
		}
		exp.TransactionType = txType
	}
	if exp.TransactionType != category.TransactionType {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "transaction type must match category type (%s)", category.TransactionType))
		return
	}

	if req.RelatedExpenseID != nil {
		exp.RelatedExpenseID = req.RelatedExpenseID
	}
	if req.LenderBorrower != nil {
		exp.LenderBorrower = *req.LenderBorrower
	}
	if req.ReceiptImage != nil {
		exp.ReceiptImage = *req.ReceiptImage
	}
	if req.Location != nil {
		exp.Location = *req.Location
	}
	if req.PaymentMethod != nil {
		exp.PaymentMethod = *req.PaymentMethod
	}
	if req.IsRecurring != nil {
		exp.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		exp.RecurringInterval = *req.RecurringInterval
	}

	err = e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Category").Save(&exp).Error; err != nil {
			return err
		}
		if req.TagIDs != nil {
			var tags []models.Tag
			if len(*req.TagIDs) > 0 {
				if err := scope.Owned(tx, user.ID).Where("id IN ?", *req.TagIDs).Find(&tags).Error; err != nil {
					return err
				}
			}
			return tx.Model(&exp).Association("Tags").Replace(&tags)
		}
		return nil
	})
	if err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}

	updated, err := e.fetchOwned(user.ID, exp.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializeExpense(updated, expenseDetailView, time.Now()))
}

func (e ExpenseController) Delete(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	exp, err := e.fetchOwned(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	err = e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&exp).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&exp).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary aggregates the scoped, filtered records into per-kind totals
// and the expense category breakdown.
func (e ExpenseController) Summary(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	f, err := filter.Parse(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := e.Reports.Summarize(user.ID, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Recent lists records dated within the last 7 days.
func (e ExpenseController) Recent(c *gin.Context) {
	user, ok := scope.FromContext(c)
	if !ok {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	cutoff := time.Date(weekAgo.Year(), weekAgo.Month(), weekAgo.Day(), 0, 0, 0, 0, time.UTC)

	var expenses []models.Expense
	err := scope.Owned(e.DB.Model(&models.Expense{}), user.ID).
		Where("date >= ?", cutoff).
		Order("date DESC").Order("created_at DESC").
		Preload("Category").
		Preload("Tags").
		Find(&expenses).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializeExpenses(expenses, expenseListView, now))
}

func (e ExpenseController) MonthlyReport(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}

	year, err := intQuery(c, "year")
	if err != nil {
		respondError(c, err)
		return
	}
	month, err := intQuery(c, "month")
	if err != nil {
		respondError(c, err)
		return
	}
	year, month, err = report.MonthOf(year, month, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	monthly, err := e.Reports.MonthlyReport(user.ID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, monthly)
}

func (e ExpenseController) AddTags(c *gin.Context) {
	e.tagOp(c, func(tx *gorm.DB, exp *models.Expense, tags []models.Tag) error {
		return tx.Model(exp).Association("Tags").Append(&tags)
	})
}

func (e ExpenseController) RemoveTags(c *gin.Context) {
	e.tagOp(c, func(tx *gorm.DB, exp *models.Expense, tags []models.Tag) error {
		return tx.Model(exp).Association("Tags").Delete(&tags)
	})
}

func (e ExpenseController) tagOp(c *gin.Context, op func(*gorm.DB, *models.Expense, []models.Tag) error) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	exp, err := e.fetchOwned(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		TagIDs []uint `json:"tag_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.TagIDs) == 0 {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "tag_ids is required"))
		return
	}

	var tags []models.Tag
	if err := scope.Owned(e.DB, user.ID).Where("id IN ?", req.TagIDs).Find(&tags).Error; err != nil {
		respondError(c, err)
		return
	}
	if err := op(e.DB, &exp, tags); err != nil {
		respondError(c, err)
		return
	}

	updated, err := e.fetchOwned(user.ID, exp.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializeExpense(updated, expenseDetailView, time.Now()))
}

func (e ExpenseController) fetchOwned(userID, id uint) (models.Expense, error) {
	var exp models.Expense
	err := scope.Owned(e.DB, userID).
		Preload("Category").
		Preload("Tags").
		First(&exp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return exp, apperr.Wrap(apperr.ErrNotFound, "expense %d", id)
	}
	return exp, err
}

func (e ExpenseController) fetchCategory(id uint) (models.Category, error) {
	var category models.Category
	err := e.DB.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return category, apperr.Wrap(apperr.ErrValidation, "invalid category %d", id)
	}
	return category, err
}

// intQuery parses an optional integer query parameter; 0 means absent.
func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrInvalidDateRange, "%s %q", name, v)
	}
	return n, nil
}
