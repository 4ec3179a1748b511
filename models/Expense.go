package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeExpense   TransactionType = "expense"
	TypeIncome    TransactionType = "income"
	TypeCredit    TransactionType = "credit"
	TypeDebt      TransactionType = "debt"
	TypeRepayment TransactionType = "repayment"
)

// TransactionTypes lists every kind an expense record may carry.
// Categories allow all but repayment.
var TransactionTypes = []TransactionType{TypeExpense, TypeIncome, TypeCredit, TypeDebt, TypeRepayment}

func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Expense struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user" gorm:"not null;index:idx_expenses_user_date,priority:1"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	TransactionType TransactionType `json:"transaction_type" gorm:"type:varchar(20);not null;default:expense;index"`
	CategoryID      uint            `json:"category_id" gorm:"not null;index"`
	Category        Category        `json:"category"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	Date            time.Time       `json:"date" gorm:"type:date;not null;index:idx_expenses_user_date,priority:2;index"`
	Tags            []Tag           `json:"tags" gorm:"many2many:expense_tags"`

	// Debt/repayment chain
	RelatedExpenseID *uint  `json:"related_expense" gorm:"index"`
	LenderBorrower   string `json:"lender_borrower" gorm:"type:varchar(100)"`

	ReceiptImage  string `json:"receipt_image" gorm:"type:varchar(255)"`
	Location      string `json:"location" gorm:"type:varchar(255)"`
	PaymentMethod string `json:"payment_method" gorm:"type:varchar(50)"`

	IsRecurring       bool   `json:"is_recurring" gorm:"not null;default:false"`
	RecurringInterval string `json:"recurring_interval" gorm:"type:varchar(20)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceEffect returns the signed contribution of this record to the
// account balance: positive for income/credit/repayment, negative for
// expense/debt.
func (e Expense) BalanceEffect() decimal.Decimal {
	switch e.TransactionType {
	case TypeIncome, TypeCredit, TypeRepayment:
		return e.Amount
	case TypeExpense, TypeDebt:
		return e.Amount.Neg()
	}
	return decimal.Zero
}

// IsRecent reports whether the record's date is within the last 7 days.
func (e Expense) IsRecent(now time.Time) bool {
	weekAgo := now.AddDate(0, 0, -7)
	cutoff := time.Date(weekAgo.Year(), weekAgo.Month(), weekAgo.Day(), 0, 0, 0, 0, time.UTC)
	return !e.Date.Before(cutoff)
}

func (e Expense) IsDebtRelated() bool {
	return e.TransactionType == TypeDebt || e.TransactionType == TypeRepayment
}
