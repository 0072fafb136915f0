package models

import "time"

// Expense status values. Transitions run pending -> approved -> paid in
// practice, but no state machine is enforced below the UI.
const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpensePaid     = "paid"
)

// RecurringRule describes a repeating expense schedule.
type RecurringRule struct {
	Frequency   string    `json:"frequency"` // monthly, quarterly, yearly
	NextDueDate time.Time `json:"nextDueDate"`
}

// Expense is a company outgoing payment.
type Expense struct {
	ID          string         `json:"id"`
	Amount      float64        `json:"amount"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Vendor      string         `json:"vendor"`
	Date        time.Time      `json:"date"`
	ReceiptURL  string         `json:"receiptUrl,omitempty"`
	TaxAmount   float64        `json:"taxAmount,omitempty"`
	Status      string         `json:"status"`
	CreatedBy   string         `json:"createdBy"`
	CompanyID   string         `json:"companyId"`
	Recurring   *RecurringRule `json:"recurring,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
