package repo

import (
	"context"
	"fmt"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// CreateExpense stores a new expense, including the optional recurring
// rule with its own date field.
func (r *Repo) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	now := r.timestamp()
	data := map[string]any{
		"amount":      e.Amount,
		"description": e.Description,
		"category":    e.Category,
		"vendor":      e.Vendor,
		"date":        e.Date,
		"receiptUrl":  e.ReceiptURL,
		"taxAmount":   e.TaxAmount,
		"status":      e.Status,
		"createdBy":   e.CreatedBy,
		"companyId":   e.CompanyID,
		"createdAt":   now,
		"updatedAt":   now,
	}
	if e.Recurring != nil {
		data["recurring"] = map[string]any{
			"frequency":   e.Recurring.Frequency,
			"nextDueDate": e.Recurring.NextDueDate,
		}
	}
	id, err := r.store.Add(ctx, colExpenses, data)
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	stored, err := r.store.Get(ctx, colExpenses, id)
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: read back: %w", err)
	}
	return decodeExpense(stored)
}

// ExpensesByCompany lists the company's expenses by expense date,
// newest first.
func (r *Repo) ExpensesByCompany(ctx context.Context, companyID string) ([]models.Expense, error) {
	if companyID == "" {
		return []models.Expense{}, nil
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colExpenses,
		Filters:    []store.Filter{{Field: "companyId", Value: companyID}},
		OrderBy:    "date",
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("expenses by company: %w", err)
	}
	out := make([]models.Expense, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeExpense(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// UpdateExpenseStatus writes exactly the status field and updatedAt.
// Transition legality is a UI concern, not enforced here.
func (r *Repo) UpdateExpenseStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return ErrMissingID
	}
	fields := map[string]any{
		"status":    status,
		"updatedAt": r.timestamp(),
	}
	if err := r.store.Update(ctx, colExpenses, id, fields); err != nil {
		return fmt.Errorf("update expense status: %w", err)
	}
	return nil
}

func decodeExpense(doc store.Document) (models.Expense, error) {
	d := newDecoder(doc)
	e := models.Expense{
		ID:          doc.ID,
		Amount:      d.num("amount"),
		Description: d.str("description"),
		Category:    d.str("category"),
		Vendor:      d.str("vendor"),
		Date:        d.when("date"),
		ReceiptURL:  d.str("receiptUrl"),
		TaxAmount:   d.num("taxAmount"),
		Status:      d.str("status"),
		CreatedBy:   d.str("createdBy"),
		CompanyID:   d.str("companyId"),
		CreatedAt:   d.when("createdAt"),
		UpdatedAt:   d.when("updatedAt"),
	}
	if rec := d.nested("recurring"); rec != nil {
		e.Recurring = &models.RecurringRule{
			Frequency:   rec.str("frequency"),
			NextDueDate: rec.when("nextDueDate"),
		}
		if rec.err != nil {
			return models.Expense{}, rec.err
		}
	}
	if d.err != nil {
		return models.Expense{}, d.err
	}
	return e, nil
}
