package repo

import (
	"context"
	"fmt"
	"sort"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// CreateBankAccount stores a new bank account record.
func (r *Repo) CreateBankAccount(ctx context.Context, a models.BankAccount) (models.BankAccount, error) {
	now := r.timestamp()
	data := map[string]any{
		"accountNumber": a.AccountNumber,
		"bankName":      a.BankName,
		"accountType":   a.AccountType,
		"balance":       a.Balance,
		"companyId":     a.CompanyID,
		"isActive":      a.IsActive,
		"createdAt":     now,
		"updatedAt":     now,
	}
	id, err := r.store.Add(ctx, colBankAccounts, data)
	if err != nil {
		return models.BankAccount{}, fmt.Errorf("create bank account: %w", err)
	}
	stored, err := r.store.Get(ctx, colBankAccounts, id)
	if err != nil {
		return models.BankAccount{}, fmt.Errorf("create bank account: read back: %w", err)
	}
	return decodeBankAccount(stored)
}

// AccountsByCompany lists the company's active accounts. Deactivated
// accounts stay in the store but never appear here. The backing query
// carries no ordering, so results are sorted by creation time after
// decoding to keep both store implementations consistent.
func (r *Repo) AccountsByCompany(ctx context.Context, companyID string) ([]models.BankAccount, error) {
	if companyID == "" {
		return []models.BankAccount{}, nil
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colBankAccounts,
		Filters: []store.Filter{
			{Field: "companyId", Value: companyID},
			{Field: "isActive", Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("accounts by company: %w", err)
	}
	out := make([]models.BankAccount, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeBankAccount(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeactivateAccount soft-deletes an account by flipping isActive.
func (r *Repo) DeactivateAccount(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	fields := map[string]any{
		"isActive":  false,
		"updatedAt": r.timestamp(),
	}
	if err := r.store.Update(ctx, colBankAccounts, id, fields); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	return nil
}

func decodeBankAccount(doc store.Document) (models.BankAccount, error) {
	d := newDecoder(doc)
	a := models.BankAccount{
		ID:            doc.ID,
		AccountNumber: d.str("accountNumber"),
		BankName:      d.str("bankName"),
		AccountType:   d.str("accountType"),
		Balance:       d.num("balance"),
		CompanyID:     d.str("companyId"),
		IsActive:      d.boolean("isActive"),
		CreatedAt:     d.when("createdAt"),
		UpdatedAt:     d.when("updatedAt"),
	}
	if d.err != nil {
		return models.BankAccount{}, d.err
	}
	return a, nil
}
