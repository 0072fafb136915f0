package repo

import (
	"context"
	"fmt"
	"time"

	"finboard.org/internal/ids"
	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// DefaultTransactionLimit bounds account statement reads when the
// caller passes no explicit limit.
const DefaultTransactionLimit = 50

// CreateTransaction stores one statement line. Transactions carry only
// createdAt; they are immutable and never updated.
func (r *Repo) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	data := r.encodeTransaction(t)
	id, err := r.store.Add(ctx, colTransactions, data)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	stored, err := r.store.Get(ctx, colTransactions, id)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: read back: %w", err)
	}
	return decodeTransaction(stored)
}

// TransactionsByAccount lists statement lines for one account, newest
// first, capped at limit (DefaultTransactionLimit when <= 0). An empty
// accountID short-circuits without a store query.
func (r *Repo) TransactionsByAccount(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	if accountID == "" {
		return []models.Transaction{}, nil
	}
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colTransactions,
		Filters:    []store.Filter{{Field: "accountId", Value: accountID}},
		OrderBy:    "date",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("transactions by account: %w", err)
	}
	out := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeTransaction(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// BatchCreateTransactions writes many statement lines as one atomic
// batch: a statement import either lands whole or not at all.
func (r *Repo) BatchCreateTransactions(ctx context.Context, txs []models.Transaction) ([]models.Transaction, error) {
	if len(txs) == 0 {
		return []models.Transaction{}, nil
	}
	docs := make([]map[string]any, len(txs))
	for i, t := range txs {
		docs[i] = r.encodeTransaction(t)
	}
	assigned, err := r.store.BatchAdd(ctx, colTransactions, docs)
	if err != nil {
		return nil, fmt.Errorf("batch create transactions: %w", err)
	}
	out := make([]models.Transaction, len(txs))
	for i, t := range txs {
		out[i] = t
		out[i].ID = assigned[i]
		out[i].CreatedAt = docs[i]["createdAt"].(time.Time)
		out[i].ReferenceNumber = docs[i]["referenceNumber"].(string)
	}
	return out, nil
}

func (r *Repo) encodeTransaction(t models.Transaction) map[string]any {
	ref := t.ReferenceNumber
	if ref == "" {
		ref = ids.Reference("txn")
	}
	return map[string]any{
		"accountId":       t.AccountID,
		"amount":          t.Amount,
		"transactionType": t.TransactionType,
		"description":     t.Description,
		"date":            t.Date,
		"category":        t.Category,
		"referenceNumber": ref,
		"balanceAfter":    t.BalanceAfter,
		"companyId":       t.CompanyID,
		"createdAt":       r.timestamp(),
	}
}

func decodeTransaction(doc store.Document) (models.Transaction, error) {
	d := newDecoder(doc)
	t := models.Transaction{
		ID:              doc.ID,
		AccountID:       d.str("accountId"),
		Amount:          d.num("amount"),
		TransactionType: d.str("transactionType"),
		Description:     d.str("description"),
		Date:            d.when("date"),
		Category:        d.str("category"),
		ReferenceNumber: d.str("referenceNumber"),
		BalanceAfter:    d.num("balanceAfter"),
		CompanyID:       d.str("companyId"),
		CreatedAt:       d.when("createdAt"),
	}
	if d.err != nil {
		return models.Transaction{}, d.err
	}
	return t, nil
}
