package repo

import (
	"context"
	"fmt"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// CreateCompany inserts the company, stamps timestamps, re-reads the
// stored document and returns the full record with its assigned id.
func (r *Repo) CreateCompany(ctx context.Context, c models.Company) (models.Company, error) {
	now := r.timestamp()
	data := map[string]any{
		"name":      c.Name,
		"address":   c.Address,
		"gstin":     c.GSTIN,
		"pan":       c.PAN,
		"cin":       c.CIN,
		"userId":    c.UserID,
		"createdAt": now,
		"updatedAt": now,
	}
	id, err := r.store.Add(ctx, colCompanies, data)
	if err != nil {
		return models.Company{}, fmt.Errorf("create company: %w", err)
	}
	doc, err := r.store.Get(ctx, colCompanies, id)
	if err != nil {
		return models.Company{}, fmt.Errorf("create company: read back: %w", err)
	}
	return decodeCompany(doc)
}

// CompanyByUser returns the company owned by userID, or nil when the
// user has none. An empty userID short-circuits without a store query.
func (r *Repo) CompanyByUser(ctx context.Context, userID string) (*models.Company, error) {
	if userID == "" {
		return nil, nil
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colCompanies,
		Filters:    []store.Filter{{Field: "userId", Value: userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("company by user: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	c, err := decodeCompany(docs[0])
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCompany applies a partial merge. userId is never touched here;
// ownership is fixed at creation.
func (r *Repo) UpdateCompany(ctx context.Context, id string, updates map[string]any) error {
	if id == "" {
		return ErrMissingID
	}
	fields, err := normalizeFields(updates)
	if err != nil {
		return err
	}
	delete(fields, "userId")
	fields["updatedAt"] = r.timestamp()
	if err := r.store.Update(ctx, colCompanies, id, fields); err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

func decodeCompany(doc store.Document) (models.Company, error) {
	d := newDecoder(doc)
	c := models.Company{
		ID:        doc.ID,
		Name:      d.str("name"),
		Address:   d.str("address"),
		GSTIN:     d.str("gstin"),
		PAN:       d.str("pan"),
		CIN:       d.str("cin"),
		UserID:    d.str("userId"),
		CreatedAt: d.when("createdAt"),
		UpdatedAt: d.when("updatedAt"),
	}
	if d.err != nil {
		return models.Company{}, d.err
	}
	return c, nil
}
