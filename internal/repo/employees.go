package repo

import (
	"context"
	"fmt"
	"sort"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// CreateEmployee stores a new payroll record.
func (r *Repo) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	now := r.timestamp()
	data := map[string]any{
		"name":           e.Name,
		"email":          e.Email,
		"role":           e.Role,
		"salary":         e.Salary,
		"pfContribution": e.PFContribution,
		"tdsDeduction":   e.TDSDeduction,
		"status":         e.Status,
		"companyId":      e.CompanyID,
		"createdAt":      now,
		"updatedAt":      now,
	}
	id, err := r.store.Add(ctx, colEmployees, data)
	if err != nil {
		return models.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	stored, err := r.store.Get(ctx, colEmployees, id)
	if err != nil {
		return models.Employee{}, fmt.Errorf("create employee: read back: %w", err)
	}
	return decodeEmployee(stored)
}

// EmployeesByCompany lists the company's active employees; inactive
// records stay in the store but are excluded here. Sorted by creation
// time descending after decode (the query itself carries no ordering).
func (r *Repo) EmployeesByCompany(ctx context.Context, companyID string) ([]models.Employee, error) {
	if companyID == "" {
		return []models.Employee{}, nil
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colEmployees,
		Filters: []store.Filter{
			{Field: "companyId", Value: companyID},
			{Field: "status", Value: models.EmployeeActive},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("employees by company: %w", err)
	}
	out := make([]models.Employee, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeEmployee(doc)
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

// UpdateEmployee applies a partial merge and refreshes updatedAt.
func (r *Repo) UpdateEmployee(ctx context.Context, id string, updates map[string]any) error {
	if id == "" {
		return ErrMissingID
	}
	fields, err := normalizeFields(updates)
	if err != nil {
		return err
	}
	fields["updatedAt"] = r.timestamp()
	if err := r.store.Update(ctx, colEmployees, id, fields); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

func decodeEmployee(doc store.Document) (models.Employee, error) {
	d := newDecoder(doc)
	e := models.Employee{
		ID:             doc.ID,
		Name:           d.str("name"),
		Email:          d.str("email"),
		Role:           d.str("role"),
		Salary:         d.num("salary"),
		PFContribution: d.num("pfContribution"),
		TDSDeduction:   d.num("tdsDeduction"),
		Status:         d.str("status"),
		CompanyID:      d.str("companyId"),
		CreatedAt:      d.when("createdAt"),
		UpdatedAt:      d.when("updatedAt"),
	}
	if d.err != nil {
		return models.Employee{}, d.err
	}
	return e, nil
}
