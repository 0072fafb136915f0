package repo

import (
	"context"
	"fmt"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// CreateDocument stores a new business document record.
func (r *Repo) CreateDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	now := r.timestamp()
	data := map[string]any{
		"title":     doc.Title,
		"type":      doc.Type,
		"category":  doc.Category,
		"entity":    doc.Entity,
		"issueDate": doc.IssueDate,
		"amount":    doc.Amount,
		"status":    doc.Status,
		"tags":      doc.Tags,
		"filePath":  doc.FilePath,
		"size":      doc.Size,
		"createdBy": doc.CreatedBy,
		"companyId": doc.CompanyID,
		"createdAt": now,
		"updatedAt": now,
	}
	id, err := r.store.Add(ctx, colDocuments, data)
	if err != nil {
		return models.Document{}, fmt.Errorf("create document: %w", err)
	}
	stored, err := r.store.Get(ctx, colDocuments, id)
	if err != nil {
		return models.Document{}, fmt.Errorf("create document: read back: %w", err)
	}
	return decodeDocument(stored)
}

// DocumentsByCompany lists the company's documents, newest first.
func (r *Repo) DocumentsByCompany(ctx context.Context, companyID string) ([]models.Document, error) {
	if companyID == "" {
		return []models.Document{}, nil
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colDocuments,
		Filters:    []store.Filter{{Field: "companyId", Value: companyID}},
		OrderBy:    "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("documents by company: %w", err)
	}
	out := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// UpdateDocument applies a partial merge. An issueDate in updates is
// converted to the store's timestamp representation, whether it arrives
// as a time.Time or an RFC 3339 string.
func (r *Repo) UpdateDocument(ctx context.Context, id string, updates map[string]any) error {
	if id == "" {
		return ErrMissingID
	}
	fields, err := normalizeFields(updates, "issueDate")
	if err != nil {
		return err
	}
	fields["updatedAt"] = r.timestamp()
	if err := r.store.Update(ctx, colDocuments, id, fields); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// DeleteDocument permanently removes the record. No soft delete, no
// cascade.
func (r *Repo) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := r.store.Delete(ctx, colDocuments, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func decodeDocument(doc store.Document) (models.Document, error) {
	d := newDecoder(doc)
	out := models.Document{
		ID:        doc.ID,
		Title:     d.str("title"),
		Type:      d.str("type"),
		Category:  d.str("category"),
		Entity:    d.str("entity"),
		IssueDate: d.when("issueDate"),
		Amount:    d.num("amount"),
		Status:    d.str("status"),
		Tags:      d.strings("tags"),
		FilePath:  d.str("filePath"),
		Size:      d.str("size"),
		CreatedBy: d.str("createdBy"),
		CompanyID: d.str("companyId"),
		CreatedAt: d.when("createdAt"),
		UpdatedAt: d.when("updatedAt"),
	}
	if d.err != nil {
		return models.Document{}, d.err
	}
	return out, nil
}
