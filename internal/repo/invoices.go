package repo

import (
	"context"
	"fmt"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
)

// CreateInvoice stores a new invoice. Subtotal, tax and total are taken
// as given; the repository does not recompute them from the line items.
func (r *Repo) CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	now := r.timestamp()
	items := make([]any, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = map[string]any{
			"description": item.Description,
			"quantity":    item.Quantity,
			"rate":        item.Rate,
			"amount":      item.Amount,
			"taxRate":     item.TaxRate,
		}
	}
	data := map[string]any{
		"invoiceNumber": inv.InvoiceNumber,
		"clientName":    inv.ClientName,
		"clientEmail":   inv.ClientEmail,
		"clientAddress": inv.ClientAddress,
		"clientGstin":   inv.ClientGSTIN,
		"issueDate":     inv.IssueDate,
		"dueDate":       inv.DueDate,
		"items":         items,
		"subtotal":      inv.Subtotal,
		"taxAmount":     inv.TaxAmount,
		"totalAmount":   inv.TotalAmount,
		"status":        inv.Status,
		"companyId":     inv.CompanyID,
		"createdAt":     now,
		"updatedAt":     now,
	}
	id, err := r.store.Add(ctx, colInvoices, data)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	stored, err := r.store.Get(ctx, colInvoices, id)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("create invoice: read back: %w", err)
	}
	return decodeInvoice(stored)
}

// InvoicesByCompany lists the company's invoices by issue date, newest
// first.
func (r *Repo) InvoicesByCompany(ctx context.Context, companyID string) ([]models.Invoice, error) {
	if companyID == "" {
		return []models.Invoice{}, nil
	}
	docs, err := r.store.Query(ctx, store.Query{
		Collection: colInvoices,
		Filters:    []store.Filter{{Field: "companyId", Value: companyID}},
		OrderBy:    "issueDate",
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("invoices by company: %w", err)
	}
	out := make([]models.Invoice, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeInvoice(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// InvoiceByID reads a single invoice.
func (r *Repo) InvoiceByID(ctx context.Context, id string) (models.Invoice, error) {
	if id == "" {
		return models.Invoice{}, ErrMissingID
	}
	doc, err := r.store.Get(ctx, colInvoices, id)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("invoice by id: %w", err)
	}
	return decodeInvoice(doc)
}

// UpdateInvoiceStatus writes exactly the status field and updatedAt.
func (r *Repo) UpdateInvoiceStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return ErrMissingID
	}
	fields := map[string]any{
		"status":    status,
		"updatedAt": r.timestamp(),
	}
	if err := r.store.Update(ctx, colInvoices, id, fields); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

func decodeInvoice(doc store.Document) (models.Invoice, error) {
	d := newDecoder(doc)
	inv := models.Invoice{
		ID:            doc.ID,
		InvoiceNumber: d.str("invoiceNumber"),
		ClientName:    d.str("clientName"),
		ClientEmail:   d.str("clientEmail"),
		ClientAddress: d.str("clientAddress"),
		ClientGSTIN:   d.str("clientGstin"),
		IssueDate:     d.when("issueDate"),
		DueDate:       d.when("dueDate"),
		Subtotal:      d.num("subtotal"),
		TaxAmount:     d.num("taxAmount"),
		TotalAmount:   d.num("totalAmount"),
		Status:        d.str("status"),
		CompanyID:     d.str("companyId"),
		CreatedAt:     d.when("createdAt"),
		UpdatedAt:     d.when("updatedAt"),
	}
	for _, raw := range d.list("items") {
		m, ok := raw.(map[string]any)
		if !ok {
			return models.Invoice{}, fmt.Errorf("%w: document %s: invoice item is %T",
				ErrMalformed, doc.ID, raw)
		}
		item := newDecoder(store.Document{ID: doc.ID, Data: m})
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: item.str("description"),
			Quantity:    item.num("quantity"),
			Rate:        item.num("rate"),
			Amount:      item.num("amount"),
			TaxRate:     item.num("taxRate"),
		})
		if item.err != nil {
			return models.Invoice{}, item.err
		}
	}
	if d.err != nil {
		return models.Invoice{}, d.err
	}
	return inv, nil
}
