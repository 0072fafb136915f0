package pdf

import (
	"bytes"
	"testing"
	"time"

	"finboard.org/internal/models"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-2025-042",
		ClientName:    "Globex LLC",
		ClientAddress: "1 Market Street",
		IssueDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Items: []models.InvoiceItem{
			{Description: "Consulting", Quantity: 10, Rate: 150, Amount: 1500, TaxRate: 18},
			{Description: "Support retainer", Quantity: 1, Rate: 500, Amount: 500},
		},
		Subtotal:    2000,
		TaxAmount:   270,
		TotalAmount: 2270,
		Status:      models.InvoiceSent,
	}
}

func TestRenderInvoiceProducesPDF(t *testing.T) {
	issuer := models.Company{Name: "Acme Exports", Address: "42 Industrial Estate"}

	data, err := RenderInvoice(sampleInvoice(), issuer)
	if err != nil {
		t.Fatalf("RenderInvoice: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
	if len(data) < 1000 {
		t.Fatalf("suspiciously small document: %d bytes", len(data))
	}
}

func TestRenderInvoiceWithoutIssuer(t *testing.T) {
	// An empty issuer falls back to a placeholder name rather than failing.
	data, err := RenderInvoice(sampleInvoice(), models.Company{})
	if err != nil {
		t.Fatalf("RenderInvoice: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty document")
	}
}

func TestRenderInvoiceNoItems(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = nil

	data, err := RenderInvoice(inv, models.Company{Name: "Acme"})
	if err != nil {
		t.Fatalf("RenderInvoice: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}
