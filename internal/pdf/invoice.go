// Package pdf renders printable documents for download endpoints.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"finboard.org/internal/models"
)

const dateLayout = "02 Jan 2006"

// RenderInvoice produces an A4 invoice: issuer header, client block,
// line-item table and totals. Amounts are printed as stored; nothing is
// recomputed here.
func RenderInvoice(inv models.Invoice, issuer models.Company) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Invoice "+inv.InvoiceNumber, false)
	doc.AddPage()

	// Issuer header.
	doc.SetFont("Helvetica", "B", 18)
	name := issuer.Name
	if name == "" {
		name = "Your Company"
	}
	doc.Cell(120, 10, name)
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	if issuer.Address != "" {
		doc.MultiCell(120, 5, issuer.Address, "", "L", false)
	}
	if issuer.GSTIN != "" {
		doc.Cell(0, 5, "GSTIN: "+issuer.GSTIN)
		doc.Ln(5)
	}
	doc.Ln(4)

	// Invoice meta and client block side by side.
	top := doc.GetY()
	doc.SetFont("Helvetica", "B", 10)
	doc.Cell(25, 5, "Bill To:")
	doc.Ln(5)
	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 5, inv.ClientName)
	doc.Ln(5)
	if inv.ClientAddress != "" {
		doc.MultiCell(100, 5, inv.ClientAddress, "", "L", false)
	}
	if inv.ClientEmail != "" {
		doc.Cell(0, 5, inv.ClientEmail)
		doc.Ln(5)
	}
	if inv.ClientGSTIN != "" {
		doc.Cell(0, 5, "GSTIN: "+inv.ClientGSTIN)
		doc.Ln(5)
	}
	bottom := doc.GetY()

	doc.SetY(top)
	doc.SetX(130)
	doc.SetFont("Helvetica", "", 10)
	meta := [][2]string{
		{"Invoice #", inv.InvoiceNumber},
		{"Issue Date", inv.IssueDate.Format(dateLayout)},
		{"Due Date", inv.DueDate.Format(dateLayout)},
		{"Status", strings.ToUpper(inv.Status)},
	}
	for _, m := range meta {
		doc.SetX(130)
		doc.SetFont("Helvetica", "B", 10)
		doc.Cell(30, 5, m[0])
		doc.SetFont("Helvetica", "", 10)
		doc.Cell(0, 5, m[1])
		doc.Ln(5)
	}
	if doc.GetY() < bottom {
		doc.SetY(bottom)
	}
	doc.Ln(8)

	// Line items.
	doc.SetFillColor(235, 235, 235)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	doc.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 8, "Rate", "1", 0, "R", true, 0, "")
	doc.CellFormat(50, 8, "Amount", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, it := range inv.Items {
		doc.CellFormat(90, 7, it.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 7, trimZeros(it.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, money(it.Rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(50, 7, money(it.Amount), "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	// Totals.
	totals := [][2]string{
		{"Subtotal", money(inv.Subtotal)},
		{"Tax", money(inv.TaxAmount)},
		{"Total", money(inv.TotalAmount)},
	}
	for i, t := range totals {
		doc.SetX(120)
		if i == len(totals)-1 {
			doc.SetFont("Helvetica", "B", 11)
		} else {
			doc.SetFont("Helvetica", "", 10)
		}
		doc.CellFormat(30, 7, t[0], "", 0, "L", false, 0, "")
		doc.CellFormat(40, 7, t[1], "", 1, "R", false, 0, "")
	}

	doc.Ln(10)
	doc.SetFont("Helvetica", "I", 9)
	doc.Cell(0, 5, "Thank you for your business.")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
