package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finboard.org/internal/audit"
	"finboard.org/internal/auth"
	"finboard.org/internal/models"
	"finboard.org/internal/pdf"
)

type createInvoiceRequest struct {
	InvoiceNumber string               `json:"invoiceNumber"`
	ClientName    string               `json:"clientName"`
	ClientEmail   string               `json:"clientEmail"`
	ClientAddress string               `json:"clientAddress"`
	ClientGSTIN   string               `json:"clientGstin"`
	IssueDate     time.Time            `json:"issueDate"`
	DueDate       time.Time            `json:"dueDate"`
	Items         []models.InvoiceItem `json:"items"`
	Subtotal      float64              `json:"subtotal"`
	TaxAmount     float64              `json:"taxAmount"`
	TotalAmount   float64              `json:"totalAmount"`
	Status        string               `json:"status"`
	CompanyID     string               `json:"companyId"`
}

func (a *API) handleInvoicesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companyID, ok := companyIDParam(w, r)
		if !ok {
			return
		}
		invoices, err := a.repo.InvoicesByCompany(r.Context(), companyID)
		if err != nil {
			handleRepoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": invoices})
	case http.MethodPost:
		a.createInvoice(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.InvoiceNumber) == "" || req.CompanyID == "" {
		writeError(w, r, http.StatusBadRequest, "invoiceNumber and companyId are required")
		return
	}
	if strings.TrimSpace(req.ClientName) == "" {
		writeError(w, r, http.StatusBadRequest, "clientName is required")
		return
	}
	status := req.Status
	if status == "" {
		status = models.InvoiceDraft
	}

	invoice, err := a.repo.CreateInvoice(r.Context(), models.Invoice{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		ClientGSTIN:   req.ClientGSTIN,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Items:         req.Items,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.TotalAmount,
		Status:        status,
		CompanyID:     req.CompanyID,
	})
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "invoice.create", slog.String("invoice_id", invoice.ID))
	a.publish("invoice.create", "invoices", invoice.ID, invoice.CompanyID)
	w.Header().Set("Location", "/v1/invoices/"+invoice.ID)
	writeJSON(w, http.StatusCreated, invoice)
}

func (a *API) handleInvoiceResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/invoices/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if strings.HasSuffix(path, "/status") {
		id := resourceID(r.URL.Path, "/v1/invoices/", "/status")
		if id == "" {
			writeError(w, r, http.StatusNotFound, "invoice not found")
			return
		}
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, r, http.MethodPatch)
			return
		}
		a.updateInvoiceStatus(w, r, id)
		return
	}

	if strings.HasSuffix(path, "/pdf") {
		id := resourceID(r.URL.Path, "/v1/invoices/", "/pdf")
		if id == "" {
			writeError(w, r, http.StatusNotFound, "invoice not found")
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.downloadInvoicePDF(w, r, id)
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	invoice, err := a.repo.InvoiceByID(r.Context(), path)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (a *API) updateInvoiceStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Status {
	case models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid, models.InvoiceOverdue:
	default:
		writeError(w, r, http.StatusBadRequest, "status must be draft, sent, paid or overdue")
		return
	}

	if err := a.repo.UpdateInvoiceStatus(r.Context(), id, req.Status); err != nil {
		handleRepoError(w, r, err)
		return
	}
	_ = audit.Event(r.Context(), "invoice.status",
		slog.String("invoice_id", id), slog.String("status", req.Status))
	a.publish("invoice.status", "invoices", id, "")
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
}

// downloadInvoicePDF renders the invoice with the caller's company as
// issuer. The issuer block is best effort: a user without a company
// still gets the document.
func (a *API) downloadInvoicePDF(w http.ResponseWriter, r *http.Request, id string) {
	invoice, err := a.repo.InvoiceByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	var issuer models.Company
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		if company, err := a.repo.CompanyByUser(r.Context(), userID); err == nil && company != nil {
			issuer = *company
		}
	}

	data, err := pdf.RenderInvoice(invoice, issuer)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "pdf rendering failed")
		return
	}

	_ = audit.Event(r.Context(), "invoice.pdf", slog.String("invoice_id", id))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+invoice.InvoiceNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
