package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finboard.org/internal/audit"
	"finboard.org/internal/auth"
	"finboard.org/internal/models"
)

// companyIDParam pulls the required companyId query parameter.
func companyIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("companyId"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "companyId query parameter is required")
		return "", false
	}
	return id, true
}

// --- documents ---

type createDocumentRequest struct {
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Entity    string    `json:"entity"`
	IssueDate time.Time `json:"issueDate"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	FilePath  string    `json:"filePath"`
	Size      string    `json:"size"`
	CompanyID string    `json:"companyId"`
}

func (a *API) handleDocumentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companyID, ok := companyIDParam(w, r)
		if !ok {
			return
		}
		docs, err := a.repo.DocumentsByCompany(r.Context(), companyID)
		if err != nil {
			handleRepoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": docs})
	case http.MethodPost:
		a.createDocument(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.CompanyID == "" {
		writeError(w, r, http.StatusBadRequest, "title and companyId are required")
		return
	}

	doc, err := a.repo.CreateDocument(r.Context(), models.Document{
		Title:     strings.TrimSpace(req.Title),
		Type:      req.Type,
		Category:  req.Category,
		Entity:    req.Entity,
		IssueDate: req.IssueDate,
		Amount:    req.Amount,
		Status:    req.Status,
		Tags:      req.Tags,
		FilePath:  req.FilePath,
		Size:      req.Size,
		CreatedBy: userID,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "document.create", slog.String("document_id", doc.ID))
	a.publish("document.create", "documents", doc.ID, doc.CompanyID)
	writeJSON(w, http.StatusCreated, doc)
}

func (a *API) handleDocumentResource(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r.URL.Path, "/v1/documents/", "")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var updates map[string]any
		if err := decodeJSON(w, r, &updates); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if len(updates) == 0 {
			writeError(w, r, http.StatusBadRequest, "no fields to update")
			return
		}
		if err := a.repo.UpdateDocument(r.Context(), id, updates); err != nil {
			handleRepoError(w, r, err)
			return
		}
		_ = audit.Event(r.Context(), "document.update", slog.String("document_id", id))
		a.publish("document.update", "documents", id, "")
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
	case http.MethodDelete:
		if err := a.repo.DeleteDocument(r.Context(), id); err != nil {
			handleRepoError(w, r, err)
			return
		}
		_ = audit.Event(r.Context(), "document.delete", slog.String("document_id", id))
		a.publish("document.delete", "documents", id, "")
		writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
	default:
		methodNotAllowed(w, r, http.MethodPatch, http.MethodDelete)
	}
}

// --- expenses ---

type createExpenseRequest struct {
	Amount      float64               `json:"amount"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Vendor      string                `json:"vendor"`
	Date        time.Time             `json:"date"`
	ReceiptURL  string                `json:"receiptUrl"`
	TaxAmount   float64               `json:"taxAmount"`
	Status      string                `json:"status"`
	CompanyID   string                `json:"companyId"`
	Recurring   *models.RecurringRule `json:"recurring"`
}

func (a *API) handleExpensesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companyID, ok := companyIDParam(w, r)
		if !ok {
			return
		}
		expenses, err := a.repo.ExpensesByCompany(r.Context(), companyID)
		if err != nil {
			handleRepoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": expenses})
	case http.MethodPost:
		a.createExpense(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CompanyID == "" {
		writeError(w, r, http.StatusBadRequest, "companyId is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, r, http.StatusBadRequest, "amount must be > 0")
		return
	}
	status := req.Status
	if status == "" {
		status = models.ExpensePending
	}

	expense, err := a.repo.CreateExpense(r.Context(), models.Expense{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Vendor:      req.Vendor,
		Date:        req.Date,
		ReceiptURL:  req.ReceiptURL,
		TaxAmount:   req.TaxAmount,
		Status:      status,
		CreatedBy:   userID,
		CompanyID:   req.CompanyID,
		Recurring:   req.Recurring,
	})
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "expense.create", slog.String("expense_id", expense.ID))
	a.publish("expense.create", "expenses", expense.ID, expense.CompanyID)
	writeJSON(w, http.StatusCreated, expense)
}

func (a *API) handleExpenseResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/expenses/")
	if strings.HasSuffix(path, "/status") {
		id := resourceID(r.URL.Path, "/v1/expenses/", "/status")
		if id == "" {
			writeError(w, r, http.StatusNotFound, "expense not found")
			return
		}
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, r, http.MethodPatch)
			return
		}
		a.updateExpenseStatus(w, r, id)
		return
	}
	writeError(w, r, http.StatusNotFound, "resource not found")
}

func (a *API) updateExpenseStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Status {
	case models.ExpensePending, models.ExpenseApproved, models.ExpensePaid:
	default:
		writeError(w, r, http.StatusBadRequest, "status must be pending, approved or paid")
		return
	}

	if err := a.repo.UpdateExpenseStatus(r.Context(), id, req.Status); err != nil {
		handleRepoError(w, r, err)
		return
	}
	_ = audit.Event(r.Context(), "expense.status",
		slog.String("expense_id", id), slog.String("status", req.Status))
	a.publish("expense.status", "expenses", id, "")
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
}

// --- employees ---

type createEmployeeRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Salary         float64 `json:"salary"`
	PFContribution float64 `json:"pfContribution"`
	TDSDeduction   float64 `json:"tdsDeduction"`
	CompanyID      string  `json:"companyId"`
}

func (a *API) handleEmployeesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companyID, ok := companyIDParam(w, r)
		if !ok {
			return
		}
		employees, err := a.repo.EmployeesByCompany(r.Context(), companyID)
		if err != nil {
			handleRepoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": employees})
	case http.MethodPost:
		a.createEmployee(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.CompanyID == "" {
		writeError(w, r, http.StatusBadRequest, "name and companyId are required")
		return
	}
	if req.Salary < 0 {
		writeError(w, r, http.StatusBadRequest, "salary must be >= 0")
		return
	}

	employee, err := a.repo.CreateEmployee(r.Context(), models.Employee{
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		Role:           req.Role,
		Salary:         req.Salary,
		PFContribution: req.PFContribution,
		TDSDeduction:   req.TDSDeduction,
		Status:         models.EmployeeActive,
		CompanyID:      req.CompanyID,
	})
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "employee.create", slog.String("employee_id", employee.ID))
	a.publish("employee.create", "employees", employee.ID, employee.CompanyID)
	writeJSON(w, http.StatusCreated, employee)
}

func (a *API) handleEmployeeResource(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r.URL.Path, "/v1/employees/", "")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}

	var updates map[string]any
	if err := decodeJSON(w, r, &updates); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(updates) == 0 {
		writeError(w, r, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := a.repo.UpdateEmployee(r.Context(), id, updates); err != nil {
		handleRepoError(w, r, err)
		return
	}
	_ = audit.Event(r.Context(), "employee.update", slog.String("employee_id", id))
	a.publish("employee.update", "employees", id, "")
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
}
