package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finboard.org/internal/audit"
	"finboard.org/internal/models"
	"finboard.org/internal/repo"
)

type createAccountRequest struct {
	AccountNumber string  `json:"accountNumber"`
	BankName      string  `json:"bankName"`
	AccountType   string  `json:"accountType"`
	Balance       float64 `json:"balance"`
	CompanyID     string  `json:"companyId"`
}

type createTransactionRequest struct {
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transactionType"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Category        string    `json:"category"`
	ReferenceNumber string    `json:"referenceNumber"`
	BalanceAfter    float64   `json:"balanceAfter"`
	CompanyID       string    `json:"companyId"`
}

type importTransactionsRequest struct {
	Transactions []createTransactionRequest `json:"transactions"`
}

func (a *API) handleAccountsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companyID, ok := companyIDParam(w, r)
		if !ok {
			return
		}
		accounts, err := a.repo.AccountsByCompany(r.Context(), companyID)
		if err != nil {
			handleRepoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": accounts})
	case http.MethodPost:
		a.createAccount(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.AccountNumber) == "" || req.CompanyID == "" {
		writeError(w, r, http.StatusBadRequest, "accountNumber and companyId are required")
		return
	}
	switch req.AccountType {
	case models.AccountCurrent, models.AccountSavings:
	default:
		writeError(w, r, http.StatusBadRequest, "accountType must be current or savings")
		return
	}

	account, err := a.repo.CreateBankAccount(r.Context(), models.BankAccount{
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		BankName:      req.BankName,
		AccountType:   req.AccountType,
		Balance:       req.Balance,
		CompanyID:     req.CompanyID,
		IsActive:      true,
	})
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "account.create", slog.String("account_id", account.ID))
	a.publish("account.create", "bankAccounts", account.ID, account.CompanyID)
	w.Header().Set("Location", "/v1/accounts/"+account.ID)
	writeJSON(w, http.StatusCreated, account)
}

func (a *API) handleAccountResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/accounts/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if strings.HasSuffix(path, "/transactions/import") {
		id := resourceID(r.URL.Path, "/v1/accounts/", "/transactions/import")
		if id == "" {
			writeError(w, r, http.StatusNotFound, "account not found")
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.importTransactions(w, r, id)
		return
	}

	if strings.HasSuffix(path, "/transactions") {
		id := resourceID(r.URL.Path, "/v1/accounts/", "/transactions")
		if id == "" {
			writeError(w, r, http.StatusNotFound, "account not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.listTransactions(w, r, id)
		case http.MethodPost:
			a.createTransaction(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		a.deactivateAccount(w, r, path)
	default:
		methodNotAllowed(w, r, http.MethodDelete)
	}
}

// deactivateAccount soft-deletes: the account stays in storage with
// isActive=false and drops out of listings.
func (a *API) deactivateAccount(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.repo.DeactivateAccount(r.Context(), id); err != nil {
		handleRepoError(w, r, err)
		return
	}
	_ = audit.Event(r.Context(), "account.deactivate", slog.String("account_id", id))
	a.publish("account.deactivate", "bankAccounts", id, "")
	writeJSON(w, http.StatusOK, map[string]any{"status": "deactivated"})
}

func (a *API) listTransactions(w http.ResponseWriter, r *http.Request, accountID string) {
	limit := repo.DefaultTransactionLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 500 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = v
	}

	txs, err := a.repo.TransactionsByAccount(r.Context(), accountID, limit)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": txs})
}

func (a *API) createTransaction(w http.ResponseWriter, r *http.Request, accountID string) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tx, ok := a.buildTransaction(w, r, accountID, req)
	if !ok {
		return
	}

	created, err := a.repo.CreateTransaction(r.Context(), tx)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "transaction.create",
		slog.String("transaction_id", created.ID), slog.String("account_id", accountID))
	a.publish("transaction.create", "transactions", created.ID, created.CompanyID)
	writeJSON(w, http.StatusCreated, created)
}

// importTransactions writes a statement batch atomically: either every
// line lands or none do.
func (a *API) importTransactions(w http.ResponseWriter, r *http.Request, accountID string) {
	var req importTransactionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Transactions) == 0 {
		writeError(w, r, http.StatusBadRequest, "transactions are required")
		return
	}
	if len(req.Transactions) > 500 {
		writeError(w, r, http.StatusBadRequest, "at most 500 transactions per import")
		return
	}

	txs := make([]models.Transaction, 0, len(req.Transactions))
	for _, item := range req.Transactions {
		tx, ok := a.buildTransaction(w, r, accountID, item)
		if !ok {
			return
		}
		txs = append(txs, tx)
	}

	created, err := a.repo.BatchCreateTransactions(r.Context(), txs)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "transaction.import",
		slog.String("account_id", accountID), slog.Int("count", len(created)))
	a.publish("transaction.import", "transactions", accountID, "")
	writeJSON(w, http.StatusCreated, map[string]any{"items": created})
}

func (a *API) buildTransaction(w http.ResponseWriter, r *http.Request, accountID string, req createTransactionRequest) (models.Transaction, bool) {
	switch req.TransactionType {
	case models.TransactionCredit, models.TransactionDebit:
	default:
		writeError(w, r, http.StatusBadRequest, "transactionType must be credit or debit")
		return models.Transaction{}, false
	}
	if req.Amount <= 0 {
		writeError(w, r, http.StatusBadRequest, "amount must be > 0")
		return models.Transaction{}, false
	}
	return models.Transaction{
		AccountID:       accountID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		Description:     req.Description,
		Date:            req.Date,
		Category:        req.Category,
		ReferenceNumber: req.ReferenceNumber,
		BalanceAfter:    req.BalanceAfter,
		CompanyID:       req.CompanyID,
	}, true
}
