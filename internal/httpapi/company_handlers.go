package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"finboard.org/internal/audit"
	"finboard.org/internal/auth"
	"finboard.org/internal/models"
)

type createCompanyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	PAN     string `json:"pan"`
	CIN     string `json:"cin"`
}

func (a *API) handleCompany(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getCompany(w, r)
	case http.MethodPost:
		a.createCompany(w, r)
	case http.MethodPatch:
		a.updateCompany(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodPatch)
	}
}

// getCompany returns the caller's company, or 200 with null when the
// user has not registered one yet.
func (a *API) getCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not signed in")
		return
	}
	company, err := a.repo.CompanyByUser(r.Context(), userID)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": company})
}

func (a *API) createCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not signed in")
		return
	}

	var req createCompanyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	company, err := a.repo.CreateCompany(r.Context(), models.Company{
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
		GSTIN:   req.GSTIN,
		PAN:     req.PAN,
		CIN:     req.CIN,
		UserID:  userID,
	})
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "company.create", slog.String("company_id", company.ID))
	a.publish("company.create", "companies", company.ID, company.ID)
	w.Header().Set("Location", "/v1/company")
	writeJSON(w, http.StatusCreated, company)
}

func (a *API) updateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not signed in")
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

	company, err := a.repo.CompanyByUser(r.Context(), userID)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}
	if company == nil {
		writeError(w, r, http.StatusNotFound, "company not registered")
		return
	}

	if err := a.repo.UpdateCompany(r.Context(), company.ID, updates); err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "company.update", slog.String("company_id", company.ID))
	a.publish("company.update", "companies", company.ID, company.ID)
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
}
