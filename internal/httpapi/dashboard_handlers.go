package httpapi

import "net/http"

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}

	stats, err := a.dash.Stats(r.Context(), companyID)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
