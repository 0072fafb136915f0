// Package httpapi is the HTTP layer: routing, authentication,
// middleware and JSON encoding. Handlers stay thin and delegate to the
// repository and services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"finboard.org/internal/auth"
	"finboard.org/internal/dashboard"
	"finboard.org/internal/events"
	"finboard.org/internal/obs"
	"finboard.org/internal/repo"
)

// ReadyProbe reports whether downstream dependencies are reachable.
// A nil Check means always ready.
type ReadyProbe struct {
	Check func(ctx context.Context) error
}

func (rp ReadyProbe) check(ctx context.Context) error {
	if rp.Check == nil {
		return nil
	}
	return rp.Check(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	repo       *repo.Repo
	auth       *auth.Service
	tokens     *auth.Tokens
	dash       *dashboard.Service
	feed       *events.Feed
	readyProbe ReadyProbe
	version    string
}

func New(r *repo.Repo, authSvc *auth.Service, tokens *auth.Tokens, dash *dashboard.Service, feed *events.Feed, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		repo:       r,
		auth:       authSvc,
		tokens:     tokens,
		dash:       dash,
		feed:       feed,
		readyProbe: rp,
		version:    version,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// session
	a.mux.HandleFunc("/v1/auth/signin", a.handleSignIn)
	a.mux.HandleFunc("/v1/auth/signup", a.handleSignUp)
	a.mux.HandleFunc("/v1/auth/signout", a.handleSignOut)
	a.mux.HandleFunc("/v1/auth/me", a.handleMe)

	// business entities
	a.mux.HandleFunc("/v1/company", a.handleCompany)
	a.mux.HandleFunc("/v1/documents", a.handleDocumentsCollection)
	a.mux.HandleFunc("/v1/documents/", a.handleDocumentResource)
	a.mux.HandleFunc("/v1/expenses", a.handleExpensesCollection)
	a.mux.HandleFunc("/v1/expenses/", a.handleExpenseResource)
	a.mux.HandleFunc("/v1/accounts", a.handleAccountsCollection)
	a.mux.HandleFunc("/v1/accounts/", a.handleAccountResource)
	a.mux.HandleFunc("/v1/invoices", a.handleInvoicesCollection)
	a.mux.HandleFunc("/v1/invoices/", a.handleInvoiceResource)
	a.mux.HandleFunc("/v1/employees", a.handleEmployeesCollection)
	a.mux.HandleFunc("/v1/employees/", a.handleEmployeeResource)

	// aggregates
	a.mux.HandleFunc("/v1/dashboard/stats", a.handleDashboardStats)

	// live activity feed (SSE)
	a.mux.HandleFunc("/v1/events", a.Events)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full handler: metrics instrumentation wrapping
// bearer authentication wrapping the mux.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.mux))
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "finboard-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "finboard-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
