// Command smoke exercises the finboard stack end to end with the demo
// credentials, twice: first an in-process pass driving the view layer
// over an in-memory store, then the same flow against a running
// finboard-api instance over HTTP.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"finboard.org/internal/auth"
	"finboard.org/internal/dashboard"
	"finboard.org/internal/models"
	"finboard.org/internal/repo"
	"finboard.org/internal/store/memstore"
	"finboard.org/internal/view"
)

const expenseAmount = 1234.56

func main() {
	runLocal()

	base := os.Getenv("FINBOARD_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	runRemote(base)
}

// runLocal drives sign-in, company registration, an expense through the
// view containers and the dashboard aggregation without any network.
func runLocal() {
	ctx := context.Background()
	r := repo.New(memstore.New())
	authSvc := auth.NewService(nil, auth.WithDemoMode(true))

	user, err := authSvc.SignIn(ctx, "demo@company.com", "demo123")
	if err != nil {
		log.Fatalf("local: sign-in: %v", err)
	}

	companyView := view.NewCompanyView(r)
	if err := companyView.SetUser(ctx, user.ID); err != nil {
		log.Fatalf("local: load company: %v", err)
	}
	if companyView.Company() != nil {
		log.Fatal("local: fresh store already has a company")
	}
	company, err := companyView.Create(ctx, models.Company{
		Name:    "Smoke Test Ltd",
		Address: "1 Test Street",
	})
	if err != nil {
		log.Fatalf("local: create company: %v", err)
	}

	views := view.New(r)
	if err := views.SetCompany(ctx, company.ID); err != nil {
		log.Fatalf("local: load views: %v", err)
	}

	_, err = views.Expenses.Create(ctx, func(ctx context.Context) (models.Expense, error) {
		return r.CreateExpense(ctx, models.Expense{
			Amount:      expenseAmount,
			Description: "smoke expense",
			Category:    "office",
			Vendor:      "smoke vendor",
			Date:        time.Now().UTC(),
			Status:      models.ExpensePending,
			CompanyID:   company.ID,
		})
	})
	if err != nil {
		log.Fatalf("local: create expense: %v", err)
	}
	if items := views.Expenses.Items(); len(items) != 1 || items[0].Amount != expenseAmount {
		log.Fatalf("local: expense missing from view: %+v", items)
	}

	// A second Views instance must observe the write on its own fetch.
	sibling := view.New(r)
	if err := sibling.Expenses.SetParent(ctx, company.ID); err != nil {
		log.Fatalf("local: sibling view: %v", err)
	}
	if items := sibling.Expenses.Items(); len(items) != 1 {
		log.Fatalf("local: sibling view missed the expense: %+v", items)
	}

	stats, err := dashboard.New(r).Stats(ctx, company.ID)
	if err != nil {
		log.Fatalf("local: dashboard: %v", err)
	}
	if stats.MonthlyExpenseTotal < expenseAmount {
		log.Fatalf("local: dashboard missed the expense: monthlyExpenseTotal=%.2f", stats.MonthlyExpenseTotal)
	}

	fmt.Printf("local pass ok: company=%s monthlyExpenseTotal=%.2f\n", company.ID, stats.MonthlyExpenseTotal)
}

// runRemote walks the same flow against a running server.
func runRemote(base string) {
	client := &http.Client{Timeout: 10 * time.Second}

	var session struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	post(client, base+"/v1/auth/signin", "", map[string]any{
		"email":    "demo@company.com",
		"password": "demo123",
	}, &session)
	if session.Token == "" {
		log.Fatal("sign-in returned no token")
	}

	var company struct {
		ID string `json:"id"`
	}
	post(client, base+"/v1/company", session.Token, map[string]any{
		"name":    "Smoke Test Ltd",
		"address": "1 Test Street",
	}, &company)
	if company.ID == "" {
		log.Fatal("company creation returned no id")
	}

	post(client, base+"/v1/expenses", session.Token, map[string]any{
		"amount":      expenseAmount,
		"description": "smoke expense",
		"category":    "office",
		"vendor":      "smoke vendor",
		"date":        time.Now().UTC().Format(time.RFC3339),
		"companyId":   company.ID,
	}, nil)

	var stats struct {
		MonthlyExpenseTotal float64 `json:"monthlyExpenseTotal"`
	}
	get(client, base+"/v1/dashboard/stats?companyId="+company.ID, session.Token, &stats)
	if stats.MonthlyExpenseTotal < expenseAmount {
		log.Fatalf("dashboard missed the expense: monthlyExpenseTotal=%.2f", stats.MonthlyExpenseTotal)
	}

	fmt.Printf("remote pass ok: company=%s monthlyExpenseTotal=%.2f\n", company.ID, stats.MonthlyExpenseTotal)
}

func post(client *http.Client, url, token string, body, out any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal %s: %v", url, err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	do(client, req, out)
}

func get(client *http.Client, url, token string, out any) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	do(client, req, out)
}

func do(client *http.Client, req *http.Request, out any) {
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("%s %s: status %d", req.Method, req.URL, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode %s: %v", req.URL, err)
		}
	}
}
