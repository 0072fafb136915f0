package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finboard.org/internal/models"
	"finboard.org/internal/store"
	"finboard.org/internal/store/memstore"
)

// countingStore wraps a store and counts queries, to assert that empty
// parent ids never reach the backend.
type countingStore struct {
	store.Store
	queries int
}

func (c *countingStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	c.queries++
	return c.Store.Query(ctx, q)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateCompanyRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := New(memstore.New(), WithClock(fixedClock(now)))

	created, err := r.CreateCompany(ctx, models.Company{
		Name:   "Acme Exports Pvt Ltd",
		GSTIN:  "29ABCDE1234F1Z5",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not stamped: %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := r.CompanyByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("CompanyByUser: %v", err)
	}
	if got == nil || got.ID != created.ID || got.Name != "Acme Exports Pvt Ltd" {
		t.Fatalf("unexpected company: %+v", got)
	}
}

func TestCompanyByUserNoCompany(t *testing.T) {
	r := New(memstore.New())
	got, err := r.CompanyByUser(context.Background(), "stranger")
	if err != nil {
		t.Fatalf("CompanyByUser: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown user, got %+v", got)
	}
}

func TestCompanyByUserEmptyIDSkipsQuery(t *testing.T) {
	cs := &countingStore{Store: memstore.New()}
	r := New(cs)
	got, err := r.CompanyByUser(context.Background(), "")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
	if cs.queries != 0 {
		t.Fatalf("empty user id must not query the store, got %d queries", cs.queries)
	}
}

func TestUpdateCompanyProtectsOwner(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	later := created.Add(48 * time.Hour)

	clock := created
	r := New(memstore.New(), WithClock(func() time.Time { return clock }))

	c, err := r.CreateCompany(ctx, models.Company{Name: "Acme", UserID: "user-1"})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	clock = later
	err = r.UpdateCompany(ctx, c.ID, map[string]any{
		"name":   "Acme Global",
		"userId": "intruder",
	})
	if err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}

	got, err := r.CompanyByUser(ctx, "user-1")
	if err != nil || got == nil {
		t.Fatalf("company lost after update: %v, %v", got, err)
	}
	if got.Name != "Acme Global" {
		t.Fatalf("name not updated: %s", got.Name)
	}
	if got.UserID != "user-1" {
		t.Fatalf("ownership changed: %s", got.UserID)
	}
	if !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(created) {
		t.Fatalf("timestamps wrong: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatal("updatedAt before createdAt")
	}
}

func TestUpdateCompanyMissingID(t *testing.T) {
	r := New(memstore.New())
	if err := r.UpdateCompany(context.Background(), "", map[string]any{"name": "x"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestCreateExpenseWithRecurringRule(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	created, err := r.CreateExpense(ctx, models.Expense{
		Amount:      2500,
		Description: "office rent",
		Vendor:      "Landmark Estates",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.ExpensePending,
		CompanyID:   "c1",
		Recurring:   &models.RecurringRule{Frequency: "monthly", NextDueDate: due},
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.Recurring == nil {
		t.Fatal("recurring rule dropped")
	}
	if created.Recurring.Frequency != "monthly" || !created.Recurring.NextDueDate.Equal(due) {
		t.Fatalf("recurring rule mangled: %+v", created.Recurring)
	}
}

func TestExpensesByCompanyNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := r.CreateExpense(ctx, models.Expense{
			Amount:    float64(100 + i),
			Date:      base.AddDate(0, 0, i),
			Status:    models.ExpensePending,
			CompanyID: "c1",
		})
		if err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}
	_, err := r.CreateExpense(ctx, models.Expense{
		Amount: 999, Date: base, Status: models.ExpensePending, CompanyID: "other",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	got, err := r.ExpensesByCompany(ctx, "c1")
	if err != nil {
		t.Fatalf("ExpensesByCompany: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("not newest first at %d: %v after %v", i, got[i].Date, got[i-1].Date)
		}
	}
}

func TestUpdateExpenseStatusTouchesOnlyStatus(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	clock := created
	r := New(memstore.New(), WithClock(func() time.Time { return clock }))

	e, err := r.CreateExpense(ctx, models.Expense{
		Amount: 100, Description: "cab fare", Date: created,
		Status: models.ExpensePending, CompanyID: "c1",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	clock = later
	if err := r.UpdateExpenseStatus(ctx, e.ID, models.ExpenseApproved); err != nil {
		t.Fatalf("UpdateExpenseStatus: %v", err)
	}

	got, err := r.ExpensesByCompany(ctx, "c1")
	if err != nil || len(got) != 1 {
		t.Fatalf("read back: %v (%d)", err, len(got))
	}
	if got[0].Status != models.ExpenseApproved {
		t.Fatalf("status not updated: %s", got[0].Status)
	}
	if got[0].Description != "cab fare" || got[0].Amount != 100 {
		t.Fatal("unrelated fields changed")
	}
	if !got[0].UpdatedAt.Equal(later) || !got[0].CreatedAt.Equal(created) {
		t.Fatalf("timestamps wrong: created=%v updated=%v", got[0].CreatedAt, got[0].UpdatedAt)
	}
}

func TestExpenseDateSurvivesWholeSecond(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	date := time.Date(2025, 4, 15, 18, 30, 45, 0, time.UTC)
	created, err := r.CreateExpense(ctx, models.Expense{
		Amount: 1, Date: date, Status: models.ExpensePending, CompanyID: "c1",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if !created.Date.Equal(date) {
		t.Fatalf("date changed in round trip: %v != %v", created.Date, date)
	}
}

func TestEmptyParentShortCircuits(t *testing.T) {
	cs := &countingStore{Store: memstore.New()}
	r := New(cs)
	ctx := context.Background()

	checks := []func() (int, error){
		func() (int, error) { v, err := r.ExpensesByCompany(ctx, ""); return len(v), err },
		func() (int, error) { v, err := r.DocumentsByCompany(ctx, ""); return len(v), err },
		func() (int, error) { v, err := r.AccountsByCompany(ctx, ""); return len(v), err },
		func() (int, error) { v, err := r.InvoicesByCompany(ctx, ""); return len(v), err },
		func() (int, error) { v, err := r.EmployeesByCompany(ctx, ""); return len(v), err },
		func() (int, error) { v, err := r.TransactionsByAccount(ctx, "", 0); return len(v), err },
	}
	for i, check := range checks {
		n, err := check()
		if err != nil {
			t.Fatalf("check %d returned error: %v", i, err)
		}
		if n != 0 {
			t.Fatalf("check %d returned %d items for empty parent", i, n)
		}
	}
	if cs.queries != 0 {
		t.Fatalf("empty parent reads must not hit the store, got %d queries", cs.queries)
	}
}

func TestTransactionReferenceGenerated(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	tx, err := r.CreateTransaction(ctx, models.Transaction{
		AccountID:       "acc-1",
		Amount:          500,
		TransactionType: models.TransactionCredit,
		Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		CompanyID:       "c1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !strings.HasPrefix(tx.ReferenceNumber, "TXN-") {
		t.Fatalf("expected generated TXN- reference, got %q", tx.ReferenceNumber)
	}

	withRef, err := r.CreateTransaction(ctx, models.Transaction{
		AccountID:       "acc-1",
		Amount:          100,
		TransactionType: models.TransactionDebit,
		Date:            time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "CHQ-0042",
		CompanyID:       "c1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if withRef.ReferenceNumber != "CHQ-0042" {
		t.Fatalf("supplied reference overwritten: %q", withRef.ReferenceNumber)
	}
}

func TestTransactionsByAccountLimit(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		_, err := r.CreateTransaction(ctx, models.Transaction{
			AccountID:       "acc-1",
			Amount:          1,
			TransactionType: models.TransactionDebit,
			Date:            base.Add(time.Duration(i) * time.Minute),
			CompanyID:       "c1",
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	got, err := r.TransactionsByAccount(ctx, "acc-1", 0)
	if err != nil {
		t.Fatalf("TransactionsByAccount: %v", err)
	}
	if len(got) != DefaultTransactionLimit {
		t.Fatalf("expected default cap %d, got %d", DefaultTransactionLimit, len(got))
	}
	if !got[0].Date.After(got[len(got)-1].Date) {
		t.Fatal("not newest first")
	}

	got, err = r.TransactionsByAccount(ctx, "acc-1", 5)
	if err != nil || len(got) != 5 {
		t.Fatalf("explicit limit ignored: %d, %v", len(got), err)
	}
}

func TestBatchCreateTransactions(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	txs := []models.Transaction{
		{AccountID: "acc-1", Amount: 10, TransactionType: models.TransactionCredit,
			Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), CompanyID: "c1"},
		{AccountID: "acc-1", Amount: 20, TransactionType: models.TransactionDebit,
			Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), CompanyID: "c1"},
	}
	created, err := r.BatchCreateTransactions(ctx, txs)
	if err != nil {
		t.Fatalf("BatchCreateTransactions: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(created))
	}
	for _, tx := range created {
		if tx.ID == "" || tx.CreatedAt.IsZero() || tx.ReferenceNumber == "" {
			t.Fatalf("incomplete batch record: %+v", tx)
		}
	}

	listed, err := r.TransactionsByAccount(ctx, "acc-1", 0)
	if err != nil || len(listed) != 2 {
		t.Fatalf("batch not visible: %d, %v", len(listed), err)
	}
}

func TestAccountsByCompanyHidesInactive(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	active, err := r.CreateBankAccount(ctx, models.BankAccount{
		AccountNumber: "0001", BankName: "HDFC", AccountType: models.AccountCurrent,
		Balance: 1000, CompanyID: "c1", IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateBankAccount: %v", err)
	}
	gone, err := r.CreateBankAccount(ctx, models.BankAccount{
		AccountNumber: "0002", BankName: "ICICI", AccountType: models.AccountSavings,
		Balance: 500, CompanyID: "c1", IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateBankAccount: %v", err)
	}

	if err := r.DeactivateAccount(ctx, gone.ID); err != nil {
		t.Fatalf("DeactivateAccount: %v", err)
	}

	got, err := r.AccountsByCompany(ctx, "c1")
	if err != nil {
		t.Fatalf("AccountsByCompany: %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("inactive account not hidden: %+v", got)
	}
}

func TestInvoiceItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	inv, err := r.CreateInvoice(ctx, models.Invoice{
		InvoiceNumber: "INV-2025-001",
		ClientName:    "Globex LLC",
		IssueDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Items: []models.InvoiceItem{
			{Description: "Consulting", Quantity: 10, Rate: 150, Amount: 1500, TaxRate: 18},
			{Description: "Hosting", Quantity: 1, Rate: 200, Amount: 200, TaxRate: 18},
		},
		Subtotal:    1700,
		TaxAmount:   306,
		TotalAmount: 2006,
		Status:      models.InvoiceDraft,
		CompanyID:   "c1",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	got, err := r.InvoiceByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("InvoiceByID: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items lost: %d", len(got.Items))
	}
	if got.Items[0].Description != "Consulting" || got.Items[0].Amount != 1500 {
		t.Fatalf("item mangled: %+v", got.Items[0])
	}
	if got.TotalAmount != 2006 {
		t.Fatalf("totals recomputed or lost: %v", got.TotalAmount)
	}
}

func TestMalformedDocumentSurfaces(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	r := New(st)

	// Hand-plant a document with the wrong dynamic type for amount.
	_, err := st.Add(ctx, "expenses", map[string]any{
		"companyId": "c1",
		"amount":    "not a number",
		"date":      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err = r.ExpensesByCompany(ctx, "c1")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestEmployeesByCompanyOnlyActive(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	kept, err := r.CreateEmployee(ctx, models.Employee{
		Name: "Asha", Salary: 90000, Status: models.EmployeeActive, CompanyID: "c1",
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	left, err := r.CreateEmployee(ctx, models.Employee{
		Name: "Ravi", Salary: 80000, Status: models.EmployeeActive, CompanyID: "c1",
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if err := r.UpdateEmployee(ctx, left.ID, map[string]any{"status": models.EmployeeInactive}); err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}

	got, err := r.EmployeesByCompany(ctx, "c1")
	if err != nil {
		t.Fatalf("EmployeesByCompany: %v", err)
	}
	if len(got) != 1 || got[0].ID != kept.ID {
		t.Fatalf("inactive employee listed: %+v", got)
	}
}

func TestUpdateDocumentConvertsDateString(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	doc, err := r.CreateDocument(ctx, models.Document{Title: "GST filing", CompanyID: "c1"})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	// JSON-decoded updates carry dates as strings.
	err = r.UpdateDocument(ctx, doc.ID, map[string]any{"issueDate": "2026-02-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}

	docs, err := r.DocumentsByCompany(ctx, "c1")
	if err != nil {
		t.Fatalf("DocumentsByCompany after update: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !docs[0].IssueDate.Equal(want) {
		t.Fatalf("issueDate not converted: %v", docs[0].IssueDate)
	}
}

func TestUpdateDocumentAcceptsTimeValue(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	doc, err := r.CreateDocument(ctx, models.Document{Title: "Invoice scan", CompanyID: "c1"})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	want := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	if err := r.UpdateDocument(ctx, doc.ID, map[string]any{"issueDate": want}); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	docs, err := r.DocumentsByCompany(ctx, "c1")
	if err != nil {
		t.Fatalf("DocumentsByCompany: %v", err)
	}
	if !docs[0].IssueDate.Equal(want) {
		t.Fatalf("issueDate mangled: %v", docs[0].IssueDate)
	}
}

func TestUpdateDocumentRejectsBadDate(t *testing.T) {
	ctx := context.Background()
	r := New(memstore.New())

	doc, err := r.CreateDocument(ctx, models.Document{Title: "Lease", CompanyID: "c1"})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	for _, bad := range []any{"02/01/2026", 42} {
		err := r.UpdateDocument(ctx, doc.ID, map[string]any{"issueDate": bad})
		if !errors.Is(err, ErrBadDate) {
			t.Fatalf("issueDate=%v: want ErrBadDate, got %v", bad, err)
		}
	}

	// The rejected updates must not have touched the record.
	docs, err := r.DocumentsByCompany(ctx, "c1")
	if err != nil {
		t.Fatalf("DocumentsByCompany: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Lease" {
		t.Fatalf("record damaged by rejected update: %+v", docs)
	}
}

func TestUpdateDropsCallerTimestamps(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := New(memstore.New(), WithClock(fixedClock(created)))

	company, err := r.CreateCompany(ctx, models.Company{Name: "Acme", UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	// createdAt/updatedAt are repo-owned; a caller-supplied string must
	// not land in the store.
	err = r.UpdateCompany(ctx, company.ID, map[string]any{
		"name":      "Acme Global",
		"createdAt": "not-a-timestamp",
	})
	if err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}

	got, err := r.CompanyByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("CompanyByUser: %v", err)
	}
	if got.Name != "Acme Global" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record: %+v", got)
	}
}
