package view

import (
	"context"
	"sync"

	"finboard.org/internal/models"
	"finboard.org/internal/repo"
)

// Entity names double as cache keys.
const (
	EntityDocuments    = "documents"
	EntityExpenses     = "expenses"
	EntityAccounts     = "bankAccounts"
	EntityTransactions = "transactions"
	EntityInvoices     = "invoices"
	EntityEmployees    = "employees"
)

// Views bundles one container per entity, all sharing one cache and
// one repository. A new parent id propagates to every container.
type Views struct {
	Cache *Cache

	Documents *List[models.Document]
	Expenses  *List[models.Expense]
	Accounts  *List[models.BankAccount]
	Invoices  *List[models.Invoice]
	Employees *List[models.Employee]
}

// New wires containers over r with a fresh shared cache.
func New(r *repo.Repo) *Views {
	c := NewCache()
	return &Views{
		Cache: c,
		Documents: NewList(EntityDocuments, r.DocumentsByCompany,
			func(d models.Document) string { return d.ID }, Prepend, c),
		Expenses: NewList(EntityExpenses, r.ExpensesByCompany,
			func(e models.Expense) string { return e.ID }, Prepend, c),
		Accounts: NewList(EntityAccounts, r.AccountsByCompany,
			func(a models.BankAccount) string { return a.ID }, Prepend, c),
		Invoices: NewList(EntityInvoices, r.InvoicesByCompany,
			func(i models.Invoice) string { return i.ID }, Prepend, c),
		Employees: NewList(EntityEmployees, r.EmployeesByCompany,
			func(e models.Employee) string { return e.ID }, Prepend, c),
	}
}

// SetCompany points every company-scoped container at companyID. The
// first fetch error is returned; remaining containers still load.
func (v *Views) SetCompany(ctx context.Context, companyID string) error {
	var firstErr error
	for _, set := range []func(context.Context, string) error{
		v.Documents.SetParent,
		v.Expenses.SetParent,
		v.Accounts.SetParent,
		v.Invoices.SetParent,
		v.Employees.SetParent,
	} {
		if err := set(ctx, companyID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// TransactionsView scopes transactions to a bank account rather than a
// company.
func TransactionsView(r *repo.Repo, cache *Cache) *List[models.Transaction] {
	return NewList(EntityTransactions,
		func(ctx context.Context, accountID string) ([]models.Transaction, error) {
			return r.TransactionsByAccount(ctx, accountID, repo.DefaultTransactionLimit)
		},
		func(t models.Transaction) string { return t.ID }, Prepend, cache)
}

// CompanyView holds the single company record owned by the signed-in
// user. Unlike List it tracks one pointer, nil meaning the user has no
// company yet.
type CompanyView struct {
	repo *repo.Repo

	mu      sync.Mutex
	userID  string
	gen     uint64
	company *models.Company
	loading bool
	errMsg  string
}

func NewCompanyView(r *repo.Repo) *CompanyView {
	return &CompanyView{repo: r}
}

// SetUser fetches the company owned by userID. Empty user clears
// state. Stale responses are discarded.
func (v *CompanyView) SetUser(ctx context.Context, userID string) error {
	v.mu.Lock()
	v.userID = userID
	v.gen++
	gen := v.gen
	if userID == "" {
		v.company = nil
		v.loading = false
		v.errMsg = ""
		v.mu.Unlock()
		return nil
	}
	v.company = nil
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	c, err := v.repo.CompanyByUser(ctx, userID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return nil
	}
	v.loading = false
	if err != nil {
		v.errMsg = err.Error()
		return err
	}
	v.company = c
	v.errMsg = ""
	return nil
}

// Create registers a company for the current user and adopts the
// stored record locally.
func (v *CompanyView) Create(ctx context.Context, c models.Company) (models.Company, error) {
	v.mu.Lock()
	c.UserID = v.userID
	v.mu.Unlock()
	created, err := v.repo.CreateCompany(ctx, c)
	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.errMsg = err.Error()
		return created, err
	}
	v.company = &created
	v.errMsg = ""
	return created, nil
}

// Update writes the partial update and applies the same change to the
// local record via apply.
func (v *CompanyView) Update(ctx context.Context, updates map[string]any, apply func(*models.Company)) error {
	v.mu.Lock()
	if v.company == nil {
		v.mu.Unlock()
		return repo.ErrMissingID
	}
	id := v.company.ID
	v.mu.Unlock()

	if err := v.repo.UpdateCompany(ctx, id, updates); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.company != nil && apply != nil {
		apply(v.company)
	}
	v.errMsg = ""
	return nil
}

// Company returns a copy of the current record, nil when absent.
func (v *CompanyView) Company() *models.Company {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.company == nil {
		return nil
	}
	c := *v.company
	return &c
}

func (v *CompanyView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *CompanyView) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}
