// Package repo is the data-access layer between typed business records
// and the untyped documents of the backing store. Every method converts
// time-typed fields at the boundary in both directions and stamps
// createdAt/updatedAt itself; callers never supply timestamps.
package repo

import (
	"errors"
	"fmt"
	"time"

	"finboard.org/internal/store"
)

// Collection names in the backing store.
const (
	colCompanies    = "companies"
	colDocuments    = "documents"
	colExpenses     = "expenses"
	colBankAccounts = "bankAccounts"
	colTransactions = "transactions"
	colInvoices     = "invoices"
	colEmployees    = "employees"
)

var (
	// ErrMalformed wraps decode failures for documents whose shape does
	// not match the expected record.
	ErrMalformed = errors.New("repo: malformed document")

	// ErrMissingID signals a mutation attempted without a document id;
	// raised before any remote call.
	ErrMissingID = errors.New("repo: missing document id")

	// ErrBadDate signals a date field in a partial update that is neither
	// a time.Time nor an RFC 3339 string; raised before any remote call.
	ErrBadDate = errors.New("repo: invalid date field")
)

// Repo performs create/read/update/status operations for every business
// entity against a document store.
type Repo struct {
	store store.Store
	now   func() time.Time
}

// Option configures a Repo.
type Option func(*Repo)

// WithClock overrides the time source (tests).
func WithClock(fn func() time.Time) Option {
	return func(r *Repo) {
		if fn != nil {
			r.now = fn
		}
	}
}

// New builds a Repo over the given store.
func New(st store.Store, opts ...Option) *Repo {
	r := &Repo{store: st, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repo) timestamp() time.Time {
	return r.now().UTC()
}

// normalizeFields copies a caller-supplied partial update, drops the
// repo-owned timestamps, and coerces the named date fields to time.Time.
// JSON-decoded input carries dates as RFC 3339 strings; storing one raw
// would make the document undecodable on every later read.
func normalizeFields(updates map[string]any, dateFields ...string) (map[string]any, error) {
	out := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		out[k] = v
	}
	delete(out, "createdAt")
	delete(out, "updatedAt")
	for _, field := range dateFields {
		v, ok := out[field]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case time.Time:
		case string:
			parsed, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrBadDate, field, err)
			}
			out[field] = parsed
		default:
			return nil, fmt.Errorf("%w: %q: got %T", ErrBadDate, field, v)
		}
	}
	return out, nil
}
