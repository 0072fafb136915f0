package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"finboard.org/internal/models"
)

const defaultCompanyName = "Your Company"

// session is the explicit session object owned by the Service. There is
// no ambient logged-in flag: demo fallback state lives here and dies at
// sign-out.
type session struct {
	user *models.User
	demo bool
}

// Service is the session store. It wraps the identity provider, applies
// the demo fallback, and fans session transitions out to subscribers.
type Service struct {
	provider Provider
	demoMode bool
	now      func() time.Time

	mu      sync.RWMutex
	current *session
	subs    map[int]func(*models.User)
	nextSub int
}

// Option configures the Service.
type Option func(*Service)

// WithDemoMode starts the service with the demo fallback enabled even
// when the provider is reachable.
func WithDemoMode(enabled bool) Option {
	return func(s *Service) { s.demoMode = enabled }
}

// WithClock overrides the time source (tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService builds a session store over the given provider. provider
// may be nil in demo mode.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		now:      time.Now,
		subs:     make(map[int]func(*models.User)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignIn authenticates against the provider; when the provider call
// fails it falls back to the fixed demo credential pair. Expected
// rejections return ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	if s.provider != nil && !s.demoMode {
		ident, err := s.provider.SignIn(ctx, email, password)
		if err == nil {
			user := s.transform(ident, "")
			s.establish(&session{user: user})
			return user, nil
		}
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		slog.Warn("auth provider sign-in failed, trying demo fallback", "error", err)
	}

	if email == DemoEmail && verifyDemoPassword(password) {
		user := demoUser(s.now().UTC())
		s.establish(&session{user: user, demo: true})
		return user, nil
	}
	return nil, ErrInvalidCredentials
}

// SignUp creates a provider account with the company name as display
// name. Provider failure synthesizes a demo user carrying the supplied
// email and company name; nothing is persisted beyond the session.
func (s *Service) SignUp(ctx context.Context, email, password, companyName string) (*models.User, error) {
	if s.provider != nil && !s.demoMode {
		ident, err := s.provider.SignUp(ctx, email, password, companyName)
		if err == nil {
			user := s.transform(ident, companyName)
			user.SubscriptionPlan = models.PlanBasic
			s.establish(&session{user: user})
			return user, nil
		}
		slog.Warn("auth provider sign-up failed, using demo fallback", "error", err)
	}

	user := demoUser(s.now().UTC())
	user.Email = email
	user.CompanyName = companyName
	s.establish(&session{user: user, demo: true})
	return user, nil
}

// SignOut tears the session down unconditionally. Provider errors are
// swallowed: the local session is always clearable and repeated calls
// are harmless.
func (s *Service) SignOut(ctx context.Context) error {
	if s.provider != nil {
		if err := s.provider.SignOut(ctx); err != nil {
			slog.Warn("auth provider sign-out failed, clearing session anyway", "error", err)
		}
	}
	s.establish(nil)
	return nil
}

// CurrentUser returns the signed-in user, the demo user for a demo
// session, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current.user
	return &u
}

// Subscribe registers a callback fired on every session transition with
// the new user (nil after sign-out). The callback also fires once,
// asynchronously, with the current state so late subscribers converge.
// The returned function unsubscribes and is safe to call twice.
func (s *Service) Subscribe(fn func(*models.User)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.snapshotLocked()
	s.mu.Unlock()

	go fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) establish(next *session) {
	s.mu.Lock()
	s.current = next
	user := s.snapshotLocked()
	subs := make([]func(*models.User), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}

func (s *Service) snapshotLocked() *models.User {
	if s.current == nil {
		return nil
	}
	u := *s.current.user
	return &u
}

// transform maps a provider identity into the internal user shape. Role
// and plan are fixed values; nothing downstream varies them.
func (s *Service) transform(ident Identity, companyName string) *models.User {
	name := companyName
	if name == "" {
		name = ident.DisplayName
	}
	if name == "" {
		name = defaultCompanyName
	}
	created := ident.CreatedAt
	if created.IsZero() {
		created = s.now().UTC()
	}
	return &models.User{
		ID:               ident.UID,
		Email:            ident.Email,
		CompanyName:      name,
		Role:             models.RoleAdmin,
		SubscriptionPlan: models.PlanProfessional,
		CreatedAt:        created,
	}
}
