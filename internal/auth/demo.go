package auth

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"finboard.org/internal/models"
)

// Fixed demo credentials, honored when the provider is unreachable or
// the service runs in demo mode.
const (
	DemoEmail    = "demo@company.com"
	demoPassword = "demo123"
	demoUserID   = "demo-user-123"
	demoCompany  = "Demo Company Ltd"
)

var (
	demoHashOnce sync.Once
	demoHash     []byte
)

// verifyDemoPassword compares the supplied password against the demo
// credential. The hash is derived once so comparison goes through
// bcrypt's constant-time path rather than a string equality.
func verifyDemoPassword(password string) bool {
	demoHashOnce.Do(func() {
		demoHash, _ = bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	})
	return bcrypt.CompareHashAndPassword(demoHash, []byte(password)) == nil
}

// demoUser synthesizes the fallback identity in the internal user shape.
func demoUser(now time.Time) *models.User {
	return &models.User{
		ID:               demoUserID,
		Email:            DemoEmail,
		CompanyName:      demoCompany,
		Role:             models.RoleAdmin,
		SubscriptionPlan: models.PlanProfessional,
		CreatedAt:        now,
	}
}
