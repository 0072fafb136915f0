package models

import "time"

// Role and subscription plan values carried on every authenticated identity.
// Nothing in the service varies or enforces these yet; they are fixed at
// sign-in time.
const (
	RoleAdmin        = "admin"
	PlanBasic        = "basic"
	PlanProfessional = "professional"
)

// User is the internal identity shape produced by the session store,
// regardless of whether it came from the auth provider or the demo fallback.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	CompanyName      string    `json:"company_name,omitempty"`
	Role             string    `json:"role"`
	SubscriptionPlan string    `json:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at"`
}
