package models

import "time"

// Company is the tenant record that scopes every other business entity.
// One company per authenticated user in current behavior.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	GSTIN     string    `json:"gstin,omitempty"`
	PAN       string    `json:"pan,omitempty"`
	CIN       string    `json:"cin,omitempty"`
	UserID    string    `json:"userId"` // immutable after creation
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
