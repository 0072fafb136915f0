package models

import "time"

// Employee status values.
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// Employee is a payroll record. Salary is the monthly gross; PF and TDS
// are the statutory monthly deductions.
type Employee struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Salary         float64   `json:"salary"`
	PFContribution float64   `json:"pfContribution"`
	TDSDeduction   float64   `json:"tdsDeduction"`
	Status         string    `json:"status"`
	CompanyID      string    `json:"companyId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
