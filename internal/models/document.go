package models

import "time"

// Document is an archived business document (invoice copy, contract,
// GST filing, board resolution, ...) attached to a company.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Entity    string    `json:"entity,omitempty"`
	IssueDate time.Time `json:"issueDate"`
	Amount    float64   `json:"amount,omitempty"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	FilePath  string    `json:"filePath,omitempty"`
	Size      string    `json:"size,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CompanyID string    `json:"companyId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
