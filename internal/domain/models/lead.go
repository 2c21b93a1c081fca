package models

import (
	"strings"
	"time"
)

// Lead is an immutable snapshot of a sales lead as read for a ranking run.
// The ranking pipeline never mutates leads; it only produces rankings for them.
type Lead struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	JobTitle      string    `json:"jobTitle"`
	CompanyName   string    `json:"companyName"`
	EmployeeRange string    `json:"employeeRange,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}
