// Package admin wires the list-query engine to the MinhLoc admin console list
// screens: customers, activity logs, job positions, job applications and user
// roles.
package admin

import "time"

// Customer is one entry of the customer list.
type Customer struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Type       string    `json:"type"`   // individual, business
	Status     string    `json:"status"` // active, inactive, potential
	Source     string    `json:"source"` // website, referral, event, hotline
	TotalSpent float64   `json:"totalSpent"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ActivityLog is one audit trail entry.
type ActivityLog struct {
	ID          int       `json:"id"`
	User        string    `json:"user"`
	Action      string    `json:"action"` // create, update, delete, login, logout
	Module      string    `json:"module"`
	Status      string    `json:"status"` // success, failed
	IPAddress   string    `json:"ipAddress"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// JobPosition is an opening on the careers page.
type JobPosition struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	Location   string    `json:"location"`
	Type       string    `json:"type"`   // full-time, part-time, contract, internship
	Status     string    `json:"status"` // open, closed, draft
	SalaryMin  float64   `json:"salaryMin"`
	SalaryMax  float64   `json:"salaryMax"`
	Applicants int       `json:"applicants"`
	PostedAt   time.Time `json:"postedAt"`
}

// JobApplication is a candidate's application to a position.
type JobApplication struct {
	ID         int       `json:"id"`
	Candidate  string    `json:"candidate"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Status     string    `json:"status"` // new, reviewing, interview, offered, hired, rejected
	Experience int       `json:"experience"` // years
	Score      float64   `json:"score"`      // interview score out of 10
	AppliedAt  time.Time `json:"appliedAt"`
}

// UserRole is a console role and the permissions it grants.
type UserRole struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Users       int       `json:"users"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"` // active, inactive
	CreatedAt   time.Time `json:"createdAt"`
}
