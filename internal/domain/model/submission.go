package model

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Validation bounds for submission fields.
const (
	maxNameLength       = 50
	maxDepartmentLength = 50
	maxEmailLength      = 100
)

// Submission is the client-supplied input for creating a player record.
// TimeTaken is a pointer so an absent field is distinguishable from a
// legitimate zero-second run.
type Submission struct {
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Email      string   `json:"email,omitempty"`
	TimeTaken  *float64 `json:"timeTaken"`
}

// Validate checks the submission and reports every invalid field at once.
// It returns a *ValidationError or nil.
func (s Submission) Validate() error {
	var fields []FieldError

	switch name := strings.TrimSpace(s.Name); {
	case name == "":
		fields = append(fields, FieldError{Field: "name", Reason: "name is required"})
	case utf8.RuneCountInString(name) > maxNameLength:
		fields = append(fields, FieldError{Field: "name", Reason: "name must be at most 50 characters"})
	}

	switch department := strings.TrimSpace(s.Department); {
	case department == "":
		fields = append(fields, FieldError{Field: "department", Reason: "department is required"})
	case utf8.RuneCountInString(department) > maxDepartmentLength:
		fields = append(fields, FieldError{Field: "department", Reason: "department must be at most 50 characters"})
	}

	if email := strings.TrimSpace(s.Email); utf8.RuneCountInString(email) > maxEmailLength {
		fields = append(fields, FieldError{Field: "email", Reason: "email must be at most 100 characters"})
	}

	switch {
	case s.TimeTaken == nil:
		fields = append(fields, FieldError{Field: "timeTaken", Reason: "timeTaken is required"})
	case math.IsNaN(*s.TimeTaken) || math.IsInf(*s.TimeTaken, 0) || *s.TimeTaken < 0:
		fields = append(fields, FieldError{Field: "timeTaken", Reason: "timeTaken must be a non-negative number"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Record builds the storable record from a validated submission: text fields
// trimmed, the given score and creation time attached. The ID is left for
// storage to assign.
func (s Submission) Record(score int, createdAt time.Time) *PlayerRecord {
	return &PlayerRecord{
		Name:       strings.TrimSpace(s.Name),
		Department: strings.TrimSpace(s.Department),
		Email:      strings.TrimSpace(s.Email),
		TimeTaken:  *s.TimeTaken,
		Score:      score,
		CreatedAt:  createdAt,
	}
}
