package domain

import (
	"time"
)

// LoginResult is the canonical outcome of a login attempt. Source files may
// carry French or English labels; loaders normalize to these values.
type LoginResult string

const (
	LoginSuccess LoginResult = "success"
	LoginFailure LoginResult = "failure"
	LoginUnknown LoginResult = "unknown"
)

// NormalizeLoginResult maps raw result labels to a canonical LoginResult.
func NormalizeLoginResult(raw string) LoginResult {
	switch raw {
	case "succès", "succes", "success":
		return LoginSuccess
	case "échec", "echec", "failure":
		return LoginFailure
	default:
		return LoginUnknown
	}
}

// LoginAttempt represents a single authentication attempt.
type LoginAttempt struct {
	User       string      `json:"user" validate:"required"`
	Role       string      `json:"role"`
	Department string      `json:"department"`
	Time       time.Time   `json:"time" validate:"required"`
	SourceIP   string      `json:"source_ip"`
	Country    string      `json:"country"`
	Result     LoginResult `json:"result"`
}

// Failed reports whether the attempt was a failure.
func (l LoginAttempt) Failed() bool {
	return l.Result == LoginFailure
}

// Succeeded reports whether the attempt was a success.
func (l LoginAttempt) Succeeded() bool {
	return l.Result == LoginSuccess
}

// Month returns the attempt's calendar month truncated to the first day, UTC.
func (l LoginAttempt) Month() time.Time {
	return time.Date(l.Time.Year(), l.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
}
