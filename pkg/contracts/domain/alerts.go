package domain

import (
	"time"
)

// RecipientsView is the current alert distribution list
type RecipientsView struct {
	Recipients []string `json:"recipients"`
	Default    string   `json:"default"`
	// LoadError is set when the stored list could not be read and an empty list is shown instead.
	LoadError string `json:"load_error,omitempty"`
}

// AlertResult reports a delivered critical floor alert
type AlertResult struct {
	CriticalFloor string    `json:"critical_floor"`
	Recipients    []string  `json:"recipients"`
	Subject       string    `json:"subject"`
	SentAt        time.Time `json:"sent_at"`
}

// SessionView describes the signed-in user
type SessionView struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
