package model

import "time"

// Business represents a registered business account.
// The API key is the opaque credential issued at registration time; it is
// immutable afterwards and is required to authenticate document uploads.
type Business struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AccountID string    `json:"account_id"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}
