package model

import "time"

// Document represents an uploaded file belonging to exactly one business
// account. This is a pure domain model with no database-specific tags; it is
// shared across the HTTP, service, and storage layers.
type Document struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	BusinessID  string    `json:"business_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
