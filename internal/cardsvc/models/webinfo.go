package models

import (
	"encoding/json"
	"time"
)

// WebInfo represents the web_scraped_data table: an opaque blob of
// gathered information about a person/company, stored as JSONB.
type WebInfo struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Company   string          `json:"company,omitempty"`
	Info      json.RawMessage `json:"web_info"`
	CreatedAt time.Time       `json:"created_at"`
}
