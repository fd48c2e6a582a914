package models

import "time"

// EmailLog represents the email_log table, one row per dispatched
// message. Used by the processing-status probe.
type EmailLog struct {
	ID           int64     `json:"id"`
	CardID       int64     `json:"business_card_id"`
	EmailAddress string    `json:"email_address"`
	MessageID    string    `json:"message_id,omitempty"`
	EmailType    string    `json:"email_type"`
	SentAt       time.Time `json:"sent_at"`
}
