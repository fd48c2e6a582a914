package models

import "strings"

// Placeholder stands in for a field the vision model could not read.
const Placeholder = "Not Found"

// CardFields is the ephemeral extraction result. Every field is either a
// non-empty string or Placeholder, never empty. Nothing here is persisted
// until the caller confirms a save.
type CardFields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// HasName reports whether the extractor actually found a person's name.
func (f CardFields) HasName() bool {
	return strings.TrimSpace(f.Name) != "" && f.Name != Placeholder
}

// Input converts the extraction to a storable CardInput, dropping
// placeholders so they are not persisted as literal text.
func (f CardFields) Input() CardInput {
	clear := func(v string) string {
		if v == Placeholder {
			return ""
		}
		return strings.TrimSpace(v)
	}
	return CardInput{
		Name:    clear(f.Name),
		Email:   clear(f.Email),
		Phone:   clear(f.Phone),
		Company: clear(f.Company),
	}
}
