package vision

import (
	"encoding/json"
	"strings"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

// The model's reply is not guaranteed to be clean JSON. ParseFields runs
// an ordered chain of strategies: strict JSON, a JSON object embedded in
// surrounding prose, then a line-oriented "Label: value" layout. When
// every strategy yields nothing, all fields fall back to the
// placeholder, which is still a successful extraction.

type strategy func(string) (models.CardFields, bool)

func ParseFields(content string) models.CardFields {
	content = stripFences(strings.TrimSpace(content))

	for _, parse := range []strategy{parseJSON, parseEmbeddedJSON, parseLabelled} {
		if f, ok := parse(content); ok {
			return normalize(f)
		}
	}

	return normalize(models.CardFields{})
}

// stripFences removes markdown code fences the model often wraps its
// JSON in.
func stripFences(s string) string {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parseJSON(s string) (models.CardFields, bool) {
	var f models.CardFields
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return models.CardFields{}, false
	}
	return f, true
}

func parseEmbeddedJSON(s string) (models.CardFields, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return models.CardFields{}, false
	}
	return parseJSON(s[start : end+1])
}

func parseLabelled(s string) (models.CardFields, bool) {
	var f models.CardFields
	matched := false

	for _, line := range strings.Split(s, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.Trim(strings.TrimSpace(key), "-*• \t"))
		value = strings.TrimSpace(value)

		switch key {
		case "name", "full name":
			f.Name = value
			matched = true
		case "email", "e-mail", "email address":
			f.Email = value
			matched = true
		case "phone", "phone number", "tel", "telephone":
			f.Phone = value
			matched = true
		case "company", "organization", "organisation", "company name":
			f.Company = value
			matched = true
		}
	}

	return f, matched
}

// normalize maps empty values and common negative phrases to the
// placeholder so every field is always a usable string.
func normalize(f models.CardFields) models.CardFields {
	f.Name = normalizeValue(f.Name)
	f.Email = normalizeValue(f.Email)
	f.Phone = normalizeValue(f.Phone)
	f.Company = normalizeValue(f.Company)
	return f
}

func normalizeValue(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "not found", "n/a", "none", "null", "-":
		return models.Placeholder
	}
	return v
}
