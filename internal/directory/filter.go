// Package directory holds the payment directory rules that are independent of
// storage and transport: search matching, display normalization, status
// classification and edit validation.
package directory

import (
	"strconv"
	"strings"

	"bouncecure/internal/models"
)

// Matches reports whether text occurs, case-insensitively, in the record's
// name, email, plan name, status, id or user id. Empty text matches everything.
func Matches(p *models.Payment, text string) bool {
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	for _, field := range []string{p.Name, p.Email, p.PlanName, p.Status} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	// Zero ids mean "unset" and never match.
	if p.ID != 0 && strings.Contains(strconv.FormatUint(uint64(p.ID), 10), needle) {
		return true
	}
	if p.UserID != 0 && strings.Contains(strconv.FormatUint(uint64(p.UserID), 10), needle) {
		return true
	}
	return false
}

// Filter returns the records matching text in their original order. With empty
// text the input slice is returned as is.
func Filter(records []models.Payment, text string) []models.Payment {
	if text == "" {
		return records
	}
	out := make([]models.Payment, 0, len(records))
	for i := range records {
		if Matches(&records[i], text) {
			out = append(out, records[i])
		}
	}
	return out
}
