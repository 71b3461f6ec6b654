package directory

import (
	"strings"

	"bouncecure/internal/domain"
)

// ClassifyStatus maps a free-form status string onto a display category.
func ClassifyStatus(status string) domain.StatusClass {
	switch strings.ToLower(status) {
	case "success", "succeeded":
		return domain.StatusSuccess
	case "pending":
		return domain.StatusPending
	case "failed":
		return domain.StatusFailed
	default:
		return domain.StatusUnknown
	}
}
