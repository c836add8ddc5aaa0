// Package i18n holds the French labels and date formatting used by the
// report prompt and the exported document. The application is
// French-only, so there is no language negotiation.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/easyrh/backend/internal/models"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate renders t as a French long date, e.g. "3 février 2025".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// StatusLabel returns the localized rapport status label.
func StatusLabel(status models.RapportStatus) string {
	if status == models.RapportValidated {
		return "Validé"
	}
	return "Brouillon"
}

// RoleLabel renders a role for display, underscores replaced by spaces.
func RoleLabel(role models.UserRole) string {
	return strings.ReplaceAll(string(role), "_", " ")
}
