// Package policy centralizes the role-scoped visibility and lifecycle
// rules. Every handler consults these predicates instead of re-deriving
// role logic; they are pure functions over already-fetched rows and never
// return errors — absence of permission simply denies the action.
package policy

import (
	"github.com/easyrh/backend/internal/models"
)

// VisibleCollaboratorRole returns the role of the collaborators the acting
// role evaluates: ADMIN evaluates CHEF_DE_MISSION, CHEF_DE_MISSION
// evaluates ASSISTANT. The second return is false when the acting role
// evaluates nobody (ASSISTANT, or an unknown role).
func VisibleCollaboratorRole(acting models.UserRole) (models.UserRole, bool) {
	switch acting {
	case models.RoleAdmin:
		return models.RoleChefDeMission, true
	case models.RoleChefDeMission:
		return models.RoleAssistant, true
	default:
		return "", false
	}
}

// CanEditFeedback reports whether the acting user may edit or delete the
// feedback. Only the original author may, regardless of role.
func CanEditFeedback(actingUserID uint, feedback models.Feedback) bool {
	return actingUserID == feedback.AuthorID
}

// CanDeleteRapport reports whether the acting role may delete a rapport.
func CanDeleteRapport(acting models.UserRole) bool {
	return acting == models.RoleAdmin
}

// CanManageUsersAndSaisons reports whether the acting role may use the
// user and saison management screens.
func CanManageUsersAndSaisons(acting models.UserRole) bool {
	return acting == models.RoleAdmin
}

// ValidRapportStatus reports whether s is a known rapport status.
// Transitions are unrestricted in both directions: a VALIDATED rapport may
// be put back to DRAFT.
func ValidRapportStatus(s models.RapportStatus) bool {
	return s == models.RapportDraft || s == models.RapportValidated
}
