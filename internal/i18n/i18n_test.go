package i18n

import (
	"testing"
	"time"

	"github.com/easyrh/backend/internal/models"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), "2 janvier 2025"},
		{time.Date(2024, time.August, 15, 10, 30, 0, 0, time.UTC), "15 août 2024"},
		{time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), "31 décembre 2023"},
	}

	for _, test := range tests {
		if got := FormatDate(test.date); got != test.want {
			t.Errorf("FormatDate(%v): expected %q, got %q", test.date, test.want, got)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusLabel(models.RapportValidated) != "Validé" {
		t.Fatalf("expected Validé")
	}
	if StatusLabel(models.RapportDraft) != "Brouillon" {
		t.Fatalf("expected Brouillon")
	}
	// unknown status falls back to draft label
	if StatusLabel("???") != "Brouillon" {
		t.Fatalf("expected Brouillon fallback")
	}
}

func TestRoleLabel(t *testing.T) {
	if RoleLabel(models.RoleChefDeMission) != "CHEF DE MISSION" {
		t.Fatalf("expected CHEF DE MISSION")
	}
	if RoleLabel(models.RoleAdmin) != "ADMIN" {
		t.Fatalf("expected ADMIN")
	}
}
