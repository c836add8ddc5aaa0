package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/models"
	"github.com/easyrh/backend/internal/services"
)

func newRapportRouter(db *gorm.DB, rs *services.ReportService, asUserID uint, asRole models.UserRole) *gin.Engine {
	r := gin.New()
	rc := NewRapportController(db, rs)
	protected := r.Group("/", authAs(asUserID, asRole))
	protected.GET("/rapports", rc.GetRapport)
	protected.POST("/rapports", rc.CreateRapport)
	protected.POST("/rapports/generate", rc.GenerateRapport)
	protected.PUT("/rapports/:id", rc.UpdateRapport)
	protected.DELETE("/rapports/:id", rc.DeleteRapport)
	protected.GET("/rapports/:id/export", rc.ExportRapport)
	return r
}

func TestRapportRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	r := newRapportRouter(db, nil, chef.ID, chef.Role)

	// No rapport yet.
	w := performJSON(t, r, http.MethodGet,
		"/rapports?collaboratorId="+itoa(assistant.ID)+"&saisonId="+itoa(saison.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before creation, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodPost, "/rapports", gin.H{
		"collaboratorId": assistant.ID,
		"saisonId":       saison.ID,
		"content":        "# Synthèse\n\nPremier jet.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var rapport models.Rapport
	decodeBody(t, w, &rapport)
	if rapport.Status != models.RapportDraft {
		t.Errorf("expected new rapport to be DRAFT, got %s", rapport.Status)
	}
	if rapport.AuthorID != chef.ID {
		t.Errorf("expected author %d, got %d", chef.ID, rapport.AuthorID)
	}

	// Validate, then reopen as draft.
	w = performJSON(t, r, http.MethodPut, "/rapports/"+itoa(rapport.ID), gin.H{
		"content": "# Synthèse\n\nVersion relue.",
		"status":  "VALIDATED",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &rapport)
	if rapport.Status != models.RapportValidated {
		t.Errorf("expected VALIDATED, got %s", rapport.Status)
	}
	if rapport.Content == nil || *rapport.Content != "# Synthèse\n\nVersion relue." {
		t.Errorf("content not updated: %+v", rapport.Content)
	}

	w = performJSON(t, r, http.MethodPut, "/rapports/"+itoa(rapport.ID), gin.H{"status": "DRAFT"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 when reopening, got %d", w.Code)
	}
	decodeBody(t, w, &rapport)
	if rapport.Status != models.RapportDraft {
		t.Errorf("expected DRAFT after reopening, got %s", rapport.Status)
	}

	w = performJSON(t, r, http.MethodGet,
		"/rapports?collaboratorId="+itoa(assistant.ID)+"&saisonId="+itoa(saison.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after creation, got %d", w.Code)
	}
}

func TestUpdateRapportInvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	rapport := models.Rapport{CollaboratorID: assistant.ID, AuthorID: chef.ID, SaisonID: saison.ID, Status: models.RapportDraft}
	if err := db.Create(&rapport).Error; err != nil {
		t.Fatalf("failed to create rapport: %v", err)
	}

	r := newRapportRouter(db, nil, chef.ID, chef.Role)
	w := performJSON(t, r, http.MethodPut, "/rapports/"+itoa(rapport.ID), gin.H{"status": "PUBLISHED"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestDeleteRapportAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	admin, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	rapport := models.Rapport{CollaboratorID: assistant.ID, AuthorID: chef.ID, SaisonID: saison.ID, Status: models.RapportDraft}
	if err := db.Create(&rapport).Error; err != nil {
		t.Fatalf("failed to create rapport: %v", err)
	}

	r := newRapportRouter(db, nil, chef.ID, chef.Role)
	if w := performJSON(t, r, http.MethodDelete, "/rapports/"+itoa(rapport.ID), nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for chef, got %d", w.Code)
	}

	r = newRapportRouter(db, nil, admin.ID, admin.Role)
	if w := performJSON(t, r, http.MethodDelete, "/rapports/"+itoa(rapport.ID), nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}

	var count int64
	db.Model(&models.Rapport{}).Count(&count)
	if count != 0 {
		t.Errorf("expected rapport to be gone, count = %d", count)
	}
}

func TestGenerateRapport(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	for _, content := range []string{"Bonne rigueur.", "Autonomie en progrès."} {
		f := models.Feedback{Content: content, AuthorID: chef.ID, CollaboratorID: assistant.ID, SaisonID: saison.ID}
		if err := db.Create(&f).Error; err != nil {
			t.Fatalf("failed to create feedback: %v", err)
		}
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "# Synthèse annuelle\n\nRapport généré."}},
			},
		})
	}))
	defer upstream.Close()

	rs := services.NewReportService(upstream.URL, "test-key")
	r := newRapportRouter(db, rs, chef.ID, chef.Role)

	w := performJSON(t, r, http.MethodPost, "/rapports/generate", gin.H{
		"collaboratorId": assistant.ID,
		"saisonId":       saison.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Report string `json:"report"`
	}
	decodeBody(t, w, &resp)
	if resp.Report != "# Synthèse annuelle\n\nRapport généré." {
		t.Errorf("unexpected report: %q", resp.Report)
	}
}

func TestGenerateRapportWithoutFeedbacks(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	rs := services.NewReportService("http://127.0.0.1:0", "test-key")
	r := newRapportRouter(db, rs, chef.ID, chef.Role)

	w := performJSON(t, r, http.MethodPost, "/rapports/generate", gin.H{
		"collaboratorId": assistant.ID,
		"saisonId":       saison.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	decodeBody(t, w, &resp)
	if resp["error"] != "No feedbacks provided" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestGenerateRapportUpstreamError(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	f := models.Feedback{Content: "Bonne rigueur.", AuthorID: chef.ID, CollaboratorID: assistant.ID, SaisonID: saison.ID}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("failed to create feedback: %v", err)
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   "Rate limit exceeded",
			"details": "Retry after 20s",
			"status":  429,
		})
	}))
	defer upstream.Close()

	rs := services.NewReportService(upstream.URL, "test-key")
	r := newRapportRouter(db, rs, chef.ID, chef.Role)

	w := performJSON(t, r, http.MethodPost, "/rapports/generate", gin.H{
		"collaboratorId": assistant.ID,
		"saisonId":       saison.ID,
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
		Status  int    `json:"status"`
	}
	decodeBody(t, w, &resp)
	if resp.Error != "Rate limit exceeded" || resp.Details != "Retry after 20s" || resp.Status != 429 {
		t.Errorf("unexpected error body: %+v", resp)
	}
}

func TestExportRapport(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	content := "# Synthèse annuelle\n\nTrès bonne saison.\n- rigueur\n- autonomie"
	rapport := models.Rapport{
		CollaboratorID: assistant.ID,
		AuthorID:       chef.ID,
		SaisonID:       saison.ID,
		Content:        &content,
		Status:         models.RapportValidated,
	}
	if err := db.Create(&rapport).Error; err != nil {
		t.Fatalf("failed to create rapport: %v", err)
	}

	r := newRapportRouter(db, nil, chef.ID, chef.Role)
	w := performJSON(t, r, http.MethodGet, "/rapports/"+itoa(rapport.ID)+"/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "rapport_Petit_Saison_2025.pdf") {
		t.Errorf("unexpected Content-Disposition: %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Errorf("response body is not a PDF")
	}
}

func TestExportEmptyRapport(t *testing.T) {
	db := setupTestDB(t)
	_, chef, assistant := seedHierarchy(t, db)
	saison := createTestSaison(t, db, "Saison 2025", models.SaisonActive)

	rapport := models.Rapport{CollaboratorID: assistant.ID, AuthorID: chef.ID, SaisonID: saison.ID, Status: models.RapportDraft}
	if err := db.Create(&rapport).Error; err != nil {
		t.Fatalf("failed to create rapport: %v", err)
	}

	r := newRapportRouter(db, nil, chef.ID, chef.Role)
	w := performJSON(t, r, http.MethodGet, "/rapports/"+itoa(rapport.ID)+"/export", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty rapport, got %d", w.Code)
	}
}
