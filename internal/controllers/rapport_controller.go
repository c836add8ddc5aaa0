package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/export"
	"github.com/easyrh/backend/internal/logger"
	"github.com/easyrh/backend/internal/models"
	"github.com/easyrh/backend/internal/policy"
	"github.com/easyrh/backend/internal/services"
)

type RapportController struct {
	db            *gorm.DB
	reportService *services.ReportService
}

func NewRapportController(db *gorm.DB, reportService *services.ReportService) *RapportController {
	return &RapportController{db: db, reportService: reportService}
}

// GetRapport fetches the rapport of a collaborator for a saison. There
// should be at most one; stale duplicates resolve to the most recently
// updated.
func (rc *RapportController) GetRapport(c *gin.Context) {
	collaboratorID, err := strconv.Atoi(c.Query("collaboratorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collaboratorId query parameter is required"})
		return
	}
	saisonID, err := strconv.Atoi(c.Query("saisonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "saisonId query parameter is required"})
		return
	}

	var rapport models.Rapport
	if err := rc.db.Where("collaborator_id = ? AND saison_id = ?", collaboratorID, saisonID).
		Order("updated_at desc").
		First(&rapport).Error; err != nil {
		storeError(c, err, "Rapport not found")
		return
	}

	c.JSON(http.StatusOK, rapport)
}

type CreateRapportRequest struct {
	CollaboratorID uint    `json:"collaboratorId" binding:"required"`
	SaisonID       uint    `json:"saisonId" binding:"required"`
	Content        *string `json:"content"`
	Status         string  `json:"status"`
}

func (rc *RapportController) CreateRapport(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateRapportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.RapportDraft
	if req.Status != "" {
		status = models.RapportStatus(req.Status)
		if !policy.ValidRapportStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be DRAFT or VALIDATED"})
			return
		}
	}

	rapport := models.Rapport{
		CollaboratorID: req.CollaboratorID,
		AuthorID:       userID,
		SaisonID:       req.SaisonID,
		Content:        req.Content,
		Status:         status,
	}

	if err := rc.db.Create(&rapport).Error; err != nil {
		saveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rapport)
}

type UpdateRapportRequest struct {
	Content *string `json:"content"`
	Status  string  `json:"status"`
}

// UpdateRapport saves content and status. The status may move freely
// between DRAFT and VALIDATED, in either direction.
func (rc *RapportController) UpdateRapport(c *gin.Context) {
	_, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rapport ID"})
		return
	}

	var req UpdateRapportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var rapport models.Rapport
	if err := rc.db.First(&rapport, id).Error; err != nil {
		storeError(c, err, "Rapport not found")
		return
	}

	if req.Content != nil {
		rapport.Content = req.Content
	}
	if req.Status != "" {
		status := models.RapportStatus(req.Status)
		if !policy.ValidRapportStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be DRAFT or VALIDATED"})
			return
		}
		rapport.Status = status
	}

	if err := rc.db.Save(&rapport).Error; err != nil {
		storeError(c, err, "Rapport not found")
		return
	}

	c.JSON(http.StatusOK, rapport)
}

func (rc *RapportController) DeleteRapport(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !policy.CanDeleteRapport(role) {
		logger.WithUser(userID).WithField("rapport_id", c.Param("id")).Warn("Rapport delete denied: admin only")
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rapport ID"})
		return
	}

	var rapport models.Rapport
	if err := rc.db.First(&rapport, id).Error; err != nil {
		storeError(c, err, "Rapport not found")
		return
	}

	if err := rc.db.Delete(&rapport).Error; err != nil {
		storeError(c, err, "Rapport not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rapport deleted"})
}

type GenerateRapportRequest struct {
	CollaboratorID uint `json:"collaboratorId" binding:"required"`
	SaisonID       uint `json:"saisonId" binding:"required"`
}

// GenerateRapport synthesizes a report from the collaborator's feedbacks
// for the saison and returns the text. Persisting it goes through the
// normal save path; nothing is written here.
func (rc *RapportController) GenerateRapport(c *gin.Context) {
	_, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req GenerateRapportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logEntry := logger.WithReport(req.CollaboratorID, req.SaisonID)

	var feedbacks []models.Feedback
	if err := rc.db.Preload("Author").
		Where("collaborator_id = ? AND saison_id = ?", req.CollaboratorID, req.SaisonID).
		Order("created_at desc").
		Find(&feedbacks).Error; err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to fetch feedbacks for generation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedbacks"})
		return
	}

	report, err := rc.reportService.GenerateReport(c.Request.Context(), services.FeedbackPromptInput(feedbacks))
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Report generation failed")
		rc.generationError(c, err)
		return
	}

	logEntry.WithField("feedback_count", len(feedbacks)).Info("Report generated")
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// generationError renders synthesis failures with the same body shape as
// the generation endpoint: {error, details?, status?}.
func (rc *RapportController) generationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OpenAI API key is required"})
	case errors.Is(err, services.ErrNoFeedback):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No feedbacks provided"})
	default:
		var upErr *services.UpstreamError
		if errors.As(err, &upErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   upErr.Message,
				"details": upErr.Details,
				"status":  upErr.Status,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ExportRapport renders the rapport as a downloadable PDF.
func (rc *RapportController) ExportRapport(c *gin.Context) {
	_, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rapport ID"})
		return
	}

	var rapport models.Rapport
	if err := rc.db.Preload("Collaborator").Preload("Saison").First(&rapport, id).Error; err != nil {
		storeError(c, err, "Rapport not found")
		return
	}

	if rapport.Content == nil || *rapport.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le rapport est vide"})
		return
	}

	pdfBytes, filename, err := export.ExportRapport(rapport.Collaborator, rapport.Saison, *rapport.Content, rapport.Status, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export rapport"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
