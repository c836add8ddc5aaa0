package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/logger"
	"github.com/easyrh/backend/internal/models"
	"github.com/easyrh/backend/internal/policy"
)

type FeedbackController struct {
	db *gorm.DB
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{db: db}
}

// GetFeedbacks lists the feedbacks about a collaborator within a saison,
// newest first, with the author preloaded.
func (fc *FeedbackController) GetFeedbacks(c *gin.Context) {
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

	var feedbacks []models.Feedback
	if err := fc.db.Preload("Author").
		Where("collaborator_id = ? AND saison_id = ?", collaboratorID, saisonID).
		Order("created_at desc").
		Find(&feedbacks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedbacks"})
		return
	}

	for i := range feedbacks {
		feedbacks[i].Author.Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"feedbacks": feedbacks})
}

type CreateFeedbackRequest struct {
	Content        string  `json:"content" binding:"required"`
	CollaboratorID uint    `json:"collaboratorId" binding:"required"`
	SaisonID       uint    `json:"saisonId" binding:"required"`
	Mission        *string `json:"mission"`
}

func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A feedback's author and collaborator are distinct users.
	if req.CollaboratorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot write feedback about yourself"})
		return
	}

	feedback := models.Feedback{
		Content:        req.Content,
		AuthorID:       userID,
		CollaboratorID: req.CollaboratorID,
		SaisonID:       req.SaisonID,
		Mission:        req.Mission,
	}

	if err := fc.db.Create(&feedback).Error; err != nil {
		saveError(c, err)
		return
	}

	if err := fc.db.Preload("Author").First(&feedback, feedback.ID).Error; err == nil {
		feedback.Author.Password = ""
	}

	c.JSON(http.StatusCreated, feedback)
}

type UpdateFeedbackRequest struct {
	Content string  `json:"content" binding:"required"`
	Mission *string `json:"mission"`
}

func (fc *FeedbackController) UpdateFeedback(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var feedback models.Feedback
	if err := fc.db.First(&feedback, id).Error; err != nil {
		storeError(c, err, "Feedback not found")
		return
	}

	if !policy.CanEditFeedback(userID, feedback) {
		logger.WithUser(userID).WithField("feedback_id", feedback.ID).Warn("Feedback edit denied: not the author")
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may edit this feedback"})
		return
	}

	feedback.Content = req.Content
	feedback.Mission = req.Mission

	if err := fc.db.Save(&feedback).Error; err != nil {
		storeError(c, err, "Feedback not found")
		return
	}

	if err := fc.db.Preload("Author").First(&feedback, feedback.ID).Error; err == nil {
		feedback.Author.Password = ""
	}

	c.JSON(http.StatusOK, feedback)
}

func (fc *FeedbackController) DeleteFeedback(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	var feedback models.Feedback
	if err := fc.db.First(&feedback, id).Error; err != nil {
		storeError(c, err, "Feedback not found")
		return
	}

	if !policy.CanEditFeedback(userID, feedback) {
		logger.WithUser(userID).WithField("feedback_id", feedback.ID).Warn("Feedback delete denied: not the author")
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may delete this feedback"})
		return
	}

	if err := fc.db.Delete(&feedback).Error; err != nil {
		storeError(c, err, "Feedback not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
