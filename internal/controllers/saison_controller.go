package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/models"
	"github.com/easyrh/backend/internal/policy"
)

type SaisonController struct {
	db *gorm.DB
}

func NewSaisonController(db *gorm.DB) *SaisonController {
	return &SaisonController{db: db}
}

// GetSaisons lists all saisons, most recent first.
func (sc *SaisonController) GetSaisons(c *gin.Context) {
	var saisons []models.Saison
	if err := sc.db.Order("start_date desc").Find(&saisons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saisons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saisons": saisons})
}

// GetActiveSaisons lists ACTIVE saisons, most recent first. By
// convention there is at most one, but the list form keeps stale data
// from breaking the screen.
func (sc *SaisonController) GetActiveSaisons(c *gin.Context) {
	var saisons []models.Saison
	if err := sc.db.Where("status = ?", models.SaisonActive).Order("start_date desc").Find(&saisons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saisons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saisons": saisons})
}

type SaisonRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Status    string `json:"status"`
}

func (sc *SaisonController) CreateSaison(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req SaisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, endDate, status, errMsg := sc.parseSaisonFields(req)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	saison := models.Saison{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
	}

	if err := sc.db.Create(&saison).Error; err != nil {
		saveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saison)
}

func (sc *SaisonController) UpdateSaison(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid saison ID"})
		return
	}

	var req SaisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, endDate, status, errMsg := sc.parseSaisonFields(req)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	var saison models.Saison
	if err := sc.db.First(&saison, id).Error; err != nil {
		storeError(c, err, "Saison not found")
		return
	}

	saison.Name = req.Name
	saison.StartDate = startDate
	saison.EndDate = endDate
	saison.Status = status

	if err := sc.db.Save(&saison).Error; err != nil {
		storeError(c, err, "Saison not found")
		return
	}

	c.JSON(http.StatusOK, saison)
}

func (sc *SaisonController) DeleteSaison(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid saison ID"})
		return
	}

	var saison models.Saison
	if err := sc.db.First(&saison, id).Error; err != nil {
		storeError(c, err, "Saison not found")
		return
	}

	if err := sc.db.Delete(&saison).Error; err != nil {
		storeError(c, err, "Saison not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saison deleted"})
}

func (sc *SaisonController) parseSaisonFields(req SaisonRequest) (time.Time, time.Time, models.SaisonStatus, string) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", "Invalid startDate, expected YYYY-MM-DD"
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", "Invalid endDate, expected YYYY-MM-DD"
	}

	status := models.SaisonActive
	if req.Status != "" {
		status = models.SaisonStatus(req.Status)
		if status != models.SaisonActive && status != models.SaisonArchived {
			return time.Time{}, time.Time{}, "", "Invalid status. Must be ACTIVE or ARCHIVED"
		}
	}

	return startDate, endDate, status, ""
}
