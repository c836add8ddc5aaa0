package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/models"
	"github.com/easyrh/backend/internal/policy"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetCollaborators lists the collaborators the current user evaluates:
// ADMIN sees chefs de mission, CHEF_DE_MISSION sees assistants, ASSISTANT
// sees an empty list. Never an error, the screen just has nothing to show.
func (uc *UserController) GetCollaborators(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	visibleRole, visible := policy.VisibleCollaboratorRole(role)
	if !visible {
		c.JSON(http.StatusOK, gin.H{"collaborators": []models.User{}})
		return
	}

	var collaborators []models.User
	if err := uc.db.Where("role = ?", visibleRole).Order("last_name asc").Find(&collaborators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborators"})
		return
	}

	for i := range collaborators {
		collaborators[i].Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": collaborators})
}

// GetUsers lists every account for the admin management screen.
func (uc *UserController) GetUsers(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var users []models.User
	if err := uc.db.Order("last_name asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	for i := range users {
		users[i].Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

func (uc *UserController) CreateUser(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be one of: ADMIN, CHEF_DE_MISSION, ASSISTANT"})
		return
	}

	var existingUser models.User
	if err := uc.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.UserRole(req.Role),
	}

	if err := uc.db.Create(&user).Error; err != nil {
		saveError(c, err)
		return
	}

	user.Password = ""
	c.JSON(http.StatusCreated, user)
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := uc.db.First(&user, id).Error; err != nil {
		storeError(c, err, "User not found")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be one of: ADMIN, CHEF_DE_MISSION, ASSISTANT"})
			return
		}
		user.Role = models.UserRole(req.Role)
	}

	if err := uc.db.Save(&user).Error; err != nil {
		storeError(c, err, "User not found")
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	actingID, role, ok := currentUser(c)
	if !ok || !policy.CanManageUsersAndSaisons(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if uint(id) == actingID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	var userToDelete models.User
	if err := uc.db.First(&userToDelete, id).Error; err != nil {
		storeError(c, err, "User not found")
		return
	}

	if userToDelete.Role == models.RoleAdmin {
		var adminCount int64
		if err := uc.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check admin count"})
			return
		}
		if adminCount <= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one admin must remain"})
			return
		}
	}

	if err := uc.db.Delete(&models.User{}, id).Error; err != nil {
		storeError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
