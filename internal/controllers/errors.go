package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/logger"
	"github.com/easyrh/backend/internal/models"
)

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

// saveError maps an insert or update failure to one JSON error response:
// constraint violations become 409, anything else 500. Errors are
// surfaced once and never retried.
func saveError(c *gin.Context, err error) {
	userID, _, _ := currentUser(c)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		logger.WithUser(userID).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"constraint": pqErr.Constraint,
		}).Warn("Unique constraint violation")
		c.JSON(http.StatusConflict, gin.H{"error": "A record with these values already exists"})
		return
	}

	logger.WithUser(userID).WithFields(logrus.Fields{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	}).Error("Store operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// storeError is saveError for lookup paths: missing rows become 404
// before the other mappings apply.
func storeError(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userID, _, _ := currentUser(c)
		logger.WithUser(userID).WithField("path", c.Request.URL.Path).Warn(notFoundMessage)
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
		return
	}

	saveError(c, err)
}

// currentUser pulls the authenticated user's id and role out of the
// request context.
func currentUser(c *gin.Context) (uint, models.UserRole, bool) {
	id, exists := c.Get("user_id")
	if !exists {
		return 0, "", false
	}
	userID, ok := id.(uint)
	if !ok {
		return 0, "", false
	}

	role := models.UserRole("")
	if r, exists := c.Get("user_role"); exists {
		if s, ok := r.(string); ok {
			role = models.UserRole(s)
		}
	}

	return userID, role, true
}
