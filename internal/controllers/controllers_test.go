package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/easyrh/backend/internal/logger"
	"github.com/easyrh/backend/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	logger.Logger = quiet
	os.Exit(m.Run())
}

// captureLog swaps the application logger for one writing to a buffer
// for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	prev := logger.Logger
	var buf bytes.Buffer
	captured := logrus.New()
	captured.SetOutput(&buf)
	logger.Logger = captured
	t.Cleanup(func() { logger.Logger = prev })
	return &buf
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Saison{}, &models.Feedback{}, &models.Rapport{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// authAs injects the identity the auth middleware would have extracted
// from a valid token.
func authAs(userID uint, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", string(role))
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password, firstName, lastName string, role models.UserRole) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestSaison(t *testing.T, db *gorm.DB, name string, status models.SaisonStatus) models.Saison {
	t.Helper()

	saison := models.Saison{Name: name, Status: status}
	if err := db.Create(&saison).Error; err != nil {
		t.Fatalf("failed to create saison %s: %v", name, err)
	}
	return saison
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
