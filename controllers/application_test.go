package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"citizen-portal-api/config"
	"citizen-portal-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeIdentity stands in for the JWT middleware.
func fakeIdentity(userID, roleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("roleID", roleID)
		c.Next()
	}
}

func setupApplicationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	config.DB = db

	require.NoError(t, db.Create(&models.User{
		UserID: 1, Email: "citizen@example.com",
		FirstName: "Juan", LastName: "Dela Cruz", RoleID: models.RoleCitizen,
	}).Error)
	require.NoError(t, db.Create(&models.Service{
		ServiceKey:  "business-permit",
		Title:       "Business Permit",
		Steps:       models.StringList{"Prepare requirements", "Submit forms", "Pay fees"},
		StepDetails: models.StringList{"Gather the documents.", "Submit at the permits office.", "Pay at the treasurer's office."},
	}).Error)

	router := gin.New()

	citizen := router.Group("/api/v1", fakeIdentity(1, models.RoleCitizen))
	{
		citizen.POST("/applications/:service/start", StartApplication)
		citizen.POST("/applications/:service/:id/update", UpdateApplicationProgress)
		citizen.POST("/applications/:service/:id/upload", UploadApplicationDocument)
		citizen.GET("/applications", GetApplications)
		citizen.GET("/applications/:service", GetApplicationForService)
	}

	admin := router.Group("/api/v1/admin", fakeIdentity(2, models.RoleAdmin))
	{
		admin.GET("/applications", AdminGetApplications)
		admin.POST("/applications/status", AdminResolveApplication)
		admin.POST("/applications/:id/resolve", AdminResolveApplication)
	}

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestApplicationLifecycle(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())

	var mailedTo []string
	restore := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error {
		mailedTo = append(mailedTo, to...)
		return nil
	}
	defer func() { sendMailFunc = restore }()

	router := setupApplicationRouter(t)

	// Start
	w, body := doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	appID := body["application_id"].(string)
	require.NotEmpty(t, appID)

	// Starting again resumes the same row.
	w, body = doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, appID, body["application_id"])
	assert.Equal(t, true, body["existing"])

	// Advance to step 1 of 3.
	w, body = doJSON(t, router, http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/update",
		gin.H{"step_index": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["step_index"])
	assert.Equal(t, float64(66), body["progress"])

	// An out-of-range request clamps to the final step.
	w, body = doJSON(t, router, http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/update",
		gin.H{"step_index": 50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["step_index"])
	assert.Equal(t, float64(100), body["progress"])

	// Finish the step sequence and enter the upload phase.
	w, body = doJSON(t, router, http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/update",
		gin.H{"mark_completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["completed"])

	// Upload the proof document.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("document", "permit.pdf")
	require.NoError(t, err)
	part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploadBody map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploadBody))
	assert.Equal(t, models.DocumentStatusPending, uploadBody["document_status"])
	assert.Contains(t, uploadBody["document_url"], "/uploads/applications/"+appID+"/")

	// Admin verifies the document.
	w, body = doJSON(t, router, http.MethodPost,
		"/api/v1/admin/applications/"+appID+"/resolve",
		gin.H{"document_status": "verified", "admin_notes": "Looks complete"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DocumentStatusVerified, body["document_status"])
	assert.Equal(t, []string{"citizen@example.com"}, mailedTo)

	// The verdict is final: further progress updates are rejected.
	w, _ = doJSON(t, router, http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/update",
		gin.H{"step_index": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Restart recycles the row for a fresh run.
	w, body = doJSON(t, router, http.MethodPost,
		"/api/v1/applications/business-permit/start", gin.H{"restart": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, appID, body["application_id"])
	assert.Equal(t, true, body["restarted"])
	assert.Equal(t, float64(0), body["progress"])
}

func TestGetApplicationForServiceIncludesStepDetail(t *testing.T) {
	router := setupApplicationRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	appID := body["application_id"].(string)

	w, body := doJSON(t, router, http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/update",
		gin.H{"step_index": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/applications/business-permit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Submit at the permits office.", body["current_step_detail"])
}

func TestUploadRequiresDocumentField(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	router := setupApplicationRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	appID := body["application_id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRejectsForeignApplication(t *testing.T) {
	router := setupApplicationRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	appID := body["application_id"].(string)

	// Same routes, different caller.
	stranger := gin.New()
	group := stranger.Group("/api/v1", fakeIdentity(42, models.RoleCitizen))
	group.POST("/applications/:service/:id/update", UpdateApplicationProgress)

	w, _ := doJSON(t, stranger, http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/update",
		gin.H{"step_index": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveAcceptsBodyID(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	restore := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error { return nil }
	defer func() { sendMailFunc = restore }()

	router := setupApplicationRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	appID := body["application_id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("document", "permit.pdf")
	require.NoError(t, err)
	part.Write([]byte("content"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/applications/business-permit/"+appID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/admin/applications/status",
		gin.H{"id": appID, "document_status": "rejected", "admin_notes": "Missing barangay clearance"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DocumentStatusRejected, body["document_status"])
}

func TestResolveRejectsUnknownStatus(t *testing.T) {
	router := setupApplicationRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/v1/applications/business-permit/start", nil)
	appID := body["application_id"].(string)

	w, _ := doJSON(t, router, http.MethodPost,
		"/api/v1/admin/applications/"+appID+"/resolve",
		gin.H{"document_status": "approved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
