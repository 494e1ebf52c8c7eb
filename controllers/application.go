package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxDocumentSize caps the proof-document upload at 15 MB.
const maxDocumentSize = 15 << 20

func loadService(key string) (*models.Service, error) {
	var service models.Service
	if err := config.DB.Where("service_key = ? AND delete_at IS NULL", key).First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// StartApplication creates or resumes the caller's application for a service.
// Repeated starts are idempotent; restart=true discards prior progress and
// issues a new reference number.
func StartApplication(c *gin.Context) {
	type StartRequest struct {
		Restart         bool   `json:"restart"`
		ReferenceNumber string `json:"reference_number"`
	}

	var req StartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	userID, _ := c.Get("userID")

	service, err := loadService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	progress := services.NewProgressService(nil)
	result, err := progress.StartApplication(userID.(int), service, req.ReferenceNumber, req.Restart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start application"})
		return
	}

	resp := gin.H{
		"application_id":   result.Application.ID,
		"reference_number": result.Application.ReferenceNumber,
		"step_index":       result.Application.StepIndex,
		"progress":         result.Application.ProgressPercent,
	}
	if result.Existing {
		resp["existing"] = true
	}
	if result.Restarted {
		resp["restarted"] = true
	}

	status := http.StatusOK
	if !result.Existing && !result.Restarted {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// UpdateApplicationProgress advances the step position or closes out the
// step sequence for the document-upload phase.
func UpdateApplicationProgress(c *gin.Context) {
	type UpdateRequest struct {
		StepIndex     *int `json:"step_index"`
		MarkCompleted bool `json:"mark_completed"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	progress := services.NewProgressService(nil)
	app, err := progress.Store().FindOwned(c.Param("id"), userID.(int))
	if err != nil || app.ServiceKey != c.Param("service") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if req.MarkCompleted {
		if err := progress.MarkStepComplete(app); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed": true})
		return
	}

	if req.StepIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step_index or mark_completed is required"})
		return
	}

	service, err := loadService(app.ServiceKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	step, percent, err := progress.Advance(app, service, *req.StepIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"step_index": step,
		"progress":   percent,
	})
}

// UploadApplicationDocument stores the final proof document and moves the
// review into pending. The row is only mutated after the file is safely on
// disk, so a storage failure leaves prior state untouched.
func UploadApplicationDocument(c *gin.Context) {
	userID, _ := c.Get("userID")

	progress := services.NewProgressService(nil)
	app, err := progress.Store().FindOwned(c.Param("id"), userID.(int))
	if err != nil || app.ServiceKey != c.Param("service") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if app.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application review already finalized"})
		return
	}
	if app.DocumentStatus == models.DocumentStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A document is already under review"})
		return
	}

	file, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document file is required"})
		return
	}
	if file.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document exceeds the 15 MB limit"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	destDir := filepath.Join(uploadPath, "applications", app.ID)
	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(destDir, storedName)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	documentURL := fmt.Sprintf("/uploads/applications/%s/%s", app.ID, storedName)
	if err := progress.SubmitDocument(app, documentURL); err != nil {
		respondServiceError(c, err)
		return
	}

	notifyUser(app.UserID, "Document received",
		fmt.Sprintf("Your document for %s (%s) is now pending review.", app.ServiceKey, app.ReferenceNumber),
		"info", &app.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"document_url":    documentURL,
		"document_status": app.DocumentStatus,
	})
}

// GetApplications returns the caller's applications.
func GetApplications(c *gin.Context) {
	userID, _ := c.Get("userID")

	var applications []models.Application
	query := config.DB.Preload("Service").Where("user_id = ?", userID)

	if status := c.Query("document_status"); status != "" {
		query = query.Where("document_status = ?", status)
	}

	if err := query.Order("updated_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplicationForService returns the caller's application for one service,
// together with the service's step definitions.
func GetApplicationForService(c *gin.Context) {
	userID, _ := c.Get("userID")

	service, err := loadService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	progress := services.NewProgressService(nil)
	app, err := progress.Store().FindActive(userID.(int), service.ServiceKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application":         app,
		"service":             service,
		"current_step_detail": service.StepDetail(app.StepIndex),
	})
}

// respondServiceError maps service-layer sentinels onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
	case errors.Is(err, services.ErrTerminalState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application review already finalized"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_status must be verified or rejected"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document is pending review"})
	case errors.Is(err, services.ErrPendingReview):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A document is already under review"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// notifyUser records an in-app notification. Best effort: a failed insert is
// logged and never blocks the request that triggered it.
func notifyUser(userID int, title, message, kind string, applicationID *string, complaintID *int) {
	row := models.Notification{
		UserID:               uint(userID),
		Title:                title,
		Message:              message,
		Type:                 kind,
		RelatedApplicationID: applicationID,
		RelatedComplaintID:   complaintID,
		CreateAt:             time.Now(),
	}
	if err := config.DB.Create(&row).Error; err != nil {
		log.Printf("notifyUser: failed to create notification for user %d: %v", userID, err)
	}
}
