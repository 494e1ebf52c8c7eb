package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/services"

	"github.com/gin-gonic/gin"
)

// AdminGetApplications lists every application, optionally filtered by
// document status or service, for the review queue.
func AdminGetApplications(c *gin.Context) {
	var applications []models.Application
	query := config.DB.Preload("User").Preload("Service")

	if status := c.Query("document_status"); status != "" {
		query = query.Where("document_status = ?", status)
	}
	if service := c.Query("service"); service != "" {
		query = query.Where("service_key = ?", service)
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

// AdminGetApplication returns one application with its owner and service.
func AdminGetApplication(c *gin.Context) {
	var application models.Application
	if err := config.DB.Preload("User").Preload("Service").
		Where("id = ?", c.Param("id")).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": application})
}

// AdminResolveApplication finalizes a pending document review as verified or
// rejected. The outcome is terminal; the applicant can only continue by
// restarting the application.
func AdminResolveApplication(c *gin.Context) {
	type ResolveRequest struct {
		ID             string `json:"id"`
		DocumentStatus string `json:"document_status" binding:"required"`
		AdminNotes     string `json:"admin_notes"`
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The id arrives in the path or, for the form-style variant, the body.
	id := c.Param("id")
	if id == "" {
		id = req.ID
	}
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application id is required"})
		return
	}

	progress := services.NewProgressService(nil)
	app, err := progress.Store().FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	newStatus := strings.ToLower(strings.TrimSpace(req.DocumentStatus))
	if err := progress.ResolveDocument(app, newStatus, req.AdminNotes); err != nil {
		respondServiceError(c, err)
		return
	}

	kind := "success"
	title := "Document verified"
	body := fmt.Sprintf("Your document for application %s has been verified.", app.ReferenceNumber)
	if newStatus == models.DocumentStatusRejected {
		kind = "error"
		title = "Document rejected"
		body = fmt.Sprintf("Your document for application %s was rejected.", app.ReferenceNumber)
		if req.AdminNotes != "" {
			body += " Reason: " + req.AdminNotes
		}
	}
	notifyUser(app.UserID, title, body, kind, &app.ID, nil)

	// Email is best effort; the resolution already committed.
	var owner models.User
	if err := config.DB.Where("user_id = ?", app.UserID).First(&owner).Error; err == nil {
		html := fmt.Sprintf(`
			<h2>%s</h2>
			<p>Hello %s,</p>
			<p>%s</p>
			<p>Reference: <strong>%s</strong></p>
		`, title, owner.FullName(), body, app.ReferenceNumber)
		if err := sendMailFunc([]string{owner.Email}, title, html); err != nil {
			log.Printf("AdminResolveApplication: failed to email user %d: %v", app.UserID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"application_id":  app.ID,
		"document_status": app.DocumentStatus,
		"admin_notes":     app.AdminNotes,
	})
}
