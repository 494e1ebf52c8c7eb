package controllers

import (
	"net/http"
	"strings"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetServices lists the active service catalog for the public services page.
func GetServices(c *gin.Context) {
	var catalog []models.Service
	query := config.DB.Where("delete_at IS NULL")

	if search := c.Query("search"); search != "" {
		like := "%" + utils.SanitizeInput(search) + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Order("title ASC").Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": catalog,
		"total":    len(catalog),
	})
}

// GetService returns one service definition with its steps and requirements.
func GetService(c *gin.Context) {
	service, err := loadService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

type serviceRequest struct {
	ServiceKey     string   `json:"service_key"`
	Title          string   `json:"title" binding:"required"`
	Subtitle       *string  `json:"subtitle"`
	Description    *string  `json:"description"`
	Requirements   []string `json:"requirements"`
	Steps          []string `json:"steps"`
	StepDetails    []string `json:"step_details"`
	AdditionalInfo *string  `json:"additional_info"`
}

// AdminCreateService adds a service definition to the catalog.
func AdminCreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := strings.ToLower(strings.TrimSpace(req.ServiceKey))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_key is required"})
		return
	}

	var existing models.Service
	if err := config.DB.Where("service_key = ?", key).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Service key already exists"})
		return
	}

	now := time.Now()
	service := models.Service{
		ServiceKey:     key,
		Title:          req.Title,
		Subtitle:       req.Subtitle,
		Description:    req.Description,
		Requirements:   models.StringList(req.Requirements),
		Steps:          models.StringList(req.Steps),
		StepDetails:    models.StringList(req.StepDetails),
		AdditionalInfo: req.AdditionalInfo,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"service": service})
}

// AdminUpdateService edits a service definition. Step edits change the
// denominator of every in-flight application's progress on its next update.
func AdminUpdateService(c *gin.Context) {
	service, err := loadService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	service.Title = req.Title
	service.Subtitle = req.Subtitle
	service.Description = req.Description
	service.Requirements = models.StringList(req.Requirements)
	service.Steps = models.StringList(req.Steps)
	service.StepDetails = models.StringList(req.StepDetails)
	service.AdditionalInfo = req.AdditionalInfo
	service.UpdateAt = &now

	if err := config.DB.Save(service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

// AdminDeleteService soft-deletes a service so existing applications keep
// their foreign key while the catalog stops offering it.
func AdminDeleteService(c *gin.Context) {
	service, err := loadService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(service).Updates(map[string]interface{}{
		"delete_at": &now,
		"update_at": &now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
