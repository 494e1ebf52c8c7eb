package controllers

import (
	"net/http"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetOrdinances lists city ordinances with optional search, category and
// year filters.
func GetOrdinances(c *gin.Context) {
	var ordinances []models.Ordinance
	query := config.DB.Where("delete_at IS NULL")

	if search := c.Query("search"); search != "" {
		like := "%" + utils.SanitizeInput(search) + "%"
		query = query.Where("title LIKE ? OR ordinance_number LIKE ?", like, like)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	if err := query.Order("year DESC, ordinance_number DESC").Find(&ordinances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ordinances"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ordinances": ordinances, "total": len(ordinances)})
}

// GetOrdinance returns one ordinance by ID.
func GetOrdinance(c *gin.Context) {
	var ordinance models.Ordinance
	if err := config.DB.Where("ordinance_id = ? AND delete_at IS NULL", c.Param("id")).
		First(&ordinance).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ordinance not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ordinance": ordinance})
}

type ordinanceRequest struct {
	OrdinanceNumber string  `json:"ordinance_number" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	Category        string  `json:"category"`
	Year            int     `json:"year" binding:"required"`
	Description     *string `json:"description"`
	FileURL         *string `json:"file_url"`
}

// AdminCreateOrdinance registers an ordinance.
func AdminCreateOrdinance(c *gin.Context) {
	var req ordinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Ordinance{}).
		Where("ordinance_number = ?", req.OrdinanceNumber).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Ordinance number already exists"})
		return
	}

	now := time.Now()
	ordinance := models.Ordinance{
		OrdinanceNumber: req.OrdinanceNumber,
		Title:           req.Title,
		Category:        req.Category,
		Year:            req.Year,
		Description:     req.Description,
		FileURL:         req.FileURL,
		CreateAt:        &now,
		UpdateAt:        &now,
	}

	if err := config.DB.Create(&ordinance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ordinance"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ordinance": ordinance})
}

// AdminUpdateOrdinance edits an ordinance.
func AdminUpdateOrdinance(c *gin.Context) {
	var ordinance models.Ordinance
	if err := config.DB.Where("ordinance_id = ? AND delete_at IS NULL", c.Param("id")).
		First(&ordinance).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ordinance not found"})
		return
	}

	var req ordinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	ordinance.OrdinanceNumber = req.OrdinanceNumber
	ordinance.Title = req.Title
	ordinance.Category = req.Category
	ordinance.Year = req.Year
	ordinance.Description = req.Description
	ordinance.FileURL = req.FileURL
	ordinance.UpdateAt = &now

	if err := config.DB.Save(&ordinance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ordinance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ordinance": ordinance})
}

// AdminDeleteOrdinance soft-deletes an ordinance.
func AdminDeleteOrdinance(c *gin.Context) {
	now := time.Now()
	result := config.DB.Model(&models.Ordinance{}).
		Where("ordinance_id = ? AND delete_at IS NULL", c.Param("id")).
		Updates(map[string]interface{}{"delete_at": &now, "update_at": &now})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ordinance"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ordinance not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ordinance deleted"})
}
