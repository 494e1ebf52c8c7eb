package controllers

import (
	"net/http"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetOfficials lists city officials ordered for the directory page.
func GetOfficials(c *gin.Context) {
	var officials []models.Official
	if err := config.DB.Where("delete_at IS NULL").
		Order("display_order ASC, name ASC").Find(&officials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch officials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"officials": officials, "total": len(officials)})
}

// GetDepartments lists city departments.
func GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := config.DB.Where("delete_at IS NULL").
		Order("name ASC").Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": departments, "total": len(departments)})
}

// GetEmergencyContacts lists hotlines, optionally filtered by category.
func GetEmergencyContacts(c *gin.Context) {
	var contacts []models.EmergencyContact
	query := config.DB.Where("delete_at IS NULL")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Order("category ASC, name ASC").Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch emergency contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "total": len(contacts)})
}

// AdminCreateOfficial adds an official to the directory.
func AdminCreateOfficial(c *gin.Context) {
	var official models.Official
	if err := c.ShouldBindJSON(&official); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if official.Name == "" || official.Position == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and position are required"})
		return
	}

	now := time.Now()
	official.OfficialID = 0
	official.CreateAt = &now
	official.UpdateAt = &now
	official.DeleteAt = nil

	if err := config.DB.Create(&official).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create official"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"official": official})
}

// AdminUpdateOfficial edits an official.
func AdminUpdateOfficial(c *gin.Context) {
	var existing models.Official
	if err := config.DB.Where("official_id = ? AND delete_at IS NULL", c.Param("id")).
		First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		return
	}

	var official models.Official
	if err := c.ShouldBindJSON(&official); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	official.OfficialID = existing.OfficialID
	official.CreateAt = existing.CreateAt
	official.UpdateAt = &now
	official.DeleteAt = nil

	if err := config.DB.Save(&official).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update official"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"official": official})
}

// AdminDeleteOfficial soft-deletes an official.
func AdminDeleteOfficial(c *gin.Context) {
	now := time.Now()
	result := config.DB.Model(&models.Official{}).
		Where("official_id = ? AND delete_at IS NULL", c.Param("id")).
		Updates(map[string]interface{}{"delete_at": &now, "update_at": &now})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete official"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Official deleted"})
}

// AdminCreateEmergencyContact adds a hotline.
func AdminCreateEmergencyContact(c *gin.Context) {
	var contact models.EmergencyContact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if contact.Name == "" || contact.Hotline == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and hotline are required"})
		return
	}

	now := time.Now()
	contact.ContactID = 0
	contact.CreateAt = &now
	contact.UpdateAt = &now
	contact.DeleteAt = nil

	if err := config.DB.Create(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create emergency contact"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// AdminDeleteEmergencyContact soft-deletes a hotline.
func AdminDeleteEmergencyContact(c *gin.Context) {
	now := time.Now()
	result := config.DB.Model(&models.EmergencyContact{}).
		Where("contact_id = ? AND delete_at IS NULL", c.Param("id")).
		Updates(map[string]interface{}{"delete_at": &now, "update_at": &now})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete emergency contact"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Emergency contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Emergency contact deleted"})
}
