package controllers

import (
	"net/http"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Preload("Role").
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"avatar": user.AvatarOrPlaceholder(),
	})
}

// UpdateProfile applies partial edits to the caller's profile.
func UpdateProfile(c *gin.Context) {
	type UpdateProfileRequest struct {
		FirstName     *string `json:"first_name"`
		MiddleName    *string `json:"middle_name"`
		LastName      *string `json:"last_name"`
		DisplayName   *string `json:"display_name"`
		AvatarURL     *string `json:"avatar_url"`
		ContactNumber *string `json:"contact_number"`
		Birthdate     *string `json:"birthdate"` // YYYY-MM-DD
		Age           *int    `json:"age"`
		Gender        *string `json:"gender"`
		MaritalStatus *string `json:"marital_status"`
		City          *string `json:"city"`
		Purok         *string `json:"purok"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	errors := map[string]string{}
	for field, value := range map[string]*string{
		"first_name":  req.FirstName,
		"middle_name": req.MiddleName,
		"last_name":   req.LastName,
	} {
		if value == nil {
			continue
		}
		if msg := utils.ValidateNameField(utils.SanitizeInput(*value), field); msg != "" {
			errors[field] = msg
		}
	}
	if req.Age != nil {
		if msg := utils.ValidateAge(*req.Age); msg != "" {
			errors["age"] = msg
		}
	}

	var birthdate *time.Time
	if req.Birthdate != nil && *req.Birthdate != "" {
		parsed, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			errors["birthdate"] = "Birthdate must be in YYYY-MM-DD format."
		} else {
			birthdate = &parsed
		}
	}

	if len(errors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errors})
		return
	}

	if req.FirstName != nil {
		user.FirstName = utils.SanitizeInput(*req.FirstName)
	}
	if req.MiddleName != nil {
		trimmed := utils.SanitizeInput(*req.MiddleName)
		if trimmed == "" {
			user.MiddleName = nil
		} else {
			user.MiddleName = &trimmed
		}
	}
	if req.LastName != nil {
		user.LastName = utils.SanitizeInput(*req.LastName)
	}
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.ContactNumber != nil {
		user.ContactNumber = req.ContactNumber
	}
	if birthdate != nil {
		user.Birthdate = birthdate
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.MaritalStatus != nil {
		user.MaritalStatus = *req.MaritalStatus
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.Purok != nil {
		user.Purok = req.Purok
	}

	now := time.Now()
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePassword handles password change
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	if ok, msg := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	now := time.Now()
	user.Password = hashed
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
