package controllers

import (
	"fmt"
	"net/http"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/services"
	"citizen-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// Injection points so tests can run without SMTP or a live Redis.
var (
	sendMailFunc = config.SendMail
	newOTPStore  = func() *services.OTPStore { return services.NewOTPStore(nil) }
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword emails a one-time code to the account, if one exists. The
// response is the same either way so the endpoint cannot be used to probe
// for registered emails.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email format",
		})
		return
	}

	neutral := gin.H{
		"success": true,
		"message": "If that email is registered, a reset code is on its way.",
	}

	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, neutral)
		return
	}

	otp, err := newOTPStore().Generate(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to prepare reset code. Try again later.",
		})
		return
	}

	body := fmt.Sprintf(`<p>Your password reset code is: <strong>%s</strong></p>
<p>This code expires in 10 minutes.</p>
<p>If you did not request this, please ignore this message.</p>`, otp)

	if err := sendMailFunc([]string{req.Email}, "Citizen Portal Password Reset Code", body); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Failed to send email. Try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, neutral)
}

// ResetPassword verifies the emailed code and sets the new password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Passwords do not match.",
		})
		return
	}
	if ok, msg := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   msg,
		})
		return
	}

	valid, err := newOTPStore().Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to verify code. Try again later.",
		})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid or expired OTP.",
		})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "No account found for that email.",
		})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update password.",
		})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{"password": hashed, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update password.",
		})
		return
	}

	// A password reset invalidates every open session.
	config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", user.UserID, "refresh", false).
		Updates(map[string]interface{}{"is_revoked": true, "updated_at": now, "expires_at": now})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully!",
	})
}
