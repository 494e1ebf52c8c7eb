package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/middleware"
	"citizen-portal-api/models"
	"citizen-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	MiddleName      string `json:"middle_name"`
	LastName        string `json:"last_name" binding:"required"`
	Age             *int   `json:"age"`
	Birthdate       string `json:"birthdate"` // YYYY-MM-DD
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
	Message      string      `json:"message"`
}

// Register creates a citizen account, applying the portal's field rules.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	errors := map[string]string{}

	req.Email = utils.SanitizeInput(req.Email)
	req.FirstName = utils.SanitizeInput(req.FirstName)
	req.MiddleName = utils.SanitizeInput(req.MiddleName)
	req.LastName = utils.SanitizeInput(req.LastName)

	if !utils.ValidateEmail(req.Email) {
		errors["email"] = "Invalid email format."
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		errors["password"] = msg
	}
	if req.Password != req.ConfirmPassword {
		errors["confirm"] = "Passwords do not match."
	}
	if msg := utils.ValidateNameField(req.FirstName, "First name"); msg != "" {
		errors["first_name"] = msg
	}
	if msg := utils.ValidateNameField(req.MiddleName, "Middle name"); msg != "" {
		errors["middle_name"] = msg
	}
	if msg := utils.ValidateNameField(req.LastName, "Last name"); msg != "" {
		errors["last_name"] = msg
	}
	if req.Age != nil {
		if msg := utils.ValidateAge(*req.Age); msg != "" {
			errors["age"] = msg
		}
	}

	var birthdate *time.Time
	if req.Birthdate != "" {
		parsed, err := time.Parse("2006-01-02", req.Birthdate)
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

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"email": "Failed to create account. Email may already be registered."},
		})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create account"})
		return
	}

	now := time.Now()
	displayName := req.FirstName + " " + req.LastName
	user := models.User{
		Email:       req.Email,
		Password:    hashed,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: &displayName,
		Age:         req.Age,
		Birthdate:   birthdate,
		RoleID:      models.RoleCitizen,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if req.MiddleName != "" {
		user.MiddleName = &req.MiddleName
	}
	avatar := user.AvatarOrPlaceholder()
	user.AvatarURL = &avatar

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save user data. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully.",
		"user":    user,
	})
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND delete_at IS NULL", req.Email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	refreshToken, err := issueRefreshToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
		Message:      "Login successful",
	})
}

// RefreshToken exchanges a valid refresh token for a new access token and
// rotates the refresh token.
func RefreshToken(c *gin.Context) {
	type refreshRequest struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var row models.UserToken
	if err := config.DB.Where("token = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?",
		req.RefreshToken, "refresh", false, time.Now()).First(&row).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", row.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	now := time.Now()
	config.DB.Model(&models.UserToken{}).Where("token_id = ?", row.TokenID).
		Updates(map[string]interface{}{"is_revoked": true, "updated_at": now, "expires_at": now})

	refreshToken, err := issueRefreshToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
	})
}

// Logout revokes every outstanding refresh token of the caller.
func Logout(c *gin.Context) {
	userID, _ := c.Get("userID")

	now := time.Now()
	if err := config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "refresh", false).
		Updates(map[string]interface{}{"is_revoked": true, "updated_at": now, "expires_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// generateToken creates JWT token
func generateToken(user models.User) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24
	}

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func issueRefreshToken(userID int) (string, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}

	row := models.UserToken{
		UserID:    userID,
		Token:     token,
		TokenType: "refresh",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&row).Error; err != nil {
		return "", err
	}
	return token, nil
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
