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

var complaintCategories = map[string][]string{
	"infrastructure": {"Roads and Bridges", "Street Lighting", "Drainage and Flooding", "Public Buildings"},
	"sanitation":     {"Garbage Collection", "Illegal Dumping", "Public Restrooms", "Pest Control"},
	"public_safety":  {"Traffic Violations", "Noise Complaints", "Stray Animals", "Vandalism"},
	"utilities":      {"Water Supply", "Power Interruption", "Internet and Telecom"},
	"government":     {"Service Delays", "Staff Conduct", "Corruption Reports"},
	"other":          {"Other Concerns"},
}

var complaintStatuses = map[string]bool{
	models.ComplaintStatusInProgress: true,
	models.ComplaintStatusInReview:   true,
	models.ComplaintStatusResolved:   true,
	models.ComplaintStatusRejected:   true,
}

// GetComplaintCategories lists the accepted category/subcategory pairs for
// the submission form.
func GetComplaintCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": complaintCategories})
}

// SubmitComplaint files a new complaint. Logged-in users are linked to the
// row unless they submit anonymously; anyone may file without an account.
func SubmitComplaint(c *gin.Context) {
	type ComplaintRequest struct {
		Category    string  `json:"category" binding:"required"`
		Subcategory string  `json:"subcategory"`
		Subject     string  `json:"subject" binding:"required"`
		Location    string  `json:"location"`
		Description string  `json:"description" binding:"required"`
		Anonymous   bool    `json:"anonymous"`
		Name        *string `json:"name"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
	}

	var req ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	if _, ok := complaintCategories[category]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown complaint category"})
		return
	}

	subject := utils.SanitizeInput(req.Subject)
	if len(subject) > 120 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject must be 120 characters or fewer"})
		return
	}

	if req.Email != nil && *req.Email != "" && !utils.ValidateEmail(*req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	complaint := models.Complaint{
		TrackingCode: utils.GenerateComplaintCode(),
		Category:     category,
		Subcategory:  utils.SanitizeInput(req.Subcategory),
		Subject:      subject,
		Location:     utils.SanitizeInput(req.Location),
		Description:  utils.SanitizeInput(req.Description),
		Anonymous:    req.Anonymous,
		Status:       models.ComplaintStatusInProgress,
		CreateAt:     time.Now(),
	}

	if !req.Anonymous {
		if userID, ok := c.Get("userID"); ok {
			id := userID.(int)
			complaint.UserID = &id
		}
		complaint.Name = req.Name
		complaint.Email = req.Email
		complaint.Phone = req.Phone
	}

	// Retry once on a tracking-code collision; codes are random per year.
	for attempt := 0; attempt < 2; attempt++ {
		if err := config.DB.Create(&complaint).Error; err == nil {
			break
		} else if attempt == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit complaint"})
			return
		}
		complaint.TrackingCode = utils.GenerateComplaintCode()
	}

	c.JSON(http.StatusCreated, gin.H{
		"tracking_code": complaint.TrackingCode,
		"status":        complaint.Status,
	})
}

// TrackComplaint returns the public view of a complaint by tracking code.
// No identity fields are exposed here.
func TrackComplaint(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var complaint models.Complaint
	if err := config.DB.Where("tracking_code = ?", code).First(&complaint).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracking_code": complaint.TrackingCode,
		"category":      complaint.Category,
		"subcategory":   complaint.Subcategory,
		"subject":       complaint.Subject,
		"status":        complaint.Status,
		"created_at":    complaint.CreateAt,
		"resolved_at":   complaint.ResolvedAt,
		"admin_notes":   complaint.AdminNotes,
	})
}

// GetMyComplaints lists the caller's non-anonymous complaints.
func GetMyComplaints(c *gin.Context) {
	userID, _ := c.Get("userID")

	var complaints []models.Complaint
	if err := config.DB.Where("user_id = ?", userID).
		Order("create_at DESC").Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"total":      len(complaints),
	})
}

// AdminGetComplaints lists complaints for triage, filterable by status and
// category.
func AdminGetComplaints(c *gin.Context) {
	var complaints []models.Complaint
	query := config.DB.Order("create_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"total":      len(complaints),
	})
}

// AdminUpdateComplaintStatus moves a complaint through its lifecycle and
// notifies the submitter when the complaint is linked to an account.
func AdminUpdateComplaintStatus(c *gin.Context) {
	type StatusRequest struct {
		Status     string `json:"status" binding:"required"`
		AdminNotes string `json:"admin_notes"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !complaintStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint status"})
		return
	}

	var complaint models.Complaint
	if err := config.DB.Where("complaint_id = ?", c.Param("id")).First(&complaint).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    status,
		"update_at": &now,
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if status == models.ComplaintStatusResolved || status == models.ComplaintStatusRejected {
		updates["resolved_at"] = &now
	}

	if err := config.DB.Model(&complaint).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint"})
		return
	}

	if complaint.UserID != nil {
		kind := "info"
		if status == models.ComplaintStatusResolved {
			kind = "success"
		} else if status == models.ComplaintStatusRejected {
			kind = "error"
		}
		notifyUser(*complaint.UserID, "Complaint update",
			"Complaint "+complaint.TrackingCode+" is now "+strings.ReplaceAll(status, "_", " ")+".",
			kind, nil, &complaint.ComplaintID)
	}

	c.JSON(http.StatusOK, gin.H{
		"tracking_code": complaint.TrackingCode,
		"status":        status,
	})
}
