// Seeds the roles, service catalog, emergency hotlines and an initial
// admin account. Safe to run repeatedly: existing rows are left alone.
package main

import (
	"log"
	"os"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()
	if err := models.Migrate(config.DB); err != nil {
		log.Fatal("Migration failed:", err)
	}

	seedRoles()
	seedServices()
	seedEmergencyContacts()
	seedAdmin()

	log.Println("Seeding completed!")
}

func seedRoles() {
	roles := []models.Role{
		{RoleID: models.RoleCitizen, Role: "citizen"},
		{RoleID: models.RoleStaff, Role: "staff"},
		{RoleID: models.RoleAdmin, Role: "admin"},
	}
	for _, role := range roles {
		if err := config.DB.Where("role_id = ?", role.RoleID).
			FirstOrCreate(&role).Error; err != nil {
			log.Printf("Failed to seed role %s: %v", role.Role, err)
		}
	}
}

func strPtr(s string) *string { return &s }

func seedServices() {
	now := time.Now()
	catalog := []models.Service{
		{
			ServiceKey:  "business-permit",
			Title:       "Business Permit",
			Subtitle:    strPtr("New and renewal applications"),
			Description: strPtr("Apply for a new business permit or renew an existing one."),
			Requirements: models.StringList{
				"Barangay business clearance",
				"DTI or SEC registration",
				"Lease contract or proof of ownership",
				"Valid government ID",
			},
			Steps: models.StringList{
				"Prepare the required documents",
				"Fill out the unified application form",
				"Submit to the Business Permits Office",
				"Pay the assessed fees",
				"Claim your permit",
			},
			StepDetails: models.StringList{
				"Gather every requirement before visiting the office.",
				"The form is available at the office or on this portal.",
				"Submit in person or through an authorized representative.",
				"Payment is accepted at the treasurer's office.",
				"Bring your official receipt when claiming.",
			},
			CreateAt: &now, UpdateAt: &now,
		},
		{
			ServiceKey:  "barangay-clearance",
			Title:       "Barangay Clearance",
			Description: strPtr("Certification of residency and good standing from your barangay."),
			Requirements: models.StringList{
				"Valid government ID",
				"Proof of residency",
			},
			Steps: models.StringList{
				"Visit your barangay hall",
				"Fill out the request form",
				"Pay the clearance fee",
				"Receive your clearance",
			},
			CreateAt: &now, UpdateAt: &now,
		},
		{
			ServiceKey:  "health-certificate",
			Title:       "Health Certificate",
			Description: strPtr("Required for food handlers and service workers."),
			Requirements: models.StringList{
				"Valid government ID",
				"Laboratory test results",
			},
			Steps: models.StringList{
				"Complete the required laboratory tests",
				"Submit results to the City Health Office",
				"Attend the orientation",
				"Claim your certificate",
			},
			CreateAt: &now, UpdateAt: &now,
		},
	}

	for _, service := range catalog {
		if err := config.DB.Where("service_key = ?", service.ServiceKey).
			FirstOrCreate(&service).Error; err != nil {
			log.Printf("Failed to seed service %s: %v", service.ServiceKey, err)
		}
	}
}

func seedEmergencyContacts() {
	now := time.Now()
	contacts := []models.EmergencyContact{
		{Name: "City Police Station", Category: "police", Hotline: "166", CreateAt: &now, UpdateAt: &now},
		{Name: "Bureau of Fire Protection", Category: "fire", Hotline: "160", CreateAt: &now, UpdateAt: &now},
		{Name: "City Health Emergency", Category: "medical", Hotline: "161", CreateAt: &now, UpdateAt: &now},
		{Name: "Disaster Risk Reduction Office", Category: "disaster", Hotline: "(032) 261-1111", CreateAt: &now, UpdateAt: &now},
	}
	for _, contact := range contacts {
		if err := config.DB.Where("name = ?", contact.Name).
			FirstOrCreate(&contact).Error; err != nil {
			log.Printf("Failed to seed contact %s: %v", contact.Name, err)
		}
	}
}

// seedAdmin creates the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Admin %s already exists, skipping", email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	now := time.Now()
	admin := models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Portal",
		LastName:  "Administrator",
		RoleID:    models.RoleAdmin,
		Verified:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin account:", err)
	}
	log.Printf("Created admin account %s", email)
}
