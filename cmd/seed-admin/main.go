// Creates or resets the initial admin account.
// cmd/seed-admin/main.go
package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/utils"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	departmentID := flag.Int("department", 1, "department id for the admin account")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: seed-admin -email admin@example.org -password <password>")
	}

	if !utils.ValidateEmail(*email) {
		log.Fatal("Invalid email address")
	}

	if ok, msg := utils.ValidatePassword(*password); !ok {
		log.Fatal(msg)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()

	var user models.User
	err = config.DB.Where("email = ? AND delete_at IS NULL", *email).First(&user).Error
	if err == nil {
		user.Password = hashed
		user.RoleID = models.RoleAdmin
		user.IsActive = true
		user.UpdateAt = &now
		if err := config.DB.Save(&user).Error; err != nil {
			log.Fatal("Failed to update admin:", err)
		}
		log.Printf("Updated admin account %s", *email)
		return
	}

	user = models.User{
		UserFname:    "System",
		UserLname:    "Admin",
		Email:        *email,
		Password:     hashed,
		RoleID:       models.RoleAdmin,
		DepartmentID: *departmentID,
		IsActive:     true,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("Created admin account %s", *email)
}
