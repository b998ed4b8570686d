package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Temamamankabeto/ora-ebook/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	var err error

	// Get database credentials from environment variables
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbDatabase := os.Getenv("DB_DATABASE")
	dbUsername := os.Getenv("DB_USERNAME")
	dbPassword := os.Getenv("DB_PASSWORD")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUsername,
		dbPassword,
		dbHost,
		dbPort,
		dbDatabase,
	)

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via
	// DEBUG_SQL=true.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	DB, err = gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connected successfully")
}

// MigrateDB creates or updates the workflow tables and seeds the role rows.
func MigrateDB() {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Ebook{},
		&models.EbookVersion{},
		&models.EbookFile{},
		&models.WorkflowHistory{},
		&models.EbookDecision{},
		&models.ReviewerAssignment{},
		&models.Review{},
		&models.Payment{},
		&models.ProductionRecord{},
		&models.EbookAccessLog{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	roles := []string{
		models.RoleAuthor,
		models.RoleEditor,
		models.RoleReviewer,
		models.RoleFinance,
		models.RoleContentManager,
		models.RoleAdmin,
	}
	for _, name := range roles {
		if err := DB.Where(models.Role{Name: name}).
			FirstOrCreate(&models.Role{Name: name}).Error; err != nil {
			log.Fatal("Failed to seed roles:", err)
		}
	}
}
