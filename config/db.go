package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-backoffice/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_backoffice")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// Migrate applies the schema in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.HotelSetting{},
		&models.Category{},
		&models.Room{},
		&models.Booking{},
		&models.CheckoutRecord{},
		&models.Payment{},
		&models.RestaurantOrder{},
		&models.LaundryOrder{},
		&models.RoomInspection{},
	)
}

func seedUser(db *gorm.DB, username, passwordEnv, fallback, role, fullName string) {
	var count int64
	db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault(passwordEnv, fallback)), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warning: failed to hash default %s password: %v", role, err)
		return
	}
	user := models.User{FullName: fullName, Username: username, Password: string(hash), Role: role}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("warning: failed to create default %s user: %v", role, err)
		return
	}
	log.Printf("Default %s user seeded", role)
}

// SeedDatabase ensures the baseline data a fresh install needs: the room
// category tiers, one admin and one staff account, and the hotel profile.
func SeedDatabase(db *gorm.DB) {
	seedUser(db, "admin", "ADMIN_PASSWORD", "admin123", models.RoleAdmin, "Admin User")
	seedUser(db, "staff", "STAFF_PASSWORD", "staff123", models.RoleStaff, "Front Desk")

	var catCount int64
	db.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		categories := []models.Category{
			{Name: "standard", MaxRooms: 10, BaseRoomNumber: 100, Status: "Active"},
			{Name: "deluxe", MaxRooms: 6, BaseRoomNumber: 200, Status: "Active"},
			{Name: "suite", MaxRooms: 4, BaseRoomNumber: 300, Status: "Active"},
		}
		if err := db.Create(&categories).Error; err != nil {
			log.Printf("warning: failed to seed categories: %v", err)
		} else {
			log.Println("Categories seeded")
		}
	}

	var settingCount int64
	db.Model(&models.HotelSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.HotelSetting{Name: "My Hotel", DefaultNightlyRate: 1000}
		if err := db.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		} else {
			log.Println("Hotel settings seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase(DB)
	return nil
}
