package main

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaiparmani/ToolBoxWebServices/internal/config"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

func initDB(cfg config.Config, log *logrus.Logger) *gorm.DB {
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("get sql db: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	if err := migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if cfg.SeedDev {
		if err := seedDevData(db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}
	return db
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Expense{},
		&models.ToolCategory{},
		&models.Tool{},
		&models.ToolExecution{},
	)
}

// seedDevData loads a small working dataset for local development.
// Every block is idempotent and skipped when rows already exist.
func seedDevData(db *gorm.DB) error {
	var cnt int64
	if err := db.Model(&models.User{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("devpassword"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users := []models.User{
			{Username: "alice", Email: "alice@example.com", PasswordHash: string(hash), FirstName: "Alice", IsActive: true},
			{Username: "bob", Email: "bob@example.com", PasswordHash: string(hash), FirstName: "Bob", IsActive: true},
		}
		if err := db.Create(&users).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Category{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		categories := []models.Category{
			{Name: "Food", Color: "#e74c3c", Icon: "utensils", TransactionType: models.TypeExpense, IsActive: true},
			{Name: "Transport", Color: "#3498db", Icon: "bus", TransactionType: models.TypeExpense, IsActive: true},
			{Name: "Salary", Color: "#2ecc71", Icon: "wallet", TransactionType: models.TypeIncome, IsActive: true},
			{Name: "Loans", Color: "#f39c12", Icon: "handshake", TransactionType: models.TypeDebt, IsActive: true},
		}
		if err := db.Create(&categories).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Expense{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		var alice models.User
		if err := db.Where("username = ?", "alice").First(&alice).Error; err != nil {
			return err
		}
		var food, salary models.Category
		if err := db.Where("name = ?", "Food").First(&food).Error; err != nil {
			return err
		}
		if err := db.Where("name = ?", "Salary").First(&salary).Error; err != nil {
			return err
		}

		today := time.Now().Truncate(24 * time.Hour)
		expenses := []models.Expense{
			{UserID: alice.ID, Amount: decimal.NewFromFloat(12.50), Description: "Lunch", TransactionType: models.TypeExpense, CategoryID: food.ID, Date: today},
			{UserID: alice.ID, Amount: decimal.NewFromFloat(2500.00), Description: "Monthly salary", TransactionType: models.TypeIncome, CategoryID: salary.ID, Date: today.AddDate(0, 0, -3)},
			{UserID: alice.ID, Amount: decimal.NewFromFloat(34.20), Description: "Groceries", TransactionType: models.TypeExpense, CategoryID: food.ID, Date: today.AddDate(0, 0, -10)},
		}
		if err := db.Create(&expenses).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.ToolCategory{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		category := models.ToolCategory{Name: "Math", Description: "Mathematical operations"}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		tool := models.Tool{
			Name:        "Array Sum Tool",
			Description: "Sums an array of numbers",
			CategoryID:  category.ID,
			InputType:   models.ToolInputArray,
			OutputType:  models.ToolOutputNumber,
			IsActive:    true,
		}
		if err := db.Create(&tool).Error; err != nil {
			return err
		}
	}
	return nil
}
