// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quickelectronics/supplychain-backend/internal/config"
	"github.com/quickelectronics/supplychain-backend/internal/models"
)

// Initialize opens the Postgres connection pool described by cfg.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	default:
		return logger.Info
	}
}

// Close shuts down the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Failed to get underlying sql.DB")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Failed to close database connection")
	}
}

// RunMigrations applies the schema plus the composite indexes
// AutoMigrate does not cover.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Category{},
		&models.Product{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingEvent{},
		&models.SupplierPerformance{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)
	logrus.Info("Database migrations completed")
	return nil
}

// createIndexes issues raw CREATE INDEX statements, logging and skipping
// failures. The GIN statement is Postgres only.
func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",
		"CREATE INDEX IF NOT EXISTS idx_suppliers_status_created ON suppliers(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_suppliers_company ON suppliers(company_name)",
		"CREATE INDEX IF NOT EXISTS idx_products_supplier_status ON products(supplier_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_status ON products(category_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders(customer_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_supplier_status ON orders(supplier_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_tracking_events_order_ts ON tracking_events(order_id, timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			logrus.WithError(err).Warnf("Skipping index: %s", stmt)
		}
	}
}

// SeedInitialData creates the default admin account and the base category
// tree when they are missing. Safe to run on every startup.
func SeedInitialData(db *gorm.DB) error {
	var admins int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&admins)
	if admins == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@quickelectronics.com",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
		}
		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logrus.Info("Default admin user created")
	}

	categories := []models.Category{
		{Name: "Semiconductors", Description: "ICs, microcontrollers, and discrete semiconductors"},
		{Name: "Passive Components", Description: "Resistors, capacitors, and inductors"},
		{Name: "Connectors", Description: "Board-to-board, wire-to-board, and RF connectors"},
		{Name: "Displays", Description: "LCD, OLED, and e-paper display modules"},
		{Name: "Batteries & Power", Description: "Cells, battery packs, and power supplies"},
		{Name: "Cables & Wiring", Description: "Cable assemblies, harnesses, and raw wire"},
	}
	for i := range categories {
		if err := db.Where("name = ?", categories[i].Name).FirstOrCreate(&categories[i]).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to seed category %s", categories[i].Name)
		}
	}

	return nil
}
