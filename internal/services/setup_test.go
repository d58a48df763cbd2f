package services

import (
	"fmt"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quickelectronics/supplychain-backend/internal/config"
	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

const testPassword = "TestPass123!"

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.ErrorLevel)
	utils.SetJWTSecret("service-test-secret")
	os.Exit(m.Run())
}

// setupTestDB opens a private in-memory database. The single connection
// keeps the database alive and serializes the async notification and audit
// writers against the test body.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.SupplierPerformance{},
		&models.Category{},
		&models.Product{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingEvent{},
		&models.Notification{},
		&models.AuditLog{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "service-test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Email:    config.EmailConfig{Enabled: false},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

func listParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword(testPassword))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSupplier(t *testing.T, db *gorm.DB, username string, status models.SupplierStatus) *models.Supplier {
	t.Helper()

	user := createTestUser(t, db, username, models.UserTypeSupplier)
	supplier := &models.Supplier{
		UserID:             user.ID,
		CompanyName:        username + " Co",
		RegistrationNumber: "REG-" + username,
		ContactPerson:      "Pat Lee",
		Email:              user.Email,
		Address:            "1 Factory Road",
		Country:            "Taiwan",
		City:               "Hsinchu",
		Status:             status,
	}
	require.NoError(t, db.Create(supplier).Error)
	supplier.User = *user
	return supplier
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, supplierID uuid.UUID, categoryID uint, sku string, minQty, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		SupplierID:           supplierID,
		CategoryID:           categoryID,
		Name:                 "Widget " + sku,
		SKU:                  sku,
		UnitPrice:            decimal.RequireFromString("20.00"),
		MinimumOrderQuantity: minQty,
		StockQuantity:        stock,
		Status:               models.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// createTestInventory writes explicit stock levels. Callers must pass a
// non-zero reorder point so the column default never masks the intent.
func createTestInventory(t *testing.T, db *gorm.DB, productID uuid.UUID, current, reserved, reorderPoint int) *models.Inventory {
	t.Helper()

	inventory := &models.Inventory{
		ProductID:         productID,
		CurrentStock:      current,
		ReservedStock:     reserved,
		MinimumStockLevel: 5,
		MaximumStockLevel: 1000,
		ReorderPoint:      reorderPoint,
	}
	require.NoError(t, db.Create(inventory).Error)
	return inventory
}
