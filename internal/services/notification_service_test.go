package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickelectronics/supplychain-backend/internal/models"
)

func TestOrderNotifications(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, testConfig())
	supplier := createTestSupplier(t, db, "acme", models.SupplierStatusApproved)
	customer := createTestUser(t, db, "buyer1", models.UserTypeCustomer)

	order := &models.Order{
		CustomerID:      customer.ID,
		SupplierID:      supplier.ID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	}
	require.NoError(t, db.Create(order).Error)
	order.Customer = *customer
	order.Supplier = *supplier

	// The supplier hears about a new order.
	require.NoError(t, svc.SendOrderPlacedNotification(order))

	notifications, total, err := svc.GetUserNotifications(supplier.UserID, false, listParams())
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationOrderPlaced, notifications[0].Type)
	assert.Equal(t, "New Order Received", notifications[0].Title)
	assert.Contains(t, notifications[0].Message, order.OrderNumber)
	assert.Contains(t, notifications[0].Message, "buyer1")

	// The customer hears about status changes.
	order.Status = models.OrderStatusShipped
	require.NoError(t, svc.SendOrderStatusNotification(order, models.OrderStatusPending))

	notifications, _, err = svc.GetUserNotifications(customer.ID, false, listParams())
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationOrderStatus, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "from pending to shipped")
}

func TestLowStockNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, testConfig())
	supplier := createTestSupplier(t, db, "acme", models.SupplierStatusApproved)
	category := createTestCategory(t, db, "Semiconductors")
	product := createTestProduct(t, db, supplier.ID, category.ID, "QE-1000-A", 1, 10)
	inventory := createTestInventory(t, db, product.ID, 10, 8, 5)

	require.NoError(t, svc.SendLowStockNotification(product, inventory))

	notifications, _, err := svc.GetUserNotifications(supplier.UserID, false, listParams())
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationLowStock, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "QE-1000-A")
	assert.Contains(t, notifications[0].Message, "2 available")
}

func TestSupplierStatusNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, testConfig())
	supplier := createTestSupplier(t, db, "acme", models.SupplierStatusApproved)

	require.NoError(t, svc.SendSupplierStatusNotification(supplier, models.SupplierStatusPending))

	notifications, _, err := svc.GetUserNotifications(supplier.UserID, false, listParams())
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationSupplierState, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "approved")
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, testConfig())
	user := createTestUser(t, db, "buyer1", models.UserTypeCustomer)

	notification := &models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationOrderStatus,
		Title:   "Order Status Updated",
		Message: "Order moved.",
	}
	require.NoError(t, db.Create(notification).Error)

	require.NoError(t, svc.MarkNotificationRead(notification.ID, user.ID))

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, notification.ID).Error)
	assert.True(t, reloaded.IsRead)
	assert.NotNil(t, reloaded.ReadAt)

	// Marking twice is a no-op.
	require.NoError(t, svc.MarkNotificationRead(notification.ID, user.ID))

	// Other users cannot touch it.
	other := createTestUser(t, db, "buyer2", models.UserTypeCustomer)
	require.EqualError(t, svc.MarkNotificationRead(notification.ID, other.ID), "notification not found")
}

func TestUnreadFilterAndMarkAll(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, testConfig())
	user := createTestUser(t, db, "buyer1", models.UserTypeCustomer)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID:  user.ID,
			Type:    models.NotificationOrderStatus,
			Title:   "Order Status Updated",
			Message: fmt.Sprintf("update %d", i),
		}).Error)
	}

	var first models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&first).Error)
	require.NoError(t, svc.MarkNotificationRead(first.ID, user.ID))

	_, total, err := svc.GetUserNotifications(user.ID, true, listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	updated, err := svc.MarkAllNotificationsRead(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	_, total, err = svc.GetUserNotifications(user.ID, true, listParams())
	require.NoError(t, err)
	assert.Zero(t, total)
}
