package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
)

// orderFixture wires a customer, an approved supplier and one active product
// backed by an inventory record.
type orderFixture struct {
	db       *gorm.DB
	svc      *OrderService
	customer *models.User
	supplier *models.Supplier
	product  *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db := setupTestDB(t)
	supplier := createTestSupplier(t, db, "acme", models.SupplierStatusApproved)
	category := createTestCategory(t, db, "Semiconductors")
	product := createTestProduct(t, db, supplier.ID, category.ID, "QE-1000-A", 5, 10)
	createTestInventory(t, db, product.ID, 10, 0, 3)

	return &orderFixture{
		db:       db,
		svc:      NewOrderService(db, nil),
		customer: createTestUser(t, db, "buyer1", models.UserTypeCustomer),
		supplier: supplier,
		product:  product,
	}
}

func (f *orderFixture) place(t *testing.T, quantity int) *models.Order {
	t.Helper()

	order, err := f.svc.PlaceOrder(f.customer.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        quantity,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrder(t *testing.T) {
	f := newOrderFixture(t)

	order := f.place(t, 5)

	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("100.00")), "got %s", order.TotalAmount)
	assert.Equal(t, f.supplier.ID, order.SupplierID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.RequireFromString("100.00")))

	// Stock got reserved.
	var inventory models.Inventory
	require.NoError(t, f.db.Where("product_id = ?", f.product.ID).First(&inventory).Error)
	assert.Equal(t, 5, inventory.ReservedStock)

	// The trail opens with the placement event.
	var events []models.TrackingEvent
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.TrackingEventOrderPlaced, events[0].EventType)
	assert.Equal(t, "Order Placed", events[0].Title)
	assert.Equal(t, f.customer.ID, events[0].CreatedByID)
	assert.Contains(t, events[0].Description, "5 units")
}

func TestPlaceOrderBelowMinimumQuantity(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(f.customer.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        3,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.EqualError(t, err, "minimum order quantity is 5")

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderBeyondCatalogStock(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(f.customer.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        15,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.EqualError(t, err, "not enough stock available")
}

func TestPlaceOrderReservationGuard(t *testing.T) {
	f := newOrderFixture(t)

	// Most of the stock is already held by earlier orders.
	require.NoError(t, f.db.Model(&models.Inventory{}).
		Where("product_id = ?", f.product.ID).
		UpdateColumn("reserved_stock", 8).Error)

	_, err := f.svc.PlaceOrder(f.customer.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        5,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.EqualError(t, err, "not enough stock available")

	// The rejected placement left nothing behind.
	var orders, items, events int64
	f.db.Model(&models.Order{}).Count(&orders)
	f.db.Model(&models.OrderItem{}).Count(&items)
	f.db.Model(&models.TrackingEvent{}).Count(&events)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, events)

	var inventory models.Inventory
	require.NoError(t, f.db.Where("product_id = ?", f.product.ID).First(&inventory).Error)
	assert.Equal(t, 8, inventory.ReservedStock)
}

func TestPlaceOrderWithoutInventoryRecord(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.db.Where("product_id = ?", f.product.ID).Delete(&models.Inventory{}).Error)

	// Legacy products without an inventory record still accept orders.
	order := f.place(t, 5)
	assert.NotEmpty(t, order.OrderNumber)

	var count int64
	f.db.Model(&models.Inventory{}).Count(&count)
	assert.Zero(t, count, "no reservation is invented")
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.db.Model(f.product).Update("status", models.ProductStatusInactive).Error)

	_, err := f.svc.PlaceOrder(f.customer.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        5,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.EqualError(t, err, "product not found")
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	updated, err := f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{
		Status:   models.OrderStatusShipped,
		Location: "Kaohsiung Port",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	// Event type and title derive from the new status when not spelled out.
	var event models.TrackingEvent
	require.NoError(t, f.db.
		Where("order_id = ? AND event_type = ?", order.ID, models.TrackingEventShipped).
		First(&event).Error)
	assert.Equal(t, "Order Shipped", event.Title)
	assert.Equal(t, "Kaohsiung Port", event.Location)
	assert.Equal(t, f.supplier.UserID, event.CreatedByID)

	var count int64
	f.db.Model(&models.TrackingEvent{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestUpdateOrderStatusCustomEvent(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	_, err := f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{
		Status:    models.OrderStatusProcessing,
		EventType: models.TrackingEventQualityCheck,
		Title:     "Final QC",
	})
	require.NoError(t, err)

	var event models.TrackingEvent
	require.NoError(t, f.db.
		Where("order_id = ? AND event_type = ?", order.ID, models.TrackingEventQualityCheck).
		First(&event).Error)
	assert.Equal(t, "Final QC", event.Title)
}

func TestUpdateOrderStatusRejectsBadInput(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	_, err := f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{Status: "archived"})
	require.EqualError(t, err, "invalid order status")

	_, err = f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{
		Status:    models.OrderStatusShipped,
		EventType: "teleported",
	})
	require.EqualError(t, err, "invalid tracking event type")

	_, err = f.svc.UpdateOrderStatus(uuid.New(), f.supplier.UserID, &UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	require.EqualError(t, err, "order not found")
}

func TestUpdateOrderStatusAuthorization(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	// Customers cannot drive fulfilment.
	_, err := f.svc.UpdateOrderStatus(order.ID, f.customer.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	require.EqualError(t, err, "unauthorized access")

	// A different supplier cannot touch the order either.
	other := createTestSupplier(t, f.db, "otherco", models.SupplierStatusApproved)
	_, err = f.svc.UpdateOrderStatus(order.ID, other.UserID, &UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	require.EqualError(t, err, "unauthorized access")

	// Admins can.
	admin := createTestUser(t, f.db, "root", models.UserTypeAdmin)
	updated, err := f.svc.UpdateOrderStatus(order.ID, admin.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
}

func TestUpdateOrderStatusFulfillmentHook(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	calls := 0
	var sawPrevious models.OrderStatus
	f.svc.SetFulfillmentHook(func(tx *gorm.DB, hooked *models.Order, previous models.OrderStatus) error {
		calls++
		sawPrevious = previous
		assert.Equal(t, models.OrderStatusShipped, hooked.Status)
		return nil
	})

	_, err := f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, models.OrderStatusPending, sawPrevious)
}

func TestUpdateOrderStatusHookFailureRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	f.svc.SetFulfillmentHook(func(tx *gorm.DB, hooked *models.Order, previous models.OrderStatus) error {
		return errors.New("carrier rejected the shipment")
	})

	_, err := f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	require.ErrorContains(t, err, "fulfillment hook failed")

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)

	var events int64
	f.db.Model(&models.TrackingEvent{}).Where("order_id = ?", order.ID).Count(&events)
	assert.Equal(t, int64(1), events, "only the placement event survives the rollback")
}

func TestGetOrderVisibility(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	_, err := f.svc.GetOrder(order.ID, f.customer.ID)
	require.NoError(t, err)

	_, err = f.svc.GetOrder(order.ID, f.supplier.UserID)
	require.NoError(t, err)

	stranger := createTestUser(t, f.db, "stranger", models.UserTypeCustomer)
	_, err = f.svc.GetOrder(order.ID, stranger.ID)
	require.EqualError(t, err, "unauthorized access")

	admin := createTestUser(t, f.db, "root", models.UserTypeAdmin)
	_, err = f.svc.GetOrder(order.ID, admin.ID)
	require.NoError(t, err)

	_, err = f.svc.GetOrder(uuid.New(), f.customer.ID)
	require.EqualError(t, err, "order not found")
}

func TestListOrdersScopedByRole(t *testing.T) {
	f := newOrderFixture(t)

	require.NoError(t, f.db.Model(f.product).Update("stock_quantity", 100).Error)
	require.NoError(t, f.db.Model(&models.Inventory{}).
		Where("product_id = ?", f.product.ID).
		UpdateColumn("current_stock", 100).Error)

	f.place(t, 5)
	f.place(t, 5)

	other := createTestUser(t, f.db, "buyer2", models.UserTypeCustomer)
	_, err := f.svc.PlaceOrder(other.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        5,
		ShippingAddress: "7 Mountain Road, Taipei",
	})
	require.NoError(t, err)

	// Customers see their own orders only.
	orders, total, err := f.svc.ListOrders(f.customer.ID, OrderSearchParams{PaginationParams: listParams()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)

	// The supplier account sees everything placed against it.
	_, total, err = f.svc.ListOrders(f.supplier.UserID, OrderSearchParams{PaginationParams: listParams()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// Admins see the whole book.
	admin := createTestUser(t, f.db, "root", models.UserTypeAdmin)
	_, total, err = f.svc.ListOrders(admin.ID, OrderSearchParams{PaginationParams: listParams()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, _, err = f.svc.ListOrders(uuid.New(), OrderSearchParams{PaginationParams: listParams()})
	require.EqualError(t, err, "user not found")
}

func TestListOrdersStatusFilter(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	_, err := f.svc.UpdateOrderStatus(order.ID, f.supplier.UserID, &UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	require.NoError(t, err)

	params := OrderSearchParams{PaginationParams: listParams()}
	params.Status = "confirmed"
	_, total, err := f.svc.ListOrders(f.customer.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	params.Status = "pending"
	_, total, err = f.svc.ListOrders(f.customer.ID, params)
	require.NoError(t, err)
	assert.Zero(t, total)

	params.Status = "archived"
	_, _, err = f.svc.ListOrders(f.customer.ID, params)
	require.EqualError(t, err, "invalid order status")
}

func TestGetOrderTracking(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 5)

	// Age the placement event, then append two later ones.
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&models.TrackingEvent{}).
		Where("order_id = ?", order.ID).
		UpdateColumn("timestamp", base).Error)

	for i, e := range []struct {
		eventType models.TrackingEventType
		title     string
	}{
		{models.TrackingEventOrderConfirmed, "Order Confirmed"},
		{models.TrackingEventShipped, "Order Shipped"},
	} {
		require.NoError(t, f.db.Create(&models.TrackingEvent{
			OrderID:     order.ID,
			EventType:   e.eventType,
			Title:       e.title,
			Timestamp:   base.Add(time.Duration(i+1) * time.Hour),
			CreatedByID: f.supplier.UserID,
		}).Error)
	}

	tracking, err := f.svc.GetOrderTracking(order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.OrderNumber, tracking.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, tracking.Status)
	require.Len(t, tracking.TrackingEvents, 3)
	assert.Equal(t, "Order Shipped", tracking.TrackingEvents[0].Title, "newest first")
	assert.Equal(t, "Order Placed", tracking.TrackingEvents[2].Title)

	_, err = f.svc.GetOrderTracking(uuid.New())
	require.EqualError(t, err, "order not found")
}
