package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
)

// adminFixture seeds an approved supplier with one product and one placed
// order, plus the three user roles.
type adminFixture struct {
	db       *gorm.DB
	svc      *AdminService
	supplier *models.Supplier
	customer *models.User
	admin    *models.User
	product  *models.Product
	order    *models.Order
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	db := setupTestDB(t)
	supplier := createTestSupplier(t, db, "acme", models.SupplierStatusApproved)
	customer := createTestUser(t, db, "buyer1", models.UserTypeCustomer)
	admin := createTestUser(t, db, "root", models.UserTypeAdmin)
	category := createTestCategory(t, db, "Semiconductors")
	product := createTestProduct(t, db, supplier.ID, category.ID, "QE-1000-A", 5, 100)
	createTestInventory(t, db, product.ID, 100, 0, 10)

	order, err := NewOrderService(db, nil).PlaceOrder(customer.ID, &PlaceOrderRequest{
		ProductID:       product.ID,
		Quantity:        5,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.NoError(t, err)

	return &adminFixture{
		db:       db,
		svc:      NewAdminService(db, nil),
		supplier: supplier,
		customer: customer,
		admin:    admin,
		product:  product,
		order:    order,
	}
}

func TestGetPlatformStats(t *testing.T) {
	f := newAdminFixture(t)
	createTestSupplier(t, f.db, "newco", models.SupplierStatusPending)

	stats, err := f.svc.GetPlatformStats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalSuppliers, "approved suppliers only")
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.OrdersToday)
	assert.Equal(t, int64(1), stats.PendingOrders)
}

func TestUpdateSupplierStatus(t *testing.T) {
	f := newAdminFixture(t)
	pending := createTestSupplier(t, f.db, "newco", models.SupplierStatusPending)

	updated, err := f.svc.UpdateSupplierStatus(pending.ID, models.SupplierStatusApproved, f.admin.ID, "documents verified")
	require.NoError(t, err)
	assert.Equal(t, models.SupplierStatusApproved, updated.Status)

	// The decision lands in the audit trail.
	assert.Eventually(t, func() bool {
		var count int64
		f.db.Model(&models.AuditLog{}).Where("action = ?", "UPDATE_SUPPLIER_STATUS").Count(&count)
		return count == 1
	}, 2*time.Second, 20*time.Millisecond)

	_, err = f.svc.UpdateSupplierStatus(pending.ID, "frozen", f.admin.ID, "")
	require.EqualError(t, err, "invalid supplier status")

	_, err = f.svc.UpdateSupplierStatus(uuid.New(), models.SupplierStatusApproved, f.admin.ID, "")
	require.EqualError(t, err, "supplier not found")
}

func TestBulkUpdateSupplierStatus(t *testing.T) {
	f := newAdminFixture(t)
	a := createTestSupplier(t, f.db, "newco1", models.SupplierStatusPending)
	b := createTestSupplier(t, f.db, "newco2", models.SupplierStatusPending)

	updated, err := f.svc.BulkUpdateSupplierStatus([]uuid.UUID{a.ID, b.ID, uuid.New()}, models.SupplierStatusApproved, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated, "unknown ids are simply skipped")

	var approved int64
	f.db.Model(&models.Supplier{}).Where("status = ?", models.SupplierStatusApproved).Count(&approved)
	assert.Equal(t, int64(3), approved)

	_, err = f.svc.BulkUpdateSupplierStatus([]uuid.UUID{a.ID}, "frozen", f.admin.ID)
	require.EqualError(t, err, "invalid supplier status")

	_, err = f.svc.BulkUpdateSupplierStatus(nil, models.SupplierStatusApproved, f.admin.ID)
	require.EqualError(t, err, "no suppliers selected")
}

func TestAdminGetSuppliers(t *testing.T) {
	f := newAdminFixture(t)
	createTestSupplier(t, f.db, "newco", models.SupplierStatusPending)

	// Unlike the public directory, the admin view spans every status.
	_, total, err := f.svc.GetSuppliers(AdminSupplierFilter{PaginationParams: listParams()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	cutoff := time.Now().Add(time.Hour)
	_, total, err = f.svc.GetSuppliers(AdminSupplierFilter{PaginationParams: listParams(), CreatedAfter: &cutoff})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateOrderPaymentStatus(t *testing.T) {
	f := newAdminFixture(t)

	updated, err := f.svc.UpdateOrderPaymentStatus(f.order.ID, models.PaymentStatusPaid, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, f.order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)

	_, err = f.svc.UpdateOrderPaymentStatus(f.order.ID, "comped", f.admin.ID)
	require.EqualError(t, err, "invalid payment status")

	_, err = f.svc.UpdateOrderPaymentStatus(uuid.New(), models.PaymentStatusPaid, f.admin.ID)
	require.EqualError(t, err, "order not found")
}

func TestAdminGetOrders(t *testing.T) {
	f := newAdminFixture(t)

	paid, err := NewOrderService(f.db, nil).PlaceOrder(f.customer.ID, &PlaceOrderRequest{
		ProductID:       f.product.ID,
		Quantity:        5,
		ShippingAddress: "42 Harbor Street, Kaohsiung",
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderPaymentStatus(paid.ID, models.PaymentStatusPaid, f.admin.ID)
	require.NoError(t, err)

	_, total, err := f.svc.GetOrders(AdminOrderFilter{PaginationParams: listParams()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	filter := AdminOrderFilter{PaginationParams: listParams()}
	filter.PaymentStatus = "paid"
	orders, total, err := f.svc.GetOrders(filter)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, paid.ID, orders[0].ID)

	filter.PaymentStatus = "comped"
	_, _, err = f.svc.GetOrders(filter)
	require.EqualError(t, err, "invalid payment status")

	filter = AdminOrderFilter{PaginationParams: listParams()}
	filter.Status = "archived"
	_, _, err = f.svc.GetOrders(filter)
	require.EqualError(t, err, "invalid order status")

	// Order number search is case-insensitive.
	filter = AdminOrderFilter{PaginationParams: listParams()}
	filter.Search = strings.ToLower(f.order.OrderNumber)
	_, total, err = f.svc.GetOrders(filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	cutoff := time.Now().Add(time.Hour)
	filter = AdminOrderFilter{PaginationParams: listParams(), CreatedAfter: &cutoff}
	_, total, err = f.svc.GetOrders(filter)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestExportOrdersCSV(t *testing.T) {
	f := newAdminFixture(t)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportOrdersCSV(&buf, AdminOrderFilter{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"order_number", "customer", "supplier", "status", "payment_status", "total_amount", "created_at"}, records[0])

	row := records[1]
	assert.Equal(t, f.order.OrderNumber, row[0])
	assert.Equal(t, "buyer1", row[1])
	assert.Equal(t, "acme Co", row[2])
	assert.Equal(t, "pending", row[3])
	assert.Equal(t, "pending", row[4])
	assert.Equal(t, "100.00", row[5])

	_, err = time.Parse(time.RFC3339, row[6])
	assert.NoError(t, err)
}

func TestGetDashboard(t *testing.T) {
	f := newAdminFixture(t)

	// Admin dashboard carries platform-wide numbers.
	dashboard, err := f.svc.GetDashboard(f.admin.ID)
	require.NoError(t, err)
	assert.Contains(t, dashboard, "platform")
	assert.Contains(t, dashboard, "pending_suppliers")
	assert.Equal(t, int64(3), dashboard["total_users"])

	// Supplier dashboard: catalog and order counters plus low stock alerts.
	require.NoError(t, f.db.Model(&models.Inventory{}).
		Where("product_id = ?", f.product.ID).
		UpdateColumn("reorder_point", 96).Error)

	dashboard, err = f.svc.GetDashboard(f.supplier.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard["total_products"])
	assert.Equal(t, int64(1), dashboard["pending_orders"])

	lowStock, ok := dashboard["low_stock_products"].([]InventoryView)
	require.True(t, ok)
	require.Len(t, lowStock, 1, "95 available against a reorder point of 96")
	assert.True(t, lowStock[0].NeedsReorder)

	// Customer dashboard: order summary.
	dashboard, err = f.svc.GetDashboard(f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard["total_orders"])
	assert.Equal(t, int64(1), dashboard["active_orders"])
	assert.Contains(t, dashboard, "recent_orders")

	_, err = f.svc.GetDashboard(uuid.New())
	require.EqualError(t, err, "user not found")
}
