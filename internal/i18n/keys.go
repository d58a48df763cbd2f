// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// User Management
	KeyUserNotFound  = "user.not_found"
	KeyUserSuspended = "user.suspended"

	// Suppliers
	KeySupplierRegistered  = "supplier.registered"
	KeySupplierNotFound    = "supplier.not_found"
	KeySupplierNotApproved = "supplier.not_approved"
	KeySupplierApproved    = "supplier.approved"
	KeySupplierSuspended   = "supplier.suspended"
	KeySupplierRejected    = "supplier.rejected"
	KeySupplierRequired    = "supplier.required"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryNotFound = "category.not_found"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductNotFound   = "product.not_found"
	KeyProductSKUExists  = "product.sku_exists"
	KeyProductOutOfStock = "product.out_of_stock"

	// Orders
	KeyOrderPlaced            = "order.placed"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderStatusUpdated     = "order.status_updated"
	KeyOrderMinimumQuantity   = "order.minimum_quantity"
	KeyOrderInsufficientStock = "order.insufficient_stock"

	// Inventory
	KeyInventoryUpdated  = "inventory.updated"
	KeyInventoryNotFound = "inventory.not_found"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Notifications
	KeyNotificationSent     = "notification.sent"
	KeyNotificationFailed   = "notification.failed"
	KeyNotificationNotFound = "notification.not_found"
)
