// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

// FulfillmentHook runs inside the status-update transaction with the order
// (status already changed) and the status it moved from. Deployments that
// decrement warehouse stock on delivery plug that in here; by default no
// hook is installed and current_stock is never touched by the order flow.
type FulfillmentHook func(tx *gorm.DB, order *models.Order, previous models.OrderStatus) error

type OrderService struct {
	db                  *gorm.DB
	notificationService *NotificationService
	fulfillmentHook     FulfillmentHook
}

type PlaceOrderRequest struct {
	ProductID       uuid.UUID `json:"product_id" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1"`
	ShippingAddress string    `json:"shipping_address" validate:"required"`
	Notes           string    `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status      models.OrderStatus       `json:"status" validate:"required"`
	EventType   models.TrackingEventType `json:"event_type,omitempty"`
	Title       string                   `json:"title,omitempty" validate:"omitempty,max=255"`
	Description string                   `json:"description,omitempty"`
	Location    string                   `json:"location,omitempty" validate:"omitempty,max=255"`
}

type OrderSearchParams struct {
	utils.PaginationParams
}

type TrackingEventView struct {
	EventType   models.TrackingEventType `json:"event_type"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Location    string                   `json:"location"`
	Timestamp   time.Time                `json:"timestamp"`
}

type OrderTrackingResponse struct {
	OrderNumber    string              `json:"order_number"`
	Status         models.OrderStatus  `json:"status"`
	TrackingEvents []TrackingEventView `json:"tracking_events"`
}

func NewOrderService(db *gorm.DB, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *OrderService) SetFulfillmentHook(hook FulfillmentHook) {
	s.fulfillmentHook = hook
}

// PlaceOrder creates the order, its line item and the opening tracking event
// in one transaction, reserving warehouse stock along the way.
//
// The reservation is a single conditional UPDATE guarded by
// reserved_stock + quantity <= current_stock, so two concurrent placements
// can never jointly reserve more than is on hand. A product without an
// inventory record is accepted without a reservation; that case is logged.
func (s *OrderService) PlaceOrder(customerID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order
	var product models.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND status = ?", req.ProductID, models.ProductStatusActive).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.Quantity < product.MinimumOrderQuantity {
			return fmt.Errorf("minimum order quantity is %d", product.MinimumOrderQuantity)
		}

		if req.Quantity > product.StockQuantity {
			return errors.New("not enough stock available")
		}

		order = &models.Order{
			CustomerID:      customerID,
			SupplierID:      product.SupplierID,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.UnitPrice,
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		order.TotalAmount = item.TotalPrice
		if err := tx.Model(order).UpdateColumn("total_amount", order.TotalAmount).Error; err != nil {
			return fmt.Errorf("failed to update order total: %w", err)
		}

		// Reserve stock. The WHERE guard makes the increment conditional on
		// the invariant reserved_stock <= current_stock holding afterwards.
		res := tx.Model(&models.Inventory{}).
			Where("product_id = ? AND reserved_stock + ? <= current_stock", product.ID, req.Quantity).
			UpdateColumn("reserved_stock", gorm.Expr("reserved_stock + ?", req.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var inventoryRows int64
			if err := tx.Model(&models.Inventory{}).
				Where("product_id = ?", product.ID).
				Count(&inventoryRows).Error; err != nil {
				return fmt.Errorf("failed to check inventory: %w", err)
			}
			if inventoryRows > 0 {
				return errors.New("not enough stock available")
			}
			logrus.WithFields(logrus.Fields{
				"product_id":   product.ID,
				"order_number": order.OrderNumber,
				"quantity":     req.Quantity,
			}).Warn("product has no inventory record, order placed without reservation")
		}

		event := &models.TrackingEvent{
			OrderID:     order.ID,
			EventType:   models.TrackingEventOrderPlaced,
			Title:       "Order Placed",
			Description: fmt.Sprintf("Order placed for %d units of %s", req.Quantity, product.Name),
			CreatedByID: customerID,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create tracking event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Load full order data
	s.db.Preload("Customer").Preload("Supplier").Preload("Items").Preload("Items.Product").
		First(order, order.ID)

	// Notify supplier (async)
	go s.sendOrderPlacedNotifications(order, &product)

	return order, nil
}

// ListOrders scopes results by role: customers see their own orders,
// supplier accounts see orders placed against their supplier, admins see all.
func (s *OrderService) ListOrders(userID uuid.UUID, params OrderSearchParams) ([]models.Order, int64, error) {
	var user models.User
	if err := s.db.Preload("Supplier").First(&user, userID).Error; err != nil {
		return nil, 0, errors.New("user not found")
	}

	query := s.db.Model(&models.Order{}).
		Preload("Customer").Preload("Supplier").Preload("Items").Preload("Items.Product")

	switch {
	case user.IsAdmin():
		// Admins see everything
	case user.Supplier != nil:
		query = query.Where("supplier_id = ?", user.Supplier.ID)
	default:
		query = query.Where("customer_id = ?", userID)
	}

	if params.Status != "" {
		if !models.OrderStatus(params.Status).Valid() {
			return nil, 0, errors.New("invalid order status")
		}
		query = query.Where("status = ?", params.Status)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "status", "total_amount"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	// Execute query
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// GetOrder returns an order with items and tracking history, newest event
// first. Only the customer, the supplier's account, and admins may read it.
func (s *OrderService) GetOrder(orderID uuid.UUID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Customer").Preload("Supplier").Preload("Supplier.User").
		Preload("Items").Preload("Items.Product").
		Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		Preload("TrackingEvents.CreatedBy").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.CustomerID != userID && order.Supplier.UserID != userID {
		var caller models.User
		if err := s.db.First(&caller, userID).Error; err != nil || !caller.IsAdmin() {
			return nil, errors.New("unauthorized access")
		}
	}

	return &order, nil
}

// UpdateOrderStatus moves an order to a new status and appends the matching
// tracking event, both inside one transaction. Transitions are unrestricted;
// the tracking trail is the history. Only the order's supplier and admins
// may update.
func (s *OrderService) UpdateOrderStatus(orderID uuid.UUID, userID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.Status.Valid() {
		return nil, errors.New("invalid order status")
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = defaultEventType(req.Status)
	} else if !eventType.Valid() {
		return nil, errors.New("invalid tracking event type")
	}

	var order models.Order
	if err := s.db.Preload("Supplier").Preload("Customer").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.Supplier.UserID != userID {
		var caller models.User
		if err := s.db.First(&caller, userID).Error; err != nil || !caller.IsAdmin() {
			return nil, errors.New("unauthorized access")
		}
	}

	title := req.Title
	if title == "" {
		title = defaultEventTitle(req.Status)
	}

	previous := order.Status

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = req.Status

		event := &models.TrackingEvent{
			OrderID:     order.ID,
			EventType:   eventType,
			Title:       title,
			Description: req.Description,
			Location:    req.Location,
			CreatedByID: userID,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create tracking event: %w", err)
		}

		if s.fulfillmentHook != nil {
			if err := s.fulfillmentHook(tx, &order, previous); err != nil {
				return fmt.Errorf("fulfillment hook failed: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notify customer (async)
	go s.sendOrderStatusNotification(&order, previous)

	// Reload with tracking events
	s.db.Preload("Supplier").Preload("Customer").Preload("Items").Preload("Items.Product").
		Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		First(&order, orderID)

	return &order, nil
}

// GetOrderTracking is the public tracking lookup: order number, current
// status and the event trail, newest first.
func (s *OrderService) GetOrderTracking(orderID uuid.UUID) (*OrderTrackingResponse, error) {
	var order models.Order
	if err := s.db.Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp DESC")
	}).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	events := make([]TrackingEventView, 0, len(order.TrackingEvents))
	for _, e := range order.TrackingEvents {
		events = append(events, TrackingEventView{
			EventType:   e.EventType,
			Title:       e.Title,
			Description: e.Description,
			Location:    e.Location,
			Timestamp:   e.Timestamp,
		})
	}

	return &OrderTrackingResponse{
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		TrackingEvents: events,
	}, nil
}

func defaultEventType(status models.OrderStatus) models.TrackingEventType {
	switch status {
	case models.OrderStatusConfirmed:
		return models.TrackingEventOrderConfirmed
	case models.OrderStatusProcessing:
		return models.TrackingEventInProduction
	case models.OrderStatusShipped:
		return models.TrackingEventShipped
	case models.OrderStatusDelivered:
		return models.TrackingEventDelivered
	case models.OrderStatusCancelled, models.OrderStatusReturned:
		return models.TrackingEventException
	default:
		return models.TrackingEventOrderPlaced
	}
}

func defaultEventTitle(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusConfirmed:
		return "Order Confirmed"
	case models.OrderStatusProcessing:
		return "Order In Production"
	case models.OrderStatusShipped:
		return "Order Shipped"
	case models.OrderStatusDelivered:
		return "Order Delivered"
	case models.OrderStatusCancelled:
		return "Order Cancelled"
	case models.OrderStatusReturned:
		return "Order Returned"
	default:
		return "Order Placed"
	}
}

// Notification helpers

func (s *OrderService) sendOrderPlacedNotifications(order *models.Order, product *models.Product) {
	if s.notificationService == nil {
		return
	}

	s.notificationService.SendOrderPlacedNotification(order)

	// Alert the supplier when the reservation left the product at or below
	// its reorder point.
	var inventory models.Inventory
	if err := s.db.Where("product_id = ?", product.ID).First(&inventory).Error; err != nil {
		return
	}
	if inventory.NeedsReorder() {
		s.notificationService.SendLowStockNotification(product, &inventory)
	}
}

func (s *OrderService) sendOrderStatusNotification(order *models.Order, previous models.OrderStatus) {
	if s.notificationService != nil {
		s.notificationService.SendOrderStatusNotification(order, previous)
	}
}
