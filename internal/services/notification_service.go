// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/config"
	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

var notificationEmailTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body>
	<h2>{{.Title}}</h2>
	<p>Hello {{.Username}},</p>
	<p>{{.Message}}</p>
	<p><a href="{{.DashboardURL}}">View it in your dashboard</a></p>
	<p>Best regards,<br>{{.FromName}}</p>
</body>
</html>`))

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// SendOrderPlacedNotification tells the supplier a new order arrived.
// Expects the order's Customer and Supplier to be loaded.
func (s *NotificationService) SendOrderPlacedNotification(order *models.Order) error {
	return s.notify(
		order.Supplier.UserID,
		models.NotificationOrderPlaced,
		"New Order Received",
		fmt.Sprintf("Order %s was placed by %s.", order.OrderNumber, order.Customer.Username),
		models.JSONB{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
		},
	)
}

// SendOrderStatusNotification tells the customer their order moved.
func (s *NotificationService) SendOrderStatusNotification(order *models.Order, previous models.OrderStatus) error {
	return s.notify(
		order.CustomerID,
		models.NotificationOrderStatus,
		"Order Status Updated",
		fmt.Sprintf("Order %s moved from %s to %s.", order.OrderNumber, previous, order.Status),
		models.JSONB{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"status":       string(order.Status),
		},
	)
}

// SendLowStockNotification alerts the supplier that a product dropped to or
// below its reorder point.
func (s *NotificationService) SendLowStockNotification(product *models.Product, inventory *models.Inventory) error {
	var supplier models.Supplier
	if err := s.db.First(&supplier, product.SupplierID).Error; err != nil {
		return fmt.Errorf("supplier not found: %w", err)
	}

	return s.notify(
		supplier.UserID,
		models.NotificationLowStock,
		"Low Stock Alert",
		fmt.Sprintf("%s (%s) is low on stock: %d available, reorder point %d.",
			product.Name, product.SKU, inventory.AvailableStock(), inventory.ReorderPoint),
		models.JSONB{
			"product_id":      product.ID.String(),
			"sku":             product.SKU,
			"available_stock": inventory.AvailableStock(),
			"reorder_point":   inventory.ReorderPoint,
		},
	)
}

// SendSupplierStatusNotification tells a supplier account about an admin
// decision on its status.
func (s *NotificationService) SendSupplierStatusNotification(supplier *models.Supplier, previous models.SupplierStatus) error {
	var message string
	switch supplier.Status {
	case models.SupplierStatusApproved:
		message = "Your supplier account has been approved. You can now list products."
	case models.SupplierStatusSuspended:
		message = "Your supplier account has been suspended."
	case models.SupplierStatusRejected:
		message = "Your supplier application has been rejected."
	default:
		message = "Your supplier account is pending review."
	}

	return s.notify(
		supplier.UserID,
		models.NotificationSupplierState,
		"Supplier Account Update",
		message,
		models.JSONB{
			"supplier_id": supplier.ID.String(),
			"from":        string(previous),
			"to":          string(supplier.Status),
		},
	)
}

func (s *NotificationService) GetUserNotifications(userID uuid.UUID, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkNotificationRead(notificationID uuid.UUID, userID uuid.UUID) error {
	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("notification not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if notification.IsRead {
		return nil
	}

	return s.db.Model(&notification).
		Updates(map[string]interface{}{"is_read": true, "read_at": gorm.Expr("CURRENT_TIMESTAMP")}).Error
}

func (s *NotificationService) MarkAllNotificationsRead(userID uuid.UUID) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// notify persists the in-app notification and attempts email delivery
// best-effort; an email failure never fails the notification.
func (s *NotificationService) notify(userID uuid.UUID, notificationType models.NotificationType, title, message string, data models.JSONB) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if err := s.sendEmailToUser(userID, title, message); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"type":    notificationType,
		}).WithError(err).Warn("notification email delivery failed")
	}

	return nil
}

func (s *NotificationService) sendEmailToUser(userID uuid.UUID, subject, message string) error {
	if !s.config.Email.Enabled || s.config.Email.SMTPHost == "" {
		return nil
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	var body bytes.Buffer
	err := notificationEmailTmpl.Execute(&body, map[string]interface{}{
		"Title":        subject,
		"Username":     user.Username,
		"Message":      message,
		"FromName":     s.config.Email.FromName,
		"DashboardURL": s.config.Frontend.BaseURL + "/dashboard",
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body.String())
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	email := s.config.Email
	auth := smtp.PlainAuth("", email.SMTPUsername, email.SMTPPassword, email.SMTPHost)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\nSubject: %s\r\n", to, subject)
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	return smtp.SendMail(email.SMTPHost+":"+email.SMTPPort, auth, email.FromEmail, []string{to}, msg.Bytes())
}
