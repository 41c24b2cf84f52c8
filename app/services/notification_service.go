package services

import (
	"fmt"
	"strconv"

	"github.com/cafahardware/pos/app/jobs"
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/config"
	"github.com/cafahardware/pos/pkg/logger"
	"github.com/cafahardware/pos/pkg/notification"
	"github.com/cafahardware/pos/pkg/queue"
)

// Notifier sends customer and staff notifications. Workflow services call it
// only after their database transaction has committed.
type Notifier interface {
	SendTransactionReceipt(txn *models.Transaction)
	SendRefundNotice(txn *models.Transaction)
	SendLowStockAlert(product *models.Product)
	SendOrderConfirmation(order *models.Order)
	SendOrderStatusUpdate(order *models.Order, status string)
	SendPaymentVerified(order *models.Order)
	SendPaymentRejected(order *models.Order)
}

// NotificationService formats store messages and enqueues them as SMS jobs.
// Staff also get a low stock email when an admin mailbox is configured.
type NotificationService struct{}

func NewNotificationService() *NotificationService { return &NotificationService{} }

// enqueueSMS hands the message to the queue; delivery happens on a worker.
func (s *NotificationService) enqueueSMS(phone, message string) {
	if phone == "" {
		return
	}
	if err := queue.Dispatch(jobs.SendSMSJob{Phone: phone, Message: message}); err != nil {
		logger.Error("notification: enqueue sms failed", "phone", phone, "error", err)
	}
}

func (s *NotificationService) SendTransactionReceipt(txn *models.Transaction) {
	if txn.CustomerPhone == "" {
		return
	}
	message := fmt.Sprintf(
		"Thank you for your purchase at CAFA Hardware! Transaction #%06d Total: ₱%s. We appreciate your business!",
		txn.ID, formatAmount(txn.TotalAmount))
	s.enqueueSMS(txn.CustomerPhone, message)
}

func (s *NotificationService) SendRefundNotice(txn *models.Transaction) {
	if txn.CustomerPhone == "" {
		return
	}
	message := fmt.Sprintf(
		"CAFA Hardware: Your refund for Transaction #%06d has been processed. Amount: ₱%s. Thank you for your understanding.",
		txn.ID, formatAmount(txn.TotalAmount))
	s.enqueueSMS(txn.CustomerPhone, message)
}

func (s *NotificationService) SendLowStockAlert(product *models.Product) {
	message := fmt.Sprintf(
		"LOW STOCK ALERT: %s (SKU: %s) is running low. Current stock: %d units. Threshold: %d units. Please reorder soon.",
		product.Name, product.SKU, product.StockQuantity, product.LowStockThreshold)

	phones := config.AdminPhones()
	if len(phones) == 0 {
		logger.Warn("notification: no admin phones configured for low stock alerts",
			"product_id", product.ID)
	}
	for _, phone := range phones {
		s.enqueueSMS(phone, message)
	}

	if email := config.AdminEmail(); email != "" {
		notification.SendAsync(email, &lowStockNotification{Product: *product})
	}
}

func (s *NotificationService) SendOrderConfirmation(order *models.Order) {
	phone := customerPhone(order)
	if phone == "" {
		return
	}
	message := fmt.Sprintf(
		"Thank you for your order at CAFA Hardware! Order #%s. Total: ₱%s. Status: %s. We'll notify you when it's ready!",
		order.OrderNumber, formatAmount(order.TotalAmount), order.Status)
	s.enqueueSMS(phone, message)
}

func (s *NotificationService) SendOrderStatusUpdate(order *models.Order, status string) {
	phone := customerPhone(order)
	if phone == "" {
		return
	}

	var body string
	switch status {
	case models.OrderConfirmed:
		body = fmt.Sprintf("Your order #%s has been confirmed and is being prepared.", order.OrderNumber)
	case models.OrderProcessing:
		body = fmt.Sprintf("Your order #%s is now being processed.", order.OrderNumber)
	case models.OrderReady:
		body = fmt.Sprintf("Your order #%s is ready for pickup! Visit us during business hours.", order.OrderNumber)
	case models.OrderCompleted:
		body = fmt.Sprintf("Thank you! Your order #%s has been completed.", order.OrderNumber)
	case models.OrderCancelled:
		body = fmt.Sprintf("Your order #%s has been cancelled.", order.OrderNumber)
	default:
		body = fmt.Sprintf("Your order #%s status: %s.", order.OrderNumber, status)
	}
	s.enqueueSMS(phone, "CAFA Hardware: "+body)
}

func (s *NotificationService) SendPaymentVerified(order *models.Order) {
	phone := customerPhone(order)
	if phone == "" {
		return
	}
	message := fmt.Sprintf(
		"CAFA Hardware: Payment verified! Your order #%s is confirmed. Thank you!",
		order.OrderNumber)
	s.enqueueSMS(phone, message)
}

func (s *NotificationService) SendPaymentRejected(order *models.Order) {
	phone := customerPhone(order)
	if phone == "" {
		return
	}
	message := fmt.Sprintf(
		"CAFA Hardware: Payment verification failed for order #%s. Order cancelled. Please contact us if you believe this is an error.",
		order.OrderNumber)
	s.enqueueSMS(phone, message)
}

// SendPromotion texts a marketing message to one customer.
func (s *NotificationService) SendPromotion(phone, message string) {
	s.enqueueSMS(phone, "CAFA Hardware: "+message+" Reply STOP to unsubscribe.")
}

// BroadcastPromotion texts a marketing message to many customers.
func (s *NotificationService) BroadcastPromotion(phones []string, message string) {
	for _, phone := range phones {
		s.SendPromotion(phone, message)
	}
}

func customerPhone(order *models.Order) string {
	if order.Customer == nil {
		return ""
	}
	return order.Customer.Phone
}

// formatAmount renders a peso amount with comma thousands separators,
// e.g. 12345.5 → "12,345.50".
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	intPart, decPart := s, ""
	if i := len(s) - 3; i >= 0 && s[i] == '.' {
		intPart, decPart = s[:i], s[i:]
	}

	neg := false
	if len(intPart) > 0 && intPart[0] == '-' {
		neg = true
		intPart = intPart[1:]
	}

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	result := string(out) + decPart
	if neg {
		result = "-" + result
	}
	return result
}

// lowStockNotification is the staff email counterpart of the low stock SMS.
type lowStockNotification struct {
	Product models.Product
}

func (n *lowStockNotification) Via() []string { return []string{"mail"} }

func (n *lowStockNotification) ToMail() notification.MailData {
	p := n.Product
	return notification.MailData{
		Subject: fmt.Sprintf("Low stock: %s (%d left)", p.Name, p.StockQuantity),
		Body: fmt.Sprintf(
			"<p><strong>%s</strong> (SKU: %s) is running low.</p><p>Current stock: %d units<br>Threshold: %d units</p><p>Please reorder soon.</p>",
			p.Name, p.SKU, p.StockQuantity, p.LowStockThreshold),
		Text: fmt.Sprintf("%s (SKU: %s) is running low. Current stock: %d units. Threshold: %d units.",
			p.Name, p.SKU, p.StockQuantity, p.LowStockThreshold),
	}
}
