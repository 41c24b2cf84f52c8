package routes

import (
	"github.com/cafahardware/pos/app/controllers"
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/middleware"
	"github.com/cafahardware/pos/pkg/rbac"
	"github.com/cafahardware/pos/pkg/router"
	"github.com/cafahardware/pos/pkg/sms"
)

// RegisterAPI mounts the full API surface.
//
// Access tiers:
//   - public:   catalogue browsing, login, customer registration
//   - customer: own orders and payment proofs
//   - staff:    POS, inventory, and the order pipeline (admin or cashier)
//   - admin:    product management, refunds, reports, settings, SMS tools
func RegisterAPI(r *router.Router) {
	notifier := services.NewNotificationService()
	inventory := services.NewInventoryService(notifier)
	orders := services.NewOrderService(inventory, notifier)
	transactions := services.NewTransactionService(inventory, notifier)

	authController := controllers.NewAuthController()
	catalogueController := controllers.NewCatalogueController()
	productController := controllers.NewProductController()
	inventoryController := controllers.NewInventoryController(inventory)
	transactionController := controllers.NewTransactionController(transactions)
	orderController := controllers.NewOrderController(orders)
	orderAdminController := controllers.NewOrderManagementController(orders)
	reportController := controllers.NewReportController()
	settingController := controllers.NewSettingController()
	userController := controllers.NewUserController()
	smsController := controllers.NewSMSController(sms.Default(), notifier)
	realtimeController := controllers.NewRealtimeController()

	api := r.Group("/api")

	// Public storefront.
	api.Get("/catalogue", "catalogue.index", ctx.Wrap(catalogueController.Index))
	api.Get("/catalogue/categories", "catalogue.categories", ctx.Wrap(catalogueController.Categories))
	api.Get("/catalogue/{id}", "catalogue.show", ctx.Wrap(catalogueController.Show))
	api.Post("/catalogue/graphql", "catalogue.graphql", ctx.Wrap(catalogueController.GraphQL))
	api.Get("/payment-info", "payment.info", ctx.Wrap(settingController.PaymentInfo))

	// Authentication.
	api.Post("/login", "auth.login", ctx.Wrap(authController.Login))
	api.Post("/customer/register", "customer.register", ctx.Wrap(authController.Register))
	api.Post("/customer/login", "customer.login", ctx.Wrap(authController.CustomerLogin))

	// Customer accounts.
	customer := api.Group("/customer", middleware.AuthMiddleware, rbac.HasRole(models.RoleCustomer))
	customer.Post("/orders", "customer.orders.store", ctx.Wrap(orderController.Store))
	customer.Get("/orders", "customer.orders.index", ctx.Wrap(orderController.Index))
	customer.Get("/orders/{id}", "customer.orders.show", ctx.Wrap(orderController.Show))
	customer.Post("/orders/{id}/cancel", "customer.orders.cancel", ctx.Wrap(orderController.Cancel))
	customer.Post("/orders/{id}/payment-proof", "customer.orders.proof", ctx.Wrap(orderController.UploadPaymentProof))

	// Staff (admin or cashier).
	staff := api.Group("", middleware.AuthMiddleware, rbac.HasRole(models.RoleAdmin, models.RoleCashier))
	staff.Get("/me", "auth.me", ctx.Wrap(authController.Me))

	staff.Get("/products", "products.index", ctx.Wrap(productController.Index))
	staff.Get("/products/barcode/{barcode}", "products.barcode", ctx.Wrap(productController.Barcode))
	staff.Get("/products/{id}", "products.show", ctx.Wrap(productController.Show))
	staff.Get("/products/{id}/movements", "products.movements", ctx.Wrap(inventoryController.ProductMovements))
	staff.Get("/categories", "categories.index", ctx.Wrap(productController.Categories))

	staff.Post("/transactions", "transactions.store", ctx.Wrap(transactionController.Store))
	staff.Get("/transactions", "transactions.index", ctx.Wrap(transactionController.Index))
	staff.Get("/transactions/{id}", "transactions.show", ctx.Wrap(transactionController.Show))

	staff.Post("/inventory/{id}/adjust", "inventory.adjust", ctx.Wrap(inventoryController.Adjust))
	staff.Post("/inventory/{id}/restock", "inventory.restock", ctx.Wrap(inventoryController.Restock))
	staff.Get("/inventory/low-stock", "inventory.low_stock", ctx.Wrap(inventoryController.LowStock))
	staff.Get("/inventory/movements", "inventory.movements", ctx.Wrap(inventoryController.Movements))

	staff.Get("/orders", "orders.index", ctx.Wrap(orderAdminController.Index))
	staff.Get("/orders/pending-verification", "orders.pending", ctx.Wrap(orderAdminController.PendingVerification))
	staff.Get("/orders/stats", "orders.stats", ctx.Wrap(orderAdminController.Stats))
	staff.Get("/orders/{id}", "orders.show", ctx.Wrap(orderAdminController.Show))
	staff.Patch("/orders/{id}/status", "orders.status", ctx.Wrap(orderAdminController.UpdateStatus))
	staff.Post("/orders/{id}/verify-payment", "orders.verify", ctx.Wrap(orderAdminController.VerifyPayment))
	staff.Post("/orders/{id}/cancel", "orders.cancel", ctx.Wrap(orderAdminController.Cancel))

	staff.Get("/realtime/ws", "realtime.ws", ctx.Wrap(realtimeController.WS))
	staff.Get("/realtime/stream", "realtime.stream", ctx.Wrap(realtimeController.Stream))

	// Admin only.
	admin := api.Group("", middleware.AuthMiddleware, rbac.HasRole(models.RoleAdmin))
	admin.Post("/products", "products.store", ctx.Wrap(productController.Store))
	admin.Put("/products/{id}", "products.update", ctx.Wrap(productController.Update))
	admin.Delete("/products/{id}", "products.destroy", ctx.Wrap(productController.Destroy))
	admin.Post("/categories", "categories.store", ctx.Wrap(productController.StoreCategory))

	admin.Post("/transactions/{id}/refund", "transactions.refund", ctx.Wrap(transactionController.Refund))

	admin.Get("/inventory/report", "inventory.report", ctx.Wrap(inventoryController.Report))
	admin.Get("/reports/sales", "reports.sales", ctx.Wrap(reportController.Sales))
	admin.Get("/reports/inventory", "reports.inventory", ctx.Wrap(reportController.Inventory))

	admin.Get("/settings", "settings.index", ctx.Wrap(settingController.Index))
	admin.Put("/settings", "settings.update", ctx.Wrap(settingController.Update))

	admin.Get("/users", "users.index", ctx.Wrap(userController.Index))
	admin.Post("/users", "users.store", ctx.Wrap(userController.Store))
	admin.Get("/users/{id}", "users.show", ctx.Wrap(userController.Show))
	admin.Put("/users/{id}", "users.update", ctx.Wrap(userController.Update))
	admin.Delete("/users/{id}", "users.destroy", ctx.Wrap(userController.Destroy))
	admin.Patch("/users/{id}/toggle-status", "users.toggle", ctx.Wrap(userController.ToggleStatus))

	admin.Get("/sms/status", "sms.status", ctx.Wrap(smsController.Status))
	admin.Post("/sms/test", "sms.test", ctx.Wrap(smsController.Test))
	admin.Post("/sms/promotions", "sms.promotions", ctx.Wrap(smsController.Promote))
}
