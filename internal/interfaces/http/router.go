package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/adjustment"
	"github.com/saif-farmacia/saif-api/internal/application/auth"
	"github.com/saif-farmacia/saif-api/internal/application/expiry"
	"github.com/saif-farmacia/saif-api/internal/application/inventory"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/receiving"
	"github.com/saif-farmacia/saif-api/internal/application/reports"
	"github.com/saif-farmacia/saif-api/internal/application/restock"
	"github.com/saif-farmacia/saif-api/internal/application/sales"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	ProductUC    *inventory.ProductUseCase
	LotUC        *inventory.LotUseCase
	LedgerUC     *inventory.LedgerUseCase
	AdjustmentUC *adjustment.UseCase
	ReceivingUC  *receiving.UseCase
	SalesUC      *sales.UseCase
	ExpiryUC     *expiry.UseCase
	RestockUC    *restock.UseCase
	QueryUC      *query.UseCase
	PDFUC        *reports.PDFUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, registro reservado al administrador.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos (protegido; bajas y reactivaciones sólo admin)
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/buscar", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Deactivate)
	products.Post("/:id/reactivar", RequireRole(entity.RoleAdmin), productHandler.Reactivate)

	// Lotes (protegido)
	lots := protected.Group("/lotes")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", lotHandler.Create)
	lots.Get("/", lotHandler.ListByProduct)
	lots.Get("/vendibles", lotHandler.SearchSellable)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Put("/:id", lotHandler.Update)
	lots.Put("/:id/estado", lotHandler.ChangeState)
	lots.Delete("/:id", RequireRole(entity.RoleAdmin), lotHandler.Delete)

	// Ajustes de inventario (protegido)
	adjustments := protected.Group("/ajustes")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC, deps.QueryUC, deps.PDFUC)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Get("/:id/pdf", adjustmentHandler.PDF)
	adjustments.Post("/:id/anular", adjustmentHandler.Cancel)

	// Recepciones de bodega (protegido)
	receptions := protected.Group("/recepciones")
	receptionHandler := NewReceptionHandler(deps.ReceivingUC, deps.QueryUC, deps.PDFUC)
	receptions.Post("/", receptionHandler.Create)
	receptions.Get("/", receptionHandler.List)
	receptions.Get("/:id", receptionHandler.GetByID)
	receptions.Get("/:id/pdf", receptionHandler.PDF)
	receptions.Put("/:id/estado", receptionHandler.ChangeState)

	// Ventas y devoluciones (protegido)
	salesHandler := NewSalesHandler(deps.SalesUC, deps.QueryUC)
	ventas := protected.Group("/ventas")
	ventas.Post("/", salesHandler.CreateVenta)
	ventas.Get("/", salesHandler.ListVentas)
	ventas.Get("/:referencia", salesHandler.VentaDetail)
	ventas.Post("/:referencia/anular", salesHandler.CancelVenta)

	devoluciones := protected.Group("/devoluciones")
	devoluciones.Post("/", salesHandler.CreateDevolucion)
	devoluciones.Get("/", salesHandler.ListDevoluciones)
	devoluciones.Get("/lotes-por-factura", salesHandler.LotesVendidos)
	devoluciones.Get("/:referencia", salesHandler.DevolucionDetail)
	devoluciones.Post("/:referencia/anular", salesHandler.CancelDevolucion)

	// Vencimientos (protegido)
	vencimientos := protected.Group("/vencimientos")
	expiryHandler := NewExpiryHandler(deps.ExpiryUC, deps.QueryUC, deps.PDFUC)
	vencimientos.Post("/actualizar-estados", expiryHandler.Reconcile)
	vencimientos.Get("/lotes", expiryHandler.LotesVencidos)
	vencimientos.Post("/reportes", expiryHandler.CreateReporte)
	vencimientos.Get("/reportes", expiryHandler.List)
	vencimientos.Get("/reportes/:id", expiryHandler.GetByID)
	vencimientos.Get("/reportes/:id/pdf", expiryHandler.PDF)
	vencimientos.Put("/reportes/:id/estado", expiryHandler.ChangeState)

	// Solicitudes de faltantes (protegido)
	solicitudes := protected.Group("/solicitudes")
	restockHandler := NewRestockHandler(deps.RestockUC, deps.QueryUC)
	solicitudes.Get("/sugerencias", restockHandler.Suggestions)
	solicitudes.Post("/", restockHandler.Create)
	solicitudes.Get("/", restockHandler.List)
	solicitudes.Get("/:id", restockHandler.GetByID)
	solicitudes.Put("/:id/estado", restockHandler.ChangeState)

	// Libro de movimientos y recetas (protegido, sólo lectura)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	protected.Get("/movimientos", ledgerHandler.Movements)
	protected.Get("/recetas", ledgerHandler.Prescriptions)
}
