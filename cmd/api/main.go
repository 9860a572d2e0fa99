package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/saif-farmacia/saif-api/internal/application/adjustment"
	"github.com/saif-farmacia/saif-api/internal/application/auth"
	"github.com/saif-farmacia/saif-api/internal/application/expiry"
	"github.com/saif-farmacia/saif-api/internal/application/inventory"
	"github.com/saif-farmacia/saif-api/internal/application/ports"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/receiving"
	"github.com/saif-farmacia/saif-api/internal/application/reports"
	"github.com/saif-farmacia/saif-api/internal/application/restock"
	"github.com/saif-farmacia/saif-api/internal/application/sales"
	infrapdf "github.com/saif-farmacia/saif-api/internal/infrastructure/pdf"
	"github.com/saif-farmacia/saif-api/internal/infrastructure/postgres"
	httpRouter "github.com/saif-farmacia/saif-api/internal/interfaces/http"
	"github.com/saif-farmacia/saif-api/pkg/config"
	"github.com/saif-farmacia/saif-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Repos atados al pool para lecturas fuera de transacción. El motor de
	// inventario siempre escribe vía TxRunner.
	poolRepos := ports.Repos{
		Products:      postgres.NewProductRepository(pool),
		Lots:          postgres.NewLotRepository(pool),
		Movements:     postgres.NewMovementRepository(pool),
		Adjustments:   postgres.NewAdjustmentRepository(pool),
		Receptions:    postgres.NewReceptionRepository(pool),
		ExpiryReports: postgres.NewExpiryReportRepository(pool),
		Restocks:      postgres.NewRestockRepository(pool),
		Prescriptions: postgres.NewPrescriptionRepository(pool),
	}
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ventanaDias := cfg.Inventario.ProximoVencerDias
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := inventory.NewProductUseCase(txRunner, poolRepos.Products, poolRepos.Lots)
	lotUC := inventory.NewLotUseCase(txRunner, poolRepos.Lots, ventanaDias)
	ledgerUC := inventory.NewLedgerUseCase(poolRepos.Movements, poolRepos.Prescriptions)
	adjustmentUC := adjustment.NewUseCase(txRunner, poolRepos.Adjustments, ventanaDias)
	receivingUC := receiving.NewUseCase(txRunner, poolRepos.Receptions, ventanaDias)
	salesUC := sales.NewUseCase(txRunner, poolRepos.Movements)
	expiryUC := expiry.NewUseCase(txRunner, poolRepos.ExpiryReports, poolRepos.Lots, ventanaDias)
	restockUC := restock.NewUseCase(txRunner, poolRepos.Restocks, poolRepos.Products, cfg.Inventario.UmbralStockBajo)
	queryUC := query.NewUseCase(poolRepos)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := reports.NewPDFUseCase(
		poolRepos.Adjustments, poolRepos.Receptions, poolRepos.ExpiryReports,
		poolRepos.Lots, poolRepos.Products, pdfGenerator,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SAIF API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		LotUC:        lotUC,
		LedgerUC:     ledgerUC,
		AdjustmentUC: adjustmentUC,
		ReceivingUC:  receivingUC,
		SalesUC:      salesUC,
		ExpiryUC:     expiryUC,
		RestockUC:    restockUC,
		QueryUC:      queryUC,
		PDFUC:        pdfUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
