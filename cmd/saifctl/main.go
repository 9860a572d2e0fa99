// Package main provee el binario saifctl: tareas operativas que no pasan
// por la API (migraciones, actualización batch de estados de lote y alta
// del usuario administrador).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saif-farmacia/saif-api/internal/application/auth"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/expiry"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/infrastructure/postgres"
	"github.com/saif-farmacia/saif-api/pkg/config"
	"github.com/saif-farmacia/saif-api/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "saifctl",
		Short:         "Herramientas operativas del inventario de farmacia",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(actualizarEstadosCmd())
	cmd.AddCommand(seedAdminCmd())
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de base de datos (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			log.Info().Msg("esquema aplicado")
			return nil
		},
	}
}

func actualizarEstadosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actualizar-estados",
		Short: "Marca lotes vencidos y próximos a vencer según su fecha de caducidad",
		Long: `Recorre los lotes y sincroniza su estado con la fecha de caducidad:
vence los caducados, marca los que entran en la ventana de próximos a
vencer y revierte los que salieron de ella tras corregir la fecha.
Mismo comando que el scheduler corre a diario.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			uc := expiry.NewUseCase(
				postgres.NewTxRunner(pool),
				postgres.NewExpiryReportRepository(pool),
				postgres.NewLotRepository(pool),
				cfg.Inventario.ProximoVencerDias,
			)
			result, err := uc.Reconcile(ctx, time.Now())
			if err != nil {
				return err
			}
			log.Info().
				Int64("vencidos", result.Vencidos).
				Int64("proximos_a_vencer", result.ProximosAVencer).
				Int64("revertidos", result.Revertidos).
				Msg("estados de lote actualizados")
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var email, password, nombre, apellido string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea el usuario administrador inicial",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			uc := auth.NewUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			})
			user, err := uc.RegisterUser(dto.CreateUserRequest{
				Email:    email,
				Password: password,
				Nombre:   nombre,
				Apellido: apellido,
				Rol:      entity.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("crear administrador: %w", err)
			}
			log.Info().Str("id", user.ID).Str("email", user.Email).Msg("administrador creado")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&password, "password", "", "contraseña inicial")
	cmd.Flags().StringVar(&nombre, "nombre", "Admin", "nombre")
	cmd.Flags().StringVar(&apellido, "apellido", "", "apellido")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})
	return cfg, log, nil
}
