// provision da de alta un dueño de inventario con su bodega por defecto y,
// opcionalmente, imprime un token firmado para pruebas locales.
//
// Uso: go run ./cmd/provision --user-id <uuid> --email dueno@example.com [--role User] [--token-ttl 24h]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/jhoicas/bodega-api/pkg/jwt"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

func main() {
	userID := pflag.String("user-id", "", "ID del dueño (uuid del proveedor de identidad)")
	email := pflag.String("email", "", "email del dueño")
	role := pflag.String("role", "User", "rol: User, AdminCliente o Superadmin")
	tokenTTL := pflag.Duration("token-ttl", 0, "si es mayor a 0 imprime un JWT con esa vigencia")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "provision", Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	owner, err := usecase.NewOwnerUseCase(postgres.NewTxRunner(pool)).Provision(ctx, dto.ProvisionOwnerRequest{
		UserID: *userID,
		Email:  *email,
		Role:   *role,
	})
	if err != nil {
		log.Fatal().Err(err).Str("user_id", *userID).Msg("aprovisionar dueño")
	}
	warehouseID := ""
	if owner.DefaultWarehouseID != nil {
		warehouseID = *owner.DefaultWarehouseID
	}
	log.Info().Str("user_id", owner.ID).Str("email", owner.Email).Str("warehouse_id", warehouseID).Msg("dueño aprovisionado")

	if *tokenTTL <= 0 {
		return
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET vacío: no se puede firmar el token")
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.Identity{
		UserID:      owner.ID,
		Email:       owner.Email,
		Role:        owner.Role,
		WarehouseID: warehouseID,
	}, *tokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("firmar token")
	}
	fmt.Println(tok)
}
