// Package main implements a standalone seed script that populates the shop
// backend with a demo catalog and a couple of accounts, so a fresh backend
// has something to sell.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/olmosO/doggys/internal/api"
	"github.com/olmosO/doggys/internal/config"
	apperrors "github.com/olmosO/doggys/pkg/errors"
	"github.com/olmosO/doggys/pkg/httpclient"
	"github.com/olmosO/doggys/pkg/logger"
)

var products = []api.ProductInput{
	{Name: "Completo Italiano", Description: "Palta, tomate y mayonesa", Price: 2500, Available: true, Stock: 50, Tags: []string{"completo"}},
	{Name: "Completo Dinámico", Description: "Palta, tomate, americana y salsa verde", Price: 2800, Available: true, Stock: 50, Tags: []string{"completo"}},
	{Name: "Completo Tradicional", Description: "Chucrut, tomate y mayonesa", Price: 2200, Available: true, Stock: 50, Tags: []string{"completo"}},
	{Name: "Ass Italiano", Description: "Churrasco con palta, tomate y mayonesa", Price: 4200, Available: true, Stock: 30, Tags: []string{"ass"}},
	{Name: "Pizza Napolitana", Description: "Tomate, queso y orégano", Price: 4500, Available: true, Stock: 20, Tags: []string{"pizza"}},
	{Name: "Pizza Pepperoni", Description: "Doble pepperoni", Price: 4900, Available: true, Stock: 20, Tags: []string{"pizza"}},
	{Name: "Papas Fritas", Description: "Porción grande", Price: 1800, Available: true, Stock: 80, Tags: []string{"acompañamiento"}},
	{Name: "Bebida 350cc", Description: "Lata", Price: 1200, Available: true, Stock: 100, Tags: []string{"bebida"}},
	{Name: "Promo Invierno", Description: "Fuera de temporada", Price: 5500, Available: false, Stock: 0, Tags: []string{"promo"}},
}

var users = []api.RegisterInput{
	{Name: "Juan Pérez", Email: "juan@doggys.cl", Password: "secreto1", Direccion: "Av. Siempre Viva 742", Telefono: "+56 9 1234 5678"},
	{Name: "Ana Soto", Email: "ana@doggys.cl", Password: "secreto2"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("doggys-seed", cfg.LogLevel)

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.APITimeout
	client := api.NewClient(cfg.APIBaseURL, httpclient.New(httpCfg), log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seeded := 0
	for _, input := range products {
		if _, err := client.CreateProduct(ctx, input); err != nil {
			log.Error("seed product failed",
				slog.String("nombre", input.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		seeded++
	}

	for _, input := range users {
		if _, err := client.Register(ctx, input); err != nil {
			// A re-run against a seeded backend hits duplicates; skip them.
			if errors.Is(err, apperrors.ErrInvalidInput) {
				log.Info("user already exists, skipping", slog.String("email", input.Email))
				continue
			}
			log.Error("seed user failed",
				slog.String("email", input.Email),
				slog.String("error", err.Error()),
			)
		}
	}

	log.Info("seed complete",
		slog.Int("products", seeded),
		slog.Int("users", len(users)),
	)
}
