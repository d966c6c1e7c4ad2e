// package main provides the entry point for the chainguardia-backend
// microservice: REST and GraphQL APIs over the application inventory and
// alert center, plus the background vulnerability scan pipeline.
package main

import (
	"context"
	"log"
	"os"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/database"
	"github.com/chainguardia/chainguardia-backend/internal/api"
	"github.com/chainguardia/chainguardia-backend/internal/kafka"
	"github.com/chainguardia/chainguardia-backend/internal/scanner"
	"github.com/chainguardia/chainguardia-backend/matcher"
	"github.com/chainguardia/chainguardia-backend/notify"
	"github.com/chainguardia/chainguardia-backend/nvd"
	"github.com/chainguardia/chainguardia-backend/restapi"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/applications"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/auth"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db := database.InitializeDatabase()
	zlog := database.Logger()

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		auth.SetJWTSecret(secret)
	} else if config.IsProduction() {
		log.Fatal("JWT_SECRET must be set in production")
	}

	alertCfg, err := config.LoadAlertConfigFile()
	if err != nil {
		zlog.Sugar().Warnf("Alert config load failed, using defaults: %v", err)
		alertCfg = config.DefaultAlertConfig()
	}

	feed := nvd.NewClient(nvd.WithLogger(zlog))
	inventory := applications.NewArangoInventory(db)
	alertStore := alerts.NewArangoStore(db)

	res := restapi.Resources{
		DB:           db,
		Applications: inventory,
		Alerts:       alertStore,
		Feed:         feed,
	}

	app := api.NewFiberApp(res)

	sc := &scanner.Scanner{
		Feed:      feed,
		Users:     scanner.ArangoUserSource{DB: db},
		Inventory: inventory,
		Alerts:    alertStore,
		Matcher:   matcher.NameMatcher{},
		Notifier:  notify.NewNotifier(alertCfg, zlog),
		Config:    alertCfg,
		Logger:    zlog,
	}
	go sc.Run(ctx)

	// Kafka scan processor (optional, enabled when brokers are reachable)
	if err := kafka.RunScanProcessor(ctx, sc); err != nil {
		zlog.Sugar().Warnf("Kafka scan processor disabled: %v", err)
	}

	// Get port from environment or default to 3000
	port := config.GetEnvDefault("MS_PORT", config.GetEnvDefault("PORT", "3000"))

	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
