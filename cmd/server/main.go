package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/config"
	cartusecase "pratoJaEdge/internal/modules/cart/application/usecase"
	carttransport "pratoJaEdge/internal/modules/cart/interface"
	catalogstore "pratoJaEdge/internal/modules/catalog/application/store"
	cataloginfra "pratoJaEdge/internal/modules/catalog/infrastructure"
	catalogtransport "pratoJaEdge/internal/modules/catalog/interface"
	notifhandler "pratoJaEdge/internal/modules/notifications/application/handler"
	notifusecase "pratoJaEdge/internal/modules/notifications/application/usecase"
	notifinfra "pratoJaEdge/internal/modules/notifications/infrastructure"
	notiftransport "pratoJaEdge/internal/modules/notifications/interface"
	paymentsinfra "pratoJaEdge/internal/modules/payments/infrastructure"
	paymentstransport "pratoJaEdge/internal/modules/payments/interface"
	sessionusecase "pratoJaEdge/internal/modules/session/application/usecase"
	sessioninfra "pratoJaEdge/internal/modules/session/infrastructure"
	sessiontransport "pratoJaEdge/internal/modules/session/interface"
	"pratoJaEdge/internal/platform/broker"
	"pratoJaEdge/internal/routing"
	"pratoJaEdge/internal/shared/auth"
	"pratoJaEdge/internal/shared/logging"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("upstream config resolved", slog.String("baseUrl", cfg.Upstream.BaseURL), slog.Duration("timeout", cfg.Upstream.Timeout))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	// Session layer
	codec := auth.NewCookieCodec(cfg.Session.CookieSecret, cfg.Session.CookieTTL)
	authAPI := sessioninfra.NewAuthHTTPClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, nil)
	sessions := sessionusecase.NewStore(authAPI)

	// Catalog stores over the shared backend gateway
	gateway := cataloginfra.NewBackendHTTPClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, nil)
	cepLookup := cataloginfra.NewViaCEPClient(cfg.ViaCEP.BaseURL, cfg.ViaCEP.Timeout, nil)
	stores := catalogtransport.Stores{
		Dishes:    catalogstore.NewDishStore(gateway),
		Demands:   catalogstore.NewDemandStore(gateway),
		Items:     catalogstore.NewItemStore(gateway),
		Users:     catalogstore.NewUserStore(gateway),
		Addresses: catalogstore.NewAddressStore(gateway),
		Cards:     catalogstore.NewCardStore(gateway),
		CEP:       catalogstore.NewCEPStore(cepLookup),
	}

	// Notification channel with realtime fan-out
	hub := notifinfra.NewHub()
	channel := notifusecase.NewChannel(3 * time.Second)
	channel.SetPublisher(hub)

	// Cart
	carts := cartusecase.NewCartStore(cartusecase.NewCodec(cfg.Cart.Secret))

	// Payments
	boletoAPI := paymentsinfra.NewBoletoHTTPClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, nil)

	// Demand lifecycle events
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registry := broker.NewHandlerRegistry()
	topics := cfg.Kafka.Topics
	if len(topics) == 0 {
		topics = []string{"demands.status"}
	}
	for _, topic := range topics {
		registry.Register(notifhandler.NewDemandEventHandler(topic, sessions, stores.Demands, channel))
	}
	broker.StartConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, topics)

	// HTTP surface
	e := echo.New()
	e.Logger.SetOutput(log.Writer())

	api := e.Group("/api")
	sessiontransport.NewSessionHandler(sessions, codec, cfg.Session.CookieTTL).Register(api)
	catalogtransport.NewCatalogHandler(sessions, codec, stores, channel).Register(api)
	carttransport.NewCartHandler(sessions, codec, carts).Register(api)
	paymentstransport.NewPaymentsHandler(sessions, codec, boletoAPI).Register(api)
	notiftransport.NewNotificationHandler(sessions, codec, channel, hub).Register(api, e.Group("/ws"))

	table := routing.NewTable()
	routing.NewPageHandler(sessions, codec, table).Register(e)
	e.HTTPErrorHandler = routing.ErrorRedirector(table, e.DefaultHTTPErrorHandler)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown failed", slog.Any("error", err))
		e.Close()
	}
}
