package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-purchase/internal/config"
	"storefront-purchase/internal/db"
	"storefront-purchase/internal/httpserver"
	cartrepo "storefront-purchase/internal/repository/cart"
	currencyrepo "storefront-purchase/internal/repository/currency"
	memberrepo "storefront-purchase/internal/repository/member"
	paymentrepo "storefront-purchase/internal/repository/payment"
	productrepo "storefront-purchase/internal/repository/product"
	promotionrepo "storefront-purchase/internal/repository/promotion"
	shippingrepo "storefront-purchase/internal/repository/shipping"
	storerepo "storefront-purchase/internal/repository/store"
	taxrepo "storefront-purchase/internal/repository/tax"
	userrepo "storefront-purchase/internal/repository/useraccount"
	cartsvc "storefront-purchase/internal/service/cart"
	promosvc "storefront-purchase/internal/service/promotion"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	promotionService := promosvc.New(promotionrepo.NewPostgres(dbpool), logger)
	productService := productrepo.NewPostgres(dbpool, logger)
	taxService := taxrepo.NewPostgres(dbpool)
	shippingService := shippingrepo.NewPostgres(dbpool, logger)
	paymentService := paymentrepo.NewPostgres(dbpool, logger)

	newAggregate := func() *cartsvc.Aggregate {
		return cartsvc.NewAggregate(cartsvc.Deps{
			Products:        productService,
			Promotions:      promotionService,
			TaxProviders:    taxService,
			ShippingMethods: shippingService,
			PaymentMethods:  paymentService,
			Totals:          cartsvc.NewDefaultTotals(),
		})
	}
	cartRepo := cartsvc.NewRepository(newAggregate,
		cartrepo.NewPostgres(dbpool, logger),
		storerepo.NewPostgres(dbpool),
		currencyrepo.NewPostgres(dbpool),
		memberrepo.NewPostgres(dbpool),
		userrepo.NewPostgres(dbpool),
		logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts: cartRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
