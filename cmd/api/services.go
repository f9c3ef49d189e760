package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/giftshop-backend/api/routes"
	"github.com/angelmondragon/giftshop-backend/internal/budgets"
	"github.com/angelmondragon/giftshop-backend/internal/categories"
	"github.com/angelmondragon/giftshop-backend/internal/contacts"
	"github.com/angelmondragon/giftshop-backend/internal/customers"
	"github.com/angelmondragon/giftshop-backend/internal/dashboard"
	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/internal/newsletter"
	"github.com/angelmondragon/giftshop-backend/internal/orders"
	"github.com/angelmondragon/giftshop-backend/internal/products"
	"github.com/angelmondragon/giftshop-backend/internal/responsibles"
	"github.com/angelmondragon/giftshop-backend/internal/settings"
	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
	"github.com/angelmondragon/giftshop-backend/pkg/sqlclient"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

// buildServices wires repositories into the domain services served by the router.
func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sqlClient *sqlclient.Client,
	gcsClient *gcs.Client,
	reg *prometheus.Registry,
) (routes.Services, error) {
	conn := dbClient.DB()

	imageRepo := images.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	customerRepo := customers.NewRepository(conn)
	responsibleRepo := responsibles.NewRepository(conn)
	budgetRepo := budgets.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	settingsRepo := settings.NewRepository(conn)

	synchronizer, err := images.NewSynchronizer(imageRepo, gcsClient, images.SyncOptions{
		Folder:   cfg.Media.Folder,
		PageSize: cfg.Media.SyncPageSize,
	}, metrics.NewImageSyncMetrics(reg), logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("image synchronizer: %w", err)
	}
	imageService, err := images.NewService(imageRepo, gcsClient, synchronizer, images.ServiceOptions{
		Folder:         cfg.Media.Folder,
		MaxUploadBytes: cfg.Media.MaxUploadBytes(),
	}, logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("image service: %w", err)
	}

	productService, err := products.NewService(dbClient, productRepo, imageRepo, categoryRepo, logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("product service: %w", err)
	}
	resolver, err := products.NewResolver(productRepo, 0)
	if err != nil {
		return routes.Services{}, fmt.Errorf("product resolver: %w", err)
	}
	categoryService, err := categories.NewService(categoryRepo, imageRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("category service: %w", err)
	}
	customerService, err := customers.NewService(customerRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("customer service: %w", err)
	}
	responsibleService, err := responsibles.NewService(responsibleRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("responsible service: %w", err)
	}
	settingsService, err := settings.NewService(settingsRepo, imageRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("settings service: %w", err)
	}

	budgetService, err := budgets.NewService(dbClient, budgetRepo, responsibleRepo, settingsService, logg, budgets.ServiceOptions{
		CurrencySymbol: cfg.Budget.CurrencySymbol,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("budget service: %w", err)
	}
	submitter, err := budgets.NewSubmitter(dbClient, budgetRepo, customerRepo, resolver, settingsService,
		metrics.NewSubmissionMetrics(reg), logg, budgets.SubmitterOptions{DefaultValidityDays: cfg.Budget.DefaultValidityDays})
	if err != nil {
		return routes.Services{}, fmt.Errorf("budget submitter: %w", err)
	}
	orderService, err := orders.NewService(orderRepo, dbClient, customerRepo, resolver, budgetRepo, logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("order service: %w", err)
	}

	newsletterService, err := newsletter.NewService(newsletter.NewRepository(conn), logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("newsletter service: %w", err)
	}
	contactService, err := contacts.NewService(contacts.NewRepository(conn), logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("contact service: %w", err)
	}

	var store dashboard.Store = dashboard.NewGormStore(conn)
	if sqlClient != nil {
		store = dashboard.NewSQLStore(sqlClient)
	}
	dashboardService, err := dashboard.NewService(store, logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("dashboard service: %w", err)
	}

	return routes.Services{
		Products:      productService,
		ProductLookup: productRepo,
		Categories:    categoryService,
		Customers:     customerService,
		Responsibles:  responsibleService,
		Budgets:       budgetService,
		Submitter:     submitter,
		Orders:        orderService,
		Newsletter:    newsletterService,
		Contacts:      contactService,
		Settings:      settingsService,
		Images:        imageService,
		Dashboard:     dashboardService,
	}, nil
}
