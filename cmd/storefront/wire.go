package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
	"storefront/pkg/infrastructure/amqp"
	"storefront/pkg/infrastructure/catalogdata"
	"storefront/pkg/infrastructure/config"
	"storefront/pkg/infrastructure/eventlog"
	"storefront/pkg/infrastructure/gemini"
	"storefront/pkg/infrastructure/memory"
	"storefront/pkg/infrastructure/mysql"
	"storefront/pkg/infrastructure/paypal"
	"storefront/pkg/infrastructure/queue"
	"storefront/pkg/infrastructure/session"
	"storefront/pkg/infrastructure/token"
	"storefront/pkg/infrastructure/webhook"
	"storefront/pkg/transport"
)

// storefront owns every long-lived component of one process.
type storefront struct {
	cfg      *config.Config
	services transport.Services
	queue    *queue.OrderQueue

	closers []func() error
}

func (s *storefront) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.WithError(err).Warn("failed to release resource")
		}
	}
}

func setupLogging(cfg *config.Config) {
	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.LogFile == "" {
		return
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.WithError(err).Warn("Failed to open log file, logging to stderr")
		return
	}
	log.SetOutput(file)
}

func loadCatalog(cfg *config.Config) (*model.Catalog, error) {
	return catalogdata.LoadFile(cfg.CatalogFile, time.Now())
}

func newIdentity(cfg *config.Config, dispatcher service.EventDispatcher) service.IdentityService {
	store := session.NewFileStore(cfg.SessionDir, cfg.SessionKey)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	return service.NewIdentityService(store, issuer, dispatcher, log.StandardLogger(), cfg.AdminEmail)
}

func newDispatcher(cfg *config.Config, sf *storefront) service.EventDispatcher {
	dispatchers := eventlog.MultiDispatcher{eventlog.NewLogDispatcher(log.StandardLogger())}
	if cfg.AMQPURL == "" {
		return dispatchers
	}

	publisher, err := amqp.NewDispatcher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.WithError(err).Warn("event broker unavailable, events are only logged")
		return dispatchers
	}
	sf.closers = append(sf.closers, publisher.Close)
	return append(dispatchers, publisher)
}

// newOrderSink also returns the order history when the sink keeps one.
func newOrderSink(ctx context.Context, cfg *config.Config, sf *storefront) (model.OrderSink, service.OrderHistory, error) {
	switch cfg.OrderSink {
	case config.SinkMySQL:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		sf.closers = append(sf.closers, db.Close)
		sink := mysql.NewOrderSink(db)
		return sink, sink, nil
	case config.SinkNone:
		return webhook.NewSink("", 0), nil, nil
	}
	return webhook.NewSink(cfg.WebhookURL, 0), nil, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.MySQLDSN == "" {
		return nil, errors.New("STOREFRONT_MYSQL_DSN is not set")
	}
	return mysql.Connect(ctx, cfg.MySQLDSN)
}

func buildStorefront(ctx context.Context, cfg *config.Config) (*storefront, error) {
	sf := &storefront{cfg: cfg}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	dispatcher := newDispatcher(cfg, sf)

	sink, history, err := newOrderSink(ctx, cfg, sf)
	if err != nil {
		sf.Close()
		return nil, err
	}

	pricing := service.NewPricingResolver(nil)
	carts := memory.NewCartRepository()
	deliveries := service.NewDeliveryService(memory.NewDeliveryRepository(), sink, dispatcher)
	sf.queue = queue.NewOrderQueue(deliveries, cfg.QueueSize, log.StandardLogger())
	payments := paypal.NewRedirector(cfg.PaymentBaseURL, cfg.PaymentBusiness, cfg.PaymentCurrency)

	var opts []service.CheckoutOption
	if cfg.Policy() == model.ConfirmGated {
		opts = append(opts, service.WithGatedConfirmation(deliveries))
	}

	generator := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, 0)

	sf.services = transport.Services{
		Catalog:    service.NewCatalogService(catalog, pricing, time.Now),
		Pricing:    pricing,
		Carts:      service.NewCartService(carts, catalog, dispatcher),
		Checkouts:  service.NewCheckoutService(memory.NewCheckoutRepository(), carts, pricing, sf.queue, payments, dispatcher, log.StandardLogger(), opts...),
		Deliveries: deliveries,
		Identity:   newIdentity(cfg, dispatcher),
		Assistant:  service.NewAssistantService(generator, catalog, log.StandardLogger()),
		Marketing:  service.NewMarketingService(generator, log.StandardLogger()),
		Reports:    service.NewReportGenerator(catalog, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now),
		Payments:   payments,
		Orders:     history,
	}
	return sf, nil
}
