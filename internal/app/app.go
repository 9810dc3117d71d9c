package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/smartdeal/storefront/config"
	"github.com/smartdeal/storefront/internal/adapter/httphandler"
	"github.com/smartdeal/storefront/internal/adapter/kafka"
	"github.com/smartdeal/storefront/internal/adapter/sheet"
	"github.com/smartdeal/storefront/internal/adapter/storage"
	"github.com/smartdeal/storefront/internal/core/port"
	"github.com/smartdeal/storefront/internal/core/service"
	"github.com/smartdeal/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type broker struct {
	reactionSerde schema.Serde
	producer      kafka.ReactionsProducer
	tallyProc     *kafka.ReactionTallyProcessor
	tallyView     *kafka.TallyView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqlDB      storage.SQLDB
	store      port.CatalogStore
	broker     *broker
	service    *service.Service
	httpServer httphandler.HTTPServer
	wg         sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStore()
	app.initBroker()
	app.initCoreService()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStore() {
	const op = "App.initStore"

	sqlDB, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqlDB = sqlDB

	repo := storage.NewProductsRepository(sqlDB.DB)

	if app.cfg.SheetURL != "" {
		sheetClient := sheet.NewClient(app.cfg.SheetURL)
		app.store = storage.NewFallbackStore(sheetClient, repo)
		return
	}
	app.store = storage.NewFallbackStore(repo, nil)
}

// initBroker wires the reaction stream. Without seed brokers the
// storefront runs standalone and reactions stay local.
func (app *App) initBroker() {
	const op = "App.initBroker"

	seedBrokers := app.cfg.Broker.SeedBrokers
	if len(seedBrokers) == 0 {
		slog.Warn("no seed brokers configured, reaction stream is off")
		return
	}

	srClient, err := sr.NewClient(sr.URLs(app.cfg.Broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}
	schemaCreater := schema.NewSchemaCreater(srClient)

	stream := app.cfg.Broker.Topics.ReactionStream
	reactionSerde, err := schema.NewSerdeReactionV1(
		app.ctx,
		schema.SubjectOpt(stream+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewReactionsProducer(
		kafka.ProducerClientOpt(app.ctx, seedBrokers, stream),
		kafka.ProducerEncoderOpt(reactionSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	group := app.cfg.Broker.Topics.ReactionGroup
	tallyProc, err := kafka.NewReactionTallyProc(
		seedBrokers, stream, group, reactionSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	tallyView, err := kafka.NewTallyView(seedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker = &broker{
		reactionSerde: reactionSerde,
		producer:      producer,
		tallyProc:     tallyProc,
		tallyView:     tallyView,
	}
}

func (app *App) initCoreService() {
	var producer port.ReactionsProducer
	if app.broker != nil {
		producer = app.broker.producer
	}
	app.service = service.New(app.store, producer)

	if err := app.service.Refresh(app.ctx); err != nil {
		slog.Warn("failed to warm catalog cache", "err", err)
	}
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	placeholder := app.cfg.PlaceholderImage

	httphandler.RegisterCatalog(mux, app.service, placeholder)
	httphandler.RegisterReactions(mux, app.service, placeholder)
	httphandler.RegisterAdmin(mux, app.service, app.cfg.AdminSecret, placeholder)
	if app.broker != nil {
		httphandler.RegisterTally(mux, app.broker.tallyView)
	}

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HTTPRequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.broker != nil {
		app.wg.Add(1)
		go app.broker.tallyProc.Run(app.ctx, stopFn, &app.wg)
		go app.broker.tallyView.Run(app.ctx)
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.broker != nil {
		app.broker.tallyProc.Close()
		app.broker.producer.Close()
		app.wg.Wait()
	}
	app.sqlDB.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
