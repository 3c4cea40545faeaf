package cmd

import (
	"context"
	"errors"
	"fmt"

	httpin "dormeal/internal/adapters/in/http"
	"dormeal/internal/adapters/out/kafka"
	"dormeal/internal/adapters/out/memory"
	"dormeal/internal/adapters/out/orderevents"
	"dormeal/internal/adapters/out/postgres"
	"dormeal/internal/adapters/out/postgres/accountrepo"
	"dormeal/internal/adapters/out/postgres/catalogrepo"
	"dormeal/internal/adapters/out/redis/catalogcache"
	"dormeal/internal/adapters/out/redis/sessionstore"
	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/application/usecases/queries"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// accountStore is what the root needs from an account backend: login and seeding.
type accountStore interface {
	ports.CredentialVerifier
	Create(ctx context.Context, username, password string, role principal.Role) (principal.Principal, error)
}

type CompositionRoot struct {
	cfg    Config
	logger *zap.Logger

	uowFactory ports.UnitOfWorkFactory
	catalog    ports.Catalog
	accounts   accountStore
	sessions   ports.SessionStore
	tokens     *auth.Tokens
	publisher  ports.EventPublisher

	closers []func() error
}

// NewCompositionRoot opens every backend selected by cfg. Call Close when done,
// also after an error.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, logger: logger}

	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		return c, err
	}
	c.tokens = tokens

	steps := []func(context.Context) error{
		c.openStorage,
		c.openSessions,
		c.openPublisher,
		c.seedAccounts,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Close releases backends in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var problems []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		problems = append(problems, c.closers[i]())
	}
	return errors.Join(problems...)
}

func (c *CompositionRoot) openStorage(ctx context.Context) error {
	switch c.cfg.DBDriver {
	case DBDriverMemory:
		outbox := memory.NewOutbox()
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewOrderStore(outbox), outbox)
		c.accounts = memory.NewAccounts(bcrypt.DefaultCost)
		return c.openSeedCatalog()

	case DBDriverSQLite:
		db, err := c.openGorm(sqlite.Open(c.cfg.SQLitePath))
		if err != nil {
			return err
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.accounts = accountrepo.NewGormAccountRepository(db)
		return c.openSeedCatalog()

	default:
		db, err := c.openGorm(gormpostgres.Open(c.cfg.PostgresDSN()))
		if err != nil {
			return err
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.accounts = accountrepo.NewGormAccountRepository(db)
		return c.openCatalogDatabase(ctx)
	}
}

func (c *CompositionRoot) openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", c.cfg.DBDriver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, sqlDB.Close)

	if err = postgres.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (c *CompositionRoot) openSeedCatalog() error {
	seeded, err := memory.NewCatalogFromFile(c.cfg.CatalogSeedFile)
	if err != nil {
		return err
	}
	c.catalog = seeded
	return nil
}

// openCatalogDatabase reads the catalog tables through lib/pq. A configured
// seed file is imported first.
func (c *CompositionRoot) openCatalogDatabase(ctx context.Context) error {
	db, err := catalogrepo.Open(c.cfg.PostgresDSN())
	if err != nil {
		return err
	}
	c.closers = append(c.closers, db.Close)

	repo, err := catalogrepo.NewRepository(db)
	if err != nil {
		return err
	}
	if c.cfg.CatalogSeedFile != "" {
		seed, seedErr := memory.LoadSeed(c.cfg.CatalogSeedFile)
		if seedErr != nil {
			return seedErr
		}
		if seedErr = repo.Import(ctx, seed); seedErr != nil {
			return seedErr
		}
		c.logger.Info("catalog seed imported", zap.String("file", c.cfg.CatalogSeedFile))
	}
	c.catalog = repo
	return nil
}

// openSessions picks the session store. With redis the catalog is also cached there.
func (c *CompositionRoot) openSessions(ctx context.Context) error {
	if c.cfg.SessionStore != SessionStoreRedis {
		c.sessions = memory.NewSessionStore()
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: c.cfg.RedisAddr})
	c.closers = append(c.closers, client.Close)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis %s: %w", c.cfg.RedisAddr, err)
	}

	store, err := sessionstore.New(client)
	if err != nil {
		return err
	}
	c.sessions = store

	if c.cfg.CatalogCacheTTL > 0 {
		cached, cacheErr := catalogcache.New(c.catalog, client, c.cfg.CatalogCacheTTL, c.logger)
		if cacheErr != nil {
			return cacheErr
		}
		c.catalog = cached
	}
	return nil
}

func (c *CompositionRoot) openPublisher(context.Context) error {
	if c.cfg.KafkaHost == "" {
		c.logger.Warn("KAFKA_HOST is not set, order events are only logged")
		c.publisher = orderevents.NewLogPublisher(c.logger)
		return nil
	}

	writer, err := kafka.NewWriter([]string{c.cfg.KafkaHost}, c.cfg.KafkaOrderChangedTopic)
	if err != nil {
		return err
	}
	publisher, err := kafka.NewPublisher(writer)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, publisher.Close)
	c.publisher = publisher
	return nil
}

// seedAccounts creates SEED_ACCOUNTS entries. Existing usernames are skipped.
func (c *CompositionRoot) seedAccounts(ctx context.Context) error {
	for _, seed := range c.cfg.SeedAccounts {
		p, err := c.accounts.Create(ctx, seed.Username, seed.Password, seed.Role)
		if err != nil {
			c.logger.Warn("seed account skipped", zap.String("username", seed.Username), zap.Error(err))
			continue
		}
		c.logger.Info("seed account created", zap.String("username", seed.Username), zap.Stringer("principal", p))
	}
	return nil
}

func (c *CompositionRoot) options() []commands.Option {
	return []commands.Option{
		commands.WithMaxAttempts(c.cfg.ClaimMaxAttempts),
		commands.WithTracer(otel.Tracer("dormeal/commands")),
	}
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(c.uowFactory, c.cfg.DeliveryPolicy, c.options()...)
}

func (c *CompositionRoot) CreateReopenOrderCommandHandler() commands.ReopenOrderCommandHandler {
	return commands.NewReopenOrderCommandHandler(c.uowFactory, c.cfg.StaleClaimAfter, c.options()...)
}

func (c *CompositionRoot) CreateLoginCommandHandler() (commands.LoginCommandHandler, error) {
	return commands.NewLoginCommandHandler(
		c.accounts,
		auth.NewLoginThrottle(c.cfg.LoginRatePerMinute),
		c.tokens,
		c.sessions,
		c.cfg.SessionTTL,
	)
}

// HTTPHandlers wires every use case behind the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() (httpin.Handlers, error) {
	login, err := c.CreateLoginCommandHandler()
	if err != nil {
		return httpin.Handlers{}, err
	}
	opts := c.options()
	return httpin.Handlers{
		CreateOrder:      commands.NewCreateOrderCommandHandler(c.uowFactory, c.catalog, opts...),
		ClaimOrder:       commands.NewClaimOrderCommandHandler(c.uowFactory, opts...),
		ConfirmRetrieval: commands.NewConfirmRetrievalCommandHandler(c.uowFactory, opts...),
		MarkDelivered:    c.CreateMarkDeliveredCommandHandler(),
		ReportMissing:    commands.NewReportMissingCommandHandler(c.uowFactory, opts...),
		ReopenOrder:      c.CreateReopenOrderCommandHandler(),
		CancelOrder:      commands.NewCancelOrderCommandHandler(c.uowFactory, opts...),
		Login:            login,
		Logout:           commands.NewLogoutCommandHandler(c.tokens, c.sessions),
		AvailableOrders:  queries.NewGetAvailableOrdersQueryHandler(c.uowFactory),
		OrderStatus:      queries.NewGetOrderStatusQueryHandler(c.uowFactory),
		Schools:          queries.NewGetSchoolsQueryHandler(c.catalog),
		Restaurants:      queries.NewGetRestaurantsForSchoolQueryHandler(c.catalog),
		Menu:             queries.NewGetMenuQueryHandler(c.catalog),
		Dashboard:        queries.NewGetDashboardQueryHandler(c.uowFactory),
		ResolveSession:   queries.NewResolveSessionQueryHandler(c.tokens, c.sessions),
	}, nil
}

// Jobs builds the scheduled sweeps and the outbox relay.
func (c *CompositionRoot) Jobs() ([]jobs.Job, error) {
	staleClaims := commands.NewReopenStaleClaimsCommandHandler(
		c.uowFactory,
		c.CreateReopenOrderCommandHandler(),
		c.cfg.StaleClaimAfter,
		c.cfg.AutoReopenStaleClaims,
	)
	autoDeliver := commands.NewAutoDeliverCommandHandler(
		c.uowFactory,
		c.CreateMarkDeliveredCommandHandler(),
		c.cfg.AutoDeliverAfter,
	)
	relay, err := jobs.NewOutboxRelayJob(
		commands.NewRelayOutboxCommandHandler(c.uowFactory, c.publisher),
		c.cfg.OutboxBatchSize,
		c.logger,
	)
	if err != nil {
		return nil, err
	}

	return []jobs.Job{
		jobs.NewStaleClaimJob(staleClaims, c.logger),
		jobs.NewAutoDeliveryJob(autoDeliver, c.logger),
		relay,
	}, nil
}

// NewRouter builds the echo router over HTTPHandlers.
func (c *CompositionRoot) NewRouter(ctx context.Context) (*echo.Echo, error) {
	handlers, err := c.HTTPHandlers()
	if err != nil {
		return nil, err
	}
	return httpin.NewRouter(ctx, httpin.NewServer(handlers, c.logger, c.cfg.SecureCookie))
}
