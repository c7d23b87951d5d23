package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	_ "posflow/docs"
	"posflow/pkg/auth"
	authmem "posflow/pkg/auth/memory"
	authredis "posflow/pkg/auth/redis"
	cartmem "posflow/pkg/cart/memory"
	cartredis "posflow/pkg/cart/redis"
	"posflow/pkg/category"
	catmem "posflow/pkg/category/memory"
	catpg "posflow/pkg/category/postgres"
	"posflow/pkg/checkout"
	"posflow/pkg/config"
	"posflow/pkg/customer"
	custmem "posflow/pkg/customer/memory"
	custpg "posflow/pkg/customer/postgres"
	"posflow/pkg/logger"
	"posflow/pkg/otel"
	"posflow/pkg/product"
	prodmem "posflow/pkg/product/memory"
	prodpg "posflow/pkg/product/postgres"
	"posflow/pkg/sale"
	salemem "posflow/pkg/sale/memory"
	salepg "posflow/pkg/sale/postgres"
	"posflow/pkg/userapi"
)

// @title PosFlow API
// @version 1.0
// @description Point-of-sale back end: catalog, customers, categories, cart, checkout and sales history
// @host localhost:8443
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "posflow", nil).Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), "posflow", otel.GetTraceID)
	defer log.Sync()

	if err := run(log, cfg); err != nil {
		log.Error(context.Background(), "shutdown", "error", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "posflow", Host: cfg.OTELHost, Probability: cfg.TraceProbability})
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	a, closeStores, err := newAPIFromConfig(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer closeStores()
	a.tracer = tp.Tracer("posflow")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "listening", "addr", cfg.Addr, "tls", cfg.TLSCert != "")
		var err error
		if cfg.TLSCert != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info(sctx, "server closing")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// newAPIFromConfig picks Postgres or seeded in-memory repositories and Redis
// or in-memory session storage.
func newAPIFromConfig(ctx context.Context, log *logger.Logger, cfg config.Config) (*api, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	a := &api{log: log, sessionTTL: cfg.SessionTTL, authenticator: auth.Mock{}}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		for _, schema := range []string{prodpg.Schema, custpg.Schema, catpg.Schema, salepg.Schema} {
			if _, err := db.ExecContext(ctx, schema); err != nil {
				closeAll()
				return nil, nil, err
			}
		}
		a.products = prodpg.New(db)
		a.customers = custpg.New(db)
		a.categories = category.NewService(catpg.New(db))
		a.sales = salepg.New(db)
		log.Info(ctx, "using postgres repositories")
	} else {
		now := time.Now()
		a.products = prodmem.New(product.Seed()...)
		a.customers = custmem.New(customer.Seed(now)...)
		a.categories = category.NewService(catmem.New(category.Seed(now)...))
		a.sales = salemem.New(sale.Seed()...)
		log.Info(ctx, "using in-memory repositories")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, func() { rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			closeAll()
			return nil, nil, err
		}
		a.sessions = authredis.New(rdb)
		a.carts = cartredis.New(rdb, cfg.SessionTTL)
	} else {
		a.sessions = authmem.New()
		a.carts = cartmem.New()
	}

	if cfg.UserAPIURL != "" {
		c, err := userapi.New(cfg.UserAPIURL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		a.users = c
		if cfg.AuthMode == config.AuthModeRemote {
			a.authenticator = auth.Remote{Client: c}
		}
	}

	a.corsOrigins = cfg.CORSOrigins
	a.checkout = checkout.NewService(a.carts, a.sales, a.customers)
	return a, closeAll, nil
}
