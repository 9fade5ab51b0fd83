package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/database"
	"github.com/iliyamo/movie-rental/internal/handler"
	"github.com/iliyamo/movie-rental/internal/metrics"
	"github.com/iliyamo/movie-rental/internal/middleware"
	"github.com/iliyamo/movie-rental/internal/queue"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/router"
	"github.com/iliyamo/movie-rental/internal/service"
)

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsProd() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	db, err := database.Open(context.Background(), database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns: cfg.DBMaxOpen,
		Attempts:     cfg.DBAttempts,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			log.WithError(err).Fatal("database migrate failed")
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	m := metrics.New(true)

	var rentalOpts []service.RentalOption
	if cfg.EventsEnabled {
		rentalOpts = append(rentalOpts, service.WithPublisher(queue.NewPublisher(cfg.AMQPURL, log).WithDialTimeout(cfg.AMQPTimeout)))
	}

	genres := service.NewGenreService(repository.NewGenreRepo(db), log)
	movies := service.NewMovieService(repository.NewMovieRepo(db), log)
	customers := service.NewCustomerService(repository.NewCustomerRepo(db), log)
	rentals := service.NewRentalService(repository.NewRentalRepo(db), log, rentalOpts...)

	if err := bootstrapAdmin(cfg, customers, log); err != nil {
		log.WithError(err).Fatal("bootstrap administrator failed")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(m.Middleware())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret, log))

	cacheCfg := config.LoadCacheConfig()
	router.RegisterRoutes(e, db, m.Handler())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, customers, repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterCatalog(e,
		handler.NewGenreHandler(genres),
		handler.NewMovieHandler(movies, genres),
		cfg.JWTSecret,
		router.CatalogMiddleware{
			Cache:      middleware.NewRedisCache(cacheCfg, rdb),
			Invalidate: middleware.InvalidateCache(cacheCfg, rdb),
		})
	router.RegisterCustomers(e, handler.NewCustomerHandler(customers), cfg.JWTSecret)
	router.RegisterRentals(e, handler.NewRentalHandler(rentals, movies, customers, m), cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ConsumerOn {
		consumer := &queue.Consumer{
			URL:     cfg.AMQPURL,
			LogPath: cfg.RentalLogPath,
			Log:     log.WithField("component", "rental-consumer"),
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("rental consumer stopped")
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
