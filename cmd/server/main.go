// Command server runs the weNote API: REST for accounts, notes and
// categories plus the /ws collaboration socket.
//
// @title                      weNote API
// @version                    1.0
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drowwn/weNote/internal/api"
	"github.com/drowwn/weNote/internal/collab"
	"github.com/drowwn/weNote/internal/core/service"
	mongodb "github.com/drowwn/weNote/internal/infrastructure/db/mongo"
	redisdb "github.com/drowwn/weNote/internal/infrastructure/db/redis"
	"github.com/drowwn/weNote/internal/infrastructure/http/handlers"
	"github.com/drowwn/weNote/internal/infrastructure/queue"
	"github.com/drowwn/weNote/internal/infrastructure/ws"
	"github.com/drowwn/weNote/internal/pkg/config"
	"github.com/drowwn/weNote/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := mainInner(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mainInner() error {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "wenote",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	noteRepo := mongodb.NewNoteRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	noteCategoryRepo := mongodb.NewNoteCategoryRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, noteRepo, categoryRepo, noteCategoryRepo); err != nil {
		return err
	}

	authService := service.NewAuthService(userRepo, redisdb.NewTokenDenylist(rdb), cfg.JWTSecret, cfg.TokenTTL, cfg.RememberTTL)
	noteService := service.NewNoteService(noteRepo, userRepo, logger.Component("notes"))
	userService := service.NewUserService(userRepo, noteService)
	categoryService := service.NewCategoryService(categoryRepo)
	noteCategoryService := service.NewNoteCategoryService(noteCategoryRepo, noteRepo, categoryRepo)

	hub := ws.NewHub(cfg.Collab.SendBuffer, logger.Component("hub"))
	dispatcher := queue.NewDispatcher(cfg.Collab.QueueSize, collab.NewCoordinator(), hub, cfg.Collab.PruneInterval, logger.Component("collab"))
	dispatcher.Start(ctx)
	collabHandler := ws.NewHandler(hub, dispatcher, noteService, cfg.CORSOrigins, logger.Component("ws"))

	e := api.NewRouter(api.Deps{
		Config:         cfg,
		Log:            log,
		Auth:           authService,
		Users:          userService,
		Notes:          noteService,
		Categories:     categoryService,
		NoteCategories: noteCategoryService,
		Collab:         collabHandler.Serve,
		Ready: map[string]handlers.Checker{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Hijacked sockets are invisible to Shutdown, so close them first.
	hub.CloseAll()
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}

	cancel()
	dispatcher.Wait()
	log.Info().Msg("stopped")
	return nil
}
