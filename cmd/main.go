package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"go-sse-channel/internal/config"
	"go-sse-channel/internal/infrastructure/channel"
	"go-sse-channel/internal/infrastructure/logger"
	"go-sse-channel/internal/infrastructure/server"
	"go-sse-channel/internal/metrics"
)

func main() {
	ctx := WithSignal(context.Background())

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogrusLogger(logger.NewDefaultConfig()).Fatalf("invalid configuration: %v", err)
	}
	log := logger.NewLogrusLogger(cfg.Log)

	ch := channel.New(channel.Options{
		JSONEncode: cfg.JSONEncode,
		RetryMS:    cfg.RetryMS,
	}, log)
	ch.Subscribe(metrics.NewObserver())

	router := InitRouter(ch, log)
	httpSrv := server.NewHTTPServer(cfg.Addr, router)

	app := newApplication(log, httpSrv, ch)
	if err := app.Run(ctx); err != nil {
		log.Errorf("application exited: %v", err)
	}
}

type Application struct {
	logger  logger.Logger
	httpSrv server.Server
	channel *channel.Channel
}

func newApplication(log logger.Logger, httpSrv server.Server, ch *channel.Channel) *Application {
	return &Application{
		logger:  log.WithField("app", "sse-channel"),
		httpSrv: httpSrv,
		channel: ch,
	}
}

func (app *Application) Run(ctx context.Context) error {
	var eg errgroup.Group

	eg.Go(func() error {
		return app.httpSrv.Start(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Terminate the streams first so the server shutdown is not
		// held up by parked subscribe handlers.
		app.channel.Close()
		return app.httpSrv.Stop(shutdownCtx)
	})

	return eg.Wait()
}

// WithSignal derives a context cancelled on SIGINT or SIGTERM.
func WithSignal(pctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(pctx)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	return ctx
}
