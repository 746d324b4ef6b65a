package main

import (
	"flag"
	"os"

	"github.com/osintdash/graphkit/pkg/api"
	"github.com/osintdash/graphkit/pkg/cache"
	"github.com/osintdash/graphkit/pkg/config"
	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/logging"
	"github.com/osintdash/graphkit/pkg/metrics"
	"github.com/osintdash/graphkit/pkg/pubsub"
	"github.com/osintdash/graphkit/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default: auto-discover)")
	addr := flag.String("addr", "", "Listen address, overrides config")
	logLevel := flag.String("log-level", "", "Log level, overrides config")
	flag.Parse()

	var (
		cfg    *config.Config
		loaded string
		err    error
	)
	if *configPath != "" {
		cfg, loaded, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loaded, err = config.Load()
	}
	if err != nil {
		logging.NewJSONLogger(os.Stderr, logging.ErrorLevel).
			Error("loading config", logging.Error(err), logging.String("path", loaded))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))
	if loaded != "" {
		logger.Info("loaded config", logging.String("path", loaded))
	}

	events := pubsub.NewBus()
	defer events.Shutdown()

	store := graph.NewStore()
	store.SetEventBus(events)

	registry := metrics.DefaultRegistry()
	ttlCache := cache.New()

	executor := expand.NewExecutor(expand.Options{
		Cache:   ttlCache,
		Logger:  logger,
		Metrics: registry,
		Events:  events,
	})
	expand.RegisterDefaults(executor, cfg.ProviderSettings(), logger, registry)

	apiServer, err := api.NewServer(api.Options{
		Store:    store,
		Executor: executor,
		Cache:    ttlCache,
		Registry: registry,
		Events:   events,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("building API server", logging.Error(err))
		os.Exit(1)
	}

	httpServer := server.NewGracefulServer(cfg.Server.Addr, apiServer.Handler(), logger)
	go apiServer.UpdateMetricsPeriodically(httpServer.ShutdownChannel())

	if err := httpServer.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
}
