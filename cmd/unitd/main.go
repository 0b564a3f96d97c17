package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cfti/unitd/internal/broadcast"
	"github.com/cfti/unitd/internal/config"
	"github.com/cfti/unitd/internal/library"
	"github.com/cfti/unitd/internal/metrics"
	"github.com/cfti/unitd/internal/unit"
	"github.com/cfti/unitd/internal/watch"
)

var (
	addr             = flag.String("addr", ":9090", "address to serve /metrics on")
	workingDirectory = flag.String("working-directory", ".", "default working directory for interfaces that don't override one")
	logLevel         = flag.String("log-level", "info", "zap log level: debug, info, warn, error")
	unitDirs         = unitDirList{}
)

func init() {
	flag.Var(&unitDirs, "unit-dir", "repeatable list of directories to scan and watch for unit description files")
}

func main() {
	flag.Parse()

	logger, err := buildLogger(*logLevel)
	if err != nil {
		log.Fatal("building logger: ", err)
	}
	defer logger.Sync()

	if len(unitDirs) == 0 {
		logger.Fatal("at least one -unit-dir is required")
	}

	cfg := &config.Config{
		WorkingDirectory: *workingDirectory,
		UnitDirectories:  []string(unitDirs),
		LogLevel:         *logLevel,
	}

	m := metrics.New()
	registry := prometheus.NewRegistry()
	m.MustRegister(registry)

	bus := broadcast.New[unit.Event]()
	defer bus.Stop()

	logSub := bus.Subscribe()
	go logEvents(logger, logSub)

	lib := library.New(bus, cfg, logger, m)

	w, err := watch.New(cfg.UnitDirectories, lib, logger)
	if err != nil {
		logger.Fatal("creating watcher", zap.Error(err))
	}
	defer w.Close()

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		logger.Info("serving metrics", zap.String("addr", *addr))
		if err := http.ListenAndServe(*addr, nil); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server exited", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting unit library", zap.Strings("unit-dirs", cfg.UnitDirectories))
	if err := w.Run(ctx); err != nil {
		logger.Fatal("watcher exited", zap.Error(err))
	}

	logger.Info("shutting down")
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build()
}

// logEvents mirrors the teacher's simple "pump messages from a channel
// to the log" pattern (harpoon-agent's log pump), adapted to structured
// zap fields instead of plain strings.
func logEvents(logger *zap.Logger, sub *broadcast.Subscription[unit.Event]) {
	for ev := range sub.C() {
		switch e := ev.(type) {
		case unit.RescanStart:
			logger.Debug("rescan start")
		case unit.RescanFinish:
			logger.Debug("rescan finish")
		case unit.CategoryEvent:
			logger.Info("category", zap.String("kind", e.Kind.String()), zap.String("message", e.Message))
		case unit.StatusEvent:
			logger.Info("status", zap.String("unit", e.Name.String()), zap.String("contents", statusContentsName(e.Contents)))
		}
	}
}

func statusContentsName(c unit.StatusContents) string {
	switch v := c.(type) {
	case unit.SelectedStatus:
		return "selected"
	case unit.DeselectedStatus:
		return "deselected"
	case unit.ActiveStatus:
		return "active"
	case unit.ActiveFailedStatus:
		return "active-failed: " + v.Reason
	case unit.DeactivateSuccessStatus:
		return "deactivate-success: " + v.Note
	case unit.DeactivateFailureStatus:
		return "deactivate-failure: " + v.Reason
	case unit.UnloadingStatus:
		return "unloading"
	case unit.UnitIncompatibleStatus:
		return "incompatible: " + v.Reason
	default:
		return "unknown"
	}
}

// unitDirList implements flag.Value so -unit-dir can be given more than
// once, the same repeatable-flag idiom as harpoon-agent's volumes type.
type unitDirList []string

func (d *unitDirList) String() string { return "" }

func (d *unitDirList) Set(value string) error {
	*d = append(*d, value)
	return nil
}
