package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	server "github.com/ashenkeep/voxelserver"
	"github.com/ashenkeep/voxelserver/internal/netio"
	"github.com/ashenkeep/voxelserver/internal/observability"
	"github.com/ashenkeep/voxelserver/internal/registries"
	"github.com/ashenkeep/voxelserver/internal/telemetry"
	"github.com/ashenkeep/voxelserver/logging"
	loggingSinks "github.com/ashenkeep/voxelserver/logging/sinks"
)

// Config bootstraps one server process.
type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
	Addr          string
	TickInterval  time.Duration
}

// Run wires the logging router, the connection-lifecycle manager, and the
// HTTP/WebSocket listener, then blocks until the server exits or ctx is
// cancelled.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	router, err := newRouter(ctx)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	serverCfg := server.DefaultConfig()
	applyEnvOverrides(&serverCfg, telemetryLogger)

	observabilityCfg := cfg.Observability
	if raw := os.Getenv("ENABLE_PPROF_TRACE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			observabilityCfg.EnablePprofTrace = value
		} else {
			telemetryLogger.Printf("invalid ENABLE_PPROF_TRACE=%q: %v", raw, err)
		}
	}

	manager := server.NewManager(serverCfg, registries.NewStatic(), server.WallClock{}, server.WithLogger(router))

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}
	stop := make(chan struct{})
	go runTicks(manager, tickInterval, stop)
	defer close(stop)

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", netio.NewHandler(netio.HandlerConfig{Manager: manager, Logger: telemetryLogger}))
	if observabilityCfg.EnablePprofTrace {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		manager.Shutdown(context.Background())
		_ = srv.Close()
	}()

	telemetryLogger.Printf("server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newRouter(ctx context.Context) (*logging.Router, error) {
	logConfig := logging.DefaultConfig()

	var namedSinks []logging.NamedSink
	namedSinks = append(namedSinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)})

	if logConfig.HasSink("json") {
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(os.Stdout, logConfig.JSON.FlushInterval)})
	}

	if raw := os.Getenv("ZAP_LOGGING"); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil && enabled {
			zapLogger, err := zap.NewProduction()
			if err != nil {
				return nil, fmt.Errorf("failed to construct zap logger: %w", err)
			}
			namedSinks = append(namedSinks, logging.NamedSink{Name: "zap", Sink: loggingSinks.NewZap(zapLogger)})
		}
	}

	return logging.NewRouter(server.WallClock{}, logConfig, namedSinks)
}

// applyEnvOverrides reads the environment-variable overrides enumerated for
// server.Config, logging and discarding any value that fails to parse.
func applyEnvOverrides(cfg *server.Config, logger telemetry.Logger) {
	if raw := os.Getenv("COMPRESSION_THRESHOLD"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.CompressionThreshold = value
		} else {
			logger.Printf("invalid COMPRESSION_THRESHOLD=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("LOGIN_PLUGIN_MESSAGE_TIMEOUT_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.LoginPluginMessageTimeout = time.Duration(value) * time.Millisecond
		} else {
			logger.Printf("invalid LOGIN_PLUGIN_MESSAGE_TIMEOUT_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("KNOWN_PACKS_RESPONSE_TIMEOUT_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.KnownPacksResponseTimeout = time.Duration(value) * time.Millisecond
		} else {
			logger.Printf("invalid KNOWN_PACKS_RESPONSE_TIMEOUT_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("KEEP_ALIVE_DELAY_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.KeepAliveDelay = time.Duration(value) * time.Millisecond
		} else {
			logger.Printf("invalid KEEP_ALIVE_DELAY_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("KEEP_ALIVE_KICK_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.KeepAliveKick = time.Duration(value) * time.Millisecond
		} else {
			logger.Printf("invalid KEEP_ALIVE_KICK_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("INSIDE_TEST"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.InsideTest = value
		} else {
			logger.Printf("invalid INSIDE_TEST=%q: %v", raw, err)
		}
	}
}

func runTicks(manager *server.Manager, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			manager.Tick(context.Background(), t.UnixNano(), nil)
		}
	}
}
