package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"voxelworld/internal/config"
	"voxelworld/internal/game"
	"voxelworld/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config (defaults to $VOXEL_CONFIG)")
	ticks := flag.Int("ticks", -1, "number of ticks to run; overrides loop.ticks when >= 0")
	speed := flag.Float64("speed", 4.3, "anchor walking speed in blocks per second along +X")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *ticks >= 0 {
		cfg.Loop.Ticks = *ticks
	}

	reg := prometheus.NewRegistry()
	session, err := game.NewSession(cfg, reg)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	session.Velocity = mgl32.Vec3{float32(*speed), 0, 0}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	srv := serveMetrics(cfg.Metrics.Addr, reg)
	closer.Bind(func() {
		cancel()
		<-done
		if err := shutdownMetrics(srv); err != nil {
			log.Printf("metrics server shutdown: %v", err)
		}
		if err := session.Cleanup(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	})

	app := game.NewApp(session)
	app.OnTick = func(n int, s *game.Session) {
		if n%int(max(cfg.Loop.TickRateHz, 1)) != 0 {
			return
		}
		st := s.Manager.Stats()
		log.Printf("tick %d anchor=%v resident=%d pending=%d queued=%d meshes=%d top: %s",
			n, s.Anchor, st.Resident, st.Pending, st.Queued, s.Pool.Live(), profiling.TopN(3))
	}

	go func() {
		n := app.Run(ctx, cfg.Loop.Ticks)
		log.Printf("ran %d ticks", n)
		close(done)
		closer.Close()
	}()
	closer.Hold()
}

func serveMetrics(addr string, g prometheus.Gatherer) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Printf("Metrics available at %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()
	return srv
}

// shutdownMetrics stops srv, giving in-flight scrapes a second. A nil server is a no-op.
func shutdownMetrics(srv *http.Server) error {
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
