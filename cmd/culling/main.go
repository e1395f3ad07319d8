package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/culling/backend"
	"github.com/oomph-ac/culling/backend/dragonfly"
	"github.com/oomph-ac/culling/capability"
	"github.com/oomph-ac/culling/catalog"
	"github.com/oomph-ac/culling/config"
	"github.com/oomph-ac/culling/culling"
	"github.com/oomph-ac/culling/metrics"
	"github.com/oomph-ac/culling/platform"
	"github.com/oomph-ac/culling/visibility"
	"github.com/oomph-ac/culling/worker"
	"github.com/oomph-ac/culling/world"
	"github.com/sirupsen/logrus"
)

// The following program builds a terrain world and repeatedly works out which block faces of it must be
// drawn. SIGUSR1 toggles block-state culling and SIGHUP reloads the settings file.
func main() {
	path := "config.toml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true}
	log.Level = logrus.InfoLevel

	settings, err := config.LoadOrCreate(path)
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
	}

	helper := platform.Environment()
	if helper.Development() {
		log.Level = logrus.DebugLevel
	}

	if settings.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: settings.Sentry.DSN}); err != nil {
			log.Fatalf("error initialising sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 2)
	}

	if os.Getenv("PPROF_ENABLED") != "" || settings.Stats.Enabled {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(settings.Stats.Addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	flag := config.NewFlag(true)
	opt := settings.CullingOption(flag, helper)
	if opt.Locked() {
		log.Warnf("block-state culling: %s", opt.Reason())
	} else {
		_ = opt.OnEnabledChanged(func(enabled bool) {
			log.Infof("block-state culling pending value: %v", enabled)
		})
	}

	policy, err := capability.ParseDuplicatePolicy(settings.Culling.DuplicatePolicy)
	if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}

	cat, err := catalog.Load(log)
	if err != nil {
		log.Fatalf("error loading block catalog: %v", err)
	}
	if f, err := os.Open("blocks.yaml"); err == nil {
		err = cat.LoadYAML(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("error loading blocks.yaml: %v", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("error opening blocks.yaml: %v", err)
	}

	reg := capability.NewRegistry(policy, log)
	if err := cat.Register(reg); err != nil {
		log.Fatalf("error registering capabilities: %v", err)
	}
	reg.MustClose()

	m, err := metrics.NewPrometheus(nil)
	if err != nil {
		log.Fatalf("error creating metrics: %v", err)
	}
	if settings.Stats.Enabled {
		go func() {
			if err := http.ListenAndServe(settings.Stats.MetricsAddr, m.Handler()); err != nil {
				log.Errorf("metrics server stopped: %v", err)
			}
		}()
	}
	engine := culling.New(flag, reg, log, culling.WithObserver(m))

	p, err := newPalette(cat)
	if err != nil {
		log.Fatalf("error building terrain palette: %v", err)
	}
	w := world.New(world.OverworldRange, log)
	generate(w, p, settings.Render.Sections)
	log.Infof("generated %d sections", len(w.Sections()))

	be := backend.Select(helper,
		dragonfly.Backend(dragonfly.NewSource(w), dragonfly.NewIndex(cat.Types()...)),
		backend.Alternative("vulkanmod"),
	)
	log.Infof("using %s backend on platform %s", be.Name, helper.Name())

	pool := worker.New(settings.Render.Workers, log)
	defer pool.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGUSR1, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	t := time.NewTicker(time.Second * 5)
	defer t.Stop()

	pass(w, be, engine, pool, m, log)
	for {
		select {
		case <-t.C:
			pass(w, be, engine, pool, m, log)
		case sig := <-signals:
			switch sig {
			case syscall.SIGUSR1:
				setCulling(opt, !opt.Value(), log)
			case syscall.SIGHUP:
				reloaded, err := config.Load(path)
				if err != nil {
					log.Errorf("error reloading settings: %v", err)
					continue
				}
				setCulling(opt, reloaded.Culling.UseBlockStateCulling, log)
			default:
				log.Info("shutting down")
				return
			}
		}
	}
}

// setCulling changes and applies the culling option.
func setCulling(opt *config.Option[bool], enabled bool, log *logrus.Logger) {
	if err := opt.Set(enabled); err != nil {
		log.Warnf("cannot change block-state culling: %v", err)
		return
	}
	if err := opt.Apply(); err != nil {
		log.Warnf("cannot apply block-state culling: %v", err)
		return
	}
	log.Infof("block-state culling enabled: %v", enabled)
}

// pass builds the visibility of every section of the world on the pool and logs the totals.
func pass(w *world.World, be backend.Backend, engine *culling.Engine, pool *worker.Pool, m *metrics.Prometheus, log *logrus.Logger) {
	start := time.Now()

	var (
		mu    sync.Mutex
		total visibility.Stats
	)
	for _, pos := range w.Sections() {
		pool.Submit(func() {
			mask, stats := visibility.Build(w, pos, be.New(engine, w))
			mask.Release()
			m.ObserveSection(stats.Visible, stats.Hidden)

			mu.Lock()
			total.Add(stats)
			mu.Unlock()
		})
	}
	pool.Wait()

	log.WithFields(logrus.Fields{
		"blocks":  total.Blocks,
		"visible": total.Visible,
		"culled":  total.Hidden,
		"took":    time.Since(start),
	}).Info("visibility pass finished")
}
