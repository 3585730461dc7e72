package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/scripting"
	"github.com/l1jgo/simcore/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              simcore  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/simdemo.toml"
	if p := os.Getenv("SIMCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Defaults()
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Types, scripts and context
	printSection("Types")
	components := &ecs.ComponentTypes{}
	systems := &coresys.SystemTypes{}
	tags, err := system.Register(components, systems, log)
	if err != nil {
		return err
	}

	engine, err := scripting.NewEngine(cfg.Demo.ScriptsDir, log)
	if err != nil {
		return err
	}
	defer engine.Close()
	if _, err := systems.Register("ScriptSystem", ecs.NoTag, func() coresys.System {
		return scripting.NewSystem(engine, tags.Script)
	}); err != nil {
		return err
	}
	printStat("component types", components.Len())
	printStat("system types", systems.Len())

	sim := coresys.NewContext(cfg.Sim, components, systems, log)
	engine.Attach(sim, tags.Script)

	// 4. Spawn list
	printSection("Spawn")
	list, err := data.LoadSpawnList(cfg.Demo.SpawnList)
	if err != nil {
		return err
	}
	if _, err := list.Apply(sim); err != nil {
		return err
	}
	printStat("systems", sim.SystemCount())
	printStat("entities", sim.EntityCount())
	printStat("components", sim.ComponentCount())
	printOK("spawn list applied")
	fmt.Println()

	// 5. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Demo.TickRate)
	defer ticker.Stop()

	log.Info("simulation running",
		zap.Int("ticks", cfg.Demo.Ticks),
		zap.Duration("tick_rate", cfg.Demo.TickRate),
	)

	var frame uint64
	start := time.Now()
loop:
	for cfg.Demo.Ticks <= 0 || frame < uint64(cfg.Demo.Ticks) {
		select {
		case <-ticker.C:
			frame++
			for _, phase := range [...]coresys.Phase{coresys.PhaseUpdate, coresys.PhaseCleanup} {
				tick := coresys.Tick{Phase: phase, Delta: cfg.Demo.TickRate, Frame: frame}
				if err := sim.Update(tick); err != nil {
					return fmt.Errorf("frame %d: %w", frame, err)
				}
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			break loop
		}
	}

	// 6. Summary
	fmt.Println()
	printSection("Summary")
	printStat("frames", int(frame))
	printStat("entities", sim.EntityCount())
	printStat("components", sim.ComponentCount())
	if ai, ok := coresys.FirstOfType[*system.AISystem](sim, tags.AISystem); ok {
		printStat("attacks", ai.Attacks)
	}
	if hs, ok := coresys.FirstOfType[*system.HealthSystem](sim, tags.HealthSystem); ok {
		printStat("deaths", hs.Deaths)
	}
	log.Info("simulation stopped", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
