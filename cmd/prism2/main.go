// Command prism2 is an interactive console for NI-845x adapters: enumerate
// and open devices, fire SPI commands, and inspect decoded breakdowns of
// the exchanged bytes. Without the vendor driver installed it runs against
// a loopback simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnanderson/Prism2/internal/config"
	"github.com/dnanderson/Prism2/internal/prism"
	"github.com/dnanderson/Prism2/internal/protocol"
)

func main() {
	configPath := flag.String("config", "prism2.yaml", "path to the YAML configuration file")
	simulate := flag.Bool("sim", false, "force the simulated backend")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	if err := run(ctx, *configPath, *simulate); err != nil {
		fmt.Fprintf(os.Stderr, "prism2: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, simulate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	table := protocol.Builtin()
	if cfg.Definitions != "" {
		f, err := os.Open(cfg.Definitions)
		if err != nil {
			return fmt.Errorf("open definitions: %w", err)
		}
		err = table.LoadDefinitions(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	controller := prism.New(table, cfg.HardwareOptions(), simulate || cfg.Simulation)
	defer controller.Disconnect()

	shell, err := newShell(controller)
	if err != nil {
		return err
	}
	defer shell.Close()

	return shell.Run(ctx)
}
