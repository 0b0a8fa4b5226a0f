package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/ghalamif/EcoGuard"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "snapshot":
		err = snapshotCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("ecoguard %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to dashboard configuration file (built-in Chennai catalog when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		flow *ecoguard.Flow
		err  error
	)
	if *cfgPath == "" {
		flow, err = ecoguard.ConfFromConfig(ecoguard.DefaultConfig())
	} else {
		flow, err = ecoguard.Conf(*cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("serving dashboard on %s", flow.Config().HTTP.Addr)
	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ecoguard.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	fmt.Printf("config %s looks good: %d facilities, %d channels, window %d every %s\n",
		*cfgPath, len(cfg.Facilities), len(cfg.Stream.Channels), cfg.Stream.Capacity, cfg.Stream.Interval)
	return nil
}

func snapshotCommand(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080/api/telemetry/latest", "Latest-sample endpoint")
	interval := fs.Duration("interval", 3*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	client := &http.Client{Timeout: 5 * time.Second}
	fmt.Printf("Polling %s (Ctrl+C to stop)\n", *url)
	for {
		if err := printSnapshot(client, *url); err != nil {
			fmt.Fprintf(os.Stderr, "snapshot error: %v\n", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printSnapshot(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var s ecoguard.Sample
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return err
	}
	fmt.Println(formatSample(s))
	return nil
}

func formatSample(s ecoguard.Sample) string {
	names := make([]string, 0, len(s.Values))
	for name := range s.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	if s.Time == "" {
		s.Time = "--:--:--"
	}
	fmt.Fprintf(&b, "[%s] seq=%d", s.Time, s.Seq)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%.2f", name, s.Values[name])
	}
	return b.String()
}

func printUsage() {
	fmt.Printf(`EcoGuard CLI

Usage:
  ecoguard <command> [flags]

Commands:
  run        Start the dashboard runtime and HTTP shell
  validate   Load and validate a config file without starting the runtime
  snapshot   Poll the latest telemetry sample and print it

Examples:
  ecoguard run -config ./data/config.yaml
  ecoguard validate -config ./data/config.yaml
  ecoguard snapshot -url http://localhost:8080/api/telemetry/latest -interval 1s
`)
}
