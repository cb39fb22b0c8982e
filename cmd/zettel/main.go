package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"zettel/internal/config"
	appLog "zettel/internal/log"
	"zettel/internal/printer"
	"zettel/internal/provider"
	"zettel/internal/template"
)

type flagConfig struct {
	configPath string
	locale     string
	daemon     bool
	dryRun     bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI -locale overrides the config file locale if provided.
	if flags.locale != "" {
		conf.Locale = flags.locale
	}

	loc, err := loadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("failed to resolve timezone", err, "timezone", conf.Timezone)
		os.Exit(1)
	}

	providers := make([]provider.Provider, 0, len(conf.Providers))
	for _, pc := range conf.Providers {
		p, err := provider.FromConfig(pc, loc)
		if err != nil {
			appLog.Error("failed to set up provider", err, "provider", pc.Name, "type", pc.Type)
			os.Exit(1)
		}
		providers = append(providers, p)
	}

	tmpl, ok := template.Lookup(conf.Template)
	if !ok {
		appLog.Error("unknown template", nil, "template", conf.Template)
		os.Exit(1)
	}

	appLog.Info("zettel starting",
		"timezone", conf.Timezone,
		"locale", conf.Locale,
		"template", conf.Template,
		"printer", conf.Printer.Type,
		"provider_count", len(providers),
		"daemon", flags.daemon,
		"dry_run", flags.dryRun,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if !flags.daemon {
		if err := run(ctx, conf, providers, tmpl, loc, flags.dryRun); err != nil {
			appLog.Error("render pass failed", err)
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.Schedule, func() {
		if err := run(ctx, conf, providers, tmpl, loc, flags.dryRun); err != nil {
			appLog.Error("render pass failed", err)
		}
	}); err != nil {
		appLog.Error("invalid schedule", err, "schedule", conf.Schedule)
		os.Exit(1)
	}

	appLog.Info("scheduler started", "schedule", conf.Schedule)
	c.Start()

	<-ctx.Done()

	// Let an in-flight render pass finish before exiting.
	<-c.Stop().Done()
	appLog.Info("zettel exiting")
}

// run executes one fetch+render cycle. The printer is opened per cycle
// so that daemon mode reconnects to the device on every pass.
func run(ctx context.Context, conf *config.Config, providers []provider.Provider,
	tmpl template.Func, loc *time.Location, dryRun bool) (err error) {

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	bucket := provider.FetchAll(ctx, providers)
	appLog.Info("fetched items", "item_count", bucket.Len())

	p, err := openPrinter(conf.Printer, dryRun)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return tmpl(bucket, p, template.Options{
		Now:           time.Now().In(loc),
		Locale:        conf.Locale,
		HighlightTags: conf.HighlightTags,
	})
}

// openPrinter builds the configured output backend. A dry run always
// renders to the console, regardless of the configured device.
func openPrinter(pc config.PrinterConfig, dryRun bool) (printer.Printer, error) {
	if dryRun || pc.Type == "console" {
		return printer.NewConsole(os.Stdout, pc.Width), nil
	}

	var (
		transport io.WriteCloser
		err       error
	)
	switch pc.Type {
	case "network":
		transport, err = printer.DialNetwork(pc.Address)
	case "file":
		transport, err = printer.OpenDeviceFile(pc.Device)
	case "serial":
		transport, err = printer.OpenSerial(pc.Port, pc.Baud)
	default:
		return nil, fmt.Errorf("unknown printer type %q", pc.Type)
	}
	if err != nil {
		return nil, err
	}

	return printer.NewDevice(transport, pc.Width)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/zettel/config.yaml", "Path to config file")
	flag.StringVar(&cfg.locale, "locale", "", "Locale key (overrides config if set)")
	flag.BoolVar(&cfg.daemon, "daemon", false, "Keep running and print on the configured schedule")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Render to the console instead of the configured printer")

	flag.Parse()

	return cfg
}
