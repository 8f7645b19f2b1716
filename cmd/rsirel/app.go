package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"RSIRelative/internal/benchmark"
	"RSIRelative/internal/calculator"
	"RSIRelative/internal/collector"
	"RSIRelative/internal/config"
	"RSIRelative/internal/scanner"
	"RSIRelative/internal/universe"
)

var configPath = flag.String("config", "", "Path to the YAML config file. Defaults to $CONFIG_PATH or configs/config.yaml")

// app holds the components shared by every subcommand.
type app struct {
	cfg     *config.Config
	cache   *collector.CachedFetcher
	scanner *scanner.Scanner
	source  universe.Source
}

// loadApp reads and validates the configuration, then wires the pipeline.
// Any error here is a startup failure: nothing has been fetched yet.
// override, when set, adjusts the loaded config before validation.
func loadApp(override func(*config.Config)) (*app, error) {
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			cfgPath = v
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	rsiMode, err := calculator.ParseMode(cfg.Scan.RSIMode)
	if err != nil {
		return nil, err
	}
	mapMode, err := benchmark.ParseMode(cfg.Scan.MappingMode)
	if err != nil {
		return nil, err
	}

	polygon := collector.NewPolygonFetcher(cfg.Polygon.BaseURL, cfg.Polygon.APIKey, cfg.Proxy)
	cache := collector.NewCachedFetcher(polygon, cfg.Scan.CacheTTL)
	log.Printf("[INFO] data source: %s", cache.Name())

	sc := scanner.NewScanner(cache, benchmark.NewMapper(mapMode), scanner.Options{
		RSIMode:      rsiMode,
		LookbackDays: cfg.Polygon.LookbackDays,
		RowDelay:     cfg.Scan.RowDelay,
	})

	var src universe.Source
	if cfg.Input.SQLitePath != "" {
		src = universe.NewSQLiteSource(cfg.Input.SQLitePath)
	} else {
		src = universe.NewCSVSource(cfg.Input.CSVPath)
	}
	log.Printf("[INFO] input: %s", src.Name())

	return &app{cfg: cfg, cache: cache, scanner: sc, source: src}, nil
}
