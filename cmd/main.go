package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/history"
	"github.com/richard-senior/edutune/pkg/server"
	"github.com/richard-senior/edutune/pkg/tools"
	"github.com/richard-senior/edutune/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "Optional config file (yaml, json or toml)")
	flag.Parse()

	// Configure logging
	logger.SetShowDateTime(true)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "edutune:", err)
		os.Exit(1)
	}
	config.UpdateConfig(cfg)

	// stdout carries the protocol, so logging goes wherever the config says before anything else
	if err := config.ApplyLogging(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "edutune:", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting", cfg.ServerName, cfg.ServerVersion)
	if flag.NArg() > 0 {
		logger.Info("Command line arguments received:", flag.NArg())
		for i, arg := range flag.Args() {
			logger.Debug(fmt.Sprintf("Argument %d:", i+1), arg)
		}
	}

	store, err := history.Default(cfg.HistoryDBPath, cfg.HistoryLimit)
	if err != nil {
		logger.Error("Command history unavailable:", err)
		store = nil
	} else {
		defer store.Close()
	}

	s := server.InitInstance(transport.NewStdioTransport(), cfg, tools.NewToolbox(cfg, store))

	logger.Info("Starting MCP server...")
	if err := s.Start(); err != nil {
		logger.Error("Server error:", err)
		os.Exit(1)
	}

	logger.Info("MCP server shutting down")
}
