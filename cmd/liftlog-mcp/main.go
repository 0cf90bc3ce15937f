package main

import (
	"flag"
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/calc"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/memo"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftLog server URL (e.g. https://liftlog.tail1234.ts.net)")
	logFile := flag.String("log-file", "", "log to this file (stdout carries the MCP protocol)")
	logLevel := flag.String("log-level", "info", "log level")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}
	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -server <URL> [-log-file path]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Never log to stdout here.
	log, closer, err := logging.Setup(logging.Params{Level: *logLevel, File: *logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	client := mcp.NewHTTPClient(*serverURL)
	defer client.Close()

	// Calculators run locally with the default settings.
	defaults := config.Defaults().Training
	calculator := calc.New(defaults, memo.New(defaults.CacheMB<<20, defaults.CacheTTL), nil)

	log.Info("liftlog-mcp starting", "version", Version, "server", *serverURL)
	if err := mcpserver.ServeStdio(mcp.New(client, calculator, Version, log)); err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}
