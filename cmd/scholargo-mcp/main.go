// Command scholargo-mcp serves Semantic Scholar tools over the Model
// Context Protocol on stdio. Configuration comes from the environment; see
// internal/mcpserver.Config for the recognized variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ambiyansyah-risyal/scholargo"
	"github.com/ambiyansyah-risyal/scholargo/internal/mcpserver"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(scholargo.GetVersion())
		return
	}

	cfg, err := mcpserver.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	server, err := mcpserver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}
