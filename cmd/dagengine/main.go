package main

import (
	"fmt"
	"os"

	"github.com/signalmesh/dagengine/internal/catalogue"
	"github.com/signalmesh/dagengine/internal/manager"
	"github.com/signalmesh/dagengine/internal/telemetry"
	"github.com/signalmesh/dagengine/pkg/block"
)

const defaultBusinessID = "default"

func main() {
	logger, err := telemetry.New(telemetry.Options{Level: "info", Component: "cli"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	registry := block.NewRegistry()
	catalogue.Register(registry)

	libraries := block.NewManager()
	libraries.RegisterBusiness(defaultBusinessID, registry)

	eng, err := manager.New(manager.DefaultConfig(), libraries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start engine manager: %v\n", err)
		os.Exit(1)
	}

	app := &AppContext{
		Logger:    logger,
		Manager:   eng,
		Libraries: libraries,
		Registry:  registry,
		Business:  defaultBusinessID,
	}

	rootCmd := newRootCmd(app)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
