package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/signalmesh/dagengine/internal/manager"
)

// loadConfigFile reads a YAML manager.Config from path, validates it, and
// rebuilds app.Manager against it, replacing the default-configured one
// built in main. A blank path is a no-op: the CLI runs with
// manager.DefaultConfig() as already wired up at startup.
func loadConfigFile(app *AppContext, path string) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	cfg := manager.DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	mgr, err := manager.New(cfg, app.Libraries)
	if err != nil {
		return fmt.Errorf("rebuild engine manager: %w", err)
	}
	app.Manager = mgr
	return nil
}
