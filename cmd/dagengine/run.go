package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/signalmesh/dagengine/internal/executor"
	"github.com/signalmesh/dagengine/internal/manager"
	"github.com/signalmesh/dagengine/internal/progressview"
	"github.com/signalmesh/dagengine/internal/scriptblocks"
	"github.com/signalmesh/dagengine/pkg/block"
	"github.com/signalmesh/dagengine/pkg/schema"
)

type runOptions struct {
	schemaPath     string
	scriptPaths    []string
	parallel       bool
	workers        int
	nonInteractive bool
}

func newRunCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile a schema and run it to completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "path to the JSON schema document to run")
	cmd.Flags().StringArrayVar(&opts.scriptPaths, "script", nil, "path to a JSON scriptblocks.Definition file to compile and append to this request's registry snapshot (External Interface 2, repeatable)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "run with the counter-based parallel executor instead of strict topological order")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker pool size for --parallel (defaults to the manager's configured worker count)")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "suppress the progress view and print a final summary instead")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// loadScripts reads each --script file as a scriptblocks.Definition and
// compiles it to a *block.Template, in flag order.
func loadScripts(paths []string) ([]*block.Template, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	defs := make([]scriptblocks.Definition, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", path, err)
		}
		var def scriptblocks.Definition
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("parse script %s: %w", path, err)
		}
		defs = append(defs, def)
	}
	templates, err := scriptblocks.CompileAll(defs)
	if err != nil {
		return nil, fmt.Errorf("compile scripts: %w", err)
	}
	return templates, nil
}

func runRun(cmd *cobra.Command, app *AppContext, opts *runOptions) error {
	raw, err := os.ReadFile(opts.schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	var doc schema.Schema
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	extras, err := loadScripts(opts.scriptPaths)
	if err != nil {
		return err
	}

	ctx, cancel, logger := app.CommandContext(cmd, "run")
	defer cancel()

	// §5: parallel-threads mode is acquired via AcquireSync, cooperative
	// mode (the default, strict-topological-order run) via Acquire.
	var scoped *manager.ScopedEngine
	if opts.parallel {
		scoped, err = app.Manager.AcquireSync(app.Business, &doc, extras...)
	} else {
		scoped, err = app.Manager.Acquire(ctx, app.Business, &doc, extras...)
	}
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	defer scoped.Release()

	plan := scoped.Plan()
	events := make(chan executor.NodeEvent, len(plan.Steps)*4+1)

	interactive := !opts.nonInteractive && term.IsTerminal(int(os.Stdout.Fd()))

	workers := opts.workers
	if workers <= 0 {
		workers = app.Manager.Config().Workers
	}

	runFn := func() executor.Result {
		defer close(events)
		if opts.parallel {
			return executor.Parallel(ctx, plan, workers, events)
		}
		return executor.Sequential(ctx, plan, events)
	}

	if !interactive {
		result := runFn()
		for _, ev := range result.Events {
			logger.Info("node finished", "instance_id", ev.InstanceID, "status", string(ev.Status))
		}
		if !result.OK() {
			return fmt.Errorf("run failed: %w", result.Err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "run completed successfully")
		return nil
	}

	resultCh := make(chan executor.Result, 1)
	go func() { resultCh <- runFn() }()

	model := progressview.NewModel(opts.schemaPath, len(plan.Steps), events, opts.nonInteractive)
	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("render progress view: %w", err)
	}

	result := <-resultCh
	if !result.OK() {
		return fmt.Errorf("run failed: %w", result.Err)
	}
	return nil
}
