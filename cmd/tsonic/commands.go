package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsoniclang/tsonic/internal/config"
)

// projectFlags is embedded by every subcommand that drives the compiler
// pipeline: the tsconfig.json to parse and the tsonic.config.json to load
// (or auto-discover, following tsgonest's discover-then-load convention).
type projectFlags struct {
	Dir     string `arg:"" optional:"" default:"." help:"Project directory."`
	Project string `help:"Path to tsconfig.json, relative to dir." default:"tsconfig.json"`
	Config  string `help:"Path to tsonic.config.json; auto-discovered under dir if omitted." short:"c"`
	Timing  bool   `help:"Print a per-phase timing report to stderr."`
}

func (f *projectFlags) resolve() (*config.Config, string, error) {
	dir, err := filepath.Abs(f.Dir)
	if err != nil {
		return nil, "", err
	}

	result, err := loadOrDiscoverConfig(f.Config, dir)
	if err != nil {
		return nil, "", fail(exitMissingConfig, "tsonic: loading configuration: %v", err)
	}
	if result.Config == nil {
		return nil, "", fail(exitMissingConfig, "tsonic: no tsonic.config.json found under %s", dir)
	}
	return result.Config, dir, nil
}

// BuildCmd compiles a project and writes the emitted C# tree to disk.
type BuildCmd struct {
	projectFlags
}

func (c *BuildCmd) Run() error {
	cfg, dir, err := c.resolve()
	if err != nil {
		return err
	}

	res, err := runPipeline(cfg, dir, c.Project)
	if err != nil {
		return err
	}
	if c.Timing {
		res.timing.Print()
	}

	res.bag.Sort()
	if len(res.bag.All()) > 0 {
		writeDiagnostics(os.Stderr, res.bag, dir)
	}
	if res.bag.HasErrors() {
		return fail(exitGeneration, "tsonic: %s", res.bag.Summary())
	}

	if err := writeOutput(cfg, dir, res); err != nil {
		return fail(exitGeneration, "tsonic: writing output: %v", err)
	}
	fmt.Fprintf(os.Stderr, "tsonic: wrote %d file(s) to %s\n", len(res.prog.Modules)+1, cfg.OutputDir)
	return nil
}

// CheckCmd runs the whole pipeline in memory, specialisation and emission
// included, and reports diagnostics without writing any output (spec §6:
// a read-only pipeline stage for editor/CI integration).
type CheckCmd struct {
	projectFlags
}

func (c *CheckCmd) Run() error {
	cfg, dir, err := c.resolve()
	if err != nil {
		return err
	}

	res, err := runPipeline(cfg, dir, c.Project)
	if err != nil {
		return err
	}
	if c.Timing {
		res.timing.Print()
	}

	res.bag.Sort()
	if len(res.bag.All()) > 0 {
		writeDiagnostics(os.Stderr, res.bag, dir)
	}
	if res.bag.HasErrors() {
		return fail(exitValidationOrConfig, "tsonic: %s", res.bag.Summary())
	}
	fmt.Fprintln(os.Stderr, "tsonic: no issues found")
	return nil
}

// DumpIRCmd prints the lowered IR program as JSON, for debugging.
// Grounded on cmd/tsgonest's --dump-metadata flag: a developer affordance
// outside the documented pipeline outputs.
type DumpIRCmd struct {
	projectFlags
}

func (c *DumpIRCmd) Run() error {
	cfg, dir, err := c.resolve()
	if err != nil {
		return err
	}

	res, err := runPipeline(cfg, dir, c.Project)
	if err != nil {
		return err
	}

	res.bag.Sort()
	if len(res.bag.All()) > 0 {
		writeDiagnostics(os.Stderr, res.bag, dir)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.prog); err != nil {
		return fail(exitGeneration, "tsonic: encoding IR: %v", err)
	}
	if res.bag.HasErrors() {
		return fail(exitGeneration, "tsonic: %s", res.bag.Summary())
	}
	return nil
}
