package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsoniclang/tsonic/internal/config"
	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/emitter"
	"github.com/tsoniclang/tsonic/internal/facade"
	"github.com/tsoniclang/tsonic/internal/ir"
	"github.com/tsoniclang/tsonic/internal/irbuild"
	"github.com/tsoniclang/tsonic/internal/program"
	"github.com/tsoniclang/tsonic/internal/specialize"
	"github.com/tsoniclang/tsonic/internal/validator"
)

// TimingReport collects per-phase wall-clock timings, printed to stderr so
// stdout stays clean for piping emitted output. Grounded verbatim on
// tsgonest's cmd/tsgonest/pipeline.go TimingReport: a struct of Durations
// plus a Print method, instead of an error-prone multi-return.
type TimingReport struct {
	Facade      time.Duration
	ProgramGraph time.Duration
	IRBuild     time.Duration
	Validate    time.Duration
	Specialise  time.Duration
	Emit        time.Duration
	Total       time.Duration
}

// Print outputs the build timing breakdown to stderr.
func (t *TimingReport) Print() {
	fmt.Fprintf(os.Stderr, "\n--- timing ---\n")
	fmt.Fprintf(os.Stderr, "  facade:     %s\n", t.Facade.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  program:    %s\n", t.ProgramGraph.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  irbuild:    %s\n", t.IRBuild.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  validate:   %s\n", t.Validate.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  specialise: %s\n", t.Specialise.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  emit:       %s\n", t.Emit.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  total:      %s\n", t.Total.Round(time.Millisecond))
}

// ConfigResult holds the result of loading a tsonic config file.
type ConfigResult struct {
	Config *config.Config
	Path   string // resolved absolute path (empty if none found)
	Dir    string // directory containing the config file (defaults to cwd)
}

// loadOrDiscoverConfig loads a tsonic.config.json from configPath, or
// auto-discovers one under cwd if configPath is empty. Shared by the
// build and check subcommands. Mirrors tsgonest's
// cmd/tsgonest/pipeline.go loadOrDiscoverConfig.
func loadOrDiscoverConfig(configPath, cwd string) (*ConfigResult, error) {
	result := &ConfigResult{Dir: cwd}

	if configPath != "" {
		resolved := configPath
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(cwd, resolved)
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			return nil, err
		}
		result.Config, result.Path, result.Dir = cfg, resolved, filepath.Dir(resolved)
		return result, nil
	}

	if p := config.Discover(cwd); p != "" {
		cfg, err := config.Load(p)
		if err != nil {
			return nil, err
		}
		result.Config, result.Path, result.Dir = cfg, p, filepath.Dir(p)
		return result, nil
	}

	return result, nil
}

// pipelineResult is what a compile run produces before the caller decides
// whether to write it to disk (build) or discard it (check).
type pipelineResult struct {
	prog    *ir.Program
	modules map[string]string // module Path -> emitted C# source
	csproj  string
	bag     *diagnostic.Bag
	timing  TimingReport
}

// runPipeline drives every stage of the core compilation pipeline
// (config → facade session → program graph → IR → validate → specialise
// → emit), collecting diagnostics into one bag and never writing partial
// output on error (spec §7 propagation policy: "no partial output written
// on error"). tsconfigPath is resolved relative to projectDir.
func runPipeline(cfg *config.Config, projectDir, tsconfigPath string) (*pipelineResult, error) {
	var timing TimingReport
	totalStart := time.Now()
	bag := diagnostic.NewBag()

	// cfg arrives already validated by config.Load (called from
	// loadOrDiscoverConfig before runPipeline is ever invoked).

	start := time.Now()
	session, tsDiags, err := facade.Open(projectDir, tsconfigPath)
	for _, d := range tsDiags {
		bag.Add(d)
	}
	if err != nil {
		return nil, fail(exitMissingConfig, "tsonic: opening %s: %v", tsconfigPath, err)
	}
	if session != nil {
		defer session.Close()
	}
	timing.Facade = time.Since(start)
	if bag.HasErrors() {
		return &pipelineResult{bag: bag, timing: timing}, nil
	}

	start = time.Now()
	sourceFiles := session.SourceFiles()
	entries := make([]string, len(sourceFiles))
	for i, f := range sourceFiles {
		entries[i] = f.FileName()
	}
	sourceRoot := cfg.SourceRoot
	if !filepath.IsAbs(sourceRoot) {
		sourceRoot = filepath.Join(projectDir, sourceRoot)
	}
	graph, err := program.Build(sourceRoot, cfg.TypeRoots, entries, newRawImportScanner(session), bag)
	if err != nil {
		return nil, fail(exitGeneration, "tsonic: building program graph: %v", err)
	}
	timing.ProgramGraph = time.Since(start)
	if bag.HasErrors() {
		return &pipelineResult{bag: bag, timing: timing}, nil
	}

	start = time.Now()
	prog := irbuild.LowerProgram(session, graph, cfg.RootNamespace, bag)
	timing.IRBuild = time.Since(start)
	if bag.HasErrors() {
		return &pipelineResult{prog: prog, bag: bag, timing: timing}, nil
	}

	start = time.Now()
	validator.Validate(prog, bag)
	timing.Validate = time.Since(start)
	if bag.HasErrors() {
		return &pipelineResult{prog: prog, bag: bag, timing: timing}, nil
	}

	start = time.Now()
	specialize.Run(prog, bag)
	timing.Specialise = time.Since(start)

	start = time.Now()
	genTime := time.Now().UTC().Format(time.RFC3339)
	opts := emitter.Options{Timestamp: emitter.FixedTimestamp(genTime)}
	modules := make(map[string]string, len(prog.Modules))
	for _, m := range prog.Modules {
		modules[m.Path] = emitter.EmitModule(m, prog, opts, bag)
	}
	csproj := emitter.Csproj(*cfg)
	timing.Emit = time.Since(start)

	timing.Total = time.Since(totalStart)
	return &pipelineResult{prog: prog, modules: modules, csproj: csproj, bag: bag, timing: timing}, nil
}

// writeOutput writes every emitted module plus the project manifest under
// cfg.OutputDir, mirroring source directory structure below
// cfg.SourceRoot (spec §6, "a tree of target-language files under
// output_directory"). A module outside the source root is written under
// its base name.
func writeOutput(cfg *config.Config, projectDir string, res *pipelineResult) error {
	outDir := cfg.OutputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(projectDir, outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	srcRoot := cfg.SourceRoot
	if !filepath.IsAbs(srcRoot) {
		srcRoot = filepath.Join(projectDir, srcRoot)
	}

	for _, m := range res.prog.Modules {
		rel := m.Path
		if filepath.IsAbs(rel) {
			if r, err := filepath.Rel(srcRoot, rel); err == nil && filepath.IsLocal(r) {
				rel = r
			} else {
				rel = filepath.Base(rel)
			}
		}
		csPath := filepath.Join(outDir, changeExt(rel, ".cs"))
		if err := os.MkdirAll(filepath.Dir(csPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(csPath, []byte(res.modules[m.Path]), 0o644); err != nil {
			return err
		}
	}

	csprojPath := filepath.Join(outDir, cfg.OutputName+".csproj")
	return os.WriteFile(csprojPath, []byte(res.csproj), 0o644)
}

func changeExt(path, ext string) string {
	trimmed := path
	if i := lastDot(trimmed); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed + ext
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
		if s[i] == '/' || s[i] == '\\' {
			break
		}
	}
	return -1
}
