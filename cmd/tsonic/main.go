// Command tsonic compiles a TypeScript source tree to C# (spec §6: "the
// core pipeline packaged as a CLI stage"). Subcommand parsing follows
// broady-tygor's cmd/tygor/main.go: a kong.CLI struct of one field per
// subcommand, each subcommand a struct with its own flags and a Run()
// method, dispatched by kong.Parse/ctx.Run/ctx.FatalIfErrorf.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// exit codes (spec §6): 0 success, 1 validation/configuration, 2 unknown
// command, 3 missing configuration, 5 generation, 6 build, 7 run, 8
// missing .NET SDK, 9 pack, 10 test. 4 is intentionally unused: the spec
// never assigns it and tsonic never emits it.
const (
	exitSuccess            = 0
	exitValidationOrConfig = 1
	exitUnknownCommand     = 2
	exitMissingConfig      = 3
	exitGeneration         = 5
	exitBuild              = 6
	exitRun                = 7
	exitMissingDotnetSDK   = 8
	exitPack               = 9
	exitTest               = 10
)

// CLI is kong's top-level command set.
type CLI struct {
	Build  BuildCmd  `cmd:"" help:"Compile a TypeScript project to C#."`
	Check  CheckCmd  `cmd:"" help:"Run resolution, IR build and validation without emitting output."`
	DumpIR DumpIRCmd `cmd:"dump-ir" help:"Print the lowered IR program as JSON, for debugging."`
}

func main() {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tsonic"),
		kong.Description("Compiles a TypeScript source tree to idiomatic, AOT-ready C#."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUnknownCommand)
	}

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUnknownCommand)
	}

	if err := ctx.Run(); err != nil {
		if ce, ok := err.(*cliError); ok {
			fmt.Fprintln(os.Stderr, ce.msg)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitValidationOrConfig)
	}
}

// cliError pairs an operator-facing message with the exit code it maps to
// under the §6 taxonomy, so main can translate a returned error into the
// right process exit status without every Run() method calling os.Exit
// itself.
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

func fail(code int, format string, args ...any) error {
	return &cliError{code: code, msg: fmt.Sprintf(format, args...)}
}
