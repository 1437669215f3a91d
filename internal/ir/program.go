package ir

// ImportKind classifies how a module specifier resolved (spec §4.2).
type ImportKind string

const (
	ImportLocalTS     ImportKind = "local-ts"     // resolves to another Module in this Program
	ImportDotnetNS    ImportKind = "dotnet-ns"    // resolves to a .NET namespace via the metadata registry
	ImportUnresolved  ImportKind = "unresolved"   // rejected; produces a TSN1xxx diagnostic
)

// Import is one resolved `import` in a Module.
type Import struct {
	Specifier  string
	Kind       ImportKind
	ModulePath string // populated when Kind == ImportLocalTS: the resolved Module.Path
	Namespace  string // populated when Kind == ImportDotnetNS
	Names      []string
	Provenance Provenance
}

// ExportKind discriminates what an Export re-exposes.
type ExportKind string

const (
	ExportDeclaration ExportKind = "declaration"
	ExportReExport    ExportKind = "reexport"
)

// Export is one `export` in a Module.
type Export struct {
	Kind       ExportKind
	Name       string
	From       string // module specifier for ExportReExport
	Provenance Provenance
}

// Module is one resolved TypeScript source file, lowered to its IR form.
// The Program Builder produces one Module per file reachable from the
// configured entry point(s) (spec §4.1); files under TypeRoots are only
// scanned for the metadata registry and get no Module.
type Module struct {
	Path         string // resolved, normalised module path (import-graph key)
	FileName     string // on-disk source path, for diagnostics
	Namespace    string // target C# namespace for this module's declarations
	Imports      []Import
	Exports      []Export
	Declarations []Declaration

	// IsEntryCandidate marks modules eligible for the entry-point state
	// machine (spec §5): the configured EntryPoint file, or any module with
	// a top-level executable statement when no EntryPoint is configured.
	IsEntryCandidate bool
}

// EntryPointState is the resolved state from the entry-point state machine
// (spec §5) after the Program Builder and IR Builder have examined every
// candidate module.
type EntryPointState string

const (
	EntryNoExport            EntryPointState = "no-export"
	EntryExportMain          EntryPointState = "export-main"
	EntryTopLevelOnly        EntryPointState = "top-level-only"
	EntryTopLevelPlusExports EntryPointState = "top-level-plus-exports"
	EntryTopLevelPlusMain    EntryPointState = "top-level-plus-main"
)

// Program is the fully resolved, fully lowered compilation unit: every
// Module reachable from the configured entry point and type roots, plus
// the decided entry-point strategy. This is what internal/validator,
// internal/specialize and internal/emitter all consume.
type Program struct {
	RootNamespace string
	Modules       []Module
	EntryState    EntryPointState
	EntryModule   string // Module.Path of the module housing the chosen entry logic
}

// ModuleByPath looks up a module by its resolved path, returning ok=false
// if no such module is part of the program. Used by the emitter when
// resolving ImportLocalTS targets to their namespace.
func (p *Program) ModuleByPath(path string) (*Module, bool) {
	for i := range p.Modules {
		if p.Modules[i].Path == path {
			return &p.Modules[i], true
		}
	}
	return nil, false
}

// DeclarationByName looks up a top-level declaration by name within a
// module, returning ok=false if absent.
func (m *Module) DeclarationByName(name string) (*Declaration, bool) {
	for i := range m.Declarations {
		if m.Declarations[i].Name == name {
			return &m.Declarations[i], true
		}
	}
	return nil, false
}
