package emitter

import (
	"sort"
	"strings"

	"github.com/tsoniclang/tsonic/internal/config"
)

// Csproj renders the single generated .csproj project manifest (spec §4.6:
// "one project manifest with: target framework, AOT switches, optimisation
// preference, invariant-globalisation flag, strip-symbols flag, references
// resolved from the workspace ... and any MSBuild property overrides").
// Modeled on tsgonest's GenerateManifest/ManifestJSON pair in
// internal/codegen/manifest.go: build a small intermediate record, then
// serialize it — here to XML text instead of JSON, since a .csproj is MSBuild
// project XML rather than a companion-file index.
func Csproj(cfg config.Config) string {
	p := NewPrinter()
	p.OpenTag("<Project Sdk=\"Microsoft.NET.Sdk\">")

	p.OpenTag("<PropertyGroup>")
	p.Line("<OutputType>%s</OutputType>", outputTypeElement(cfg.OutputKind))
	p.Line("<TargetFramework>net9.0</TargetFramework>")
	p.Line("<AssemblyName>%s</AssemblyName>", cfg.OutputName)
	p.Line("<RootNamespace>%s</RootNamespace>", cfg.RootNamespace)
	p.Line("<ImplicitUsings>disable</ImplicitUsings>")
	p.Line("<Nullable>enable</Nullable>")
	if cfg.NativeAOT {
		p.Line("<PublishAot>true</PublishAot>")
	}
	p.Line("<Optimize>true</Optimize>")
	if cfg.Optimise == config.OptimiseSize {
		p.Line("<OptimizationPreference>Size</OptimizationPreference>")
	} else {
		p.Line("<OptimizationPreference>Speed</OptimizationPreference>")
	}
	if cfg.InvariantGlobalization {
		p.Line("<InvariantGlobalization>true</InvariantGlobalization>")
	}
	if cfg.StripSymbols {
		p.Line("<DebugType>none</DebugType>")
		p.Line("<DebugSymbols>false</DebugSymbols>")
	}
	for _, key := range sortedKeys(cfg.MSBuildProperties) {
		p.Line("<%s>%s</%s>", key, cfg.MSBuildProperties[key], key)
	}
	p.CloseTag("</PropertyGroup>")

	if len(cfg.FrameworkReferences) > 0 {
		p.OpenTag("<ItemGroup>")
		for _, fw := range sortedStrings(cfg.FrameworkReferences) {
			p.Line("<FrameworkReference Include=\"%s\" />", fw)
		}
		p.CloseTag("</ItemGroup>")
	}

	if len(cfg.PackageReferences) > 0 {
		p.OpenTag("<ItemGroup>")
		refs := append([]config.PackageReference{}, cfg.PackageReferences...)
		sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
		for _, pkg := range refs {
			p.Line("<PackageReference Include=\"%s\" Version=\"%s\" />", pkg.ID, pkg.Version)
		}
		p.CloseTag("</ItemGroup>")
	}

	if len(cfg.Libraries) > 0 {
		p.OpenTag("<ItemGroup>")
		for _, lib := range sortedStrings(cfg.Libraries) {
			p.Line("<Reference Include=\"%s\">", libraryAssemblyName(lib))
			p.Indent()
			p.Line("<HintPath>%s</HintPath>", lib)
			p.Dedent()
			p.Line("</Reference>")
		}
		p.CloseTag("</ItemGroup>")
	}

	p.CloseTag("</Project>")
	return p.String()
}

func outputTypeElement(kind config.OutputKind) string {
	switch kind {
	case config.OutputLibrary:
		return "Library"
	case config.OutputConsoleApp, config.OutputExecutable:
		return "Exe"
	default:
		return "Exe"
	}
}

func libraryAssemblyName(path string) string {
	name := path
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		name = path[i+1:]
	}
	name = strings.TrimSuffix(name, ".dll")
	return name
}

func sortedStrings(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// JSONSourceGenContextName is the fixed class name of the auto-generated
// JsonSerializerContext emitted when any JsonSerializer.Serialize/Deserialize
// calls are present in the compiled program (spec §4.6 / §9).
const JSONSourceGenContextName = "TsonicJsonContext"

// JSONSourceGenContext renders the partial JsonSerializerContext class that
// collects every distinct serialized type seen across the program, one
// [JsonSerializable(typeof(T))] attribute per type, sorted for determinism.
func JSONSourceGenContext(namespace string, serializedTypes []string) string {
	p := NewPrinter()
	p.Line("// <auto-generated>")
	p.Line("//   JSON source-generator context")
	p.Line("// </auto-generated>")
	p.Blank()
	p.Line("using System.Text.Json.Serialization;")
	p.Blank()
	p.OpenBrace("namespace %s", namespace)
	for _, t := range sortedStrings(serializedTypes) {
		p.Line("[JsonSerializable(typeof(%s))]", t)
	}
	p.OpenBrace("internal partial class %s : JsonSerializerContext", JSONSourceGenContextName)
	p.CloseBrace()
	p.CloseBrace()
	return p.String()
}
