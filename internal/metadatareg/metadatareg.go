// Package metadatareg builds the Dotnet Type Metadata Registry (spec §3,
// §4.1): an immutable mapping from fully qualified .NET type name to its
// member shape, assembled once by scanning `<Name>.metadata.json` sidecar
// files next to `<Name>.d.ts` declaration files under a type root.
// program.Build scans the type roots into one and stores it on the
// FileGraph as Registry; no later stage reads it. It is never mutated
// after Scan returns.
package metadatareg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the .NET type category recorded for a registry entry.
type Kind string

const (
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindDelegate  Kind = "delegate"
)

// Member describes one member's signature-keyed metadata.
type Member struct {
	Virtual     bool   `json:"virtual,omitempty"`
	Sealed      bool   `json:"sealed,omitempty"`
	OverloadTag string `json:"overloadTag,omitempty"`
	Nullable    bool   `json:"nullable,omitempty"`
}

// TypeEntry is one fully qualified .NET type's recorded shape.
type TypeEntry struct {
	Kind    Kind              `json:"kind"`
	Members map[string]Member `json:"members,omitempty"`
}

// sidecarFile is the on-disk shape of a `<Name>.metadata.json` file: a JSON
// object keyed by fully qualified type name (spec §6, "Dotnet metadata file
// format").
type sidecarFile map[string]TypeEntry

// Registry is the immutable, built-once metadata map. The zero value is an
// empty registry (every lookup is a soft miss, matching "missing metadata
// is a soft error" from spec §6).
type Registry struct {
	types map[string]TypeEntry
	// MissingSidecars records `<Name>.d.ts` files scanned with no matching
	// `<Name>.metadata.json`, for diagnostics/logging only — it is not an
	// error condition.
	MissingSidecars []string
}

// Lookup returns the recorded entry for a fully qualified .NET type name.
// A missing entry (ok == false) means "infer defaults": non-virtual,
// non-sealed, reference-type members.
func (r *Registry) Lookup(qualifiedName string) (TypeEntry, bool) {
	if r == nil || r.types == nil {
		return TypeEntry{}, false
	}
	e, ok := r.types[qualifiedName]
	return e, ok
}

// Member looks up one member's metadata within a type, defaulting to the
// zero Member (non-virtual, non-sealed, non-nullable) when the type or
// member is unrecorded.
func (r *Registry) Member(qualifiedName, signature string) Member {
	entry, ok := r.Lookup(qualifiedName)
	if !ok {
		return Member{}
	}
	return entry.Members[signature]
}

// Scan walks typeRoot recursively, pairing every `<Name>.d.ts` file with a
// sibling `<Name>.metadata.json` if present and merging its entries into
// the registry. It never returns an error for a missing sidecar — only for
// a sidecar that exists but fails to parse, since malformed metadata is a
// build-author mistake worth surfacing rather than silently ignoring.
func Scan(typeRoot string) (*Registry, error) {
	reg := &Registry{types: make(map[string]TypeEntry)}

	err := filepath.WalkDir(typeRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".d.ts") {
			return nil
		}

		base := strings.TrimSuffix(path, ".d.ts")
		sidecar := base + ".metadata.json"

		data, readErr := os.ReadFile(sidecar)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				reg.MissingSidecars = append(reg.MissingSidecars, path)
				return nil
			}
			return fmt.Errorf("metadatareg: reading %s: %w", sidecar, readErr)
		}

		var parsed sidecarFile
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("metadatareg: parsing %s: %w", sidecar, err)
		}
		for name, entry := range parsed {
			reg.types[name] = entry
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// ScanAll scans multiple type roots, merging their registries (later roots
// win on name collisions, matching a typical override-by-precedence type
// root ordering).
func ScanAll(typeRoots []string) (*Registry, error) {
	merged := &Registry{types: make(map[string]TypeEntry)}
	for _, root := range typeRoots {
		r, err := Scan(root)
		if err != nil {
			return nil, err
		}
		for name, entry := range r.types {
			merged.types[name] = entry
		}
		merged.MissingSidecars = append(merged.MissingSidecars, r.MissingSidecars...)
	}
	return merged, nil
}
