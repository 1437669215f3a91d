package emitter

import (
	"sort"
)

// runtimeHelperNamespace is always the first using group (spec §4.6:
// "using groups: runtime helpers first").
const runtimeHelperNamespace = "Tsonic.Runtime"

// UsingGroups computes the three ordered, deduplicated using groups for a
// module: runtime helpers, then framework namespaces sorted
// lexicographically, then project namespaces sorted lexicographically
// (spec §4.6). frameworkNamespaces and projectNamespaces should already be
// classified by the caller (internal/resolve's Import.Kind distinguishes
// ImportDotnetNS from ImportLocalTS, which maps directly to framework vs
// project here).
func UsingGroups(frameworkNamespaces, projectNamespaces []string, needsRuntimeHelpers bool) [][]string {
	var groups [][]string

	if needsRuntimeHelpers {
		groups = append(groups, []string{runtimeHelperNamespace})
	}
	if fw := dedupSorted(frameworkNamespaces); len(fw) > 0 {
		groups = append(groups, fw)
	}
	if proj := dedupSorted(projectNamespaces); len(proj) > 0 {
		groups = append(groups, proj)
	}
	return groups
}

func dedupSorted(in []string) []string {
	set := make(map[string]bool, len(in))
	for _, s := range in {
		if s != "" {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// WriteUsings renders the using groups to p, separating each group with a
// blank line (spec §4.6: "each group separated by a blank line").
func WriteUsings(p *Printer, groups [][]string) {
	for i, group := range groups {
		if i > 0 {
			p.Blank()
		}
		for _, ns := range group {
			p.Line("using %s;", ns)
		}
	}
}
