package irbuild

import (
	"golang.org/x/sync/errgroup"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// LowerModulesParallel runs fn once per module concurrently, each call
// against its own Builder, and writes the returned declarations back into
// modules in place. This is the concurrency shape spec §5 explicitly
// permits ("Implementers may parallelise the IR Builder per Source Module
// because modules are read-only after resolution and IR nodes are
// local"): each goroutine gets its own Builder, which holds no Type
// Checker handle, so requirement (b), "partitioned Type Checker handles",
// is left to fn (LowerProgram's fn holds a lock around each module's
// walk) — diagnostic.Bag is safe for
// concurrent Add — requirement (a) — and LowerModulesParallel's own
// errgroup.Wait is the barrier synchronisation point — requirement (c) —
// that must complete before the Adapter/Specialisation stage runs.
//
// fn receives the module being lowered and a fresh Builder scoped to it
// alone; it must not read or write any other module. If any call returns
// an error, LowerModulesParallel returns the first one after every
// in-flight call finishes (errgroup.Group's default behaviour) — callers
// that need "collect every module's errors" semantics instead of
// fail-fast should have fn report failures into bag and always return nil.
func LowerModulesParallel(modules []ir.Module, fn func(m *ir.Module, b *Builder) ([]ir.Declaration, error), bag *diagnostic.Bag) error {
	g := new(errgroup.Group)
	for i := range modules {
		i := i
		g.Go(func() error {
			b := NewBuilder(bag)
			decls, err := fn(&modules[i], b)
			if err != nil {
				return err
			}
			modules[i].Declarations = decls
			return nil
		})
	}
	return g.Wait()
}
