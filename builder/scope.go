package builder

import "github.com/akashmaji946/klangc/model"

// enter pushes idx as the builder's current container and returns a
// closer that restores the previous one. Every AST visit that
// descends into a namespace/struct/function/block/for body calls this
// once and defers the closer, generalizing the teacher's manual
// "oldScope := e.Scp; e.Scp = new; ...; e.Scp = oldScope" pattern
// (eval/eval_loops.go, eval/eval_controls.go) - which the teacher
// repeats by hand at every early-return point - into a single
// RAII-style guard that restores on any exit, matching spec.md §4.4's
// "each scope entry is a RAII-style guard that pushes on enter and
// pops on any exit".
func (b *Builder) enter(idx model.Index) func() {
	prev := b.cur
	b.cur = idx
	return func() { b.cur = prev }
}
