package neuron

import "fmt"

// ResolveDepths assigns every neuron in the arena its depth: zero for a
// neuron with no synapses, otherwise one more than the deepest resolvable
// source. Resolution is memoized, so recomputing an already-resolved arena is
// a no-op.
//
// The traversal is an explicit depth-first walk with an active set rather
// than recursion, so deep chains cannot exhaust the stack and cycles are
// detected directly: a synapse back into a neuron currently on the traversal
// stack contributes no depth candidate. A source that cannot be resolved
// while it is being visited as a candidate is likewise excluded and retried
// later from the top level; only a neuron that still has no candidate when
// resolved for its own sake fails with ErrDepthUnresolved.
func ResolveDepths(arena []*Neuron) error {
	active := make([]bool, len(arena))
	for i := range arena {
		if err := resolveDepth(arena, i, active); err != nil {
			return err
		}
	}
	return nil
}

// depthFrame is one suspended visit in the explicit depth-first traversal.
type depthFrame struct {
	node  int
	next  int    // index of the next synapse to examine
	best  uint32 // deepest resolved source seen so far, plus one
	found bool   // whether any source produced a candidate
}

func resolveDepth(arena []*Neuron, root int, active []bool) error {
	if arena[root].depth != DepthUnknown {
		return nil
	}
	stack := []depthFrame{{node: root}}
	active[root] = true
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		n := arena[f.node]
		if f.next < len(n.synapses) {
			src := n.synapses[f.next].Source
			if active[src] {
				// Cyclic edge: excluded from the candidates entirely.
				f.next++
				continue
			}
			if d := arena[src].depth; d != DepthUnknown {
				if !f.found || d+1 > f.best {
					f.best, f.found = d+1, true
				}
				f.next++
				continue
			}
			// Suspend this frame and resolve the source first. The synapse
			// index is left as is: the source is re-examined once its frame
			// pops, resolved or not.
			active[src] = true
			stack = append(stack, depthFrame{node: src})
			continue
		}
		resolved := f.found || len(n.synapses) == 0
		if resolved {
			if len(n.synapses) == 0 {
				n.depth = 0
			} else {
				n.depth = f.best
			}
		}
		active[f.node] = false
		stack = stack[:len(stack)-1]
		if !resolved {
			if len(stack) == 0 {
				return fmt.Errorf("%w: %q", ErrDepthUnresolved, n.id)
			}
			// The parent skips this source; the neuron stays unresolved and
			// gets another chance when visited for its own sake.
			stack[len(stack)-1].next++
		}
	}
	return nil
}
