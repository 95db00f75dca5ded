package cfg

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

// resolve redirects a jump from its sequential successor to its target.
func (b *builder) resolve(j pendingJump) {
	target := b.target(j.jump)
	b.cut(j.node)
	j.node.addSuccessor(target, Normal)
}

// target walks outward from a jump through its enclosing constructs until it
// finds the construct the jump leaves.
func (b *builder) target(j syntax.Construct) *Node {
	switch j := j.(type) {
	case *syntax.Return, *syntax.Throw:
		return b.end

	case *syntax.Break:
		for p := j.Parent(); !syntax.IsAbsent(p); p = p.Parent() {
			if j.Label != "" {
				if l, ok := p.(*syntax.Labeled); ok && l.Label == j.Label {
					return b.anchors(l).Break
				}
				continue
			}

			if _, ok := p.(*syntax.Switch); ok || isLoop(p) {
				return b.anchors(p).Break
			}
		}

		if j.Label != "" {
			b.fail(j, fmt.Errorf("%w: unknown label %s", ErrNoJumpTarget, j.Label))
		}
		b.fail(j, fmt.Errorf("%w: break outside of loop or switch", ErrNoJumpTarget))

	case *syntax.Continue:
		for p := j.Parent(); !syntax.IsAbsent(p); p = p.Parent() {
			if j.Label != "" {
				if l, ok := p.(*syntax.Labeled); ok && l.Label == j.Label {
					loop := syntax.Unparen(l.Stmt)
					if !isLoop(loop) {
						b.fail(j, fmt.Errorf("%w: label %s does not name a loop", ErrNoJumpTarget, j.Label))
					}
					return b.anchors(loop).Continue
				}
				continue
			}

			if isLoop(p) {
				return b.anchors(p).Continue
			}
		}

		if j.Label != "" {
			b.fail(j, fmt.Errorf("%w: unknown label %s", ErrNoJumpTarget, j.Label))
		}
		b.fail(j, fmt.Errorf("%w: continue outside of loop", ErrNoJumpTarget))
	}

	b.fail(j, fmt.Errorf("%w: not a jump", ErrMalformed))
	return nil
}

func (b *builder) anchors(c syntax.Construct) *Anchors {
	n, ok := b.exit[c]
	if !ok || n.anchors == nil {
		panic(fmt.Errorf("%s has no jump anchors", c))
	}
	return n.anchors
}
