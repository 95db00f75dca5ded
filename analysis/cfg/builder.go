package cfg

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

// builder compiles one routine. Nodes live in an arena for the duration of the
// build; the surviving ones are handed over to the graph.
type builder struct {
	routine    *syntax.Routine
	arena      []*Node
	start, end *Node

	// exit maps constructs to the node they own at their exit.
	exit    map[syntax.Construct]*Node
	nodesOf map[syntax.Construct][]*Node
	jumps   []pendingJump
}

// pendingJump is a break, continue, return or throw whose node still flows to
// its sequential successor.
type pendingJump struct {
	node *Node
	jump syntax.Construct
}

// bailout carries a construction failure to Build.
type bailout struct {
	err *BuildError
}

// Build compiles a routine to its control-flow graph. The routine is linked
// (see syntax.Link) as a side effect.
func Build(r *syntax.Routine) (g *Graph, err error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil routine", ErrMalformed)
	}

	syntax.Link(r)
	b := &builder{
		routine: r,
		exit:    make(map[syntax.Construct]*Node),
		nodesOf: make(map[syntax.Construct][]*Node),
	}

	defer func() {
		if p := recover(); p != nil {
			bo, ok := p.(bailout)
			if !ok {
				panic(p)
			}
			g, err = nil, bo.err
		}
	}()

	if r.Body == nil {
		b.fail(r, fmt.Errorf("%w: routine without body", ErrMalformed))
	}

	b.start = b.newNode(r, Start)
	b.end = b.newNode(r, End)
	b.start.addSuccessor(b.end, Normal)

	for _, p := range r.Params {
		b.build(p, b.end)
	}
	b.build(r.Body, b.end)

	for _, j := range b.jumps {
		b.resolve(j)
	}

	b.prune()
	return b.finish(), nil
}

func (b *builder) fail(c syntax.Construct, err error) {
	panic(bailout{&BuildError{Routine: b.routine.Name, Construct: c, Err: err}})
}

func (b *builder) need(c syntax.Construct, part string, x syntax.Construct) {
	if syntax.IsAbsent(x) {
		b.fail(c, fmt.Errorf("%w: missing %s", ErrMalformed, part))
	}
}

func (b *builder) newNode(c syntax.Construct, dummy DummyKind) *Node {
	n := &Node{id: len(b.arena), construct: c, dummy: dummy}
	b.arena = append(b.arena, n)
	return n
}

// insertBefore makes n the target of every edge into at, and lets n flow to at.
func (b *builder) insertBefore(n, at *Node) {
	moveIncoming(at, n)
	n.addSuccessor(at, Normal)
}

// place creates the exit node of c right before at.
func (b *builder) place(c syntax.Construct, at *Node) *Node {
	n := b.newNode(c, NotDummy)
	b.insertBefore(n, at)
	b.own(c, n)
	b.exit[c] = n
	return n
}

func (b *builder) own(c syntax.Construct, n *Node) {
	b.nodesOf[c] = append(b.nodesOf[c], n)
}

// slot creates a temporary splice point on a new edge between from and to.
func (b *builder) slot(from *Node, label Label, to *Node) *Node {
	s := b.newNode(nil, slot)
	from.addSuccessor(s, label)
	s.addSuccessor(to, Normal)
	return s
}

// unslot removes a splice point, connecting its predecessors to its successor.
func (b *builder) unslot(s *Node) {
	to := s.succs[0].To
	s.removeSuccessor(s.succs[0])
	moveIncoming(s, to)
	s.dead = true
}

// cut detaches n from its successors.
func (b *builder) cut(n *Node) {
	for len(n.succs) > 0 {
		n.removeSuccessor(n.succs[0])
	}
}

// moveIncoming retargets every edge into from to the node to, keeping labels
// and the order of the sources' successor lists.
func moveIncoming(from, to *Node) {
	preds := from.preds
	from.preds = nil
	for _, e := range preds {
		moved := Edge{e.From, to, e.Label}
		for i, e2 := range e.From.succs {
			if e2 == e {
				e.From.succs[i] = moved
				break
			}
		}
		to.preds = append(to.preds, moved)
	}
}

// relabelIncoming changes the label of every edge into n.
func relabelIncoming(n *Node, label Label) {
	for i, e := range n.preds {
		relabeled := Edge{e.From, n, label}
		for j, e2 := range e.From.succs {
			if e2 == e {
				e.From.succs[j] = relabeled
				break
			}
		}
		n.preds[i] = relabeled
	}
}

// isEmpty holds for empty statements and blocks containing nothing else.
func isEmpty(c syntax.Construct) bool {
	switch c := c.(type) {
	case *syntax.Empty:
		return true
	case *syntax.Block:
		for _, s := range c.Stmts {
			if !isEmpty(s) {
				return false
			}
		}
		return true
	}
	return false
}

func isLoop(c syntax.Construct) bool {
	switch c.(type) {
	case *syntax.While, *syntax.Do, *syntax.For, *syntax.ForEach:
		return true
	}
	return false
}

// build compiles c right before at: control that used to reach at now enters
// c, and the exit of c flows to at. It returns the exit node of c, or nil when
// c owns no node and contains nothing that does.
func (b *builder) build(c syntax.Construct, at *Node) *Node {
	if syntax.IsAbsent(c) || isEmpty(c) {
		return nil
	}

	switch c := c.(type) {
	case *syntax.Paren:
		b.need(c, "operand", c.X)
		return b.build(c.X, at)

	case *syntax.Block:
		n := b.place(c, at)
		for _, s := range c.Stmts {
			b.build(s, n)
		}
		return n

	case *syntax.ExprStmt:
		b.need(c, "expression", c.X)
		n := b.place(c, at)
		b.build(c.X, n)
		return n

	case *syntax.If:
		return b.buildIf(c, at)
	case *syntax.While:
		return b.buildWhile(c, at)
	case *syntax.Do:
		return b.buildDo(c, at)
	case *syntax.For:
		return b.buildFor(c, at)
	case *syntax.ForEach:
		return b.buildForEach(c, at)
	case *syntax.Switch:
		return b.buildSwitch(c, at)
	case *syntax.Try:
		return b.buildTry(c, at)

	case *syntax.Labeled:
		b.need(c, "statement", c.Stmt)
		n := b.place(c, at)
		n.anchors = &Anchors{Break: n}
		b.build(c.Stmt, n)
		return n

	case *syntax.Break, *syntax.Continue, *syntax.Return, *syntax.Throw:
		if t, ok := c.(*syntax.Throw); ok {
			b.need(c, "exception", t.X)
		}
		n := b.place(c, at)
		for _, ch := range c.Children() {
			b.build(ch, n)
		}
		b.jumps = append(b.jumps, pendingJump{n, c})
		return n

	case *syntax.Assign:
		if len(c.LHS) == 0 {
			b.fail(c, fmt.Errorf("%w: assignment without target", ErrMalformed))
		}
		n := b.place(c, at)
		for _, l := range c.LHS {
			b.buildTarget(l, n)
		}
		for _, r := range c.RHS {
			b.build(r, n)
		}
		return n

	case *syntax.IncDec:
		b.need(c, "operand", c.X)
		n := b.place(c, at)
		b.buildTarget(c.X, n)
		return n

	case *syntax.Binary:
		b.need(c, "left operand", c.X)
		b.need(c, "right operand", c.Y)
	case *syntax.Logical:
		return b.buildLogical(c, at)
	case *syntax.Unary:
		b.need(c, "operand", c.X)
		if c.IsNot() {
			n := b.place(c, at)
			x := b.buildCond(c.X, n)
			fork(x, n)
			return n
		}
	case *syntax.Conditional:
		return b.buildConditional(c, at)

	case *syntax.Routine, *syntax.Case, *syntax.Catch:
		b.fail(c, fmt.Errorf("%w: unexpected %s", ErrMalformed, c.Kind()))

	case *syntax.Param, *syntax.VarDecl, *syntax.Sync,
		*syntax.Name, *syntax.Literal, *syntax.Call, *syntax.Field,
		*syntax.Index, *syntax.New, *syntax.Cast, *syntax.TypeTest, *syntax.Opaque:

	default:
		b.fail(c, fmt.Errorf("%w: unknown construct kind %s", ErrMalformed, c.Kind()))
	}

	// Constructs evaluating their children in order.
	n := b.place(c, at)
	for _, ch := range c.Children() {
		b.build(ch, n)
	}
	return n
}

// buildTarget compiles the sub-expressions of an assignment target. Plain
// names are written, not evaluated, and get no node.
func (b *builder) buildTarget(t syntax.Construct, at *Node) {
	t = syntax.Unparen(t)
	if _, ok := t.(*syntax.Name); ok {
		return
	}
	for _, ch := range t.Children() {
		b.build(ch, at)
	}
}

// buildCond compiles a condition before at and detaches its exit node, which
// the caller connects with True and False edges.
func (b *builder) buildCond(cond syntax.Construct, at *Node) *Node {
	n := b.build(cond, at)
	if n == nil {
		b.fail(cond, fmt.Errorf("%w: condition has no effect", ErrMalformed))
	}
	b.cut(n)
	return n
}

// branch compiles c on a new edge labeled label from from to to. An empty c
// leaves a direct edge.
func (b *builder) branch(from *Node, label Label, c syntax.Construct, to *Node) {
	s := b.slot(from, label, to)
	b.build(c, s)
	b.unslot(s)
}

// fork connects a condition to its target with both outcomes.
func fork(cond, to *Node) {
	cond.addSuccessor(to, True)
	cond.addSuccessor(to, False)
}

func (b *builder) buildIf(s *syntax.If, at *Node) *Node {
	b.need(s, "condition", s.Cond)
	n := b.place(s, at)
	cond := b.buildCond(s.Cond, n)
	b.branch(cond, True, s.Then, n)
	b.branch(cond, False, s.Else, n)
	return n
}

func (b *builder) buildConditional(c *syntax.Conditional, at *Node) *Node {
	b.need(c, "condition", c.Cond)
	b.need(c, "true operand", c.Then)
	b.need(c, "false operand", c.Else)
	n := b.place(c, at)
	cond := b.buildCond(c.Cond, n)
	b.branch(cond, True, c.Then, n)
	b.branch(cond, False, c.Else, n)
	return n
}

// buildLogical short-circuits: the right operand is only evaluated on the True
// (&&) or False (||) outcome of the left one. Both outcomes of the right
// operand reach the construct's node.
func (b *builder) buildLogical(l *syntax.Logical, at *Node) *Node {
	b.need(l, "left operand", l.X)
	b.need(l, "right operand", l.Y)
	n := b.place(l, at)
	x := b.buildCond(l.X, n)

	short, long := False, True
	if !l.IsAnd() {
		short, long = True, False
	}

	if long == True {
		b.evalRight(x, long, l.Y, n)
		x.addSuccessor(n, short)
	} else {
		x.addSuccessor(n, short)
		b.evalRight(x, long, l.Y, n)
	}
	return n
}

func (b *builder) evalRight(from *Node, label Label, y syntax.Construct, to *Node) {
	s := b.slot(from, label, to)
	fork(b.buildCond(y, s), to)
	b.unslot(s)
}

func (b *builder) buildWhile(s *syntax.While, at *Node) *Node {
	b.need(s, "condition", s.Cond)
	b.need(s, "body", s.Body)
	n := b.place(s, at)
	test := b.newNode(s, LoopTest)
	b.insertBefore(test, n)
	n.anchors = &Anchors{Continue: test, Break: n}

	cond := b.buildCond(s.Cond, n)
	b.branch(cond, True, s.Body, test)
	cond.addSuccessor(n, False)
	return n
}

func (b *builder) buildDo(s *syntax.Do, at *Node) *Node {
	b.need(s, "condition", s.Cond)
	b.need(s, "body", s.Body)
	n := b.place(s, at)
	head := b.newNode(s, LoopHead)
	b.insertBefore(head, n)
	test := b.newNode(s, LoopTest)
	b.insertBefore(test, n)
	n.anchors = &Anchors{Continue: test, Break: n}

	b.build(s.Body, test)
	cond := b.buildCond(s.Cond, n)
	cond.addSuccessor(head, True)
	cond.addSuccessor(n, False)
	return n
}

func (b *builder) buildFor(s *syntax.For, at *Node) *Node {
	b.need(s, "body", s.Body)
	n := b.place(s, at)
	for _, i := range s.Init {
		b.build(i, n)
	}

	test := b.newNode(s, LoopTest)
	b.insertBefore(test, n)

	cont := test
	var update *Node
	if len(s.Update) > 0 {
		update = b.newNode(s, Update)
		cont = update
	}
	n.anchors = &Anchors{Continue: cont, Break: n}

	var cond *Node
	if syntax.IsAbsent(s.Cond) {
		// Only jumps leave the loop. The test also flows to the end node so
		// that every node of the loop reaches it.
		b.cut(test)
		b.branch(test, Normal, s.Body, cont)
		test.addSuccessor(b.end, Normal)
	} else {
		cond = b.buildCond(s.Cond, n)
		b.branch(cond, True, s.Body, cont)
	}

	if update != nil {
		sl := b.slot(update, Normal, test)
		for _, u := range s.Update {
			b.build(u, sl)
		}
		b.unslot(sl)
	}

	if cond != nil {
		cond.addSuccessor(n, False)
	}
	return n
}

func (b *builder) buildForEach(s *syntax.ForEach, at *Node) *Node {
	b.need(s, "iterable", s.Iterable)
	b.need(s, "body", s.Body)
	n := b.place(s, at)
	b.build(s.Iterable, n)

	head := b.newNode(s, LoopHead)
	b.insertBefore(head, n)
	next := b.newNode(s, NotDummy)
	next.iteration = true
	b.insertBefore(next, n)
	b.own(s, next)
	b.cut(next)
	n.anchors = &Anchors{Continue: head, Break: n}

	b.branch(next, True, s.Body, head)
	next.addSuccessor(n, False)
	return n
}

// buildSwitch chains case markers and statements in source order, so control
// falls through from one group into the next. The selector jumps to every
// marker, and past the switch when there is no default.
func (b *builder) buildSwitch(s *syntax.Switch, at *Node) *Node {
	b.need(s, "selector", s.Selector)
	n := b.place(s, at)
	sel := b.build(s.Selector, n)
	if sel == nil {
		b.fail(s.Selector, fmt.Errorf("%w: selector has no effect", ErrMalformed))
	}
	b.cut(sel)
	n.anchors = &Anchors{Break: n}

	for _, item := range s.Body {
		if cs, ok := item.(*syntax.Case); ok {
			// Case values are evaluated when the selector jumps to the case,
			// not when control falls through from the previous group.
			marker := b.place(cs, n)
			sl := b.slot(sel, Normal, marker)
			for _, v := range cs.Values {
				b.build(v, sl)
			}
			b.unslot(sl)
			continue
		}
		b.build(item, n)
	}

	if !s.HasDefault() {
		sel.addSuccessor(n, Normal)
	}
	return n
}

// buildTry chains resources, body, handlers and finally block. The first
// handler (or the finally block) is entered from the end of the body and, with
// an exceptional edge, from its start, so that it stays reachable when the
// body completes abruptly. Individual throwing sites are not distinguished.
func (b *builder) buildTry(t *syntax.Try, at *Node) *Node {
	b.need(t, "body", t.Body)
	n := b.place(t, at)

	recovers := len(t.Catches) > 0 || !(syntax.IsAbsent(t.Finally) || isEmpty(t.Finally))
	var head *Node
	if recovers {
		head = b.newNode(t, TryEntry)
		b.insertBefore(head, n)
	}

	for _, r := range t.Resources {
		b.build(r, n)
	}
	b.build(t.Body, n)

	if recovers {
		entry := b.newNode(t, Handler)
		b.insertBefore(entry, n)
		// An empty protected region already leads into the handlers.
		if head.succs[0].To != entry {
			head.addSuccessor(entry, Exceptional)
		}
	}

	for i, c := range t.Catches {
		if c == nil {
			b.fail(t, fmt.Errorf("%w: missing catch clause", ErrMalformed))
		}
		handler := b.place(c, n)
		if i == 0 {
			// The only edge into the first handler leaves the handler entry.
			relabelIncoming(handler, Exceptional)
		}
		b.build(c.Param, handler)
		b.build(c.Body, handler)
	}

	b.build(t.Finally, n)
	return n
}
