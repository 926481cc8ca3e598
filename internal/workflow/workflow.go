// Package workflow implements a minimal interpreter for linear business
// processes: a named, acyclic graph of tasks and exclusive gateways driven
// over a mutable execution context. Definitions are declared as flat tables,
// validated once by Build, and the compiled Process is shared read-only
// across any number of concurrent runs. Each run exclusively owns its
// context value; cross-run state lives in the domain store, reached from
// inside task actions.
package workflow

import (
	"context"
	"fmt"

	"copytrade/internal/ports"
)

// Definition declares a process as a table of named nodes.
type Definition[C any] struct {
	Name  string
	Start string
	Nodes []Node[C]
}

// Node is one vertex of the graph: either a task or an exclusive gateway.
// Build via Task or Gateway.
type Node[C any] struct {
	name     string
	action   func(c *C)
	next     string
	decide   func(c *C) string
	branches map[string]string
}

// Task declares a single-entry, single-exit unit of work. The action observes
// and mutates the context; business failures are recorded on the context, not
// returned. An empty next marks a terminal node.
func Task[C any](name, next string, action func(c *C)) Node[C] {
	return Node[C]{name: name, next: next, action: action}
}

// Gateway declares an exclusive branch point. The predicate reads the context
// and returns the label of the one outgoing edge to follow.
func Gateway[C any](name string, decide func(c *C) string, branches map[string]string) Node[C] {
	return Node[C]{name: name, decide: decide, branches: branches}
}

// BuildError reports a malformed or unwirable definition. It is fatal to that
// definition and discovered once at build time, never per run.
type BuildError struct {
	Process string
	Reason  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("workflow %q: build failed: %s", e.Process, e.Reason)
}

// RunError reports a structural failure while executing a built process. It
// indicates a wiring defect in the definition, not a business outcome or a
// user input problem.
type RunError struct {
	Process string
	Node    string
	Reason  string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("workflow %q: node %q: %s", e.Process, e.Node, e.Reason)
}

// Process is a validated, immutable graph. It is safe for concurrent use.
type Process[C any] struct {
	name   string
	start  string
	nodes  map[string]Node[C]
	logger ports.Logger
}

// Build validates the definition and compiles it into a runnable Process.
// Every task successor and gateway branch must resolve to a declared node,
// and every gateway needs at least two labeled branches.
func Build[C any](def Definition[C], logger ports.Logger) (*Process[C], error) {
	if logger == nil {
		return nil, &BuildError{Process: def.Name, Reason: "logger is required"}
	}
	if len(def.Nodes) == 0 {
		return nil, &BuildError{Process: def.Name, Reason: "definition has no nodes"}
	}

	nodes := make(map[string]Node[C], len(def.Nodes))
	for _, n := range def.Nodes {
		if n.name == "" {
			return nil, &BuildError{Process: def.Name, Reason: "node with empty name"}
		}
		if _, exists := nodes[n.name]; exists {
			return nil, &BuildError{Process: def.Name, Reason: fmt.Sprintf("duplicate node %q", n.name)}
		}
		if n.action == nil && n.decide == nil {
			return nil, &BuildError{Process: def.Name, Reason: fmt.Sprintf("node %q has neither action nor predicate", n.name)}
		}
		nodes[n.name] = n
	}

	if def.Start == "" {
		return nil, &BuildError{Process: def.Name, Reason: "no start node declared"}
	}
	if _, ok := nodes[def.Start]; !ok {
		return nil, &BuildError{Process: def.Name, Reason: fmt.Sprintf("start node %q does not exist", def.Start)}
	}

	for _, n := range def.Nodes {
		if n.decide != nil {
			if len(n.branches) < 2 {
				return nil, &BuildError{Process: def.Name, Reason: fmt.Sprintf("gateway %q needs at least two labeled branches", n.name)}
			}
			for label, target := range n.branches {
				if _, ok := nodes[target]; !ok {
					return nil, &BuildError{Process: def.Name, Reason: fmt.Sprintf("gateway %q branch %q targets unknown node %q", n.name, label, target)}
				}
			}
			continue
		}
		if n.next != "" {
			if _, ok := nodes[n.next]; !ok {
				return nil, &BuildError{Process: def.Name, Reason: fmt.Sprintf("task %q targets unknown node %q", n.name, n.next)}
			}
		}
	}

	return &Process[C]{name: def.Name, start: def.Start, nodes: nodes, logger: logger}, nil
}

// Name returns the process name.
func (p *Process[C]) Name() string {
	return p.name
}

// Run drives the context from the start node to a terminal node and returns
// it. The caller keeps exclusive ownership of c for the whole run. Business
// rejection is data inside the returned context; only structural defects
// (an unwired gateway label, cyclic wiring) produce a non-nil error.
func (p *Process[C]) Run(ctx context.Context, c *C) (*C, error) {
	name := p.start
	for steps := 0; ; steps++ {
		// A node never runs twice in an acyclic branch-once graph.
		if steps >= len(p.nodes) {
			return nil, &RunError{Process: p.name, Node: name, Reason: "step limit exhausted, definition contains a cycle"}
		}
		node := p.nodes[name]

		if node.decide != nil {
			label := node.decide(c)
			next, ok := node.branches[label]
			if !ok {
				return nil, &RunError{Process: p.name, Node: name, Reason: fmt.Sprintf("predicate returned unwired label %q", label)}
			}
			p.logger.Debug(ctx, "gateway resolved", map[string]interface{}{"workflow": p.name, "node": name, "label": label})
			name = next
			continue
		}

		p.logger.Debug(ctx, "running task", map[string]interface{}{"workflow": p.name, "node": name})
		node.action(c)
		if node.next == "" {
			return c, nil
		}
		name = node.next
	}
}
