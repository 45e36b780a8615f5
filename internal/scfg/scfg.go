package scfg

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
)

// SCFG is the inlined graph for one function: the same node/edge
// vocabulary as internal/cfg.CFG (spec §3), with CallSiteNodes resolved
// away wherever a callee graph was available.
type SCFG struct {
	FuncLabel string
	g         *cfgraph.Graph[cfg.NodeData, cfg.EdgeData]
	Entry     cfgraph.NodeID
	Exit      cfgraph.NodeID
}

func (s *SCFG) Nodes() []cfgraph.NodeID { return s.g.Nodes() }
func (s *SCFG) Edges() []cfgraph.EdgeID { return s.g.Edges() }
func (s *SCFG) Node(id cfgraph.NodeID) (cfg.NodeData, bool) { return s.g.Node(id) }
func (s *SCFG) Edge(id cfgraph.EdgeID) (cfg.EdgeData, cfgraph.NodeID, cfgraph.NodeID, bool) {
	return s.g.Edge(id)
}
func (s *SCFG) OutEdges(id cfgraph.NodeID) []cfgraph.EdgeID { return s.g.OutEdges(id) }
func (s *SCFG) InEdges(id cfgraph.NodeID) []cfgraph.EdgeID  { return s.g.InEdges(id) }
func (s *SCFG) Freeze()                                     { s.g.Freeze() }
func (s *SCFG) Frozen() bool                                { return s.g.Frozen() }

// ErrMissingCallee is returned when label names a function absent from the
// cfgs map passed to Build, so no SCFG can be produced for it.
var ErrMissingCallee = fmt.Errorf("scfg: no CFG available for requested function")

// BuildAll inlines every function reachable in calls' leaves-first order,
// returning one SCFG per function that had a CFG to begin with. Functions
// with no entry in cfgs (external symbols referenced only as call targets)
// are simply absent from the result and left as opaque CallSiteNodes in
// whichever caller's SCFG references them.
func BuildAll(cfgs map[string]*cfg.CFG, calls *callgraph.Graph) (map[string]*SCFG, error) {
	order, err := calls.LeavesFirstOrder()
	if err != nil {
		return nil, fmt.Errorf("scfg: %w", err)
	}

	built := make(map[string]*SCFG, len(cfgs))
	for _, label := range order {
		src, ok := cfgs[label]
		if !ok {
			continue
		}
		s := newSCFGFromCFG(label, src, built)
		s.Freeze()
		built[label] = s
	}
	return built, nil
}

// Build runs BuildAll and returns just the SCFG for label.
func Build(label string, cfgs map[string]*cfg.CFG, calls *callgraph.Graph) (*SCFG, error) {
	all, err := BuildAll(cfgs, calls)
	if err != nil {
		return nil, err
	}
	s, ok := all[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingCallee, label)
	}
	return s, nil
}

// newSCFGFromCFG copies src's nodes and edges into a fresh SCFG, replacing
// every CallSiteNode whose callee already has a built SCFG in `built` with
// an inlined copy of that callee's graph.
func newSCFGFromCFG(label string, src *cfg.CFG, built map[string]*SCFG) *SCFG {
	g := cfgraph.New[cfg.NodeData, cfg.EdgeData]()
	s := &SCFG{FuncLabel: label, g: g}

	// asSource/asTarget map an old node ID from src to its (possibly
	// substituted) counterpart in the new graph. A plain node maps to its
	// own fresh copy on both sides. A resolved CallSiteNode maps to the
	// inlined callee's Exit when used as an edge source (flow leaving the
	// call now leaves from the callee's return) and to the callee's Entry
	// when used as an edge target (flow reaching the call now enters the
	// callee).
	normal := make(map[cfgraph.NodeID]cfgraph.NodeID)
	asSourceSub := make(map[cfgraph.NodeID]cfgraph.NodeID)
	asTargetSub := make(map[cfgraph.NodeID]cfgraph.NodeID)

	for _, oldID := range src.Nodes() {
		data, _ := src.Node(oldID)
		if data.Kind == cfg.CallSiteNode {
			if callee, ok := built[data.Label]; ok {
				entryNew, exitNew := copySCFGInto(g, callee)
				asTargetSub[oldID] = entryNew
				asSourceSub[oldID] = exitNew
				continue // the call-site node itself is never copied
			}
		}
		newID, _ := g.AddNode(data)
		normal[oldID] = newID
		if oldID == src.Entry {
			s.Entry = newID
		}
		if oldID == src.Exit {
			s.Exit = newID
		}
	}

	asTarget := func(old cfgraph.NodeID) (cfgraph.NodeID, bool) {
		if id, ok := asTargetSub[old]; ok {
			return id, true
		}
		id, ok := normal[old]
		return id, ok
	}
	asSource := func(old cfgraph.NodeID) (cfgraph.NodeID, bool) {
		if id, ok := asSourceSub[old]; ok {
			return id, true
		}
		id, ok := normal[old]
		return id, ok
	}

	for _, oldEdge := range src.Edges() {
		data, from, to, _ := src.Edge(oldEdge)
		newFrom, fok := asSource(from)
		newTo, tok := asTarget(to)
		if !fok || !tok {
			continue
		}
		_, _ = g.AddEdge(newFrom, newTo, data)
	}

	return s
}

// copySCFGInto copies every node and edge of callee into dst (fresh IDs,
// no substitution — callee is already fully inlined) and returns the
// copies of callee's Entry and Exit nodes in dst.
func copySCFGInto(dst *cfgraph.Graph[cfg.NodeData, cfg.EdgeData], callee *SCFG) (entry, exit cfgraph.NodeID) {
	idMap := make(map[cfgraph.NodeID]cfgraph.NodeID, len(callee.Nodes()))
	for _, oldID := range callee.Nodes() {
		data, _ := callee.Node(oldID)
		newID, _ := dst.AddNode(data)
		idMap[oldID] = newID
		if oldID == callee.Entry {
			entry = newID
		}
		if oldID == callee.Exit {
			exit = newID
		}
	}
	for _, oldEdge := range callee.Edges() {
		data, from, to, _ := callee.Edge(oldEdge)
		_, _ = dst.AddEdge(idMap[from], idMap[to], data)
	}
	return entry, exit
}
