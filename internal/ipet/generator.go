package ipet

import (
	"fmt"
	"sort"

	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/lpsolve"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
)

// edgeVar names the LP variable for one MSG edge's activation count. It is
// deliberately not of the `a\d+` shape spec §6 reserves for scratchpad's
// block-assignment indicators: IPET's own LP has a different, unreserved
// vocabulary, and the two formulations are never solved in the same
// invocation.
func edgeVar(index int) string { return fmt.Sprintf("f%d", index) }

// BuildProblem writes m's IPET formulation: a continuous activation
// variable per edge, one flow-conservation row per node other than Entry
// and Exit, a forced-equality row per edge VIVU already pinned a flow
// value to, a fixed single-execution row for Entry and Exit, and an
// objective maximizing total charged cycles. It returns the Problem
// alongside the edge order edgeVar's indices refer to, so the caller can
// map solved values back onto the right cfgraph.EdgeID.
func BuildProblem(m *vivu.MSG) (lpsolve.Problem, []cfgraph.EdgeID) {
	edges := m.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].String() < edges[j].String() })

	var prob lpsolve.Problem
	prob.Minimize = false

	outOf := make(map[cfgraph.NodeID][]int)
	inOf := make(map[cfgraph.NodeID][]int)

	for i, e := range edges {
		edata, from, to, ok := m.FullEdge(e)
		if !ok {
			continue
		}
		v := edgeVar(i)
		outOf[from] = append(outOf[from], i)
		inOf[to] = append(inOf[to], i)

		total := edata.Cost + edata.MemPenalty
		if total != 0 {
			prob.Objective = append(prob.Objective, lpsolve.Term{Var: v, Coeff: float64(total)})
		}

		if edata.Flow != flowfacts.Unknown {
			prob.Constraints = append(prob.Constraints, lpsolve.Constraint{
				Name:  fmt.Sprintf("forced_%d", i),
				Terms: []lpsolve.Term{{Var: v, Coeff: 1}},
				Op:    lpsolve.EQ,
				RHS:   float64(edata.Flow),
			})
		}
	}

	for _, id := range m.Nodes() {
		switch id {
		case m.Entry:
			prob.Constraints = append(prob.Constraints, lpsolve.Constraint{
				Name: "entry_activation", Terms: sumTerms(outOf[id], edgeVar), Op: lpsolve.EQ, RHS: 1,
			})
		case m.Exit:
			prob.Constraints = append(prob.Constraints, lpsolve.Constraint{
				Name: "exit_activation", Terms: sumTerms(inOf[id], edgeVar), Op: lpsolve.EQ, RHS: 1,
			})
		default:
			if len(outOf[id]) == 0 && len(inOf[id]) == 0 {
				continue
			}
			prob.Constraints = append(prob.Constraints, conservationRow(id, outOf[id], inOf[id], edgeVar))
		}
	}

	return prob, edges
}

// conservationRow builds "sum(out) - sum(in) = 0" for an internal node.
func conservationRow(id cfgraph.NodeID, out, in []int, name func(int) string) lpsolve.Constraint {
	terms := sumTerms(out, name)
	for _, t := range sumTerms(in, name) {
		terms = append(terms, lpsolve.Term{Var: t.Var, Coeff: -t.Coeff})
	}
	return lpsolve.Constraint{
		Name:  fmt.Sprintf("conserve_%s", id),
		Terms: terms,
		Op:    lpsolve.EQ,
		RHS:   0,
	}
}

func sumTerms(indices []int, name func(int) string) []lpsolve.Term {
	out := make([]lpsolve.Term, 0, len(indices))
	for _, i := range indices {
		out = append(out, lpsolve.Term{Var: name(i), Coeff: 1})
	}
	return out
}
