package fixtures

import (
	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
)

// Scenario bundles everything internal/scfg.Build/internal/vivu.Build need
// to run one of the six spec §8 end-to-end cases: every function's CFG, the
// call graph linking them, the flow-fact table bounding their loops (nil
// where a scenario has none), and the label of the function to analyze.
type Scenario struct {
	CFGs  map[string]*cfg.CFG
	Calls *callgraph.Graph
	Flow  *flowfacts.Table
	Root  string
}
