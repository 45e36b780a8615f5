package lpsolve

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormatsObjectiveConstraintsAndBinaries(t *testing.T) {
	p := Problem{
		Minimize:  true,
		Objective: []Term{{Var: "a1", Coeff: 3}, {Var: "a2", Coeff: -2}},
		Constraints: []Constraint{
			{Name: "cap", Terms: []Term{{Var: "a1", Coeff: 4}, {Var: "a2", Coeff: 8}}, Op: LE, RHS: 10},
		},
		BinaryVars: []string{"a1", "a2"},
	}
	var sb strings.Builder
	require.NoError(t, Write(&sb, p))
	out := sb.String()
	assert.Contains(t, out, "min: 3 a1 - 2 a2;")
	assert.Contains(t, out, "cap: 4 a1 + 8 a2 <= 10;")
	assert.Contains(t, out, "bin a1, a2;")
}

func TestSolveWithoutBinaryIsNotCalculated(t *testing.T) {
	_, status, err := Solve(context.Background(), "", nil, Problem{}, 0)
	require.NoError(t, err)
	assert.Equal(t, NotCalculated, status)
}

func TestSolveParsesVariableLines(t *testing.T) {
	// /bin/sh -c 'cat > /dev/null; echo ...' stands in for a real solver:
	// it drains the LP text from stdin (as any real solver would) and
	// prints fixed (name, value) lines for Solve to parse.
	script := "cat > /dev/null; echo 'a1 1'; echo 'a2 0'; echo 'sp 42'"
	values, status, err := Solve(context.Background(), "/bin/sh", []string{"-c", script}, Problem{
		Objective:  []Term{{Var: "a1", Coeff: 1}},
		BinaryVars: []string{"a1", "a2"},
	}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	assert.Equal(t, 1.0, values["a1"])
	assert.Equal(t, 0.0, values["a2"])
	assert.Equal(t, 42.0, values["sp"])
}

func TestSolveDetectsInfeasible(t *testing.T) {
	script := "cat > /dev/null; echo 'This problem is INFEASIBLE'"
	_, status, err := Solve(context.Background(), "/bin/sh", []string{"-c", script}, Problem{}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, status)
}

func TestSolveTimesOut(t *testing.T) {
	script := "sleep 5"
	_, status, err := Solve(context.Background(), "/bin/sh", []string{"-c", script}, Problem{}, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Timeout, status)
}
