package lpsolve

import (
	"fmt"
	"io"
)

// Op is a constraint's relational operator.
type Op int

const (
	LE Op = iota
	GE
	EQ
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

// Term is one coefficient*variable addend of an objective or constraint.
type Term struct {
	Var   string
	Coeff float64
}

// Constraint is one named row of the LP.
type Constraint struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

// Problem is a solver-agnostic LP/ILP: an objective row, a list of named
// constraint rows, and an optional set of variables restricted to {0,1}.
// Term/Constraint order is caller-supplied and preserved verbatim in the
// written text, so callers that need deterministic output must sort their
// own variable names before building a Problem.
type Problem struct {
	Minimize   bool
	Objective  []Term
	Constraints []Constraint
	BinaryVars []string
}

// Write renders p as lp_solve-dialect LP format: the textual convention
// the pack's environment never provides a native Go binding for (spec §6
// treats the solver as an external, language-agnostic collaborator), so
// this package only ever produces and parses text.
func Write(w io.Writer, p Problem) error {
	sense := "max"
	if p.Minimize {
		sense = "min"
	}
	if _, err := fmt.Fprintf(w, "/* objective */\n%s: %s;\n\n", sense, formatTerms(p.Objective)); err != nil {
		return err
	}

	if len(p.Constraints) > 0 {
		if _, err := io.WriteString(w, "/* constraints */\n"); err != nil {
			return err
		}
		for _, c := range p.Constraints {
			line := fmt.Sprintf("%s: %s %s %s;\n", c.Name, formatTerms(c.Terms), c.Op, formatFloat(c.RHS))
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	if len(p.BinaryVars) > 0 {
		line := "bin"
		for i, v := range p.BinaryVars {
			if i > 0 {
				line += ","
			}
			line += " " + v
		}
		if _, err := fmt.Fprintf(w, "%s;\n", line); err != nil {
			return err
		}
	}
	return nil
}

func formatTerms(terms []Term) string {
	if len(terms) == 0 {
		return "0"
	}
	out := ""
	for i, t := range terms {
		sign := "+"
		coeff := t.Coeff
		if coeff < 0 {
			sign = "-"
			coeff = -coeff
		}
		if i == 0 {
			if sign == "-" {
				out += "-"
			}
		} else {
			out += " " + sign + " "
		}
		out += formatFloat(coeff) + " " + t.Var
	}
	return out
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
