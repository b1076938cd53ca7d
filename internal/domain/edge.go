package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnknownRelation groups edges that carry no relation
const UnknownRelation = "unknown"

// Edge represents a directed relation between two nodes
type Edge struct {
	From     string   `json:"f" yaml:"f"`
	To       string   `json:"t" yaml:"t"`
	Relation string   `json:"relation" yaml:"relation"`
	Domain   string   `json:"domain" yaml:"domain"`
	Weight   *float64 `json:"w,omitempty" yaml:"w,omitempty"`

	// wholeWeight is set when w was read from an integer JSON literal
	wholeWeight bool
}

// UnmarshalJSON decodes an edge line, remembering whether w was written
// as an integer
func (e *Edge) UnmarshalJSON(data []byte) error {
	type plain Edge
	aux := struct {
		*plain
		W json.Number `json:"w"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	e.Weight, e.wholeWeight = nil, false
	if aux.W == "" {
		return nil
	}
	w, err := aux.W.Float64()
	if err != nil {
		return fmt.Errorf("edge weight %s: %w", aux.W, err)
	}
	e.Weight = &w
	e.wholeWeight = !strings.ContainsAny(aux.W.String(), ".eE")
	return nil
}

// NewEdge creates an unweighted edge
func NewEdge(from, to, relation, domain string) *Edge {
	return &Edge{
		From:     from,
		To:       to,
		Relation: relation,
		Domain:   domain,
	}
}

// WithWeight returns a copy of the edge carrying weight w
func (e Edge) WithWeight(w float64) Edge {
	e.Weight = &w
	e.wholeWeight = false
	return e
}

// WithWeightLiteral returns a copy of the edge carrying the weight written
// as lit. An integer literal keeps rendering as an integer.
func (e Edge) WithWeightLiteral(lit string) (Edge, error) {
	w, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return e, fmt.Errorf("edge weight %q: %w", lit, err)
	}
	e = e.WithWeight(w)
	e.wholeWeight = !strings.ContainsAny(lit, ".eE")
	return e, nil
}

// HasWeight reports whether the edge carries a weight
func (e *Edge) HasWeight() bool {
	return e.Weight != nil
}

// WeightString renders the weight for TOON rows, or "" when absent.
// Integer literals stay integers. Other weights use the shortest
// round-trip digits, keep a ".0" when whole, and switch to exponent form
// below 1e-4 or from 1e16 up: 0.9, 1.0, 1e-05, 1e+16.
func (e *Edge) WeightString() string {
	if e.Weight == nil {
		return ""
	}
	if e.wholeWeight {
		return strconv.FormatFloat(*e.Weight, 'f', -1, 64)
	}
	return formatWeight(*e.Weight)
}

func formatWeight(w float64) string {
	if w == 0 {
		if math.Signbit(w) {
			return "-0.0"
		}
		return "0.0"
	}

	mantissa, expText, _ := strings.Cut(strconv.FormatFloat(w, 'e', -1, 64), "e")
	exp, _ := strconv.Atoi(expText)

	sign := ""
	if strings.HasPrefix(mantissa, "-") {
		sign, mantissa = "-", mantissa[1:]
	}
	digits := strings.Replace(mantissa, ".", "", 1)

	if exp < -4 || exp >= 16 {
		m := digits[:1]
		if len(digits) > 1 {
			m += "." + digits[1:]
		}
		expSign := "+"
		if exp < 0 {
			expSign, exp = "-", -exp
		}
		return fmt.Sprintf("%s%se%s%02d", sign, m, expSign, exp)
	}

	switch {
	case exp < 0:
		return sign + "0." + strings.Repeat("0", -exp-1) + digits
	case len(digits) <= exp+1:
		return sign + digits + strings.Repeat("0", exp+1-len(digits)) + ".0"
	default:
		return sign + digits[:exp+1] + "." + digits[exp+1:]
	}
}

// RelationKey returns the relation used to group the edge
func (e *Edge) RelationKey() string {
	if e.Relation == "" {
		return UnknownRelation
	}
	return e.Relation
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", e.From, e.RelationKey(), e.To)
}
