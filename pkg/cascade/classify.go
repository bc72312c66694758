package cascade

import (
	"math"
	"sort"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// Member is a curve of a family with its parameter and its y at the
// reference x.
type Member struct {
	Curve     *abac.Curve
	Parameter float64
	YAtRef    float64
}

// Position is where an input y falls within a curve family. It is one of
// Bracketed, AboveAll, BelowAll, SingleReference or Unresolvable.
type Position interface {
	position()
}

// Bracketed: the input lies between two curves at Ratio (0 at Lower, 1 at
// Upper).
type Bracketed struct {
	Lower, Upper Member
	Ratio        float64
}

// AboveAll: the input is above every curve; Ref is the topmost.
type AboveAll struct {
	Ref Member
}

// BelowAll: the input is below every curve; Ref is the bottommost.
type BelowAll struct {
	Ref Member
}

// SingleReference: only one curve can be used.
type SingleReference struct {
	Ref Member
}

// Unresolvable: no curve is usable.
type Unresolvable struct {
	Reason string
}

func (Bracketed) position()       {}
func (AboveAll) position()        {}
func (BelowAll) position()        {}
func (SingleReference) position() {}
func (Unresolvable) position()    {}

// referenceX returns the minimum or maximum of the x-range every fitted
// candidate shares.
func referenceX(members []Member, edge abac.ReferenceEdge) (float64, bool) {
	lo, hi := math.Inf(-1), math.Inf(1)
	found := false
	for _, m := range members {
		a, b, ok := m.Curve.XRange()
		if !ok {
			continue
		}
		lo = math.Max(lo, a)
		hi = math.Min(hi, b)
		found = true
	}
	if !found {
		return 0, false
	}
	if edge == abac.EdgeMax {
		return hi, true
	}
	return lo, true
}

// atReference evaluates every member at xRef, drops those without a value
// and sorts the rest by that value.
func atReference(members []Member, xRef float64) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		y, ok := m.Curve.YAt(xRef)
		if !ok {
			continue
		}
		m.YAtRef = y
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].YAtRef < out[j].YAtRef })
	return out
}

// Classify locates inputY within members, which must be sorted by YAtRef.
func Classify(members []Member, inputY float64) Position {
	if len(members) == 0 {
		return Unresolvable{Reason: "no curve is defined at the reference x"}
	}
	for i := 0; i < len(members)-1; i++ {
		lo, hi := members[i], members[i+1]
		if inputY >= lo.YAtRef && inputY <= hi.YAtRef {
			return Bracketed{Lower: lo, Upper: hi, Ratio: ratio(lo.YAtRef, hi.YAtRef, inputY)}
		}
	}

	first, last := members[0], members[len(members)-1]
	if inputY < first.YAtRef {
		return BelowAll{Ref: first}
	}
	if inputY > last.YAtRef {
		return AboveAll{Ref: last}
	}

	// In range but not bracketed by neighbours: take the nearest curve on
	// each side.
	below, above := -1, -1
	for i, m := range members {
		d := m.YAtRef - inputY
		if d <= 0 && (below < 0 || -d < inputY-members[below].YAtRef) {
			below = i
		}
		if d >= 0 && (above < 0 || d < members[above].YAtRef-inputY) {
			above = i
		}
	}
	switch {
	case below >= 0 && above >= 0 && below != above:
		lo, hi := members[below], members[above]
		return Bracketed{Lower: lo, Upper: hi, Ratio: ratio(lo.YAtRef, hi.YAtRef, inputY)}
	case below >= 0:
		return SingleReference{Ref: members[below]}
	case above >= 0:
		return SingleReference{Ref: members[above]}
	}
	return Unresolvable{Reason: "no curve near the input value"}
}

func ratio(lo, hi, v float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// bracketByParameter finds the members whose parameters enclose p.
func bracketByParameter(members []Member, p float64) (Member, Member, bool) {
	var lower, upper *Member
	for i := range members {
		m := &members[i]
		if m.Parameter <= p && (lower == nil || m.Parameter > lower.Parameter) {
			lower = m
		}
		if m.Parameter >= p && (upper == nil || m.Parameter < upper.Parameter) {
			upper = m
		}
	}
	if lower == nil || upper == nil {
		return Member{}, Member{}, false
	}
	return *lower, *upper, true
}
