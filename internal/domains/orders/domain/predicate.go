package domain

// Predicate selects orders by their status axes. The concrete variants are
// Equals, In, AnyOf and AllOf; storage adapters switch on them to build queries.
type Predicate interface {
	Matches(Statuses) bool
	isPredicate()
}

// Equals matches when the axis holds exactly Code.
type Equals struct {
	Axis Axis
	Code Code
}

// In matches when the axis holds any of Codes.
type In struct {
	Axis  Axis
	Codes []Code
}

// AnyOf is a boolean OR across predicates. Empty AnyOf matches nothing.
type AnyOf []Predicate

// AllOf is a boolean AND across predicates. Empty AllOf matches everything.
type AllOf []Predicate

func Eq(axis Axis, code Code) Predicate { return Equals{Axis: axis, Code: code} }

func OneOf(axis Axis, codes ...Code) Predicate { return In{Axis: axis, Codes: codes} }

func Or(preds ...Predicate) Predicate { return AnyOf(preds) }

func And(preds ...Predicate) Predicate { return AllOf(preds) }

func (p Equals) Matches(s Statuses) bool { return s.Get(p.Axis) == p.Code }

func (p In) Matches(s Statuses) bool {
	got := s.Get(p.Axis)
	for _, code := range p.Codes {
		if got == code {
			return true
		}
	}
	return false
}

func (p AnyOf) Matches(s Statuses) bool {
	for _, pred := range p {
		if pred != nil && pred.Matches(s) {
			return true
		}
	}
	return false
}

func (p AllOf) Matches(s Statuses) bool {
	for _, pred := range p {
		if pred != nil && !pred.Matches(s) {
			return false
		}
	}
	return true
}

func (Equals) isPredicate() {}
func (In) isPredicate()     {}
func (AnyOf) isPredicate()  {}
func (AllOf) isPredicate()  {}
