package cpmodel

const propagateEpsilon = 1e-6

// domain is an inclusive integer range [lo, hi].
type domain [2]int

func (d domain) fixed() bool { return d[0] == d[1] }

// propagate runs bounds-consistency propagation until a fixed point or 64
// passes, whichever comes first: for every active constraint, tighten each
// participating variable's domain to the range consistent with the others'
// current bounds. Returns ok=false the
// moment any domain becomes empty (lo > hi), signalling the branch is
// infeasible. Indicator constraints are only propagated while their guard
// is already fixed to 1; a guard fixed to 0 is treated as a no-op, and an
// undetermined guard is left for a later branching decision.
func propagate(model *Model, domains []domain) ([]domain, bool) {
	cur := make([]domain, len(domains))
	copy(cur, domains)

	for pass := 0; pass < 64; pass++ {
		changed := false

		for _, c := range model.cons {
			ok := propagateOne(cur, c.terms, c.sense, c.bound, &changed)
			if !ok {
				return cur, false
			}
		}
		for _, ic := range model.indCons {
			guard := cur[ic.indicator.id]
			if !guard.fixed() || guard[0] != 1 {
				continue
			}
			ok := propagateOne(cur, ic.terms, ic.sense, ic.bound, &changed)
			if !ok {
				return cur, false
			}
		}

		if !changed {
			break
		}
	}
	return cur, true
}

// propagateOne tightens the domains of every variable in terms against a
// single Σ coef·var `sense` bound constraint. Reports false on contradiction.
func propagateOne(domains []domain, terms []term, sense Sense, bound float64, changed *bool) bool {
	minSum, maxSum := sumBounds(domains, terms)

	switch sense {
	case LessThanOrEqual:
		if minSum > bound+propagateEpsilon {
			return false
		}
	case GreaterThanOrEqual:
		if maxSum < bound-propagateEpsilon {
			return false
		}
	case Equal:
		if minSum > bound+propagateEpsilon || maxSum < bound-propagateEpsilon {
			return false
		}
	}

	for _, t := range terms {
		v := t.v.id
		d := domains[v]
		lo, hi := d[0], d[1]

		if sense == LessThanOrEqual || sense == Equal {
			rest := minSum - termMin(t, d)
			if !tighten(t, bound-rest, &lo, &hi, true) {
				return false
			}
		}
		if sense == GreaterThanOrEqual || sense == Equal {
			rest := maxSum - termMax(t, d)
			if !tighten(t, bound-rest, &lo, &hi, false) {
				return false
			}
		}

		if lo != d[0] || hi != d[1] {
			if lo > hi {
				return false
			}
			domains[v] = domain{lo, hi}
			*changed = true
		}
	}
	return true
}

// tighten narrows [lo, hi] given that coef*x must satisfy an upper bound
// (upperBound=true: coef*x <= limit) or lower bound (coef*x >= limit).
func tighten(t term, limit float64, lo, hi *int, upperBound bool) bool {
	if t.coef == 0 {
		return true
	}
	bound := limit / t.coef
	switch {
	case upperBound && t.coef > 0:
		if nb := floorf(bound); nb < *hi {
			*hi = nb
		}
	case upperBound && t.coef < 0:
		if nb := ceilf(bound); nb > *lo {
			*lo = nb
		}
	case !upperBound && t.coef > 0:
		if nb := ceilf(bound); nb > *lo {
			*lo = nb
		}
	case !upperBound && t.coef < 0:
		if nb := floorf(bound); nb < *hi {
			*hi = nb
		}
	}
	return *lo <= *hi
}

func sumBounds(domains []domain, terms []term) (minSum, maxSum float64) {
	for _, t := range terms {
		d := domains[t.v.id]
		minSum += termMin(t, d)
		maxSum += termMax(t, d)
	}
	return
}

func termMin(t term, d domain) float64 {
	if t.coef >= 0 {
		return t.coef * float64(d[0])
	}
	return t.coef * float64(d[1])
}

func termMax(t term, d domain) float64 {
	if t.coef >= 0 {
		return t.coef * float64(d[1])
	}
	return t.coef * float64(d[0])
}

func floorf(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

func ceilf(f float64) int {
	i := int(f)
	if f > 0 && float64(i) != f {
		i++
	}
	return i
}
