package cpmodel

import (
	"sync"
	"time"
)

// Status is the terminal state of a solve, mirroring the real backend's
// contract: {OPTIMAL, FEASIBLE, INFEASIBLE, UNKNOWN, MODEL_INVALID}
// (spec.md §6).
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasible
	StatusInfeasible
	StatusUnknown
	StatusModelInvalid
)

// String renders the status the way the driver logs and reports it.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnknown:
		return "UNKNOWN"
	case StatusModelInvalid:
		return "MODEL_INVALID"
	default:
		return "UNKNOWN"
	}
}

// SolveOptions configures the backend the way spec.md §4.5/§5 requires:
// a wall-clock time limit and a parallel search worker count.
type SolveOptions struct {
	MaxTime time.Duration
	Workers int
}

// Solution is the outcome of a solve: a terminal status, and — when
// status is OPTIMAL or FEASIBLE — a complete variable assignment and the
// objective value it achieves.
type Solution struct {
	status    Status
	values    []int
	objective float64
}

// Status reports the terminal solver status.
func (s *Solution) Status() Status { return s.status }

// ObjectiveValue reports the solver's reported objective value.
func (s *Solution) ObjectiveValue() float64 { return s.objective }

// Value returns the assigned integer value of v.
func (s *Solution) Value(v Var) int { return s.values[v.id] }

// BoolValue returns the assigned value of v as a boolean (v == 1).
func (s *Solution) BoolValue(v Var) bool { return s.values[v.id] == 1 }

// Solver drives the search over a fixed Model.
type Solver struct {
	model *Model
}

// NewSolver binds a solver to a model.
func NewSolver(model *Model) *Solver {
	return &Solver{model: model}
}

// incumbent is the shared best-known solution across search workers,
// guarded by mu so concurrent workers can prune against one another's
// progress (portfolio-style parallel search, diversified by branch order).
type incumbent struct {
	mu    sync.Mutex
	have  bool
	value Solution
}

func (in *incumbent) bound() (float64, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.have {
		return 0, false
	}
	return in.value.objective, true
}

func (in *incumbent) offer(values []int, objective float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.have || objective < in.value.objective {
		cp := make([]int, len(values))
		copy(cp, values)
		in.have = true
		in.value = Solution{status: StatusFeasible, values: cp, objective: objective}
	}
}

// Solve runs the search within the configured time limit and worker
// count. No cooperative cancellation exists beyond the time limit
// (spec.md §5): once MaxTime elapses, the best solution found so far
// (if any) is returned as FEASIBLE rather than OPTIMAL.
func (s *Solver) Solve(opts SolveOptions) (*Solution, error) {
	if !s.model.valid {
		return &Solution{status: StatusModelInvalid}, nil
	}

	maxTime := opts.MaxTime
	if maxTime <= 0 {
		maxTime = 10 * time.Minute
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	initial := make([]domain, s.model.NumVars())
	for i := range initial {
		initial[i] = domain{s.model.lb[i], s.model.ub[i]}
	}
	root, ok := propagate(s.model, initial)
	if !ok {
		return &Solution{status: StatusInfeasible}, nil
	}

	deadline := time.Now().Add(maxTime)
	in := &incumbent{}
	exhausted := make([]bool, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			ws := &worker_{
				model:      s.model,
				in:         in,
				deadline:   deadline,
				reverse:    worker%2 == 1,
				fromTheEnd: (worker/2)%2 == 1,
			}
			domains := make([]domain, len(root))
			copy(domains, root)
			ws.search(domains)
			exhausted[worker] = !ws.timedOut
		}(w)
	}
	wg.Wait()

	allExhausted := true
	for _, e := range exhausted {
		if !e {
			allExhausted = false
			break
		}
	}

	obj, found := in.bound()
	if !found {
		if allExhausted {
			return &Solution{status: StatusInfeasible}, nil
		}
		return &Solution{status: StatusUnknown}, nil
	}

	in.mu.Lock()
	values := append([]int(nil), in.value.values...)
	in.mu.Unlock()

	status := StatusFeasible
	if allExhausted {
		status = StatusOptimal
	}
	return &Solution{status: status, values: values, objective: obj}, nil
}

// worker_ runs one diversified depth-first branch-and-bound search over
// the shared model, pruning against the shared incumbent.
type worker_ struct {
	model      *Model
	in         *incumbent
	deadline   time.Time
	reverse    bool // try the high branch before the low branch
	fromTheEnd bool // pick the last free variable instead of the first
	timedOut   bool
}

func (w *worker_) search(domains []domain) {
	if w.timedOut {
		return
	}
	if time.Now().After(w.deadline) {
		w.timedOut = true
		return
	}

	domains, ok := propagate(w.model, domains)
	if !ok {
		return
	}

	if bound, has := w.in.bound(); has && objectiveLowerBound(w.model, domains) >= bound {
		return
	}

	idx := w.pickBranchVar(domains)
	if idx == -1 {
		w.offerLeaf(domains)
		return
	}

	d := domains[idx]
	mid := d[0] + (d[1]-d[0])/2
	lowRange := domain{d[0], mid}
	highRange := domain{mid + 1, d[1]}

	branches := [2]domain{lowRange, highRange}
	if w.reverse {
		branches[0], branches[1] = branches[1], branches[0]
	}

	for _, br := range branches {
		nd := make([]domain, len(domains))
		copy(nd, domains)
		nd[idx] = br
		w.search(nd)
		if w.timedOut {
			return
		}
	}
}

func (w *worker_) pickBranchVar(domains []domain) int {
	if !w.fromTheEnd {
		for i, d := range domains {
			if !d.fixed() {
				return i
			}
		}
		return -1
	}
	for i := len(domains) - 1; i >= 0; i-- {
		if !domains[i].fixed() {
			return i
		}
	}
	return -1
}

func (w *worker_) offerLeaf(domains []domain) {
	values := make([]int, len(domains))
	for i, d := range domains {
		values[i] = d[0]
	}
	obj := objectiveValue(w.model, values)
	w.in.offer(values, obj)
}

func objectiveLowerBound(model *Model, domains []domain) float64 {
	var lb float64
	for _, t := range model.obj {
		d := domains[t.v.id]
		if t.coef >= 0 {
			lb += t.coef * float64(d[0])
		} else {
			lb += t.coef * float64(d[1])
		}
	}
	return lb
}

func objectiveValue(model *Model, values []int) float64 {
	var v float64
	for _, t := range model.obj {
		v += t.coef * float64(values[t.v.id])
	}
	return v
}
