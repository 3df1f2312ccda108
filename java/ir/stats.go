package ir

type Stats struct {
	Instructions int            `json:"instructions"`
	Temporaries  int            `json:"temporaries"`
	Labels       int            `json:"labels"`
	Jumps        int            `json:"jumps"`
	Variables    int            `json:"variables"`
	Ops          map[string]int `json:"ops"`
}

func newStats() Stats {
	return Stats{Ops: make(map[string]int)}
}

// TripleStats counts triples. Every triple that computes a value counts
// as one temporary since later triples may refer to it.
func TripleStats(triples []Triple) Stats {
	s := newStats()
	vars := make(map[string]bool)
	for _, t := range triples {
		s.count(t.Op)
		if t.Op.Computes() || t.Op == OpCall {
			s.Temporaries++
		}
		if t.Op == OpAssign {
			vars[t.Arg2] = true
		}
	}
	s.Variables = len(vars)
	return s
}

func QuadrupleStats(quads []Quadruple) Stats {
	s := newStats()
	vars := make(map[string]bool)
	temps := make(map[string]bool)
	for _, q := range quads {
		s.count(q.Op)
		if isTemp(q.Result) {
			temps[q.Result] = true
		}
		if q.Op == OpAssign && !isTemp(q.Result) {
			vars[q.Result] = true
		}
	}
	s.Temporaries = len(temps)
	s.Variables = len(vars)
	return s
}

func (s *Stats) count(op Op) {
	s.Instructions++
	s.Ops[op.String()]++
	switch {
	case op == OpLabel:
		s.Labels++
	case op.IsJump():
		s.Jumps++
	}
}
