// Package blossom implements maximum-weight matching on general graphs
// using Edmonds' blossom algorithm with the primal-dual method, in the
// array-indexed formulation (O(V^3)).
//
// The solver is deterministic: for a fixed vertex count and edge order,
// identical inputs produce identical matchings. Callers that need
// reproducible tie-breaking pass edges in a canonical order.
package blossom

// Edge is an undirected weighted edge between vertex indices I and J
type Edge struct {
	I, J   int
	Weight float64
}

// MaxWeightMatching computes a matching of maximum total weight over n
// vertices. The result maps each vertex to its partner, or -1 when the
// vertex is unmatched. When maxCardinality is true, only maximum-
// cardinality matchings are considered.
func MaxWeightMatching(n int, edges []Edge, maxCardinality bool) []int {
	if n == 0 || len(edges) == 0 {
		mate := make([]int, n)
		for i := range mate {
			mate[i] = -1
		}
		return mate
	}
	s := newSolver(n, edges, maxCardinality)
	return s.solve()
}

// solver carries the primal-dual state. Indices below n are vertices;
// indices in [n, 2n) are (possibly unused) blossoms.
type solver struct {
	n       int
	edges   []Edge
	maxCard bool

	// endpoint[p] is the vertex at endpoint p; edge k owns endpoints
	// 2k and 2k+1
	endpoint []int

	// neighbend[v] lists endpoints p such that endpoint[p^1] == v
	neighbend [][]int

	// mate[v] is the endpoint of the matched edge pointing away from v,
	// or -1
	mate []int

	// label[b]: 0 free, 1 S, 2 T (bit 3 marks scanBlossom visits)
	label    []int
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int

	dualvar   []float64
	allowedge []bool
	queue     []int
}

func newSolver(n int, edges []Edge, maxCard bool) *solver {
	s := &solver{n: n, edges: edges, maxCard: maxCard}

	maxweight := 0.0
	for _, e := range edges {
		if e.Weight > maxweight {
			maxweight = e.Weight
		}
	}

	s.endpoint = make([]int, 2*len(edges))
	for k, e := range edges {
		s.endpoint[2*k] = e.I
		s.endpoint[2*k+1] = e.J
	}

	s.neighbend = make([][]int, n)
	for k, e := range edges {
		s.neighbend[e.I] = append(s.neighbend[e.I], 2*k+1)
		s.neighbend[e.J] = append(s.neighbend[e.J], 2*k)
	}

	s.mate = filled(n, -1)
	s.label = make([]int, 2*n)
	s.labelend = filled(2*n, -1)
	s.inblossom = make([]int, n)
	for v := 0; v < n; v++ {
		s.inblossom[v] = v
	}
	s.blossomparent = filled(2*n, -1)
	s.blossomchilds = make([][]int, 2*n)
	s.blossombase = filled(2*n, -1)
	for v := 0; v < n; v++ {
		s.blossombase[v] = v
	}
	s.blossomendps = make([][]int, 2*n)
	s.bestedge = filled(2*n, -1)
	s.blossombestedges = make([][]int, 2*n)
	s.unusedblossoms = make([]int, 0, n)
	for b := n; b < 2*n; b++ {
		s.unusedblossoms = append(s.unusedblossoms, b)
	}
	s.dualvar = make([]float64, 2*n)
	for v := 0; v < n; v++ {
		s.dualvar[v] = maxweight
	}
	s.allowedge = make([]bool, len(edges))
	return s
}

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// slack is the dual slack of edge k; an edge is tight when slack is 0
func (s *solver) slack(k int) float64 {
	e := s.edges[k]
	return s.dualvar[e.I] + s.dualvar[e.J] - 2*e.Weight
}

// blossomLeaves collects the vertices inside blossom b
func (s *solver) blossomLeaves(b int, out *[]int) {
	if b < s.n {
		*out = append(*out, b)
		return
	}
	for _, t := range s.blossomchilds[b] {
		s.blossomLeaves(t, out)
	}
}

// assignLabel labels the top-level blossom of w with t, reached through
// endpoint p
func (s *solver) assignLabel(w, t, p int) {
	b := s.inblossom[w]
	s.label[w] = t
	s.label[b] = t
	s.labelend[w] = p
	s.labelend[b] = p
	s.bestedge[w] = -1
	s.bestedge[b] = -1
	if t == 1 {
		var leaves []int
		s.blossomLeaves(b, &leaves)
		s.queue = append(s.queue, leaves...)
	} else if t == 2 {
		base := s.blossombase[b]
		s.assignLabel(s.endpoint[s.mate[base]], 1, s.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find either the base of a new
// blossom or an augmenting path; returns the base vertex or -1
func (s *solver) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := s.inblossom[v]
		if s.label[b]&4 != 0 {
			base = s.blossombase[b]
			break
		}
		path = append(path, b)
		s.label[b] = 5
		if s.labelend[b] == -1 {
			v = -1
		} else {
			v = s.endpoint[s.labelend[b]]
			b = s.inblossom[v]
			v = s.endpoint[s.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		s.label[b] = 1
	}
	return base
}

// addBlossom contracts the cycle through base closed by edge k into a
// new blossom
func (s *solver) addBlossom(base, k int) {
	v := s.edges[k].I
	w := s.edges[k].J
	bb := s.inblossom[base]
	bv := s.inblossom[v]
	bw := s.inblossom[w]

	b := s.unusedblossoms[len(s.unusedblossoms)-1]
	s.unusedblossoms = s.unusedblossoms[:len(s.unusedblossoms)-1]

	s.blossombase[b] = base
	s.blossomparent[b] = -1
	s.blossomparent[bb] = b

	var path, endps []int
	for bv != bb {
		s.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelend[bv])
		v = s.endpoint[s.labelend[bv]]
		bv = s.inblossom[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		s.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelend[bw]^1)
		w = s.endpoint[s.labelend[bw]]
		bw = s.inblossom[w]
	}
	s.blossomchilds[b] = path
	s.blossomendps[b] = endps

	s.label[b] = 1
	s.labelend[b] = s.labelend[bb]
	s.dualvar[b] = 0

	var leaves []int
	s.blossomLeaves(b, &leaves)
	for _, u := range leaves {
		if s.label[s.inblossom[u]] == 2 {
			s.queue = append(s.queue, u)
		}
		s.inblossom[u] = b
	}

	// Recompute best-edge lists toward other S-blossoms
	bestedgeto := filled(2*s.n, -1)
	for _, bu := range path {
		var nblists [][]int
		if s.blossombestedges[bu] == nil {
			var subleaves []int
			s.blossomLeaves(bu, &subleaves)
			for _, u := range subleaves {
				list := make([]int, 0, len(s.neighbend[u]))
				for _, p := range s.neighbend[u] {
					list = append(list, p/2)
				}
				nblists = append(nblists, list)
			}
		} else {
			nblists = [][]int{s.blossombestedges[bu]}
		}
		for _, nblist := range nblists {
			for _, edge := range nblist {
				i, j := s.edges[edge].I, s.edges[edge].J
				if s.inblossom[j] == b {
					i, j = j, i
				}
				bj := s.inblossom[j]
				if bj != b && s.label[bj] == 1 &&
					(bestedgeto[bj] == -1 || s.slack(edge) < s.slack(bestedgeto[bj])) {
					bestedgeto[bj] = edge
				}
			}
		}
		s.blossombestedges[bu] = nil
		s.bestedge[bu] = -1
	}
	best := make([]int, 0)
	for _, edge := range bestedgeto {
		if edge != -1 {
			best = append(best, edge)
		}
	}
	s.blossombestedges[b] = best
	s.bestedge[b] = -1
	for _, edge := range best {
		if s.bestedge[b] == -1 || s.slack(edge) < s.slack(s.bestedge[b]) {
			s.bestedge[b] = edge
		}
	}
}

// expandBlossom dissolves blossom b, relabeling its children. During a
// stage (endstage false) the T-structure through the blossom is rebuilt.
func (s *solver) expandBlossom(b int, endstage bool) {
	for _, child := range s.blossomchilds[b] {
		s.blossomparent[child] = -1
		if child < s.n {
			s.inblossom[child] = child
		} else if endstage && s.dualvar[child] == 0 {
			s.expandBlossom(child, endstage)
		} else {
			var leaves []int
			s.blossomLeaves(child, &leaves)
			for _, v := range leaves {
				s.inblossom[v] = child
			}
		}
	}

	if !endstage && s.label[b] == 2 {
		entrychild := s.inblossom[s.endpoint[s.labelend[b]^1]]
		j := indexOf(s.blossomchilds[b], entrychild)
		var jstep, endptrick int
		if j&1 != 0 {
			j -= len(s.blossomchilds[b])
			jstep = 1
			endptrick = 0
		} else {
			jstep = -1
			endptrick = 1
		}
		p := s.labelend[b]
		for j != 0 {
			s.label[s.endpoint[p^1]] = 0
			s.label[s.endpoint[at(s.blossomendps[b], j-endptrick)^endptrick^1]] = 0
			s.assignLabel(s.endpoint[p^1], 2, p)
			s.allowedge[at(s.blossomendps[b], j-endptrick)/2] = true
			j += jstep
			p = at(s.blossomendps[b], j-endptrick) ^ endptrick
			s.allowedge[p/2] = true
			j += jstep
		}
		bv := at(s.blossomchilds[b], j)
		s.label[s.endpoint[p^1]] = 2
		s.label[bv] = 2
		s.labelend[s.endpoint[p^1]] = p
		s.labelend[bv] = p
		s.bestedge[bv] = -1
		j += jstep
		for at(s.blossomchilds[b], j) != entrychild {
			bv = at(s.blossomchilds[b], j)
			if s.label[bv] == 1 {
				j += jstep
				continue
			}
			var leaves []int
			s.blossomLeaves(bv, &leaves)
			var labeled int = -1
			for _, v := range leaves {
				if s.label[v] != 0 {
					labeled = v
					break
				}
			}
			if labeled != -1 {
				s.label[labeled] = 0
				s.label[s.endpoint[s.mate[s.blossombase[bv]]]] = 0
				s.assignLabel(labeled, 2, s.labelend[labeled])
			}
			j += jstep
		}
	}

	s.label[b] = -1
	s.labelend[b] = -1
	s.blossomchilds[b] = nil
	s.blossomendps[b] = nil
	s.blossombase[b] = -1
	s.blossombestedges[b] = nil
	s.bestedge[b] = -1
	s.unusedblossoms = append(s.unusedblossoms, b)
}

// at indexes a slice with python-style negative wraparound
func at(xs []int, i int) int {
	if i < 0 {
		i += len(xs)
	}
	return xs[i]
}

func indexOf(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func reverse(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// augmentBlossom swaps matched and unmatched edges along the path from
// v to the base of blossom b
func (s *solver) augmentBlossom(b, v int) {
	t := v
	for s.blossomparent[t] != b {
		t = s.blossomparent[t]
	}
	if t >= s.n {
		s.augmentBlossom(t, v)
	}
	i := indexOf(s.blossomchilds[b], t)
	j := i
	var jstep, endptrick int
	if i&1 != 0 {
		j -= len(s.blossomchilds[b])
		jstep = 1
		endptrick = 0
	} else {
		jstep = -1
		endptrick = 1
	}
	for j != 0 {
		j += jstep
		t = at(s.blossomchilds[b], j)
		p := at(s.blossomendps[b], j-endptrick) ^ endptrick
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p])
		}
		j += jstep
		t = at(s.blossomchilds[b], j)
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p^1])
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}
	s.blossomchilds[b] = rotate(s.blossomchilds[b], i)
	s.blossomendps[b] = rotate(s.blossomendps[b], i)
	s.blossombase[b] = s.blossombase[s.blossomchilds[b][0]]
}

func rotate(xs []int, i int) []int {
	out := make([]int, 0, len(xs))
	out = append(out, xs[i:]...)
	out = append(out, xs[:i]...)
	return out
}

// augmentMatching flips matched edges along the augmenting path through
// tight edge k
func (s *solver) augmentMatching(k int) {
	starts := [2][2]int{
		{s.edges[k].I, 2*k + 1},
		{s.edges[k].J, 2 * k},
	}
	for _, start := range starts {
		v, p := start[0], start[1]
		for {
			bs := s.inblossom[v]
			if bs >= s.n {
				s.augmentBlossom(bs, v)
			}
			s.mate[v] = p
			if s.labelend[bs] == -1 {
				break
			}
			t := s.endpoint[s.labelend[bs]]
			bt := s.inblossom[t]
			v = s.endpoint[s.labelend[bt]]
			j := s.endpoint[s.labelend[bt]^1]
			if bt >= s.n {
				s.augmentBlossom(bt, j)
			}
			s.mate[j] = s.labelend[bt]
			p = s.labelend[bt] ^ 1
		}
	}
}

// solve runs the main primal-dual loop: up to n stages, each seeking one
// augmenting path
func (s *solver) solve() []int {
	n := s.n
	for stage := 0; stage < n; stage++ {
		for i := range s.label {
			s.label[i] = 0
		}
		for i := range s.bestedge {
			s.bestedge[i] = -1
		}
		for b := n; b < 2*n; b++ {
			s.blossombestedges[b] = nil
		}
		for k := range s.allowedge {
			s.allowedge[k] = false
		}
		s.queue = s.queue[:0]

		for v := 0; v < n; v++ {
			if s.mate[v] == -1 && s.label[s.inblossom[v]] == 0 {
				s.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			for len(s.queue) > 0 && !augmented {
				v := s.queue[len(s.queue)-1]
				s.queue = s.queue[:len(s.queue)-1]

				for _, p := range s.neighbend[v] {
					k := p / 2
					w := s.endpoint[p]
					if s.inblossom[v] == s.inblossom[w] {
						continue
					}
					var kslack float64
					if !s.allowedge[k] {
						kslack = s.slack(k)
						if kslack <= 0 {
							s.allowedge[k] = true
						}
					}
					if s.allowedge[k] {
						if s.label[s.inblossom[w]] == 0 {
							s.assignLabel(w, 2, p^1)
						} else if s.label[s.inblossom[w]] == 1 {
							base := s.scanBlossom(v, w)
							if base >= 0 {
								s.addBlossom(base, k)
							} else {
								s.augmentMatching(k)
								augmented = true
								break
							}
						} else if s.label[w] == 0 {
							s.label[w] = 2
							s.labelend[w] = p ^ 1
						}
					} else if s.label[s.inblossom[w]] == 1 {
						b := s.inblossom[v]
						if s.bestedge[b] == -1 || kslack < s.slack(s.bestedge[b]) {
							s.bestedge[b] = k
						}
					} else if s.label[w] == 0 {
						if s.bestedge[w] == -1 || kslack < s.slack(s.bestedge[w]) {
							s.bestedge[w] = k
						}
					}
				}
			}
			if augmented {
				break
			}

			// Compute the dual adjustment delta
			deltatype := -1
			var delta float64
			deltaedge := -1
			deltablossom := -1

			if !s.maxCard {
				deltatype = 1
				delta = s.minVertexDual()
			}
			for v := 0; v < n; v++ {
				if s.label[s.inblossom[v]] == 0 && s.bestedge[v] != -1 {
					d := s.slack(s.bestedge[v])
					if deltatype == -1 || d < delta {
						delta = d
						deltatype = 2
						deltaedge = s.bestedge[v]
					}
				}
			}
			for b := 0; b < 2*n; b++ {
				if s.blossomparent[b] == -1 && s.label[b] == 1 && s.bestedge[b] != -1 {
					d := s.slack(s.bestedge[b]) / 2
					if deltatype == -1 || d < delta {
						delta = d
						deltatype = 3
						deltaedge = s.bestedge[b]
					}
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 && s.label[b] == 2 {
					if deltatype == -1 || s.dualvar[b] < delta {
						delta = s.dualvar[b]
						deltatype = 4
						deltablossom = b
					}
				}
			}
			if deltatype == -1 {
				// No further progress possible under max cardinality
				deltatype = 1
				d := s.minVertexDual()
				if d < 0 {
					d = 0
				}
				delta = d
			}

			// Apply delta to the dual variables
			for v := 0; v < n; v++ {
				switch s.label[s.inblossom[v]] {
				case 1:
					s.dualvar[v] -= delta
				case 2:
					s.dualvar[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 {
					switch s.label[b] {
					case 1:
						s.dualvar[b] += delta
					case 2:
						s.dualvar[b] -= delta
					}
				}
			}

			switch deltatype {
			case 1:
				// Optimum reached
			case 2:
				s.allowedge[deltaedge] = true
				i := s.edges[deltaedge].I
				if s.label[s.inblossom[i]] == 0 {
					i = s.edges[deltaedge].J
				}
				s.queue = append(s.queue, i)
			case 3:
				s.allowedge[deltaedge] = true
				s.queue = append(s.queue, s.edges[deltaedge].I)
			case 4:
				s.expandBlossom(deltablossom, false)
			}
			if deltatype == 1 {
				break
			}
		}

		if !augmented {
			break
		}

		// Expand fully relaxed S-blossoms before the next stage
		for b := n; b < 2*n; b++ {
			if s.blossomparent[b] == -1 && s.blossombase[b] >= 0 &&
				s.label[b] == 1 && s.dualvar[b] == 0 {
				s.expandBlossom(b, true)
			}
		}
	}

	mate := make([]int, n)
	for v := 0; v < n; v++ {
		if s.mate[v] >= 0 {
			mate[v] = s.endpoint[s.mate[v]]
		} else {
			mate[v] = -1
		}
	}
	return mate
}

func (s *solver) minVertexDual() float64 {
	min := s.dualvar[0]
	for v := 1; v < s.n; v++ {
		if s.dualvar[v] < min {
			min = s.dualvar[v]
		}
	}
	return min
}
