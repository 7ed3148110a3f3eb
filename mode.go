package treelock

// Mode is the per-node claim a request can hold. It forms a small
// lattice: Write excludes everything, Read and WriteAncestor exclude
// each other and Write, ReadAncestor excludes only Write.
//
// ReadAndWriteAncestor is the composite that arises when, within a
// single request, a node is both a literal read target and an
// ancestor of some write target. It isn't a fifth independent held state —
// it's realized by crediting the node's held counters for both Read
// and WriteAncestor at once (see held.grant/held.revoke) so that the
// ordinary per-mode compatibility checks already account for it.
type Mode int

const (
	ReadAncestor Mode = iota
	Read
	WriteAncestor
	Write
	ReadAndWriteAncestor
)

func (m Mode) String() string {
	switch m {
	case ReadAncestor:
		return "RA"
	case Read:
		return "R"
	case WriteAncestor:
		return "WA"
	case Write:
		return "W"
	case ReadAndWriteAncestor:
		return "RWA"
	default:
		return "?"
	}
}

// held tracks, per NodeLock, how many current holders sit in each of
// the four base states. ReadAndWriteAncestor holders are counted in
// both r and wa, never as a fifth bucket.
type held struct {
	r, w, wa, ra int
}

// compatible reports whether mode may be granted given the modes
// already held at this node. It implements the table in spec.md §3
// directly; ReadAndWriteAncestor's row is the conjunction of Read's
// and WriteAncestor's, per spec.md §4.3.
func compatible(mode Mode, h held) bool {
	switch mode {
	case ReadAncestor:
		return h.w == 0
	case Read:
		return h.w == 0 && h.wa == 0
	case WriteAncestor:
		return h.w == 0 && h.r == 0
	case Write:
		return h.w == 0 && h.r == 0 && h.wa == 0 && h.ra == 0
	case ReadAndWriteAncestor:
		return h.w == 0 && h.wa == 0 && h.r == 0
	default:
		panic("treelock: unknown mode")
	}
}

func (h *held) grant(mode Mode) {
	switch mode {
	case ReadAncestor:
		h.ra++
	case Read:
		h.r++
	case WriteAncestor:
		h.wa++
	case Write:
		h.w++
	case ReadAndWriteAncestor:
		h.r++
		h.wa++
	default:
		panic("treelock: unknown mode")
	}
}

func (h *held) revoke(mode Mode) {
	switch mode {
	case ReadAncestor:
		if h.ra <= 0 {
			panic("treelock: unbalanced release of ReadAncestor")
		}
		h.ra--
	case Read:
		if h.r <= 0 {
			panic("treelock: unbalanced release of Read")
		}
		h.r--
	case WriteAncestor:
		if h.wa <= 0 {
			panic("treelock: unbalanced release of WriteAncestor")
		}
		h.wa--
	case Write:
		if h.w <= 0 {
			panic("treelock: unbalanced release of Write")
		}
		h.w--
	case ReadAndWriteAncestor:
		if h.r <= 0 || h.wa <= 0 {
			panic("treelock: unbalanced release of ReadAndWriteAncestor")
		}
		h.r--
		h.wa--
	default:
		panic("treelock: unknown mode")
	}
}
