package treelock

import "testing"

func TestCompatibilityMatrix(t *testing.T) {
	cases := []struct {
		name      string
		requested Mode
		held      held
		want      bool
	}{
		{"RA vs empty", ReadAncestor, held{}, true},
		{"RA vs W", ReadAncestor, held{w: 1}, false},
		{"RA vs R", ReadAncestor, held{r: 1}, true},
		{"RA vs WA", ReadAncestor, held{wa: 1}, true},
		{"RA vs RA", ReadAncestor, held{ra: 1}, true},

		{"R vs empty", Read, held{}, true},
		{"R vs W", Read, held{w: 1}, false},
		{"R vs R", Read, held{r: 1}, true},
		{"R vs WA", Read, held{wa: 1}, false},
		{"R vs RA", Read, held{ra: 1}, true},

		{"WA vs empty", WriteAncestor, held{}, true},
		{"WA vs W", WriteAncestor, held{w: 1}, false},
		{"WA vs R", WriteAncestor, held{r: 1}, false},
		{"WA vs WA", WriteAncestor, held{wa: 1}, true},
		{"WA vs RA", WriteAncestor, held{ra: 1}, true},

		{"W vs empty", Write, held{}, true},
		{"W vs W", Write, held{w: 1}, false},
		{"W vs R", Write, held{r: 1}, false},
		{"W vs WA", Write, held{wa: 1}, false},
		{"W vs RA", Write, held{ra: 1}, false},

		{"RWA vs empty", ReadAndWriteAncestor, held{}, true},
		{"RWA vs RA", ReadAndWriteAncestor, held{ra: 1}, true},
		{"RWA vs R", ReadAndWriteAncestor, held{r: 1}, false},
		{"RWA vs WA", ReadAndWriteAncestor, held{wa: 1}, false},
		{"RWA vs W", ReadAndWriteAncestor, held{w: 1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := compatible(c.requested, c.held); got != c.want {
				t.Errorf("compatible(%v, %+v) = %v, want %v", c.requested, c.held, got, c.want)
			}
		})
	}
}

func TestRWAGrantRevokeCreditsBothBuckets(t *testing.T) {
	var h held
	h.grant(ReadAndWriteAncestor)
	if h.r != 1 || h.wa != 1 {
		t.Fatalf("grant(RWA): got %+v, want r=1 wa=1", h)
	}
	// A plain WA request from a concurrent holder must now be refused,
	// because the composite's R component conflicts with it — its WA
	// component alone would not.
	if compatible(WriteAncestor, h) {
		t.Fatalf("WriteAncestor should be blocked by a held ReadAndWriteAncestor")
	}
	if compatible(Read, h) {
		t.Fatalf("Read should be blocked by a held ReadAndWriteAncestor")
	}
	if !compatible(ReadAncestor, h) {
		t.Fatalf("ReadAncestor should remain compatible with a held ReadAndWriteAncestor")
	}
	h.revoke(ReadAndWriteAncestor)
	if h.r != 0 || h.wa != 0 {
		t.Fatalf("revoke(RWA): got %+v, want zero", h)
	}
}

func TestRevokeUnbalancedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unbalanced revoke")
		}
	}()
	var h held
	h.revoke(Read)
}
