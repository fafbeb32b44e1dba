package prefilter

import "testing"

func TestNewTrackerNil(t *testing.T) {
	if tr := NewTracker(nil); tr != nil {
		t.Errorf("NewTracker(nil) = %v, want nil", tr)
	}
}

func TestTrackerCounts(t *testing.T) {
	pf := Build(seqOf("ab"))
	tr := NewTracker(pf)
	haystack := []byte("ab ab ab")

	for start := 0; ; {
		pos := tr.Find(haystack, start)
		if pos == -1 {
			break
		}
		if pos == 3 {
			tr.ConfirmMatch()
		}
		start = pos + 1
	}

	candidates, confirms, eff := tr.Stats()
	if candidates != 3 || confirms != 1 {
		t.Fatalf("Stats() = (%d, %d), want (3, 1)", candidates, confirms)
	}
	if eff < 0.33 || eff > 0.34 {
		t.Errorf("efficiency = %f, want 1/3", eff)
	}
	if tr.Inner() != pf || tr.LiteralLen() != 2 || !tr.IsComplete() {
		t.Error("tracker does not delegate to inner prefilter")
	}

	tr.Reset()
	if c, k, e := tr.Stats(); c != 0 || k != 0 || e != 0 {
		t.Errorf("after Reset Stats() = (%d, %d, %f)", c, k, e)
	}
}
