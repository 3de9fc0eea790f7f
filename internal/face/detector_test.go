package face

import (
	"errors"
	"testing"
)

type fakeDetector struct {
	count int
	err   error
}

func (f *fakeDetector) Count(string) (int, error) {
	return f.count, f.err
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("assume") != PolicyAssume {
		t.Error("expected assume policy")
	}
	if ParsePolicy("zero") != PolicyZero {
		t.Error("expected zero policy")
	}
	if ParsePolicy("") != PolicyZero {
		t.Error("expected default zero policy")
	}
	if ParsePolicy("garbage") != PolicyZero {
		t.Error("expected unknown value to default to zero")
	}
}

func TestCounterWithDetector(t *testing.T) {
	c := NewCounter(&fakeDetector{count: 3}, PolicyZero)
	if !c.Available() {
		t.Error("expected detector to be available")
	}
	if got := c.Count("frame.jpg"); got != 3 {
		t.Errorf("expected 3 faces, got %d", got)
	}
}

func TestCounterNilDetectorPolicyZero(t *testing.T) {
	c := NewCounter(nil, PolicyZero)
	if c.Available() {
		t.Error("expected no detector")
	}
	if got := c.Count("frame.jpg"); got != 0 {
		t.Errorf("expected 0 faces under zero policy, got %d", got)
	}
}

func TestCounterNilDetectorPolicyAssume(t *testing.T) {
	c := NewCounter(nil, PolicyAssume)
	if got := c.Count("frame.jpg"); got != 1 {
		t.Errorf("expected 1 face under assume policy, got %d", got)
	}
}

func TestCounterDetectorErrorAppliesPolicy(t *testing.T) {
	failing := &fakeDetector{err: errors.New("decode failed")}

	if got := NewCounter(failing, PolicyZero).Count("frame.jpg"); got != 0 {
		t.Errorf("expected 0 under zero policy on error, got %d", got)
	}
	if got := NewCounter(failing, PolicyAssume).Count("frame.jpg"); got != 1 {
		t.Errorf("expected 1 under assume policy on error, got %d", got)
	}
}
