// internal/frames/ladder_test.go
package frames

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestFallbackTimestampsEvenSpacing(t *testing.T) {
	got := FallbackTimestamps(60, 5)
	want := []float64{10, 20, 30, 40, 50}
	if !almostEqual(got, want) {
		t.Errorf("FallbackTimestamps(60, 5) = %v, want %v", got, want)
	}
}

func TestFallbackTimestampsShortVideo(t *testing.T) {
	// Duration below N switches to the half-second ladder, all strictly
	// below the duration.
	got := FallbackTimestamps(3.0, 5)
	want := []float64{0.5, 1.0, 1.5, 2.0, 2.5}
	if !almostEqual(got, want) {
		t.Errorf("FallbackTimestamps(3.0, 5) = %v, want %v", got, want)
	}
	for _, ts := range got {
		if ts >= 3.0 {
			t.Errorf("timestamp %v not inside media length", ts)
		}
	}
}

func TestFallbackTimestampsShortVideoTruncated(t *testing.T) {
	got := FallbackTimestamps(1.2, 5)
	want := []float64{0.5, 1.0}
	if !almostEqual(got, want) {
		t.Errorf("FallbackTimestamps(1.2, 5) = %v, want %v", got, want)
	}
}

func TestFallbackTimestampsUnknownDuration(t *testing.T) {
	got := FallbackTimestamps(0, 5)
	want := []float64{1, 3, 5, 7, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FallbackTimestamps(0, 5) = %v, want %v", got, want)
	}

	got = FallbackTimestamps(-1, 3)
	want = []float64{1, 3, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FallbackTimestamps(-1, 3) = %v, want %v", got, want)
	}
}

func TestFallbackTimestampsZeroN(t *testing.T) {
	if got := FallbackTimestamps(10, 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}
