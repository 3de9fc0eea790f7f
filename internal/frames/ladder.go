// internal/frames/ladder.go
package frames

// FallbackTimestamps returns the sampling timestamps used when scene
// detection produced nothing.
//
// With a known duration d and n samples:
//   - d >= n: n timestamps evenly spaced at i*d/(n+1), i = 1..n.
//   - d < n (very short media): a half-second ladder 0.5, 1.0, 1.5, ...
//     strictly below d, truncated to n entries.
//
// With an unknown duration (d <= 0): the fixed ladder 1, 3, 5, 7, 9, ...
// truncated to n entries.
func FallbackTimestamps(duration float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if duration <= 0 {
		return fixedLadder(n)
	}
	if duration < float64(n) {
		return halfSecondLadder(duration, n)
	}

	interval := duration / float64(n+1)
	ts := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		ts = append(ts, float64(i)*interval)
	}
	return ts
}

func fixedLadder(n int) []float64 {
	ts := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		ts = append(ts, float64(2*i+1))
	}
	return ts
}

func halfSecondLadder(duration float64, n int) []float64 {
	var ts []float64
	for i := 1; len(ts) < n; i++ {
		t := 0.5 * float64(i)
		if t >= duration {
			break
		}
		ts = append(ts, t)
	}
	return ts
}
