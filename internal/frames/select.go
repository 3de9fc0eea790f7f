// internal/frames/select.go
package frames

// Candidate is a scene-change frame with its face-count score. Transient;
// discarded after selection.
type Candidate struct {
	Path  string
	Faces int
}

// SelectFrames picks at most n candidates, preferring frames with faces
// while preserving temporal spread:
//
//   - n or more face-bearing candidates: n picked evenly spaced across the
//     face-bearing list by index, not the n highest counts, so the picks
//     cover the whole clip.
//   - fewer face-bearing candidates than n: all of them, then filled with
//     no-face candidates in original order until n or exhaustion.
//   - no face-bearing candidates: the first n in original order.
func SelectFrames(cands []Candidate, n int) []Candidate {
	if n <= 0 || len(cands) == 0 {
		return nil
	}

	var withFaces, without []Candidate
	for _, c := range cands {
		if c.Faces >= 1 {
			withFaces = append(withFaces, c)
		} else {
			without = append(without, c)
		}
	}

	if len(withFaces) >= n {
		stride := len(withFaces) / n
		selected := make([]Candidate, 0, n)
		for i := 0; i < n; i++ {
			selected = append(selected, withFaces[i*stride])
		}
		return selected
	}

	if len(withFaces) > 0 {
		selected := make([]Candidate, 0, n)
		selected = append(selected, withFaces...)
		for _, c := range without {
			if len(selected) >= n {
				break
			}
			selected = append(selected, c)
		}
		return selected
	}

	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]Candidate, len(cands))
	copy(out, cands)
	return out
}
