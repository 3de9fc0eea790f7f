// Package face counts faces in candidate frames for selection ranking.
package face

import (
	"log/slog"
)

// Policy controls how frame selection behaves when the detector is absent
// or fails on an image.
type Policy string

const (
	// PolicyZero counts zero faces, degrading selection to scene order.
	PolicyZero Policy = "zero"
	// PolicyAssume counts one face, keeping every candidate face-bearing.
	PolicyAssume Policy = "assume"
)

// ParsePolicy maps a config string to a Policy, defaulting to PolicyZero.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyAssume {
		return PolicyAssume
	}
	return PolicyZero
}

// Detector reports the number of faces in a single image file.
type Detector interface {
	Count(imagePath string) (int, error)
}

// Counter wraps an optional Detector with the unavailability policy so
// callers always get a usable count. A nil detector means the capability
// is absent.
type Counter struct {
	det    Detector
	policy Policy
}

// NewCounter creates a Counter. det may be nil.
func NewCounter(det Detector, policy Policy) *Counter {
	return &Counter{det: det, policy: policy}
}

// Available reports whether a real detector is wired in.
func (c *Counter) Available() bool {
	return c.det != nil
}

// Count returns the face count for the image, applying the policy when the
// detector is absent or errors. Never fails.
func (c *Counter) Count(imagePath string) int {
	if c.det == nil {
		return c.fallback()
	}
	n, err := c.det.Count(imagePath)
	if err != nil {
		slog.Debug("face detection failed", "image", imagePath, "error", err)
		return c.fallback()
	}
	return n
}

func (c *Counter) fallback() int {
	if c.policy == PolicyAssume {
		return 1
	}
	return 0
}
