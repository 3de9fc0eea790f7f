// internal/face/pigo.go
package face

import (
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// qualityThreshold filters out low-confidence detections after clustering.
const qualityThreshold = 5.0

// PigoDetector is a pure-Go face detector backed by a pigo binary cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
}

// NewPigoDetector loads the cascade file and unpacks the classifier. A
// missing or corrupt cascade is the "capability absent" condition; callers
// should treat the error as recoverable and run without a detector.
func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade file: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &PigoDetector{classifier: classifier}, nil
}

// Count runs the cascade over the image and returns the number of
// clustered detections above the quality threshold.
func (d *PigoDetector) Count(imagePath string) (int, error) {
	img, err := pigo.GetImage(imagePath)
	if err != nil {
		return 0, fmt.Errorf("load image: %w", err)
	}

	pixels := pigo.RgbToGrayscale(img)
	cols, rows := img.Bounds().Dx(), img.Bounds().Dy()

	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     1000,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	count := 0
	for _, det := range dets {
		if det.Q >= qualityThreshold {
			count++
		}
	}
	return count, nil
}
