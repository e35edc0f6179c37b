// Package summary describes a converted angle/intensity series at a glance.
package summary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"github.com/nconklindev/xrdconv/internal/types"
)

var (
	ErrEmpty      = errors.New("series has no points")
	ErrNotNumeric = errors.New("series is not numeric")
)

type Summary struct {
	Points        int
	AngleMin      float64
	AngleMax      float64
	AngleStep     float64
	PeakAngle     float64
	PeakIntensity float64
	MeanIntensity float64
}

// Summarize computes the range, step and peak of a series. Rows with a
// missing value are skipped. AngleStep is the median gap between
// consecutive angles and is zero for a single point.
func Summarize(series *types.Series) (*Summary, error) {
	if series == nil || series.Len() == 0 {
		return nil, ErrEmpty
	}

	angles := make([]float64, 0, series.Len())
	intensities := make([]float64, 0, series.Len())
	for i := range series.Len() {
		a, b := strings.TrimSpace(series.Angles[i]), strings.TrimSpace(series.Intensities[i])
		if a == "" || b == "" {
			continue
		}

		angle, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: angle %q", ErrNotNumeric, a)
		}
		intensity, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: intensity %q", ErrNotNumeric, b)
		}

		angles = append(angles, angle)
		intensities = append(intensities, intensity)
	}

	if len(angles) == 0 {
		return nil, ErrEmpty
	}

	s := &Summary{Points: len(angles)}

	var err error
	if s.AngleMin, err = stats.Min(angles); err != nil {
		return nil, err
	}
	if s.AngleMax, err = stats.Max(angles); err != nil {
		return nil, err
	}
	if s.MeanIntensity, err = stats.Mean(intensities); err != nil {
		return nil, err
	}

	if len(angles) > 1 {
		steps := make([]float64, len(angles)-1)
		for i := range steps {
			steps[i] = angles[i+1] - angles[i]
		}
		if s.AngleStep, err = stats.Median(steps); err != nil {
			return nil, err
		}
	}

	peak := floats.MaxIdx(intensities)
	s.PeakAngle = angles[peak]
	s.PeakIntensity = intensities[peak]

	return s, nil
}

// String renders the summary as aligned "key: value" lines.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "points:         %d\n", s.Points)
	fmt.Fprintf(&b, "angle range:    %g - %g\n", s.AngleMin, s.AngleMax)
	fmt.Fprintf(&b, "angle step:     %g\n", s.AngleStep)
	fmt.Fprintf(&b, "peak:           %g at %g\n", s.PeakIntensity, s.PeakAngle)
	fmt.Fprintf(&b, "mean intensity: %g\n", s.MeanIntensity)
	return b.String()
}
