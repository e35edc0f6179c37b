package converter

import (
	"fmt"
	"strings"

	"github.com/nconklindev/xrdconv/internal/types"
)

var (
	angleKeywords     = []string{"angle", "2theta", "two-theta"}
	intensityKeywords = []string{"intensity", "counts", "int"}
)

// ResolveColumns picks the angle and intensity columns from the headers.
// The first header containing an angle keyword wins, falling back to the
// first column; the first header containing an intensity keyword wins,
// falling back to the second column. Both roles may land on the same column.
func ResolveColumns(headers []string) (types.Columns, error) {
	if len(headers) < 2 {
		return types.Columns{}, &ColumnResolutionError{
			Columns: headers,
			Reason:  fmt.Sprintf("need at least 2 columns, found %d", len(headers)),
		}
	}

	cols := types.Columns{Angle: 0, Intensity: 1}
	if idx := firstMatch(headers, angleKeywords); idx >= 0 {
		cols.Angle = idx
	}
	if idx := firstMatch(headers, intensityKeywords); idx >= 0 {
		cols.Intensity = idx
	}

	return cols, nil
}

// CheckColumns validates an explicit column choice against the headers.
func CheckColumns(headers []string, cols types.Columns) error {
	for _, idx := range []int{cols.Angle, cols.Intensity} {
		if idx < 0 || idx >= len(headers) {
			return &ColumnResolutionError{
				Columns: headers,
				Reason:  fmt.Sprintf("column index %d out of range", idx),
			}
		}
	}
	return nil
}

func firstMatch(headers, keywords []string) int {
	for i, header := range headers {
		lower := strings.ToLower(header)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}
