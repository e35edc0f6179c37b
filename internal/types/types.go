package types

// Dataset is a spreadsheet loaded into memory. Every row has len(Headers) cells.
type Dataset struct {
	Headers   []string
	Rows      [][]string
	HeaderRow int
}

// Column returns the cells of column idx in row order.
func (d *Dataset) Column(idx int) []string {
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// Columns is the resolved angle/intensity column pair of a dataset.
type Columns struct {
	Angle     int
	Intensity int
}

// Series is the two-column angle/intensity view of a dataset, already
// formatted for output.
type Series struct {
	AngleColumn     string
	IntensityColumn string
	Angles          []string
	Intensities     []string
}

func (s *Series) Len() int {
	return len(s.Angles)
}

type WorkflowResult struct {
	InputFile string
	TextFile  string
	XYFile    string
	Columns   Columns
	Series    *Series
}

// Paths returns the files touched by the workflow keyed by stage.
func (r *WorkflowResult) Paths() map[string]string {
	return map[string]string{
		"input_file": r.InputFile,
		"txt_file":   r.TextFile,
		"xy_file":    r.XYFile,
	}
}
