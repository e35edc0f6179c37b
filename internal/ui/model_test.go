package ui

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nconklindev/xrdconv/internal/config"
	"github.com/nconklindev/xrdconv/internal/converter"
	"github.com/nconklindev/xrdconv/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func writeWorkbook(t *testing.T, rows ...[]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadFileResolvesColumns(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"Sample", "2Theta", "Counts"},
		[]any{"A", 10.0, 120},
	)

	m := InitialModel(config.DefaultNaming())
	m.selectedFile = path
	msg := m.loadFile(path)()

	m = update(t, m, msg)
	require.Equal(t, stateColumnSelection, m.state)
	assert.Equal(t, types.Columns{Angle: 1, Intensity: 2}, m.columns)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "2Theta [angle]")
}

func TestLoadFileSingleColumn(t *testing.T) {
	path := writeWorkbook(t, []any{"2Theta"}, []any{10.0})

	m := InitialModel(config.DefaultNaming())
	m = update(t, m, m.loadFile(path)())

	require.Equal(t, stateError, m.state)
	assert.ErrorIs(t, m.err, converter.ErrColumnResolution)
}

func TestLoadFileMissing(t *testing.T) {
	m := InitialModel(config.DefaultNaming())
	m = update(t, m, m.loadFile(filepath.Join(t.TempDir(), "missing.xlsx"))())

	require.Equal(t, stateError, m.state)
	var readErr *converter.ReadError
	assert.True(t, errors.As(m.err, &readErr))
}

func TestColumnOverrideKeys(t *testing.T) {
	m := InitialModel(config.DefaultNaming())
	m = update(t, m, fileLoadedMsg{
		data:    &types.Dataset{Headers: []string{"x", "Angle", "Counts", "Temp"}},
		columns: types.Columns{Angle: 1, Intensity: 2},
	})

	m = update(t, m, key("j"))
	m = update(t, m, key("j"))
	assert.Equal(t, 3, m.cursor)
	m = update(t, m, key("j"))
	assert.Equal(t, 3, m.cursor)

	m = update(t, m, key("i"))
	assert.Equal(t, types.Columns{Angle: 1, Intensity: 3}, m.columns)

	m = update(t, m, key("k"))
	m = update(t, m, key("k"))
	m = update(t, m, key("k"))
	m = update(t, m, key("a"))
	assert.Equal(t, types.Columns{Angle: 0, Intensity: 3}, m.columns)

	m = update(t, m, key("r"))
	assert.Equal(t, types.Columns{Angle: 1, Intensity: 2}, m.columns)
}

func TestConversionComplete(t *testing.T) {
	m := InitialModel(config.DefaultNaming())
	m.state = stateProcessing

	result := &types.WorkflowResult{
		InputFile: "scan.xlsx",
		TextFile:  "scan.txt",
		XYFile:    "scan.xy",
		Series: &types.Series{
			AngleColumn:     "2Theta",
			IntensityColumn: "Counts",
			Angles:          []string{"10.0", "10.5"},
			Intensities:     []string{"120", "135"},
		},
	}
	m = update(t, m, conversionCompleteMsg{result: result})

	require.Equal(t, stateComplete, m.state)
	require.NotNil(t, m.summary)
	assert.Equal(t, 2, m.summary.Points)

	view := m.View()
	assert.Contains(t, view, "scan.txt")
	assert.Contains(t, view, "scan.xy")
	assert.Contains(t, view, "2Theta / Counts")
}

func TestConversionFailed(t *testing.T) {
	m := InitialModel(config.DefaultNaming())
	m.state = stateProcessing

	m = update(t, m, conversionCompleteMsg{err: errors.New("boom")})
	require.Equal(t, stateError, m.state)
	assert.Contains(t, m.View(), "boom")
}

func TestWaitForProgress(t *testing.T) {
	progressChan := make(chan float64, 2)
	resultChan := make(chan conversionResultMsg, 1)

	progressChan <- 0.5
	resultChan <- conversionResultMsg{result: &types.WorkflowResult{XYFile: "scan.xy"}}
	close(progressChan)
	close(resultChan)

	msg := waitForProgress(progressChan, resultChan)()
	assert.Equal(t, progressMsg(0.5), msg)

	msg = waitForProgress(progressChan, resultChan)()
	done, ok := msg.(conversionCompleteMsg)
	require.True(t, ok)
	assert.Equal(t, "scan.xy", done.result.XYFile)

	assert.Nil(t, waitForProgress(nil, nil)())
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.xy", truncatePath("short.xy", 30))
	assert.Equal(t, "...7890", truncatePath("1234567890", 7))
}
