package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Sample", "2Theta", "Counts"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A", 10.0, 120}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"B", 10.5, 135}))
	require.NoError(t, f.SaveAs(path))
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// emptyConfig keeps a stray xrdconv.toml in the working directory out of the tests.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xrdconv.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "scan.xlsx")
	writeWorkbook(t, input)

	stdout, stderr, err := execute(t, "run", input, "--config", emptyConfig(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Conversion Complete!")
	assert.Contains(t, stdout, "input_file: "+input)
	assert.Contains(t, stdout, "txt_file: "+filepath.Join(tmpDir, "scan.txt"))
	assert.Contains(t, stdout, "xy_file: "+filepath.Join(tmpDir, "scan.xy"))
	assert.Contains(t, stdout, "points:         2")
	assert.Contains(t, stderr, "conversion complete")
	assert.FileExists(t, filepath.Join(tmpDir, "scan.xy"))
}

func TestTextAndXYCommands(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "scan.xlsx")
	textFile := filepath.Join(tmpDir, "out.txt")
	writeWorkbook(t, input)
	cfg := emptyConfig(t)

	stdout, _, err := execute(t, "txt", input, "-o", textFile, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, textFile+"\n", stdout)

	stdout, _, err = execute(t, "xy", textFile, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "out.xy")+"\n", stdout)

	data, err := os.ReadFile(filepath.Join(tmpDir, "out.xy"))
	require.NoError(t, err)
	assert.Equal(t, "10.0\t120\n10.5\t135\n", string(data))
}

func TestConfigNaming(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "scan.xlsx")
	writeWorkbook(t, input)

	cfg := filepath.Join(tmpDir, "custom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[naming]\ntext_ext = \".dat\"\n"), 0o644))

	stdout, _, err := execute(t, "txt", input, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "scan.dat")+"\n", stdout)
}

func TestCommandErrors(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := emptyConfig(t)

	_, _, err := execute(t, "run", filepath.Join(tmpDir, "missing.xlsx"), "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet to text")

	_, _, err = execute(t, "txt", "--config", cfg)
	assert.Error(t, err)

	_, _, err = execute(t, "run", "scan.xlsx", "--config", filepath.Join(tmpDir, "missing.toml"))
	assert.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "xrdconv 1.2.3\ncommit: abc\nbuilt: today\n", stdout)
}
