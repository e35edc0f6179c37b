package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/xrdconv/internal/types"

	"github.com/xuri/excelize/v2"
)

var errEmptyFile = errors.New("empty file")

// ReadFileData loads a spreadsheet (.xlsx, .xlsm or .csv) into a Dataset.
// For workbooks the first sheet is used.
func ReadFileData(filePath string) (*types.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return readCSVData(filePath)
	case ".xlsx", ".xlsm":
		return readXLSXData(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}

func readCSVData(filePath string) (*types.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return buildDataset(records)
}

func readXLSXData(filePath string) (*types.Dataset, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep the stored number instead of its display format.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	return buildDataset(rows)
}

// buildDataset takes the first non-blank row as the header and squares up
// the remaining rows to the widest row.
func buildDataset(rows [][]string) (*types.Dataset, error) {
	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, errEmptyFile
	}

	width := 0
	for _, row := range rows[headerRowIdx:] {
		width = max(width, len(row))
	}

	headers := make([]string, width)
	for i := range headers {
		if i < len(rows[headerRowIdx]) {
			headers[i] = strings.TrimSpace(rows[headerRowIdx][i])
		}
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	data := make([][]string, 0, len(rows)-headerRowIdx-1)
	for _, row := range rows[headerRowIdx+1:] {
		padded := make([]string, width)
		copy(padded, row)
		data = append(data, padded)
	}

	return &types.Dataset{
		Headers:   headers,
		Rows:      data,
		HeaderRow: headerRowIdx,
	}, nil
}

// findHeaderRow returns the index of the first row with a non-blank cell.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return i
			}
		}
	}
	return -1
}

// readTextSeries parses a headerless two-column tab-separated file.
func readTextSeries(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errEmptyFile
	}

	return records, nil
}
