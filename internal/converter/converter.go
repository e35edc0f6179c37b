package converter

import (
	"encoding/csv"
	"log/slog"
	"os"

	"github.com/nconklindev/xrdconv/internal/config"
	"github.com/nconklindev/xrdconv/internal/types"
)

// Converter runs the spreadsheet -> text -> xy conversions. It holds no
// state between calls; a zero-option Converter uses the default naming and
// slog.Default().
type Converter struct {
	naming       config.Naming
	logger       *slog.Logger
	progressChan chan<- float64
}

type Option func(*Converter)

// WithNaming sets the extensions used for default output paths.
func WithNaming(n config.Naming) Option {
	return func(c *Converter) {
		c.naming = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithProgress reports row progress in [0, 1] on ch. Sends never block;
// updates are dropped when ch is full.
func WithProgress(ch chan<- float64) Option {
	return func(c *Converter) {
		c.progressChan = ch
	}
}

func New(opts ...Option) *Converter {
	c := &Converter{
		naming: config.DefaultNaming(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertToText converts a spreadsheet to the intermediate text file using
// the default Converter.
func ConvertToText(inputFile, outputFile string) (string, error) {
	return New().ToText(inputFile, outputFile)
}

// ConvertToXY converts an intermediate text file to an xy file using the
// default Converter.
func ConvertToXY(inputFile, outputFile string) (string, error) {
	return New().ToXY(inputFile, outputFile)
}

// RunWorkflow runs both stages on a spreadsheet using the default Converter.
func RunWorkflow(inputFile string) (*types.WorkflowResult, error) {
	return New().Run(inputFile)
}

// ToText writes the angle and intensity columns of inputFile as a
// headerless tab-separated file. An empty outputFile derives the path from
// inputFile. It returns the path written.
func (c *Converter) ToText(inputFile, outputFile string) (string, error) {
	outputFile, _, _, err := c.toText(inputFile, outputFile, nil)
	return outputFile, err
}

// ToTextWithColumns is ToText with an explicit column choice instead of the
// keyword heuristic.
func (c *Converter) ToTextWithColumns(inputFile, outputFile string, cols types.Columns) (string, error) {
	outputFile, _, _, err := c.toText(inputFile, outputFile, &cols)
	return outputFile, err
}

func (c *Converter) toText(inputFile, outputFile string, override *types.Columns) (string, types.Columns, *types.Series, error) {
	data, err := ReadFileData(inputFile)
	if err != nil {
		return "", types.Columns{}, nil, &ReadError{Stage: StageText, Path: inputFile, Err: err}
	}

	var cols types.Columns
	if override != nil {
		cols = *override
		err = CheckColumns(data.Headers, cols)
	} else {
		cols, err = ResolveColumns(data.Headers)
	}
	if err != nil {
		return "", types.Columns{}, nil, err
	}

	series := &types.Series{
		AngleColumn:     data.Headers[cols.Angle],
		IntensityColumn: data.Headers[cols.Intensity],
		Angles:          FormatColumn(data.Column(cols.Angle)),
		Intensities:     FormatColumn(data.Column(cols.Intensity)),
	}

	if outputFile == "" {
		outputFile = DefaultOutputPath(inputFile, c.naming.TextExt)
	}

	c.logger.Debug("resolved columns",
		"input", inputFile,
		"angle", series.AngleColumn,
		"intensity", series.IntensityColumn)

	if err := c.writeSeries(outputFile, series); err != nil {
		return "", types.Columns{}, nil, &WriteError{Stage: StageText, Path: outputFile, Err: err}
	}

	c.logger.Info("converted spreadsheet to text",
		"input", inputFile,
		"output", outputFile,
		"rows", series.Len())

	return outputFile, cols, series, nil
}

// ToXY re-serializes a two-column text file as an xy file. An empty
// outputFile derives the path from inputFile.
func (c *Converter) ToXY(inputFile, outputFile string) (string, error) {
	records, err := readTextSeries(inputFile)
	if err != nil {
		return "", &ReadError{Stage: StageXY, Path: inputFile, Err: err}
	}

	angles := make([]string, len(records))
	intensities := make([]string, len(records))
	for i, record := range records {
		angles[i] = record[0]
		intensities[i] = record[1]
	}

	series := &types.Series{
		AngleColumn:     "Angle",
		IntensityColumn: "Intensity",
		Angles:          FormatColumn(angles),
		Intensities:     FormatColumn(intensities),
	}

	if outputFile == "" {
		outputFile = DefaultOutputPath(inputFile, c.naming.XYExt)
	}

	if err := c.writeSeries(outputFile, series); err != nil {
		return "", &WriteError{Stage: StageXY, Path: outputFile, Err: err}
	}

	c.logger.Info("converted text to xy",
		"input", inputFile,
		"output", outputFile,
		"rows", series.Len())

	return outputFile, nil
}

// Run converts inputFile to text and then to xy with default naming.
// Files written before a failure are left in place.
func (c *Converter) Run(inputFile string) (*types.WorkflowResult, error) {
	return c.run(inputFile, nil)
}

// RunWithColumns is Run with an explicit column choice for the first stage.
func (c *Converter) RunWithColumns(inputFile string, cols types.Columns) (*types.WorkflowResult, error) {
	return c.run(inputFile, &cols)
}

func (c *Converter) run(inputFile string, override *types.Columns) (*types.WorkflowResult, error) {
	textFile, cols, series, err := c.toText(inputFile, "", override)
	if err != nil {
		return nil, err
	}

	xyFile, err := c.ToXY(textFile, "")
	if err != nil {
		return nil, err
	}

	result := &types.WorkflowResult{
		InputFile: inputFile,
		TextFile:  textFile,
		XYFile:    xyFile,
		Columns:   cols,
		Series:    series,
	}

	c.logger.Info("conversion complete",
		"input_file", result.InputFile,
		"txt_file", result.TextFile,
		"xy_file", result.XYFile)

	return result, nil
}

func (c *Converter) writeSeries(outputFile string, series *types.Series) error {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer outFile.Close()

	writer := csv.NewWriter(outFile)
	writer.Comma = '\t'

	totalRows := series.Len()
	for i := range totalRows {
		if err := writer.Write([]string{series.Angles[i], series.Intensities[i]}); err != nil {
			return err
		}
		c.reportProgress(i+1, totalRows)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return outFile.Close()
}

func (c *Converter) reportProgress(current, total int) {
	if c.progressChan == nil || total == 0 {
		return
	}
	select {
	case c.progressChan <- float64(current) / float64(total):
	default:
	}
}
