package ui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/xrdconv/internal/config"
	"github.com/nconklindev/xrdconv/internal/converter"
	"github.com/nconklindev/xrdconv/internal/summary"
	"github.com/nconklindev/xrdconv/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateColumnSelection
	stateProcessing
	stateComplete
	stateError
)

type Model struct {
	state        state
	naming       config.Naming
	filepicker   filepicker.Model
	selectedFile string
	fileData     *types.Dataset
	detected     types.Columns
	columns      types.Columns
	cursor       int
	result       *types.WorkflowResult
	summary      *summary.Summary
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.WorkflowResult
	err    error
}

type fileLoadedMsg struct {
	data    *types.Dataset
	columns types.Columns
	err     error
}

type conversionCompleteMsg struct {
	result *types.WorkflowResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(naming config.Naming) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".xlsm", ".csv"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accentColor)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(secondaryColor)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(secondaryColor)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(mutedColor)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(mutedColor)

	prog := progress.New(progress.WithGradient("#2E86DE", "#54A0FF"))

	return Model{
		state:      stateFilePicker,
		naming:     naming,
		filepicker: fp,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help line
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateColumnSelection:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.fileData.Headers)-1 {
					m.cursor++
				}
			case "a":
				m.columns.Angle = m.cursor
			case "i":
				m.columns.Intensity = m.cursor
			case "r":
				m.columns = m.detected
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.detected = msg.columns
		m.columns = msg.columns
		m.cursor = msg.columns.Angle
		m.state = stateColumnSelection
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		// Text columns have no numeric summary; the view then shows paths only.
		m.summary, _ = summary.Summarize(msg.result.Series)
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

// loadFile reads the spreadsheet and runs the keyword heuristic so the
// column view can start from the detected pair.
func (m Model) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := converter.ReadFileData(path)
		if err != nil {
			return fileLoadedMsg{err: &converter.ReadError{Stage: converter.StageText, Path: path, Err: err}}
		}
		cols, err := converter.ResolveColumns(data.Headers)
		return fileLoadedMsg{data: data, columns: cols, err: err}
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	// Capture for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	selectedFile := m.selectedFile
	columns := m.columns
	naming := m.naming

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				c := converter.New(
					converter.WithNaming(naming),
					converter.WithProgress(progressChan),
					// Log output would tear the alt screen.
					converter.WithLogger(slog.New(slog.DiscardHandler)),
				)
				result, err := c.RunWithColumns(selectedFile, columns)

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateColumnSelection:
		return m.viewColumnSelection()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("xrdconv - Diffraction Data Converter"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an XLSX, XLSM or CSV file to convert to .txt and .xy"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewColumnSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Angle and Intensity Columns"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s (%d rows)", filepath.Base(m.selectedFile), len(m.fileData.Rows))))
	s.WriteString("\n\n")

	if m.columns.Angle == m.columns.Intensity {
		s.WriteString(ErrorStyle.Render("! Angle and intensity use the same column"))
		s.WriteString("\n\n")
	}

	for i, header := range m.fileData.Headers {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		var roles []string
		if m.columns.Angle == i {
			roles = append(roles, "angle")
		}
		if m.columns.Intensity == i {
			roles = append(roles, "intensity")
		}

		line := fmt.Sprintf("%s %s", cursor, header)
		if len(roles) > 0 {
			line += " [" + strings.Join(roles, ", ") + "]"
		}
		if i == m.detected.Angle || i == m.detected.Intensity {
			line += " (detected)"
		}

		switch {
		case m.cursor == i:
			line = SelectedStyle.Render(line)
		case len(roles) > 0:
			line = CheckedStyle.Render(line)
		default:
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • a: set angle • i: set intensity • r: reset • enter: convert • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Processing..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Writing %s and %s files...", m.naming.TextExt, m.naming.XYExt))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input: %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("TXT:   %s", truncatePath(m.result.TextFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("XY:    %s", truncatePath(m.result.XYFile, maxPathLen))))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Columns: %s / %s\n", m.result.Series.AngleColumn, m.result.Series.IntensityColumn))

	if m.summary != nil {
		s.WriteString("\n")
		s.WriteString(m.summary.String())
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, maxLen int) string {
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}
