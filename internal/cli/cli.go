package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nconklindev/xrdconv/internal/config"
	"github.com/nconklindev/xrdconv/internal/converter"
	"github.com/nconklindev/xrdconv/internal/summary"
	"github.com/nconklindev/xrdconv/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary at release time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type options struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the xrdconv command tree. Without a subcommand it
// starts the interactive file picker.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "xrdconv",
		Short: "Convert diffraction spreadsheets to txt and xy files",
		Long: `xrdconv extracts the angle and intensity columns of a diffraction
spreadsheet (.xlsx, .xlsm or .csv) into a tab-separated .txt file and
re-serializes that file as an .xy file.

Run without arguments to pick a file interactively.`,
		Version:       fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", info.Version, info.Commit, info.Date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			p := tea.NewProgram(ui.InitialModel(cfg.Naming), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}
	root.SetVersionTemplate("xrdconv {{.Version}}\n")

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to "+config.FileName)
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log debug details")

	root.AddCommand(
		newTextCmd(opts),
		newXYCmd(opts),
		newRunCmd(opts),
	)

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(info BuildInfo) {
	if err := NewRootCommand(info).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newTextCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "txt <spreadsheet>",
		Short: "Convert a spreadsheet to a two-column tab-separated .txt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.converter(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			path, err := c.ToText(args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input with .txt extension)")

	return cmd
}

func newXYCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "xy <text-file>",
		Short: "Convert a two-column .txt file to an .xy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.converter(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			path, err := c.ToXY(args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input with .xy extension)")

	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <spreadsheet>",
		Short: "Convert a spreadsheet to .txt and then to .xy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.converter(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := c.Run(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nConversion Complete!")
			for _, key := range []string{"input_file", "txt_file", "xy_file"} {
				fmt.Fprintf(out, "%s: %s\n", key, result.Paths()[key])
			}

			// Text columns have no numeric summary.
			if s, err := summary.Summarize(result.Series); err == nil {
				fmt.Fprintf(out, "\n%s", s)
			}
			return nil
		},
	}
}

// converter loads the config and builds a Converter logging to w.
func (o *options) converter(w io.Writer) (*converter.Converter, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return converter.New(
		converter.WithNaming(cfg.Naming),
		converter.WithLogger(logger),
	), nil
}
