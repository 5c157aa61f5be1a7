package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/distance_picker/pkg/host"
	"github.com/Dicklesworthstone/distance_picker/pkg/state"
	"github.com/Dicklesworthstone/distance_picker/pkg/ui"
	"github.com/Dicklesworthstone/distance_picker/pkg/version"
	"github.com/Dicklesworthstone/distance_picker/pkg/watcher"
)

var (
	configPath string
	statePath  string
	logFile    string
	noHistory  bool
	noWatch    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dp",
	Short: "Pick a distance on a sliding ruler",
	Long: `dp shows a horizontal ruler of distance marks in the terminal.
Drag it with the mouse or move it with the keyboard, the value under the
head is the selected distance. The last mark, ∞, means no limit.

Selections are kept in a history database and the ruler reopens where you
left it.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPicker,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default: ./.dp/config.yaml, then ~/.config/dp/config.yaml)")
	flags.StringVar(&statePath, "state", state.DefaultPath(), "state file, empty to disable")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&noHistory, "no-history", false, "do not record selections")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file when it changes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger sends logs to --log-file. Without one they are dropped, the
// terminal belongs to the UI.
func newLogger() (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if logFile == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}

func openHost(name string, logger logrus.FieldLogger) (*host.Host, error) {
	return host.Open(host.Options{
		Name:       host.Hostname(name),
		ConfigPath: configPath,
		StatePath:  statePath,
		NoHistory:  noHistory,
		Logger:     logger,
	})
}

func runPicker(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("dp needs a terminal, use `dp value` in scripts")
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	h, err := openHost("dp", logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	}()

	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	model := ui.NewModel(h.Picker, theme, ui.Options{
		Logger: logger,
		OnSettle: func(s ui.Settlement) error {
			return h.Settle(h.Selection(s.Source))
		},
		OnUnitsChanged: h.SetUsesMetricSystem,
	})
	program := tea.NewProgram(ui.NewProgram(model), tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if !noWatch && h.ConfigPath != "" {
		w, err := watcher.New(h.ConfigPath, func() {
			pc, err := h.Reload()
			program.Send(ui.ConfigReloadedMsg{Config: pc, Err: err})
		}, watcher.WithLogger(logger))
		if err != nil {
			logger.WithError(err).Warn("config hot reload disabled")
		} else {
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	g.Go(func() error {
		defer stop()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		program.Quit()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run picker: %w", err)
	}
	return nil
}
