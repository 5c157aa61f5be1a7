package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/distance_picker/pkg/config"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the configuration interactively",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.Load(configPath)
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		if path == "" {
			path = "(defaults)"
		}
		fmt.Printf("# %s\n%s", path, data)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// configTarget is the file the editor writes: --config, the file that was
// loaded, or the per-user one.
func configTarget(loaded string) string {
	switch {
	case configPath != "":
		return configPath
	case loaded != "":
		return loaded
	}
	return filepath.Join(config.ConfigDir(), config.FileName)
}

// formatMarks renders marks the way parseMarks reads them back.
func formatMarks(marks []config.MarkValue) string {
	parts := make([]string, len(marks))
	for i, m := range marks {
		if units.IsInfinite(float64(m)) {
			parts[i] = units.InfinityGlyph
			continue
		}
		parts[i] = strconv.FormatFloat(float64(m), 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// parseMarks reads a comma separated list through the YAML mark decoder,
// so "inf" and "∞" are accepted like in the config file.
func parseMarks(s string) ([]config.MarkValue, error) {
	var out []config.MarkValue
	if err := yaml.Unmarshal([]byte("["+s+"]"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("config editor needs a terminal, use `dp config show`")
	}
	cfg, loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	target := configTarget(loaded)

	marksText := formatMarks(cfg.Marks)
	unitChoice := "locale"
	if cfg.UseMetricSystem != nil {
		unitChoice = "imperial"
		if *cfg.UseMetricSystem {
			unitChoice = "metric"
		}
	}
	spacing := strconv.FormatFloat(cfg.MarkSpacing, 'f', -1, 64)
	increments := strconv.Itoa(cfg.IncrementsPerMark)
	driver := cfg.History.Driver
	keepHistory := !cfg.History.Disabled

	positive := func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || v <= 0 {
			return errors.New("enter a positive number")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Marks").
				Description("Increasing distances, ending with ∞. Meters, or thousandths of a mile in imperial mode.").
				Value(&marksText).
				Validate(func(s string) error {
					m, err := parseMarks(s)
					if err != nil {
						return err
					}
					c := cfg
					c.Marks = m
					return c.Validate()
				}),
			huh.NewSelect[string]().
				Title("Units").
				Options(
					huh.NewOption("Follow the locale", "locale"),
					huh.NewOption("Metric", "metric"),
					huh.NewOption("Imperial", "imperial"),
				).
				Value(&unitChoice),
		),
		huh.NewGroup(
			huh.NewInput().Title("Mark spacing").Value(&spacing).Validate(positive),
			huh.NewInput().
				Title("Increments per mark").
				Value(&increments).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return errors.New("enter a whole number of at least 1")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Record selections in the history?").Value(&keepHistory),
			huh.NewSelect[string]().
				Title("SQLite driver").
				Options(
					huh.NewOption("Pure Go (modernc.org/sqlite)", config.DriverPure),
					huh.NewOption("cgo (mattn/go-sqlite3)", config.DriverCGO),
				).
				Value(&driver),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	if cfg.Marks, err = parseMarks(marksText); err != nil {
		return err
	}
	switch unitChoice {
	case "metric", "imperial":
		metric := unitChoice == "metric"
		cfg.UseMetricSystem = &metric
	default:
		cfg.UseMetricSystem = nil
	}
	cfg.MarkSpacing, _ = strconv.ParseFloat(strings.TrimSpace(spacing), 64)
	cfg.IncrementsPerMark, _ = strconv.Atoi(strings.TrimSpace(increments))
	cfg.History.Driver = driver
	cfg.History.Disabled = !keepHistory

	if err := config.Save(target, cfg); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", target)
	return nil
}
