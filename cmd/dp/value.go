package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/distance_picker/pkg/config"
	"github.com/Dicklesworthstone/distance_picker/pkg/geometry"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
	"github.com/Dicklesworthstone/distance_picker/pkg/state"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

var (
	valueMark       int
	valueOffset     float64
	valueNormalized float64
	valueNudge      int
	valueUnits      string
	valueRestore    bool
	valueJSON       bool
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Print the distance at a ruler position",
	Long: `Resolve a ruler position without opening the UI.

The position is the saved one with --restore, a mark index with --mark,
or an offset (--offset at the reference width, --normalized for a saved
value). --nudge then moves it by whole increments.`,
	Args: cobra.NoArgs,
	RunE: runValue,
}

func init() {
	f := valueCmd.Flags()
	f.IntVar(&valueMark, "mark", -1, "select mark index")
	f.Float64Var(&valueOffset, "offset", 0, "offset at the reference width")
	f.Float64Var(&valueNormalized, "normalized", 0, "normalized offset")
	f.IntVar(&valueNudge, "nudge", 0, "move by this many increments afterwards")
	f.StringVar(&valueUnits, "units", "", "metric or imperial (default: config, then locale)")
	f.BoolVar(&valueRestore, "restore", false, "start from the saved position")
	f.BoolVar(&valueJSON, "json", false, "print JSON")
	valueCmd.MarkFlagsMutuallyExclusive("mark", "offset", "normalized", "restore")
	rootCmd.AddCommand(valueCmd)
}

// valueResult is the JSON shape of `dp value`.
type valueResult struct {
	Label            string   `json:"label"`
	Meters           *float64 `json:"meters"` // null for ∞
	Unbounded        bool     `json:"unbounded"`
	MarkIndex        int      `json:"mark_index"`
	Mark             string   `json:"mark"`
	Metric           bool     `json:"metric"`
	NormalizedOffset float64  `json:"normalized_offset"`
}

// resolveUnits applies --units over the file and locale choices.
func resolveUnits(flag string, cfg config.Config) (bool, error) {
	switch flag {
	case "metric":
		return true, nil
	case "imperial":
		return false, nil
	case "":
		return cfg.Picker(units.SystemPrefersMetric()).UseMetricSystem, nil
	}
	return false, fmt.Errorf("unknown units %q (want metric or imperial)", flag)
}

// loadPicker builds a picker at the reference width from the config file.
func loadPicker(unitsFlag string) (*picker.Picker, config.Config, error) {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return nil, cfg, err
	}
	metric, err := resolveUnits(unitsFlag, cfg)
	if err != nil {
		return nil, cfg, err
	}
	pc := cfg.Picker(metric)
	pc.UseMetricSystem = metric
	p, err := picker.New(pc, picker.WithWidth(geometry.ReferenceWidth))
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}

func runValue(cmd *cobra.Command, args []string) error {
	p, _, err := loadPicker(valueUnits)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	switch {
	case valueRestore:
		m := state.NewManager(statePath)
		if err := m.Load(); err != nil {
			return fmt.Errorf("read state: %w", err)
		}
		if s, ok := m.Get(); ok {
			p.SetNormalizedOffset(s.NormalizedOffset)
			if s.UseMetricSystem != nil && valueUnits == "" {
				p.SetUsesMetricSystem(*s.UseMetricSystem)
			}
		}
	case flags.Changed("mark"):
		p.JumpToMark(valueMark)
	case flags.Changed("offset"):
		p.SetOffset(valueOffset)
	case flags.Changed("normalized"):
		p.SetNormalizedOffset(valueNormalized)
	}
	if valueNudge != 0 {
		p.Nudge(valueNudge)
	}

	res := resultFor(p)
	if valueJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if res.Unbounded {
		fmt.Printf("%s\tno limit\n", res.Label)
		return nil
	}
	fmt.Printf("%s\t%.0f m\n", res.Label, *res.Meters)
	return nil
}

func resultFor(p *picker.Picker) valueResult {
	res := valueResult{
		Label:            p.SelectedLabel(),
		Unbounded:        p.IsUnbounded(),
		MarkIndex:        p.SelectedMarkIndex(),
		Mark:             p.SelectedFormattedMark(),
		Metric:           p.Table().UsesMetric(),
		NormalizedOffset: p.NormalizedOffset(),
	}
	if !res.Unbounded {
		m := p.SelectedMeters()
		res.Meters = &m
	}
	return res
}
