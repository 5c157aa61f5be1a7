// Package host wires a picker to the configuration, the saved state and
// the selection history. Both the terminal and the desktop front ends run
// on top of it.
package host

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Dicklesworthstone/distance_picker/pkg/config"
	"github.com/Dicklesworthstone/distance_picker/pkg/geometry"
	"github.com/Dicklesworthstone/distance_picker/pkg/history"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
	"github.com/Dicklesworthstone/distance_picker/pkg/state"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

// Options configures Open.
type Options struct {
	Name       string // recorded as the history session host
	ConfigPath string // empty searches config.SearchPaths
	StatePath  string // empty disables state persistence
	NoHistory  bool
	Logger     logrus.FieldLogger

	// LocaleMetric overrides units.SystemPrefersMetric. Tests set it.
	LocaleMetric *bool
}

// Host owns everything a front end needs besides drawing.
type Host struct {
	Config     config.Config
	ConfigPath string
	Picker     *picker.Picker
	State      *state.Manager
	Recorder   *history.Recorder

	logger       logrus.FieldLogger
	localeMetric bool
	// unitOverride is the unit system the user picked, nil when the file
	// or the locale decides.
	unitOverride *bool
}

// Open loads the configuration, restores the saved state into a new
// picker and opens the history database. A history database that cannot
// be opened is logged and skipped.
func Open(opts Options, pickerOpts ...picker.Option) (*Host, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	h := &Host{
		logger:       opts.Logger,
		localeMetric: units.SystemPrefersMetric(),
	}
	if opts.LocaleMetric != nil {
		h.localeMetric = *opts.LocaleMetric
	}

	cfg, path, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	h.Config = cfg
	h.ConfigPath = path

	h.State = state.NewManager(opts.StatePath)
	if err := h.State.Load(); err != nil {
		h.logger.WithError(err).Warn("ignoring unreadable state file")
		h.State.Reset()
	}
	if s, ok := h.State.Get(); ok {
		h.unitOverride = s.UseMetricSystem
	}

	pickerOpts = append([]picker.Option{picker.WithWidth(geometry.ReferenceWidth)}, pickerOpts...)
	p, err := picker.New(h.pickerConfig(cfg), pickerOpts...)
	if err != nil {
		return nil, fmt.Errorf("create picker: %w", err)
	}
	h.Picker = p
	if s, ok := h.State.Get(); ok {
		p.SetNormalizedOffset(s.NormalizedOffset)
	}

	if !opts.NoHistory && !cfg.History.Disabled {
		rec, err := history.NewRecorder(cfg.History.Driver, cfg.History.Path)
		if err != nil {
			h.logger.WithError(err).WithField("path", cfg.History.Path).Warn("history disabled")
		} else {
			h.Recorder = rec
			if err := rec.StartSession(opts.Name); err != nil {
				h.logger.WithError(err).Warn("history session not started")
			}
		}
	}
	return h, nil
}

// pickerConfig resolves the unit system: a saved toggle wins over the
// file, which wins over the locale.
func (h *Host) pickerConfig(cfg config.Config) picker.Config {
	pc := cfg.Picker(h.localeMetric)
	if h.unitOverride != nil {
		pc.UseMetricSystem = *h.unitOverride
	}
	return pc
}

// SetUsesMetricSystem switches the picker's units on the user's behalf.
// The choice is saved and wins over the file and the locale from then on.
// Call it from the UI thread.
func (h *Host) SetUsesMetricSystem(useMetric bool) {
	h.Picker.SetUsesMetricSystem(useMetric)
	h.unitOverride = &useMetric
}

// UnitsOverridden reports whether the user picked the unit system.
func (h *Host) UnitsOverridden() bool {
	return h.unitOverride != nil
}

// Reload re-reads the configuration file the host was opened with and
// returns the picker configuration it yields. It may run on any goroutine:
// the picker is not touched, front ends apply the result on their UI
// thread.
func (h *Host) Reload() (picker.Config, error) {
	if h.ConfigPath == "" {
		return picker.Config{}, errors.New("no config file to reload")
	}
	cfg, err := config.LoadFile(h.ConfigPath)
	if err != nil {
		return picker.Config{}, err
	}
	return cfg.Picker(h.localeMetric), nil
}

// Selection describes the picker's current selection for the history.
func (h *Host) Selection(source string) history.Selection {
	p := h.Picker
	s := history.Selection{
		Unbounded: p.IsUnbounded(),
		Label:     p.SelectedLabel(),
		MarkIndex: p.SelectedMarkIndex(),
		Metric:    p.Table().UsesMetric(),
		Source:    source,
	}
	if !s.Unbounded {
		s.Meters = p.SelectedMeters()
	}
	return s
}

// Settle records sel and saves the picker position. Both steps are
// attempted, the first error is returned.
func (h *Host) Settle(sel history.Selection) error {
	h.State.Update(h.Picker.NormalizedOffset(), h.unitOverride, sel.Label)
	var errs []error
	if err := h.State.Save(); err != nil {
		errs = append(errs, fmt.Errorf("save state: %w", err))
	}
	if h.Recorder != nil {
		if err := h.Recorder.Record(sel); err != nil {
			errs = append(errs, fmt.Errorf("record selection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close saves the final position and closes the history.
func (h *Host) Close() error {
	h.State.Update(h.Picker.NormalizedOffset(), h.unitOverride, h.Picker.SelectedLabel())
	var errs []error
	if h.State.IsDirty() {
		if err := h.State.Save(); err != nil {
			errs = append(errs, fmt.Errorf("save state: %w", err))
		}
	}
	if h.Recorder != nil {
		if err := h.Recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close history: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Hostname names the session host, falling back to prefix alone.
func Hostname(prefix string) string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return prefix
	}
	return prefix + "@" + name
}
