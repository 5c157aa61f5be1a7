package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/Dicklesworthstone/distance_picker/pkg/gui"
	"github.com/Dicklesworthstone/distance_picker/pkg/host"
	"github.com/Dicklesworthstone/distance_picker/pkg/state"
)

// sourceButton marks selections made with the "Use this distance" button.
const sourceButton = "button"

type App struct {
	window     fyne.Window
	host       *host.Host
	ruler      *gui.Ruler
	valueLabel *widget.Label
	markLabel  *widget.Label
	statusLine *widget.Label
	logger     *logrus.Logger
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// An optional argument names the config file.
	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	h, err := host.Open(host.Options{
		Name:       host.Hostname("dp-gui"),
		ConfigPath: configPath,
		StatePath:  state.DefaultPath(),
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("Distance Picker")

	appInstance := &App{
		window: w,
		host:   h,
		logger: logger,
	}
	appInstance.setupMainUI()

	w.SetOnClosed(func() {
		if err := h.Close(); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	})
	w.Resize(fyne.NewSize(640, 220))
	w.ShowAndRun()
}

func (a *App) setupMainUI() {
	a.valueLabel = widget.NewLabel("")
	a.valueLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.markLabel = widget.NewLabel("")
	a.statusLine = widget.NewLabel("Drag the ruler, or use ←/→, [ ] and H/L once it has focus")
	a.statusLine.Wrapping = fyne.TextWrapWord

	a.ruler = gui.NewRuler(a.host.Picker)
	a.ruler.OnChanged = a.updateLabels
	a.ruler.OnSettled = func(source string) {
		a.settle(source)
	}

	p := a.host.Picker
	metricCheck := widget.NewCheck("Metric", func(checked bool) {
		if checked == p.Table().UsesMetric() {
			return
		}
		a.host.SetUsesMetricSystem(checked)
		a.ruler.Refresh()
		a.updateLabels()
	})
	metricCheck.SetChecked(p.Table().UsesMetric())

	useButton := widget.NewButton("Use this distance", func() {
		a.settle(sourceButton)
	})

	header := container.NewHBox(a.valueLabel, a.markLabel)
	controls := container.NewHBox(metricCheck, useButton)

	content := container.NewBorder(
		header,
		container.NewVBox(widget.NewSeparator(), controls, a.statusLine),
		nil,
		nil,
		a.ruler,
	)
	a.window.SetContent(content)
	a.window.Canvas().Focus(a.ruler)
	a.updateLabels()
}

func (a *App) updateLabels() {
	p := a.host.Picker
	a.valueLabel.SetText(p.SelectedLabel())
	a.markLabel.SetText(fmt.Sprintf("mark %s", p.SelectedFormattedMark()))
}

func (a *App) settle(source string) {
	sel := a.host.Selection(source)
	if err := a.host.Settle(sel); err != nil {
		a.logger.WithError(err).Warn("selection not saved")
		dialog.ShowError(fmt.Errorf("failed to save selection: %w", err), a.window)
		return
	}
	a.statusLine.SetText(fmt.Sprintf("Picked %s", sel.Label))
}
