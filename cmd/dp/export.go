package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/distance_picker/pkg/config"
	"github.com/Dicklesworthstone/distance_picker/pkg/export"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
	"github.com/Dicklesworthstone/distance_picker/pkg/watcher"
)

var (
	exportMark   int
	exportWidth  float64
	exportHeight int
	exportFormat string
	exportUnits  string
	exportTitle  string
	exportServe  bool
	exportPort   int
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Render the ruler to SVG or PNG",
	Long: `Render the ruler at a mark to an SVG or PNG file.

With --serve the ruler is served over HTTP instead, and re-rendered when
the config file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.IntVar(&exportMark, "mark", 0, "mark index under the head")
	f.Float64Var(&exportWidth, "width", 600, "image width in pixels")
	f.IntVar(&exportHeight, "height", export.DefaultHeight, "image height in pixels")
	f.StringVar(&exportFormat, "format", "", "svg or png (default: from the file extension)")
	f.StringVar(&exportUnits, "units", "", "metric or imperial")
	f.StringVar(&exportTitle, "title", "Distance Picker", "SVG title")
	f.BoolVar(&exportServe, "serve", false, "serve a live preview over HTTP")
	f.IntVar(&exportPort, "port", 0, "preview port (default: first free from 9000)")
	rootCmd.AddCommand(exportCmd)
}

func exportPicker() (*picker.Picker, error) {
	p, _, err := loadPicker(exportUnits)
	if err != nil {
		return nil, err
	}
	p.Resize(exportWidth)
	p.JumpToMark(exportMark)
	return p, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportWidth <= 0 {
		return fmt.Errorf("width must be positive, got %v", exportWidth)
	}
	if exportServe {
		return serveExport(cmd)
	}
	if len(args) == 0 {
		return fmt.Errorf("missing output file")
	}

	p, err := exportPicker()
	if err != nil {
		return err
	}
	err = export.SaveSnapshot(export.SnapshotOptions{
		Path:   args[0],
		Format: exportFormat,
		Ruler:  export.FromPicker(p, exportTitle),
		Height: exportHeight,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s)\n", args[0], p.SelectedLabel())
	return nil
}

// frameBox hands the latest rendered ruler from the reload goroutine to
// the HTTP handlers.
type frameBox struct {
	ch chan export.Ruler
}

func newFrameBox(r export.Ruler) *frameBox {
	b := &frameBox{ch: make(chan export.Ruler, 1)}
	b.ch <- r
	return b
}

func (b *frameBox) get() export.Ruler {
	r := <-b.ch
	b.ch <- r
	return r
}

func (b *frameBox) set(r export.Ruler) {
	<-b.ch
	b.ch <- r
}

func serveExport(cmd *cobra.Command) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := exportPicker()
	if err != nil {
		return err
	}
	frames := newFrameBox(export.FromPicker(p, exportTitle))

	port := exportPort
	if port == 0 {
		if port, err = export.FindAvailablePort(export.PreviewPortRangeStart, export.PreviewPortRangeEnd); err != nil {
			return err
		}
	}
	srv := export.NewPreviewServer(frames.get, port)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(ctx) })

	if _, path, err := config.Load(configPath); err == nil && path != "" {
		w, err := watcher.New(path, func() {
			next, err := exportPicker()
			if err != nil {
				logger.WithError(err).Warn("preview not refreshed")
				return
			}
			frames.set(export.FromPicker(next, exportTitle))
			logger.WithField("path", path).Info("preview refreshed")
		}, watcher.WithLogger(logger))
		if err != nil {
			logger.WithError(err).Warn("config watch disabled")
		} else {
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	fmt.Printf("Serving %s at %s (ctrl+c to stop)\n", p.SelectedLabel(), srv.URL())
	return g.Wait()
}
