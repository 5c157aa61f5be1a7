package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Formats accepted by SaveSnapshot.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// SnapshotOptions describes one exported image.
type SnapshotOptions struct {
	Path   string
	Format string // "svg" or "png"; empty infers from the Path extension
	Ruler  Ruler
	Height int
}

// SaveSnapshot renders the ruler and writes it to opts.Path.
func SaveSnapshot(opts SnapshotOptions) error {
	format, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		err = WriteSVG(&buf, opts.Ruler, opts.Height)
	case FormatPNG:
		err = WritePNG(&buf, opts.Ruler, opts.Height)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func resolveFormat(format, path string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch strings.ToLower(format) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q (want svg or png)", format)
	}
}
