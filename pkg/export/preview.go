package export

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DefaultPreviewPort is the first port tried by the preview server.
const DefaultPreviewPort = 9000

// PreviewPortRange defines the range of ports to try if default is unavailable.
const PreviewPortRangeStart = 9000
const PreviewPortRangeEnd = 9100

// FrameSource returns the ruler to draw for a preview request.
type FrameSource func() Ruler

// PreviewServer serves the live ruler as SVG and PNG, plus a page that
// reloads the image, so the picker can be watched from a browser.
type PreviewServer struct {
	frames  FrameSource
	port    int
	server  *http.Server
	started time.Time
}

// NewPreviewServer creates a preview server drawing frames.
func NewPreviewServer(frames FrameSource, port int) *PreviewServer {
	return &PreviewServer{
		frames: frames,
		port:   port,
	}
}

var previewPage = template.Must(template.New("preview").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="margin:2em;font-family:sans-serif">
<img id="ruler" src="/ruler.svg" alt="ruler">
<script>
setInterval(function () {
	document.getElementById("ruler").src = "/ruler.svg?t=" + Date.now();
}, {{.RefreshMillis}});
</script>
</body>
</html>
`))

// Handler returns the preview routes.
func (p *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.pageHandler)
	mux.HandleFunc("/ruler.svg", p.imageHandler(FormatSVG))
	mux.HandleFunc("/ruler.png", p.imageHandler(FormatPNG))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return noCacheMiddleware(mux)
}

// Start serves until Stop is called.
func (p *PreviewServer) Start() error {
	p.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", p.port),
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	p.started = time.Now()
	return p.server.ListenAndServe()
}

// Run serves until ctx is done, then shuts down gracefully.
func (p *PreviewServer) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := p.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return p.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

func (p *PreviewServer) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	title := p.frames().Title
	if title == "" {
		title = "distance picker"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	previewPage.Execute(w, struct {
		Title         string
		RefreshMillis int
	}{title, 500})
}

func (p *PreviewServer) imageHandler(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		height := DefaultHeight
		if h, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil && h > 0 && h <= 1024 {
			height = h
		}

		var err error
		switch format {
		case FormatSVG:
			w.Header().Set("Content-Type", "image/svg+xml")
			err = WriteSVG(w, p.frames(), height)
		case FormatPNG:
			w.Header().Set("Content-Type", "image/png")
			err = WritePNG(w, p.frames(), height)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
	}
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	frame := p.frames()
	status := struct {
		Status   string  `json:"status"`
		Port     int     `json:"port"`
		Selected int     `json:"selected_mark"`
		Value    string  `json:"value"`
		Width    float64 `json:"width"`
		Uptime   string  `json:"uptime,omitempty"`
	}{
		Status:   "running",
		Port:     p.port,
		Selected: frame.Selected,
		Value:    frame.Value,
		Width:    frame.Snapshot.Width,
	}
	if !p.started.IsZero() {
		status.Uptime = time.Since(p.started).Round(time.Second).String()
	}
	json.NewEncoder(w).Encode(status)
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}
