package export

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testFrames(t *testing.T) FrameSource {
	r := testRuler(t)
	return func() Ruler { return r }
}

func TestNewPreviewServer(t *testing.T) {
	server := NewPreviewServer(testFrames(t), 8080)
	if server.Port() != 8080 {
		t.Errorf("Expected Port() to return 8080, got %d", server.Port())
	}
	if server.URL() != "http://localhost:8080" {
		t.Errorf("Expected URL http://localhost:8080, got %s", server.URL())
	}
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	if err != nil {
		t.Errorf("FindAvailablePort failed: %v", err)
	}
	if port < 19000 || port > 19100 {
		t.Errorf("Port %d is outside expected range 19000-19100", port)
	}
}

func TestPreviewHandlerRoutes(t *testing.T) {
	ts := httptest.NewServer(NewPreviewServer(testFrames(t), 0).Handler())
	defer ts.Close()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", "/ruler.svg"},
		{"/ruler.svg", "image/svg+xml", "<svg"},
		{"/ruler.png?height=80", "image/png", "\x89PNG"},
		{"/__preview__/status", "application/json", `"status":"running"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if resp.Header.Get("Pragma") != "no-cache" {
				t.Errorf("Expected Pragma: no-cache, got %s", resp.Header.Get("Pragma"))
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestPreviewStatusReportsSelection(t *testing.T) {
	frames := testFrames(t)
	rec := httptest.NewRecorder()
	NewPreviewServer(frames, 0).Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/__preview__/status", nil))

	var status struct {
		Selected int    `json:"selected_mark"`
		Value    string `json:"value"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := frames()
	if status.Selected != want.Selected || status.Value != want.Value {
		t.Errorf("status = %+v, want selected %d value %q", status, want.Selected, want.Value)
	}
}

func TestPreviewUnknownPath(t *testing.T) {
	rec := httptest.NewRecorder()
	NewPreviewServer(testFrames(t), 0).Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNoCacheMiddlewareRejectsWrites(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Inner handler should not be called for POST")
	})
	rec := httptest.NewRecorder()
	noCacheMiddleware(inner).ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Expires") != "0" {
		t.Errorf("Expected Expires: 0, got %s", rec.Header().Get("Expires"))
	}
}

func TestPreviewServerRunAndStop(t *testing.T) {
	port, err := FindAvailablePort(19060, 19080)
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}
	server := NewPreviewServer(testFrames(t), port)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for server to start
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(server.URL() + "/ruler.svg")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	if err := server.Stop(); err != nil {
		t.Errorf("Failed to stop server: %v", err)
	}
	select {
	case err := <-errChan:
		t.Errorf("server error: %v", err)
	default:
	}
}
