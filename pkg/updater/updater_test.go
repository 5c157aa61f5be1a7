package updater

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dicklesworthstone/distance_picker/pkg/version"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v0.1.0", "v0.1.0", 0},
		{"v0.1.1", "v0.1.0", 1},
		{"v0.2.0", "v0.10.0", -1},
		{"v1.0", "v1.0.0", 0},
		{"1.0.0", "v0.9.9", 1},
		{"v1.0.0-rc1", "v1.0.0", -1},
		{"v1.0.0", "v1.0.0-rc1", 1},
		{"v1.0.0-rc2", "v1.0.0-rc1", 1},
		{"v1.0.0-rc.10", "v1.0.0-rc.9", 1},
		{"v1.0.0+build5", "v1.0.0", 0},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.v1, tt.v2); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func releaseServer(t *testing.T, status int, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"tag_name": %q, "html_url": "https://example.com/%s"}`, tag, tag)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckForUpdatesNewer(t *testing.T) {
	old := version.Version
	version.Version = "v0.1.0"
	defer func() { version.Version = old }()

	srv := releaseServer(t, http.StatusOK, "v0.2.0")
	tag, url, err := CheckForUpdates(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if tag != "v0.2.0" || url != "https://example.com/v0.2.0" {
		t.Errorf("got %q %q", tag, url)
	}
}

func TestCheckForUpdatesCurrent(t *testing.T) {
	old := version.Version
	version.Version = "v0.2.0"
	defer func() { version.Version = old }()

	srv := releaseServer(t, http.StatusOK, "v0.2.0")
	tag, _, err := CheckForUpdates(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if tag != "" {
		t.Errorf("expected no update, got %q", tag)
	}
}

func TestCheckForUpdatesHTTPError(t *testing.T) {
	srv := releaseServer(t, http.StatusForbidden, "")
	if _, _, err := CheckForUpdates(context.Background(), srv.URL); err == nil {
		t.Error("expected an error for a 403")
	}
}

func TestCheckForUpdatesRejectsBadTag(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, "nightly")
	if _, _, err := CheckForUpdates(context.Background(), srv.URL); err == nil {
		t.Error("expected an error for a non-semver tag")
	}
}
