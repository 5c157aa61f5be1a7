package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/Dicklesworthstone/distance_picker/pkg/version"
)

// ReleaseURL is the GitHub API endpoint of the latest release.
const ReleaseURL = "https://api.github.com/repos/Dicklesworthstone/distance_picker/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries url (ReleaseURL when empty) for the latest
// release. It returns the new tag and its page when the release is newer
// than the running build, empty strings otherwise.
func CheckForUpdates(ctx context.Context, url string) (string, string, error) {
	if url == "" {
		url = ReleaseURL
	}
	// Set a short timeout to avoid blocking the command for too long
	client := http.Client{
		Timeout: 2 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("decode release: %w", err)
	}

	if !semver.IsValid(canonical(rel.TagName)) {
		return "", "", fmt.Errorf("release tag %q is not a semantic version", rel.TagName)
	}
	if compareVersions(rel.TagName, version.Version) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// compareVersions orders two release tags by semantic version. The "v"
// prefix is optional.
func compareVersions(v1, v2 string) int {
	return semver.Compare(canonical(v1), canonical(v2))
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
