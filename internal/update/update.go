// Package update compares the running CLI version against the latest
// published release.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/schemaforge/schemaforge/internal/ui"
)

const releaseURL = "https://api.github.com/repos/schemaforge/schemaforge/releases/latest"

// Check fetches the latest release tag and warns when the running version
// is behind. Network failures are treated as "no update information", not
// as errors.
func Check(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		// Dev builds carry no comparable version.
		return nil
	}

	latestTag, ok := fetchLatestTag()
	if !ok {
		return nil
	}
	latest, err := version.NewVersion(strings.TrimPrefix(latestTag, "v"))
	if err != nil {
		return nil
	}

	if current.LessThan(latest) {
		ui.PrintWarning("a newer version is available: %s (running %s)", latest, current)
		fmt.Println("update with: go install github.com/schemaforge/schemaforge/cmd/schemaforge@latest")
	}
	return nil
}

func fetchLatestTag() (string, bool) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(releaseURL)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		return "", false
	}
	defer resp.Body.Close()

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false
	}
	return release.TagName, release.TagName != ""
}
