package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
)

// Build metadata, injected from main via SetVersionInfo.
var (
	AppVersion   = "dev"
	AppCommit    = "unknown"
	AppBuildDate = "unknown"
)

// SetVersionInfo records the ldflags build metadata for the handler.
func SetVersionInfo(version, commit, buildDate string) {
	AppVersion = version
	AppCommit = commit
	AppBuildDate = buildDate
}

// VersionResponse describes the running binary and its environment.
type VersionResponse struct {
	App struct {
		Name      string `json:"name"`
		Version   string `json:"version"`
		Commit    string `json:"git_commit"`
		BuildDate string `json:"build_date"`
		GoVersion string `json:"go_version,omitempty"`
	} `json:"app"`
	Dependencies struct {
		Gofulmen string `json:"gofulmen"`
		Crucible string `json:"crucible"`
	} `json:"dependencies"`
	Runtime struct {
		Platform      string `json:"platform"`
		NumCPU        int    `json:"num_cpu"`
		NumGoroutines int    `json:"num_goroutines"`
	} `json:"runtime"`
}

// VersionHandler serves build and runtime metadata.
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	var resp VersionResponse

	resp.App.Name = "voidrunner"
	if len(os.Args) > 0 && os.Args[0] != "" {
		resp.App.Name = filepath.Base(os.Args[0])
	}
	resp.App.Version = AppVersion
	resp.App.Commit = AppCommit
	resp.App.BuildDate = AppBuildDate
	resp.App.GoVersion = runtime.Version()

	deps := crucible.GetVersion()
	resp.Dependencies.Gofulmen = deps.Gofulmen
	resp.Dependencies.Crucible = deps.Crucible

	resp.Runtime.Platform = runtime.GOOS + "/" + runtime.GOARCH
	resp.Runtime.NumCPU = runtime.NumCPU()
	resp.Runtime.NumGoroutines = runtime.NumGoroutine()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
