package startup

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"mosaic-gallery/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func printBanner() {
	fmt.Println(`
------------------------------------------------------------
    __  ___                 _
   /  |/  /___  _________ _(_)____
  / /|_/ / __ \/ ___/ __ '/ / ___/
 / /  / / /_/ (__  ) /_/ / / /__
/_/  /_/\____/____/\__,_/_/\___/   gallery

------------------------------------------------------------`)
	info := GetBuildInfo()
	logging.Info("  mosaic-gallery %s (%s, built %s)", info.Version, info.Commit, info.BuildTime)
	logging.Info("  Started %s", time.Now().Format(time.RFC1123))
}

// logSystemInfo reports the runtime and the CPU budget the render pool will
// be sized from.
func logSystemInfo() {
	section("SYSTEM INFORMATION")
	procs := runtime.GOMAXPROCS(0)
	logging.Info("  %s on %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs: %d available, GOMAXPROCS %d", runtime.NumCPU(), procs)
	if procs < runtime.NumCPU() {
		logging.Info("  Container CPU limit detected; render workers follow GOMAXPROCS")
	}

	if logging.IsDebugEnabled() {
		hostname, _ := os.Hostname()
		wd, _ := os.Getwd()
		logging.Debug("  Host %s, working dir %s", hostname, wd)
	}
}
