package config

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X appinst/pkg/config.BuildVersion=...".
var (
	BuildVersion   = "dev"
	BuildTimestamp = "unknown"
)

// Version describes this build for --version.
func Version() string {
	return fmt.Sprintf("%s (built %s, %s, %s/%s)",
		BuildVersion, BuildTimestamp, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
