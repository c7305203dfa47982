// indicator-lights drives a device's display backlight and RGB indicator
// LED from light requests received over HTTP.
package main

import "github.com/scheerer/indicator-lights/cmd"

// Set at build time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd.SetVersion(Version, BuildTime)
	cmd.Execute()
}
