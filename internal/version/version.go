// ABOUTME: Version and product identification constants
// ABOUTME: Reported by the CLIs and used as the default application name
package version

const (
	// Version is the library release
	Version = "0.1.0"

	// Product is the module's product name
	Product = "pcaudio-go"
)
