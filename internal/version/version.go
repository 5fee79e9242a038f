// Package version provides version information for originprobe
package version

const (
	// Version is the current version of originprobe
	Version = "1.0.0"

	// AppName is the application name
	AppName = "originprobe"

	// Repository is the GitHub repository URL
	Repository = "https://github.com/jhaxce/originprobe"
)

// UserAgent is the default User-Agent sent with every probe
func UserAgent() string {
	return AppName + "/" + Version
}
