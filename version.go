package mgmt

// Version is the current version of the go-mgmtbridge library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Protocol is the management protocol the codec speaks
	Protocol string
	// Tags is the number of element kinds in the tag vocabulary
	Tags int
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:  Version,
		Protocol: "open-type/tabular-string",
		Tags:     len(kindsByName),
	}
}
