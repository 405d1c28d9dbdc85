// Package version carries build metadata stamped via -ldflags, for example:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0 \
//	                   -X .../internal/version.Commit=$(git rev-parse --short HEAD)"
package version

var (
	// Version is the release tag, "dev" for untagged builds.
	Version = "dev"
	// Commit is the short git revision the binary was built from.
	Commit = "unknown"
	// Date is the UTC build timestamp.
	Date = "unknown"
)
