// Package version reports build version information.
//
// Version, commit and build time may be set at compile time via -ldflags;
// anything left empty is filled from the binary's embedded build info:
//
//	go build -ldflags "-X github.com/kbukum/wirekit/version.Version=1.0.0"
package version
