// Package version reports the build version of folds binaries.
//
// Version and Commit can be set at link time:
//
//	go build -ldflags "-X github.com/kbukum/folds/version.Version=0.3.0" ./cmd/foldstat
//
// Without ldflags the VCS settings stamped by the Go toolchain are used.
package version
