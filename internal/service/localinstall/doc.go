// Package localinstall implements the unprivileged installer: it unpacks a
// release archive into a working copy, provisions the same isolated runtime
// and permission profile as the system installer, and leaves the service to
// be started manually.
package localinstall
