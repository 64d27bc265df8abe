// Package release implements the release builder: it assembles a versioned,
// filtered snapshot of the project source tree into a portable archive that
// both installers can consume.
package release
