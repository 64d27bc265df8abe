// Package sysinstall implements the privileged system installer: it
// provisions the dedicated service account, materializes the installation
// tree with the mandatory layout and permission profile, builds the isolated
// runtime and registers the application as a supervised systemd service.
package sysinstall
