// Package config defines deployment settings shared by the sdb binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the installation directory, service identity and
// interpreter used when provisioning a host. The settings file is optional:
// when it is absent, compiled-in defaults apply.
package config
