// Package deploy contains the shared provisioning primitives used by the
// release builder and both installers: the fixed release manifest, the
// mandatory directory skeleton, archive packing and unpacking, the
// permission profile, runtime provisioning and service registration.
//
// Every installation entry point reproduces the same layout and permission
// contract through this package, so the three flows stay bit-compatible.
package deploy
