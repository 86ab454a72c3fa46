// Package config defines the typed configuration of the bring-up composer:
// which packages provide the simulator, mapping and navigation stacks, the
// world argument, the fixed node parameters and the navigation includes.
//
// Default returns the built-in session. Load overlays an optional HCL file
// on top of it, so a site can retarget package names or navigation includes
// without touching code. Nothing here reads global state; the composer
// receives a Config value explicitly.
package config
