// Package app contains the core application logic. It wires configuration,
// package lookup, composition, rendering and publishing into one lifecycle,
// decoupled from any specific entrypoint like a CLI.
package app
