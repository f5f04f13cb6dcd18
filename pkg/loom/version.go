// Package loom exposes build-level metadata for the loom tool.
package loom

// Version is the loom release version.
const Version = "v0.1.0"
