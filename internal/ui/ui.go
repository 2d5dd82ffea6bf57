// Package ui supplies the built admin console bundle that the asset
// registry is populated from at startup. The bundle itself is produced
// by the frontend build and checked in under dist/; this package only
// hands it over as an fs.FS.
package ui

// DistDirectoryPath is the path to the built console bundle from the
// project root, used by dev builds serving straight from disk.
const DistDirectoryPath = "internal/ui/dist"
