// Package storage fetches interferogram images from HTTP endpoints, Azure
// blob storage or the local filesystem.
package storage

import (
	// Capture software on the bench exports PNG or JPEG; older frame
	// grabbers write BMP or TIFF. Register all four decoders so any source
	// can hand image.Decode a supported format.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)
