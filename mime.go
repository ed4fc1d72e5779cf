package main

import (
	"mime"

	log "github.com/sirupsen/logrus"
	mimedb "gitlab.com/gitlab-org/go-mimedb"
)

// extraMIMETypes are produced by front-end builds but missing from older
// system tables
var extraMIMETypes = map[string]string{
	".avif":        "image/avif",
	".mjs":         "text/javascript; charset=utf-8",
	".wasm":        "application/wasm",
	".webmanifest": "application/manifest+json",
}

// loadMIMETypes extends the mime table with the MIME database and
// extraMIMETypes. The extra types are added even when the database fails.
func loadMIMETypes() error {
	err := mimedb.LoadTypes()

	for ext, mimeType := range extraMIMETypes {
		if err := mime.AddExtensionType(ext, mimeType); err != nil {
			log.WithError(err).Errorf("failed to add extension: %q with MIME type: %q", ext, mimeType)
		}
	}

	return err
}
