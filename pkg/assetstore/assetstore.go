// Package assetstore provides object storage for user-uploaded media.
// Files are uploaded from a local path and addressed by public URL
// afterwards.
package assetstore

import "context"

// UploadParams describes where an uploaded object lives in the store.
type UploadParams struct {
	// PublicID is the deterministic identifier, usually derived from
	// the source file's name without its extension.
	PublicID string
	// Folder is the logical prefix scoping the object.
	Folder string
	// Kind is the resource kind requested from the store, e.g. "image".
	Kind string
}

// Store uploads local files to external object storage.
type Store interface {
	// Upload stores the file at localPath under the given params and
	// returns its public URL.
	Upload(ctx context.Context, localPath string, params UploadParams) (string, error)
}
