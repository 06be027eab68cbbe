package blob

import (
	"modelshare/internal/infra/blob/fs"
)

// NewFilesystem constructs a filesystem-backed blob.Store rooted at the provided path.
// baseURL prefixes reported object URLs; empty selects http://local.blob.
// Returns blob.Store to encourage call sites to depend on the interface instead of
// concrete implementations.
func NewFilesystem(root, baseURL string) (Store, error) {
	return fs.NewWithBaseURL(root, baseURL)
}
