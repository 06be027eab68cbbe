// Package manifest turns model variants into deterministic storage keys,
// uploads them in order, and assembles the share manifests.
package manifest

import (
	"modelshare/internal/blob"
)

// Document names inside a project folder.
const (
	ShareDataName = "share-data.json"
	ARDataName    = "share-ar-data.json"
)

// ModelKey is projects/{project}/{name}.glb.
func ModelKey(project, name string) string { return blob.ProjectKey(project, name+".glb") }

// ARKey is projects/{project}/{name}.usdz.
func ARKey(project, name string) string { return blob.ProjectKey(project, name+".usdz") }

// PreviewKey is projects/{project}/{name}-preview.webp.
func PreviewKey(project, name string) string {
	return blob.ProjectKey(project, name+"-preview.webp")
}

func ShareDataKey(project string) string { return blob.ProjectKey(project, ShareDataName) }

func ARDataKey(project string) string { return blob.ProjectKey(project, ARDataName) }
