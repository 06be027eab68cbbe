package transform

import (
	"testing"

	"modelshare/testutil"
)

func TestGeometryHasNoStorageDependency(t *testing.T) {
	testutil.AssertNoTransitiveDependency(t, ".", testutil.AnyOf(testutil.InfraImportForbidden, testutil.StorageSDKForbidden),
		"transform is pure geometry")
}
