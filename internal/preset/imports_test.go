package preset

import (
	"testing"

	"modelshare/testutil"
)

func TestUsesStorageFacadesOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.AnyOf(testutil.InfraImportForbidden, testutil.StorageSDKForbidden),
		"preset talks to storage through internal/blob and internal/cache")
}
