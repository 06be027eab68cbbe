package main

import (
	"testing"

	"modelshare/testutil"
)

func TestCommandsUseFacades(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "drivers are chosen by blob.Open and cache.Open")
}
