//go:build !unix

package gateways

// checkExecutePermission is a no-op where execute permission is not a file
// mode bit; the version query reports unusable files instead
func checkExecutePermission(_ string) error {
	return nil
}
