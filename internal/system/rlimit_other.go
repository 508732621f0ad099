//go:build !unix

package system

// InitResourceLimits is a no-op where rlimits do not exist.
func InitResourceLimits() {}
