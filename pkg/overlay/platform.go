// SPDX-License-Identifier: AGPL-3.0-or-later
package overlay

import (
	"errors"
	"os"
	"runtime"
)

// ErrFeatureDisabled is returned when overlay support has not been enabled
// for this application.
var ErrFeatureDisabled = errors.New("overlay step support is not enabled")

// ErrRequiresLinux is returned when an overlay step is attempted on a
// non-Linux host; overlayfs is a Linux kernel feature.
var ErrRequiresLinux = errors.New("overlay steps require a Linux host")

// ErrRequiresRoot is returned when an overlay step is attempted without
// the privileges needed to mount a filesystem.
var ErrRequiresRoot = errors.New("overlay steps require root privileges")

// PlatformChecker reports whether the current process can mount an
// overlay filesystem. It is an interface so tests can exercise the
// gating logic in LifecycleManager without actually requiring root on a
// Linux CI runner.
type PlatformChecker interface {
	IsLinux() bool
	IsRoot() bool
}

// HostPlatformChecker is the real PlatformChecker, backed by runtime.GOOS
// and os.Geteuid.
type HostPlatformChecker struct{}

// IsLinux reports whether the host OS is Linux.
func (HostPlatformChecker) IsLinux() bool { return runtime.GOOS == "linux" }

// IsRoot reports whether the process is running as the superuser.
func (HostPlatformChecker) IsRoot() bool { return os.Geteuid() == 0 }

// EnsureSupported validates that overlay steps can run in this
// environment: the feature must be enabled by the caller, the host must
// be Linux, and the process must be root.
func EnsureSupported(enabled bool, checker PlatformChecker) error {
	if !enabled {
		return ErrFeatureDisabled
	}
	if !checker.IsLinux() {
		return ErrRequiresLinux
	}
	if !checker.IsRoot() {
		return ErrRequiresRoot
	}
	return nil
}
