//go:build windows

package proc

import "os/exec"

// setProcessGroup is a no-op on Windows: the default cancellation kills
// the direct child, and WaitDelay bounds the pipe drain.
func setProcessGroup(cmd *exec.Cmd) {}
