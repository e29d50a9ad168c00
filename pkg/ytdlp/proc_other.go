//go:build !unix

package ytdlp

import "os/exec"

// killGroup is a no-op, the default cancel kills the direct process and WaitDelay releases the pipes
func killGroup(*exec.Cmd) {}
