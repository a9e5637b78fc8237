// Package util holds small concurrency and process helpers shared across
// the skim engine, grounded on github.com/junegunn/fzf's src/util package.
package util

import (
	"os"
	"os/exec"
	"time"
)

// Min returns the smaller of two ints.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two ints.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Constrain clamps val to the closed interval [min, max].
func Constrain(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// DurWithin clamps a duration the same way Constrain clamps an int.
func DurWithin(val, min, max time.Duration) time.Duration {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ExecCommand builds a *exec.Cmd that runs command through $SHELL, falling
// back to sh when $SHELL is unset, the same shell-invocation contract the
// reader and action-execution code rely on.
func ExecCommand(command string) *exec.Cmd {
	shell := os.Getenv("SHELL")
	if len(shell) == 0 {
		shell = "sh"
	}
	return exec.Command(shell, "-c", command)
}
