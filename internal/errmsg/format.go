// Package errmsg turns failures into the one-line notices shown to the
// user.
package errmsg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Op names the action that failed, phrased to follow "Failed to".
type Op string

const (
	OpPlay Op = "play track"
	OpSeek Op = "seek"

	OpFolderOpen  Op = "open folder"
	OpFolderScan  Op = "rescan folder"
	OpFolderWatch Op = "watch folder"

	OpSessionSave   Op = "save session"
	OpSessionLoad   Op = "load saved session"
	OpSessionExport Op = "export session"

	OpEffectStart Op = "start visual effect"
)

// Format returns "Failed to <op>: <cause>", or "" for a nil error.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, Cause(err))
}

// FormatWith is Format naming the file or folder involved.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, subject, Cause(err))
}

// Cause describes err in a few words: common file system failures by
// name, anything else by the innermost wrapped message. Outer layers of a
// chain mostly repeat the path the notice already names.
func Cause(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, syscall.ENOTDIR):
		return "not a folder"
	case errors.Is(err, syscall.ENOSPC):
		return "disk full"
	case errors.Is(err, syscall.EROFS):
		return "read-only file system"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	}
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}
