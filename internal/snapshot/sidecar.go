package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SidecarName is the hidden state file kept inside a music folder.
const SidecarName = ".listen-two-state.json"

// SidecarPath returns the sidecar location for folder.
func SidecarPath(folder string) string {
	return filepath.Join(folder, SidecarName)
}

// WriteSidecar writes snap into folder. The file is replaced atomically so
// a crash never leaves a truncated sidecar behind.
func WriteSidecar(folder string, snap Snapshot) error {
	if folder == "" {
		return errors.New("write sidecar: no folder")
	}
	tmp, err := os.CreateTemp(folder, SidecarName+".*.tmp")
	if err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(MarshalIndent(snap)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	if err := os.Rename(tmpName, SidecarPath(folder)); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// ReadSidecar loads the sidecar of folder. ok is false when there is none.
func ReadSidecar(folder string) (p Partial, warnings []Warning, ok bool, err error) {
	data, err := os.ReadFile(SidecarPath(folder))
	if errors.Is(err, fs.ErrNotExist) {
		return Partial{}, nil, false, nil
	}
	if err != nil {
		return Partial{}, nil, false, fmt.Errorf("read sidecar: %w", err)
	}
	p, warnings = Decode(data)
	return p, warnings, true, nil
}
