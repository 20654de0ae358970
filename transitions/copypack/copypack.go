// Package copypack provides a transition callback that copies a file or
// directory tree to reflect a node's "source"/"dest" state keys.
package copypack

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

// Step describes one copy-backed transition. Recursive must be set for
// directory sources; PreserveMode copies the source's file mode bits
// instead of using the process umask's default.
type Step struct {
	Kind         registry.Kind
	From         state.Fragment
	To           state.Fragment
	Recursive    bool
	PreserveMode bool
	Overwrite    bool
}

// Register binds the step's copy operation to reg as a transition
// callback.
func (s Step) Register(reg *registry.TransitionRegistry) error {
	return reg.Register(s.Kind, s.From, s.To, s.callback())
}

func (s Step) callback() registry.TransitionCallback {
	return func(ctx context.Context, node registry.NodeView) (interface{}, error) {
		current := node.CurrentState()
		source, ok := current["source"].(string)
		if !ok || source == "" {
			return nil, fmt.Errorf("node %s has no string \"source\" state key", node.PathString())
		}
		dest, ok := current["dest"].(string)
		if !ok || dest == "" {
			return nil, fmt.Errorf("node %s has no string \"dest\" state key", node.PathString())
		}

		srcInfo, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("cannot stat source %s: %w", source, err)
		}

		if srcInfo.IsDir() {
			if !s.Recursive {
				return nil, fmt.Errorf("source %s is a directory; set Recursive to copy it", source)
			}
			if err := copyDirectory(source, dest, s.PreserveMode); err != nil {
				return nil, fmt.Errorf("directory copy failed: %w", err)
			}
		} else if err := copyFile(source, dest, s.PreserveMode, s.Overwrite); err != nil {
			return nil, fmt.Errorf("file copy failed: %w", err)
		}

		return fmt.Sprintf("copied %s -> %s", source, dest), nil
	}
}

func copyFile(src, dst string, preserveMode, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination %s exists", dst)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if preserveMode {
		mode = srcInfo.Mode()
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	if preserveMode {
		if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
			return err
		}
	}

	return nil
}

func copyDirectory(src, dst string, preserveMode bool) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			mode := os.FileMode(0o755)
			if preserveMode {
				mode = info.Mode()
			}
			if err := os.MkdirAll(target, mode); err != nil {
				return err
			}
			if preserveMode {
				return os.Chmod(target, info.Mode())
			}
			return nil
		}

		return copyFile(path, target, preserveMode, true)
	})
}
