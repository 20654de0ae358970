// Package symlinkpack provides a transition callback that creates,
// repoints, or removes a symlink to reflect a node's "target" state key.
package symlinkpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

// Step describes one symlink-backed transition: Source is the fixed link
// target this transition points at; the on-disk link path is read from the
// node's "target" state key at invocation time, so the same Step can be
// reused across nodes that carry different paths.
type Step struct {
	Kind   registry.Kind
	From   state.Fragment
	To     state.Fragment
	Source string
	Force  bool
}

// Register binds the step's symlink operation to reg as a transition
// callback.
func (s Step) Register(reg *registry.TransitionRegistry) error {
	return reg.Register(s.Kind, s.From, s.To, s.callback())
}

func (s Step) callback() registry.TransitionCallback {
	return func(ctx context.Context, node registry.NodeView) (interface{}, error) {
		target, ok := node.CurrentState()["target"].(string)
		if !ok || target == "" {
			return nil, fmt.Errorf("node %s has no string \"target\" state key", node.PathString())
		}

		if s.Source == "" {
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to remove symlink %s: %w", target, err)
			}
			return fmt.Sprintf("removed %s", target), nil
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create parent directory for %s: %w", target, err)
		}

		if info, err := os.Lstat(target); err == nil {
			if !s.Force {
				return nil, fmt.Errorf("target %s already exists", target)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("target %s is a directory, refusing to replace", target)
			}
			if err := os.Remove(target); err != nil {
				return nil, fmt.Errorf("failed to remove existing %s: %w", target, err)
			}
		}

		if err := os.Symlink(s.Source, target); err != nil {
			return nil, fmt.Errorf("failed to link %s -> %s: %w", target, s.Source, err)
		}

		return fmt.Sprintf("linked %s -> %s", target, s.Source), nil
	}
}
