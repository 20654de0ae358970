// Package shellpack provides a transition callback that drives a node's
// state by running a shell command. A transition either succeeds and
// mutates or fails and does not, so there is no separate check/apply split.
package shellpack

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

// Step describes one shell-backed transition: running Command is the side
// effect that carries a node from From to To.
type Step struct {
	Kind    registry.Kind
	From    state.Fragment
	To      state.Fragment
	Command string
	Shell   string
	WorkDir string
	Env     map[string]string
}

// Register binds the step's shell command to reg as a transition callback.
func (s Step) Register(reg *registry.TransitionRegistry) error {
	return reg.Register(s.Kind, s.From, s.To, s.callback())
}

func (s Step) callback() registry.TransitionCallback {
	return func(ctx context.Context, node registry.NodeView) (interface{}, error) {
		shell, shellArgs, err := determineShell(s.Shell)
		if err != nil {
			return nil, err
		}

		args := append(shellArgs, s.Command)
		cmd := exec.CommandContext(ctx, shell, args...)
		cmd.Env = buildEnv(s.Env)
		if s.WorkDir != "" {
			cmd.Dir = s.WorkDir
		}

		output, err := cmd.CombinedOutput()
		if err != nil {
			trimmed := strings.TrimSpace(string(output))
			if trimmed != "" {
				return nil, fmt.Errorf("shell command failed for %s: %w: %s", node.PathString(), err, trimmed)
			}
			return nil, fmt.Errorf("shell command failed for %s: %w", node.PathString(), err)
		}

		return strings.TrimSpace(string(output)), nil
	}
}

func determineShell(explicit string) (string, []string, error) {
	if explicit != "" {
		return explicit, []string{"-c"}, nil
	}

	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}

	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}

	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}

	return "", nil, fmt.Errorf("no suitable shell found")
}

func buildEnv(custom map[string]string) []string {
	env := os.Environ()
	for k, v := range custom {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
