package engine

import (
	"context"
	"testing"

	"github.com/danrasband/reconcile/internal/registry"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

func noopTransition(ctx context.Context, node registry.NodeView) (interface{}, error) {
	return nil, nil
}

func validationFailureFor(t *testing.T) error {
	t.Helper()
	return rerrors.NewValidationFailure("<graph>", "test-rule", "always fails")
}
