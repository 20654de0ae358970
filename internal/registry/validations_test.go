package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShortCircuitsOnFirstFailure(t *testing.T) {
	t.Parallel()

	reg := NewValidationRegistry()
	var calls []int

	reg.Register(Kind("K"), func(subject interface{}) error {
		calls = append(calls, 1)
		return nil
	})
	reg.Register(Kind("K"), func(subject interface{}) error {
		calls = append(calls, 2)
		return errors.New("boom")
	})
	reg.Register(Kind("K"), func(subject interface{}) error {
		calls = append(calls, 3)
		return nil
	})

	err := reg.Run(Kind("K"), struct{}{})
	require.Error(t, err)
	require.Equal(t, []int{1, 2}, calls)
}

func TestRun_NoRulesIsNil(t *testing.T) {
	t.Parallel()

	reg := NewValidationRegistry()
	require.NoError(t, reg.Run(Kind("unregistered"), struct{}{}))
}

func TestRegister_IgnoresNilFunc(t *testing.T) {
	t.Parallel()

	reg := NewValidationRegistry()
	reg.Register(Kind("K"), nil)
	require.NoError(t, reg.Run(Kind("K"), struct{}{}))
}
