package action

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguso/email-agent-core/core"
)

func TestFunc_Run(t *testing.T) {
	upper := NewFunc("upper", func(_ context.Context, input any) (any, error) {
		return strings.ToUpper(input.(string)), nil
	})

	out, err := core.Invoke(context.Background(), upper, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "HI", out)
	assert.Equal(t, "upper", upper.Name())
}

func TestFunc_NilFunction(t *testing.T) {
	broken := NewFunc("broken", nil)

	_, err := core.Invoke(context.Background(), broken, nil, nil)
	assert.ErrorIs(t, err, ErrNilFunc)
}

func TestFunc_ComposesInPipeline(t *testing.T) {
	upper := NewFunc("upper", func(_ context.Context, input any) (any, error) {
		return strings.ToUpper(input.(string)), nil
	})
	exclaim := NewFunc("exclaim", func(_ context.Context, input any) (any, error) {
		return input.(string) + "!", nil
	})

	p := core.Chain(upper, exclaim)

	out, err := core.Invoke(context.Background(), p, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "HI!", out)
}
