package logging_test

import (
	"context"
	"testing"

	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/stretchr/testify/assert"
)

func TestContextFunctions(t *testing.T) {
	tests := []struct {
		name string
		add  func(context.Context) context.Context
		want string
	}{
		{"WithCountry", func(ctx context.Context) context.Context { return logging.WithCountry(ctx, "FR") }, `"country":"FR"`},
		{"WithSource", func(ctx context.Context) context.Context { return logging.WithSource(ctx, "gsma") }, `"source":"gsma"`},
		{"WithOperation", func(ctx context.Context) context.Context { return logging.WithOperation(ctx, "reconcile") }, `"operation":"reconcile"`},
		{"WithURL", func(ctx context.Context) context.Context { return logging.WithURL(ctx, "https://goo.gl/maps/x") }, `"url":"https://goo.gl/maps/x"`},
		{"WithRequestID", func(ctx context.Context) context.Context { return logging.WithRequestID(ctx, "abc") }, `"request_id":"abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := logging.NewTestLogger(t)
			ctx := tt.add(logging.WithLogger(context.Background(), tl.Logger))

			logging.FromContext(ctx).Info().Msg("hello")

			assert.True(t, tl.Contains(tt.want), tl.Output())
		})
	}

	t.Run("FromContext falls back to default", func(t *testing.T) {
		assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("RequestID round trip", func(t *testing.T) {
		ctx := logging.WithRequestID(context.Background(), "abc")
		assert.Equal(t, "abc", logging.RequestID(ctx))
		assert.Empty(t, logging.RequestID(context.Background()))
	})
}
