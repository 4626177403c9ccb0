package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestDeliver_AcksRegardlessOfOutcome(t *testing.T) {
	log := logger.NewNopLogger()

	tests := []struct {
		name    string
		handler func(ctx context.Context, body []byte) error
	}{
		{
			name:    "handler succeeds",
			handler: func(context.Context, []byte) error { return nil },
		},
		{
			name:    "handler fails",
			handler: func(context.Context, []byte) error { return errors.New("boom") },
		},
		{
			name:    "handler panics",
			handler: func(context.Context, []byte) error { panic("kaboom") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acks := 0
			err := Deliver(context.Background(), log, "q", []byte(`{}`), tt.handler, func() error {
				acks++
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, 1, acks)
		})
	}
}

func TestDeliver_AckFailure(t *testing.T) {
	errAck := errors.New("channel closed")

	err := Deliver(context.Background(), logger.NewNopLogger(), "q", nil,
		func(context.Context, []byte) error { return nil },
		func() error { return errAck })
	require.ErrorIs(t, err, errAck)
}

func TestDeliver_PassesBody(t *testing.T) {
	var got []byte
	err := Deliver(context.Background(), logger.NewNopLogger(), "q", []byte(`{"entity_id":1}`),
		func(_ context.Context, body []byte) error {
			got = body
			return nil
		},
		func() error { return nil })
	require.NoError(t, err)
	require.JSONEq(t, `{"entity_id":1}`, string(got))
}

func TestEncode(t *testing.T) {
	raw := []byte(`{"a":1}`)
	body, err := encode(raw)
	require.NoError(t, err)
	require.Equal(t, raw, body)

	body, err = encode(map[string]int{"a": 1})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(body))

	_, err = encode(make(chan int))
	require.Error(t, err)
}
