package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockUntilDone mimics the listener: it returns ctx.Err() once the context ends.
func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestServe_HTTPFailureIsReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bindErr := errors.New("listen tcp :8080: bind: address already in use")
	err := serve(ctx, cancel, func() error { return bindErr }, blockUntilDone)

	require.Error(t, err)
	assert.ErrorIs(t, err, bindErr)
}

func TestServe_ListenerLossIsReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lost := errors.New("update stream closed")
	httpDone := make(chan struct{})
	defer close(httpDone)

	err := serve(ctx, cancel,
		func() error { <-httpDone; return nil },
		func(context.Context) error { return lost },
	)
	assert.ErrorIs(t, err, lost)
}

func TestServe_SignalStopsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	httpDone := make(chan struct{})
	defer close(httpDone)

	cancel()
	err := serve(ctx, cancel, func() error { <-httpDone; return nil }, blockUntilDone)
	assert.NoError(t, err)
}
