package tally_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallykit/tally"
)

func TestRun(t *testing.T) {
	total, err := tally.Run(context.Background(), 0, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestRunWithStart(t *testing.T) {
	total, err := tally.Run(context.Background(), 42, 4, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(142), total)
}

func TestRunZeroWorkers(t *testing.T) {
	total, err := tally.Run(context.Background(), 5, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestRunWithLimit(t *testing.T) {
	total, err := tally.Run(context.Background(), 0, 16, 50, tally.WithLimit(4))
	require.NoError(t, err)
	assert.Equal(t, int64(800), total)
}

func TestRunInvalidArguments(t *testing.T) {
	_, err := tally.Run(context.Background(), -1, 2, 2)
	require.ErrorIs(t, err, tally.ErrInvalidArgument)

	_, err = tally.Run(context.Background(), 0, -2, 2)
	require.ErrorIs(t, err, tally.ErrInvalidArgument)

	_, err = tally.Run(context.Background(), 0, 2, -2)
	require.ErrorIs(t, err, tally.ErrInvalidArgument)
}
