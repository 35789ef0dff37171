package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRejectsNonPositiveBatchSize(t *testing.T) {
	require.Equal(t, 2, run([]string{"sync", "-batch-size", "0"}))
	require.Equal(t, 2, run([]string{"sync", "-batch-size=-3"}))
}

func TestRunUnknownCommand(t *testing.T) {
	require.Equal(t, 2, run([]string{"frobnicate"}))
}

func TestRunHelp(t *testing.T) {
	require.Equal(t, 0, run([]string{"help"}))
}
