package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smetzlaff/isptap-sub000/internal/dumpparser"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

func TestLineClassifierForArmv6M(t *testing.T) {
	dec, err := lineClassifierFor("armv6m")
	require.NoError(t, err)
	assert.Equal(t, isa.NewArmv6M(), dec)
}

func TestLineClassifierForCarCoreIsUnsupported(t *testing.T) {
	_, err := lineClassifierFor("carcore")
	assert.True(t, errors.Is(err, dumpparser.ErrUnsupportedArchitecture))
}

func TestLineClassifierForUnknownArchReportsError(t *testing.T) {
	_, err := lineClassifierFor("mips")
	require.Error(t, err)
}

func TestNewRootCmdRequiresDumpFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	require.Error(t, err)
}
