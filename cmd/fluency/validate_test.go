package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

func TestValidateCommand_CleanDeck(t *testing.T) {
	setupWorkspace(t, "german", []srs.Item{dueItem("haus")})

	output, err := executeCommand(t, newValidateCommand())
	require.NoError(t, err)
	assert.Contains(t, output, "All deck and event files are valid.")
}

func TestValidateCommand_BrokenDeck(t *testing.T) {
	broken := dueItem("haus")
	broken.EaseFactor = 9.0
	setupWorkspace(t, "german", []srs.Item{broken})

	output, err := executeCommand(t, newValidateCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, output, "ease factor 9.00 outside [1.3, 2.5]")
}
