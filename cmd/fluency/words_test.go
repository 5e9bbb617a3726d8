package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

func TestWordsAddCommand(t *testing.T) {
	setupWorkspace(t, "german", []srs.Item{dueItem("haus")})

	output, err := executeCommand(t, newWordsAddCommand(),
		"german", "baum",
		"--definition", "tree",
		"--class", "noun",
		"--tag", "nature",
	)
	require.NoError(t, err)
	assert.Contains(t, output, `Added "baum" to deck "german"`)

	listOutput, err := executeCommand(t, newWordsListCommand(), "german")
	require.NoError(t, err)
	assert.Contains(t, listOutput, "baum")
	assert.Contains(t, listOutput, "haus")
	assert.Contains(t, listOutput, "2 items")
}

func TestWordsListCommand_Query(t *testing.T) {
	tagged := dueItem("hund")
	tagged.Tags = []string{"animals"}
	setupWorkspace(t, "german", []srs.Item{dueItem("haus"), tagged})

	output, err := executeCommand(t, newWordsListCommand(), "german", "--query", "tag:animals")
	require.NoError(t, err)
	assert.Contains(t, output, "hund")
	assert.NotContains(t, output, "haus")
	assert.Contains(t, output, "1 items")
}
