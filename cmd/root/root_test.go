package root_test

import (
	"testing"

	"receiptbook/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "receiptbook", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "grocery receipts")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()

	bookFlag := root.Cmd.PersistentFlags().Lookup("book")
	require.NotNil(t, bookFlag)
	assert.Equal(t, "b", bookFlag.Shorthand)

	outputFlag := root.Cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("dry-run"))

	yesFlag := root.Cmd.PersistentFlags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
}

func TestSharedFlags_Defaults(t *testing.T) {
	assert.Equal(t, "", root.CommonFlags{}.Book)
	assert.False(t, root.CommonFlags{}.DryRun)
}
