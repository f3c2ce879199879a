package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "create-admin")
}

func TestCreateAdminFlags(t *testing.T) {
	for _, name := range []string{"email", "password"} {
		flag := createAdminCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], name)
	}

	name := createAdminCmd.Flags().Lookup("name")
	require.NotNil(t, name)
	assert.Equal(t, "Administrator", name.DefValue)
}
