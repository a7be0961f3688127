package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "qumulo-import [feature...]", cmd.Use)
	assert.Equal(t, "Import Qumulo cluster settings into a Terraform configuration", cmd.Short)
	assert.NotNil(t, cmd.RunE, "root command performs the import")
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"features",
		"doctor",
		"version",
		"completion",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), len(expectedSubcommands))
}

func TestRoot_Flags(t *testing.T) {
	cmd := Root()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "config_file", defValue: "main.tf"},
		{name: "file", defValue: "main.tf"},
		{name: "dry", shorthand: "d", defValue: "false"},
		{name: "enable", shorthand: "e", defValue: "[]"},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "format", defValue: "json"},
		{name: "provider-source", defValue: ""},
		{name: "upload", defValue: ""},
		{name: "metrics-file", defValue: ""},
		{name: "yes", shorthand: "y", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "flag %s", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	for _, name := range []string{"config", "log-json", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag %s", name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
}

func TestRoot_EnableAcceptsCommaList(t *testing.T) {
	cmd := Root()

	require.NoError(t, cmd.ParseFlags([]string{"-e", "quotas,roles", "--enable", "smb_shares"}))
	got, err := cmd.Flags().GetStringSlice("enable")
	require.NoError(t, err)
	assert.Equal(t, []string{"quotas", "roles", "smb_shares"}, got)
}
