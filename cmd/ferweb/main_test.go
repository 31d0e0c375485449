package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed-admin"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, seedAdminCmd.Flags().Lookup("email"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestMissingSupabaseEnvFailsStartup(t *testing.T) {
	for _, k := range []string{"FERWEB_CONFIG", "FERWEB_BACKEND", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"} {
		t.Setenv(k, "")
	}
	rootCmd.SetArgs([]string{"serve"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "SUPABASE_URL is required")
}
