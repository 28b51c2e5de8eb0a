package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testFixture = `
aircraft_types:
  - name: Name1
    sort_position: 0
  - name: Name2
    sort_position: 1
pilots:
  - username: kim
    first_name: Kim
    last_name: Pilot1
  - username: sam
    first_name: Sam
    last_name: Pilot2
airstrips:
  - ident: ID1
    name: Airstrip1
    bases: [BASE]
  - ident: ID2
    name: Airstrip2
  - ident: ID3
    name: Airstrip3
  - ident: BASE
    name: Base1
    is_base: true
checkouts:
  - pilot: kim
    airstrip: ID1
    aircraft_types: [Name1, Name2]
  - pilot: sam
    airstrip: ID2
    aircraft_types: [Name1]
`

// resetFlags returns every flag of cmd and its children to its default so
// consecutive executions do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seededDB returns the URL of a fresh SQLite database loaded with testFixture.
func seededDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	url := "sqlite://" + filepath.Join(dir, "checkniner.db")

	fixture := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(testFixture), 0644))

	_, err := execute(t, "--database-url", url, "seed", fixture)
	require.NoError(t, err)
	return url
}
