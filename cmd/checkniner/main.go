// Package main provides the checkniner command line: completion reports over
// pilot checkouts, checkout editing, and airstrip/base maintenance.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "checkniner",
	Short: "Pilot checkout completion reports",
	Long: `checkniner tracks which pilots have completed checkout for which aircraft types
at which airstrips, and reports what is complete and what is still to do.

Configuration can be loaded from a JSON or YAML file using --config. DATABASE_URL and
CHECKNINER_USER override the file; command-line flags override both.`,
	SilenceUsage: true,
}

var (
	configPath  string
	databaseURL string
	verbose     bool
	logFormat   string
	timeoutSecs int
	actor       string
	format      string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (JSON, or YAML by extension)")
	flags.StringVar(&databaseURL, "database-url", "", "postgres:// URL or SQLite path (defaults to DATABASE_URL env var)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging and summary boxes on stderr")
	flags.StringVar(&logFormat, "log-format", "", "Log output: text or json")
	flags.IntVar(&timeoutSecs, "timeout", 0, "Deadline in seconds for the whole command (0 uses the configured default)")
	flags.StringVar(&actor, "as", "", "User recorded on edits (defaults to CHECKNINER_USER env var)")
	flags.StringVarP(&format, "format", "f", "", "Report output: table or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
