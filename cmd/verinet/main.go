// Verinet - forwarding policy verifier
//
// Verinet compiles reachability questions about a network's forwarding
// policy into SMT queries and discharges them with an external solver.
// Scenario files declare a topology, a policy, and checks with expected
// verdicts; verinet reports which checks hold.
//
//	verinet run --all                      # run every scenario in the suites dir
//	verinet run --scenario vlan-isolation  # run one scenario
//	verinet list                           # show available scenarios
//	verinet topology --scenario <name>     # print a scenario's topology
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verinet-network/verinet/pkg/settings"
	"github.com/verinet-network/verinet/pkg/util"
	"github.com/verinet-network/verinet/pkg/version"
)

var (
	// Global option flags
	suitesDir string
	verbose   bool

	// Global state
	userSettings *settings.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "verinet",
	Short:             "Forwarding policy verifier",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Verinet checks reachability properties of forwarding policies by
compiling them to SMT queries and asking an external solver.

Scenario files declare a topology, a policy, and checks with expected
verdicts (sat/unsat). A check fails when the solver disagrees with the
expectation; the offending query is saved for inspection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load user settings
		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Apply defaults from settings
		if suitesDir == "" {
			suitesDir = userSettings.GetSuitesDir()
		}

		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&suitesDir, "dir", "D", "", "Directory containing scenario YAML files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newTopologyCmd(),
		newSettingsCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				if version.Version == "dev" {
					fmt.Println("verinet dev build (use 'make build' for version info)")
				} else {
					fmt.Printf("verinet %s (%s)\n", version.Version, version.GitCommit)
				}
			},
		},
	)
}
