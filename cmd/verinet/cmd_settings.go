package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verinet-network/verinet/pkg/cli"
	"github.com/verinet-network/verinet/pkg/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persistent settings",
		Long: `Manage persistent settings stored in ~/.verinet/settings.json.

Settings provide defaults for flags:
  - solver_path:    Solver binary (--solver default)
  - solver_timeout: Per-query solver timeout (--timeout default)
  - suites_dir:     Scenario directory (--dir default)
  - dump_dir:       Mismatch query dump directory (--dump-dir default)
  - redis_addr:     Verdict cache address (--redis default)

Examples:
  verinet settings show
  verinet settings set solver /opt/z3/bin/z3
  verinet settings set suites /srv/verinet/suites
  verinet settings clear`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}

			fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

			t := cli.NewTable("SETTING", "VALUE")
			printSetting := func(name, value string) {
				if value == "" {
					value = "(not set)"
				}
				t.Row(name, value)
			}

			printSetting("solver_path", s.SolverPath)
			printSetting("solver_timeout", s.SolverTimeout)
			printSetting("suites_dir", s.SuitesDir)
			printSetting("dump_dir", s.DumpDir)
			printSetting("redis_addr", s.RedisAddr)

			t.Flush()
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Set a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setting, value := args[0], args[1]

			s, err := settings.Load()
			if err != nil {
				s = &settings.Settings{}
			}

			switch setting {
			case "solver", "solver_path":
				s.SolverPath = value
				fmt.Printf("Solver set to: %s\n", value)
			case "timeout", "solver_timeout":
				s.SolverTimeout = value
				fmt.Printf("Solver timeout set to: %s\n", value)
			case "suites", "suites_dir":
				s.SuitesDir = value
				fmt.Printf("Suites directory set to: %s\n", value)
			case "dump", "dump_dir":
				s.DumpDir = value
				fmt.Printf("Dump directory set to: %s\n", value)
			case "redis", "redis_addr":
				s.RedisAddr = value
				fmt.Printf("Verdict cache address set to: %s\n", value)
			default:
				return fmt.Errorf("unknown setting: %s (valid: solver, timeout, suites, dump, redis)", setting)
			}

			if err := s.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Clear all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &settings.Settings{}
			if err := s.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			fmt.Println("All settings cleared.")
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Show settings file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(settings.DefaultSettingsPath())
		},
	}

	cmd.AddCommand(show, set, clear, path)
	return cmd
}
