package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verinet-network/verinet/pkg/cli"
	"github.com/verinet-network/verinet/pkg/suite"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := suite.ParseAllScenarios(suitesDir)
			if err != nil {
				return err
			}
			if len(scenarios) == 0 {
				fmt.Printf("No scenarios found in %s/\n", suitesDir)
				return nil
			}

			tbl := cli.NewTable("SCENARIO", "SWITCHES", "CHECKS", "DESCRIPTION")
			for _, s := range scenarios {
				tbl.Row(s.Name,
					strconv.Itoa(len(s.Topology.Switches)),
					strconv.Itoa(len(s.Checks)),
					s.Description)
			}
			tbl.Flush()
			return nil
		},
	}
}
