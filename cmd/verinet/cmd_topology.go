package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verinet-network/verinet/pkg/cli"
	"github.com/verinet-network/verinet/pkg/suite"
)

func newTopologyCmd() *cobra.Command {
	var scenarioName string
	var asDot bool

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Show a scenario's topology",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarioName == "" {
				return fmt.Errorf("specify --scenario <name>")
			}

			scenarios, err := suite.ParseAllScenarios(suitesDir)
			if err != nil {
				return err
			}
			var sc *suite.Scenario
			for _, s := range scenarios {
				if s.Name == scenarioName {
					sc = s
					break
				}
			}
			if sc == nil {
				return fmt.Errorf("scenario %q not found in %s", scenarioName, suitesDir)
			}

			topo, err := suite.BuildTopology(&sc.Topology)
			if err != nil {
				return err
			}

			if asDot {
				fmt.Print(topo.DOT())
				return nil
			}

			fmt.Printf("%s: diameter %d\n\n", sc.Name, topo.Diameter())

			nodes := cli.NewTable("NODE", "KIND", "ID")
			for _, spec := range sc.Topology.Switches {
				nodes.Row(spec.Name, "switch", strconv.FormatInt(spec.ID, 10))
			}
			for _, spec := range sc.Topology.Hosts {
				nodes.Row(spec.Name, "host", strconv.FormatInt(spec.ID, 10))
			}
			nodes.Flush()

			fmt.Println()
			links := cli.NewTable("FROM", "PORT", "TO", "PORT")
			for _, l := range topo.Links() {
				links.Row(l.From, strconv.FormatInt(l.FromPort, 10), l.To, strconv.FormatInt(l.ToPort, 10))
			}
			links.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "", "scenario whose topology to show")
	cmd.Flags().BoolVar(&asDot, "dot", false, "emit Graphviz DOT instead of tables")

	return cmd
}
