package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/sengoku/internal/scenario"
)

func newGenerateCmd() *cobra.Command {
	var (
		name   string
		output string
		cfg    = scenario.DefaultGenConfig()
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random scenario",
		Long:  "Builds a scenario from simplex terrain and writes it as YAML.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedFlag != 0 {
				cfg.Seed = seedFlag
			}
			s, err := scenario.Generate(cfg)
			if err != nil {
				return err
			}
			data, err := scenario.Marshal(name, s)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing scenario: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d clans, %d castles)\n", output, len(s.Clans), len(s.Castles))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "generated", "Scenario name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&cfg.Clans, "clans", cfg.Clans, "Number of clans")
	cmd.Flags().IntVar(&cfg.CastlesPerClan, "castles", cfg.CastlesPerClan, "Castles per clan")
	cmd.Flags().IntVar(&cfg.Map.Radius, "radius", cfg.Map.Radius, "Map radius in hexes")

	return cmd
}
