package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/sengoku/internal/scenario"
	"github.com/talgya/sengoku/internal/victory"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a scenario file",
		Long:  "Parses a scenario and reports every integrity violation it contains.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok (%d clans, %d castles, %d characters, %d factions, player %s)\n",
				args[0], len(s.Clans), len(s.Castles), len(s.Characters), len(s.Factions), s.PlayerClanID)
			if v := victory.Check(s); v.GameOver {
				fmt.Fprintf(out, "warning: %s already wins by %s\n", v.Winner, v.Reason)
			}
			return nil
		},
	}
}
