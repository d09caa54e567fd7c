package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/meshquality/internal/replay"
)

var replayFixtures []string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-evaluate recorded fixtures and report verdict drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(replayFixtures) == 0 {
			return fmt.Errorf("at least one --fixture is required")
		}

		drift := 0
		for _, path := range replayFixtures {
			f, err := replay.LoadFixture(path)
			if err != nil {
				return err
			}
			results, err := replay.RunFixture(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mm := replay.Compare(results, f.Expected)
			s := replay.Summarize(results, mm)
			drift += len(mm)

			if jsonOut {
				if err := printJSON(struct {
					Fixture    string           `json:"fixture"`
					Summary    replay.Summary   `json:"summary"`
					Mismatches []replay.Mismatch `json:"mismatches"`
				}{path, s, mm}); err != nil {
					return err
				}
				continue
			}

			fmt.Printf("=== %s ===\n", path)
			if f.Description != "" {
				fmt.Printf("%s\n", f.Description)
			}
			fmt.Printf("Total: %d  Good: %d  Bad: %d  Mismatches: %d\n", s.Total, s.Good, s.Bad, s.Mismatches)
			for _, m := range mm {
				fmt.Printf("  MISMATCH %s\n", m)
			}
			fmt.Println()
		}

		if drift > 0 {
			return fmt.Errorf("%d verdict mismatches", drift)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().StringArrayVar(&replayFixtures, "fixture", nil, "path to a fixture JSON file (repeatable)")
}
