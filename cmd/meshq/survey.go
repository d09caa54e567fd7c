package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/meshquality/internal/mesh"
	"github.com/danielpatrickdp/meshquality/internal/quality"
	"github.com/danielpatrickdp/meshquality/internal/refine"
	"github.com/danielpatrickdp/meshquality/internal/store"
	"github.com/danielpatrickdp/meshquality/internal/survey"
)

var surveyMeshes []string

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Summarise mesh quality across one or more regions",
	Long: `Evaluate every triangle without refining. Each --mesh file is one
region; regions are evaluated concurrently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(surveyMeshes) == 0 {
			return fmt.Errorf("at least one --mesh is required")
		}
		regions := make([][]quality.Triangle, 0, len(surveyMeshes))
		for _, path := range surveyMeshes {
			tris, err := mesh.LoadTriangles(path)
			if err != nil {
				return err
			}
			region := make([]quality.Triangle, len(tris))
			for i, t := range tris {
				region[i] = t
			}
			regions = append(regions, region)
		}

		qc, err := cfg.Quality.ToOptions().Freeze()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s := survey.NewSurveyor(survey.Config{Workers: cfg.Workers}, quality.NewEvaluator(qc))
		rep, err := s.Run(ctx, regions)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		pass, err := st.CreatePass("survey", string(refine.SelectStrategy(qc).ID), qc)
		if err != nil {
			return err
		}
		if err := st.FinishPass(pass.PassID, store.PassOutcome{
			Stop:      string(refine.StopClean),
			Evaluated: rep.Triangles,
			Bad:       rep.Bad,
			Remaining: rep.Bad,
		}); err != nil {
			log.Printf("record survey: %v", err)
		}

		if jsonOut {
			return printJSON(rep)
		}
		fmt.Printf("Regions:    %d\n", rep.Regions)
		fmt.Printf("Triangles:  %d\n", rep.Triangles)
		fmt.Printf("Bad:        %d\n", rep.Bad)
		fmt.Printf("Min angle:  %.4f\n", rep.MinAngle)
		fmt.Printf("Max angle:  %.4f\n", rep.MaxAngle)
		fmt.Printf("Total area: %.6g\n", rep.TotalArea)
		fmt.Printf("Result:     %s\n", rep.Reason)

		fmt.Printf("\nVerdicts by reason:\n")
		printReasonCounts(rep.ReasonCounts)

		if len(rep.Metrics) > 0 {
			fmt.Printf("\nBounds:\n")
			for _, m := range rep.Metrics {
				fmt.Printf("  %-10s  value=%-10.4g bound=%-10.4g pass=%v\n", m.Name, m.Value, m.Bound, m.Pass)
			}
		}
		return nil
	},
}

func printReasonCounts(counts map[quality.Reason]int) {
	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Printf("  %-14s %d\n", r, counts[quality.Reason(r)])
	}
}

func init() {
	surveyCmd.Flags().StringArrayVar(&surveyMeshes, "mesh", nil, "triangle list JSON file, one per region (repeatable)")
}
