package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/meshquality/internal/logging"
	"github.com/danielpatrickdp/meshquality/internal/mesh"
	"github.com/danielpatrickdp/meshquality/internal/quality"
	"github.com/danielpatrickdp/meshquality/internal/refine"
	"github.com/danielpatrickdp/meshquality/internal/store"
)

var (
	evalMesh  string
	evalNoLog bool
)

type verdictRow struct {
	ID       int            `json:"id"`
	Bad      bool           `json:"bad"`
	Reason   quality.Reason `json:"reason"`
	MinAngle float64        `json:"min_angle"`
	MaxAngle float64        `json:"max_angle"`
	Area     float64        `json:"area"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Print the verdict for every triangle of a mesh",
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalMesh == "" {
			return fmt.Errorf("--mesh is required")
		}
		tris, err := mesh.LoadTriangles(evalMesh)
		if err != nil {
			return err
		}
		qc, err := cfg.Quality.ToOptions().Freeze()
		if err != nil {
			return err
		}
		ev := quality.NewEvaluator(qc)

		var rec *logging.Recorder
		var pass store.PassRecord
		var st *store.Store
		if !evalNoLog {
			st, err = openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			pass, err = st.CreatePass("evaluate", string(refine.SelectStrategy(qc).ID), qc)
			if err != nil {
				return err
			}
			rec = logging.NewRecorder(st.DB(), pass.PassID, qc, cfg.OnlyBad)
		}

		rows := make([]verdictRow, 0, len(tris))
		bad := 0
		for _, t := range tris {
			v, m, err := ev.EvaluateMeasured(t)
			if err != nil {
				return err
			}
			if rec != nil {
				rec.Observe(t, v, m)
			}
			if v.Bad {
				bad++
			}
			rows = append(rows, verdictRow{ID: t.ID(), Bad: v.Bad, Reason: v.Reason, MinAngle: m.MinAngle, MaxAngle: m.MaxAngle, Area: m.Area})
		}

		if rec != nil {
			if err := rec.Flush(); err != nil {
				return err
			}
			out := store.PassOutcome{Stop: string(refine.StopClean), Evaluated: len(rows), Bad: bad, Remaining: bad}
			if err := st.FinishPass(pass.PassID, out); err != nil {
				return err
			}
		}

		if jsonOut {
			return printJSON(rows)
		}
		fmt.Printf("%-8s  %-5s  %-14s  %9s  %9s  %12s\n", "ID", "Bad", "Reason", "Min Angle", "Max Angle", "Area")
		for _, r := range rows {
			fmt.Printf("%-8d  %-5v  %-14s  %9.4f  %9.4f  %12.6g\n", r.ID, r.Bad, r.Reason, r.MinAngle, r.MaxAngle, r.Area)
		}
		fmt.Printf("\n%d of %d triangles bad", bad, len(rows))
		if rec != nil {
			fmt.Printf(" (pass %s)", shortID(pass.PassID))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalMesh, "mesh", "", "path to a triangle list JSON file")
	evaluateCmd.Flags().BoolVar(&evalNoLog, "no-log", false, "do not record the pass in the database")
}
