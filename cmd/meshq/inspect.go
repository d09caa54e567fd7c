package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/meshquality/internal/quality"
	"github.com/danielpatrickdp/meshquality/internal/store"
)

var (
	inspectLast int
	inspectPass string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List recorded passes or show one in detail",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if inspectPass != "" {
			return runDetailMode(st, inspectPass)
		}
		return runListMode(st, inspectLast)
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLast, "last", 20, "show N most recent passes")
	inspectCmd.Flags().StringVar(&inspectPass, "pass", "", "show single pass detail")
}

// #region list-mode

type listRow struct {
	PassID    string `json:"pass_id"`
	Kind      string `json:"kind"`
	Strategy  string `json:"strategy"`
	Stop      string `json:"stop"`
	Evaluated int    `json:"evaluated"`
	Bad       int    `json:"bad"`
	Splits    int    `json:"splits"`
	CreatedAt string `json:"created_at"`
}

func runListMode(st *store.Store, last int) error {
	passes, err := st.ListPasses(last)
	if err != nil {
		return err
	}
	if len(passes) == 0 {
		fmt.Println("no passes found")
		return nil
	}

	rows := make([]listRow, len(passes))
	for i, p := range passes {
		stop := p.Outcome.Stop
		if stop == "" {
			stop = "running"
		}
		rows[i] = listRow{
			PassID:    p.PassID,
			Kind:      p.Kind,
			Strategy:  p.Strategy,
			Stop:      stop,
			Evaluated: p.Outcome.Evaluated,
			Bad:       p.Outcome.Bad,
			Splits:    p.Outcome.Splits,
			CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	fmt.Printf("%-8s  %-8s  %-8s  %-16s  %9s  %6s  %6s  %s\n",
		"Pass", "Kind", "Strategy", "Stop", "Evaluated", "Bad", "Splits", "Time")
	for _, r := range rows {
		fmt.Printf("%-8s  %-8s  %-8s  %-16s  %9d  %6d  %6d  %s\n",
			shortID(r.PassID), r.Kind, r.Strategy, r.Stop, r.Evaluated, r.Bad, r.Splits, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	Pass         store.PassRecord       `json:"pass"`
	ReasonCounts map[quality.Reason]int `json:"logged_reasons"`
}

func runDetailMode(st *store.Store, passID string) error {
	p, err := st.GetPass(passID)
	if err != nil {
		return err
	}
	counts, err := st.ReasonCounts(passID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(detailOutput{Pass: p, ReasonCounts: counts})
	}

	o := p.Options
	fmt.Printf("Pass:       %s\n", p.PassID)
	fmt.Printf("Kind:       %s\n", p.Kind)
	fmt.Printf("Strategy:   %s\n", p.Strategy)
	fmt.Printf("Created:    %s\n", p.CreatedAt.Format("2006-01-02T15:04:05Z"))
	if !p.FinishedAt.IsZero() {
		fmt.Printf("Finished:   %s\n", p.FinishedAt.Format("2006-01-02T15:04:05Z"))
	}
	fmt.Printf("Stop:       %s\n", p.Outcome.Stop)
	fmt.Printf("Evaluated:  %d\n", p.Outcome.Evaluated)
	fmt.Printf("Bad:        %d\n", p.Outcome.Bad)
	fmt.Printf("Splits:     %d\n", p.Outcome.Splits)
	fmt.Printf("Steiner:    %d\n", p.Outcome.SteinerUsed)
	fmt.Printf("Remaining:  %d\n", p.Outcome.Remaining)

	fmt.Printf("\nBounds:\n")
	fmt.Printf("  min_angle=%g max_angle=%g max_area=%g variable_area=%v steiner_points=%d legacy=%v\n",
		o.MinimumAngle, o.MaximumAngle, o.MaximumArea, o.VariableArea, o.SteinerPoints, o.UseLegacyRefinement)
	fmt.Printf("  user_test=%v exclude=%v\n", o.HasUserTest, o.HasExclude)

	if len(counts) > 0 {
		fmt.Printf("\nLogged verdicts:\n")
		printReasonCounts(counts)
	}
	return nil
}

// #endregion detail-mode
