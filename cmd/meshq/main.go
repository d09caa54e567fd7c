package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/meshquality/internal/config"
	"github.com/danielpatrickdp/meshquality/internal/store"
)

var version = "0.1.0"

// #region root
var (
	configPath string
	dbOverride string
	jsonOut    bool

	cfg *config.File
)

var rootCmd = &cobra.Command{
	Use:   "meshq",
	Short: "Mesh quality constraint evaluator",
	Long: `meshq decides which triangles of a 2D mesh violate quality bounds
(minimum angle, maximum angle, maximum or per-triangle area, user tests)
and drives budgeted refinement passes over them.

Settings come from defaults, then --config (YAML or JSON), then MESHQ_*
environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dbOverride != "" {
			loaded.DBPath = dbOverride
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOr("MESHQ_CONFIG", ""), "path to meshq.yaml or meshq.json")
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "path to the SQLite pass history (overrides db_path)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON instead of text")

	rootCmd.AddCommand(evaluateCmd, surveyCmd, refineCmd, replayCmd, inspectCmd, configCmd)
}

func main() {
	log.SetPrefix("meshq: ")
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

// #endregion root

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore() (*store.Store, error) {
	s, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
	}
	return s, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers
