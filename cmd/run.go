package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

var (
	runHandle   string
	runName     string
	runPlatform string
	runBio      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a single lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lead := &model.Lead{
			Name:     strings.TrimSpace(runName),
			Handle:   strings.TrimPrefix(strings.TrimSpace(runHandle), "@"),
			Platform: model.NormalizePlatform(strings.ToLower(runPlatform)),
			Bio:      strings.TrimSpace(runBio),
			Status:   model.StatusPending,
		}
		if !lead.Eligible() {
			return eris.New("either --handle or --name is required")
		}

		result := env.Pipeline.Process(ctx, lead)

		zap.L().Info("lead processed",
			zap.String("lead", lead.DisplayName()),
			zap.String("status", string(result.Status)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runHandle, "handle", "", "social media handle (with or without @)")
	runCmd.Flags().StringVar(&runName, "name", "", "creator name")
	runCmd.Flags().StringVar(&runPlatform, "platform", "instagram", "platform (instagram, tiktok, twitter, youtube, linkedin)")
	runCmd.Flags().StringVar(&runBio, "bio", "", "short bio or profile description")
	rootCmd.AddCommand(runCmd)
}
