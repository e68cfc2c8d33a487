package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/app"
	"github.com/abhisek/lingua/internal/client"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start the practice client (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

func init() {
	addPracticeFlags(practiceCmd)
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", "", "Tutoring service base URL (overrides LINGUA_SERVER_URL)")
	cmd.Flags().String("export", "", "Write the transcript to this HTML file on exit")
	cmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
}

// runPractice builds the HTTP collaborator and launches the TUI.
func runPractice(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.ServerURL = s
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	exportPath, _ := cmd.Flags().GetString("export")
	noSplash, _ := cmd.Flags().GetBool("no-splash")

	log, closer, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().Str("server", cfg.ServerURL).Msg("practice client starting")

	collab := client.New(cfg.ServerURL, client.WithLogger(log))
	if err := app.Run(cmd.Context(), app.Options{
		Collaborator: collab,
		Logger:       log,
		ExportPath:   exportPath,
		NoSplash:     noSplash,
	}); err != nil {
		return fmt.Errorf("practice: %w", err)
	}
	return nil
}
