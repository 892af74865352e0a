package cli

import (
	"os"

	"github.com/spf13/cobra"

	"scale-trainer/internal/app"
	"scale-trainer/internal/config"
	"scale-trainer/internal/infra/file"
	"scale-trainer/internal/transport/terminal"
)

const (
	defaultPlayer       = "local"
	defaultSnapshotPath = "scale-trainer.yaml"
)

// NewPlayCmd runs the trainer in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var player string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal (s to start, 1-4 to answer, q to quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			if player == "" {
				player = cfg.Play.Player
			}
			if player == "" {
				player = defaultPlayer
			}
			snapshotPath := cfg.Play.SnapshotPath
			if snapshotPath == "" {
				snapshotPath = defaultSnapshotPath
			}

			ctx := cmd.Context()
			stores, err := openBackends(ctx, cfg, file.NewSnapshotStore(snapshotPath))
			if err != nil {
				return err
			}
			defer stores.close()

			service := app.NewTrainerService(stores.sessions, stores.snapshots, settingsFromConfig(cfg))
			console := terminal.NewConsole(service, player, config.Duration(cfg.Quiz.FrameInterval, 0))
			return console.Run(ctx, os.Stdin, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player name used for snapshots (overrides play.player)")
	return cmd
}
