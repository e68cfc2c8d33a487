package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved conversations and LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes all saved conversations and LLM events; re-run with --yes to confirm")
		}

		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		convs, err := s.ConversationRepo().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete conversations: %w", err)
		}
		events, err := s.EventRepo().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete LLM events: %w", err)
		}

		fmt.Printf("Deleted %d conversations and %d LLM events.\n", convs, events)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
}
