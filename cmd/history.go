package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/sidebar"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/transcript"
	"github.com/abhisek/lingua/internal/tutor"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse conversations saved by the tutoring service",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		convs, err := s.ConversationRepo().List(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list conversations: %w", err)
		}
		if len(convs) == 0 {
			fmt.Println("No saved conversations.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-12s  %-6s  %5s  %5s\n",
			"ID", "Created", "Language", "Level", "Turns", "Fixes")
		fmt.Println(strings.Repeat("─", 90))
		for _, c := range convs {
			turns, report, err := decodeConversation(&c)
			if err != nil {
				return err
			}
			fmt.Printf("%-36s  %-16s  %-12s  %-6s  %5d  %5d\n",
				c.ID,
				c.Created.Local().Format("2006-01-02 15:04"),
				truncate(sidebar.LanguageLabel(c.Language), 12),
				c.Level,
				len(turns),
				len(report.Corrections),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a saved conversation and its feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		htmlPath, _ := cmd.Flags().GetString("html")

		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c, err := s.ConversationRepo().Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("get conversation: %w", err)
		}
		if c == nil {
			return fmt.Errorf("conversation %s not found", args[0])
		}

		entries, err := conversationEntries(c)
		if err != nil {
			return err
		}

		if htmlPath != "" {
			f, err := os.Create(htmlPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", htmlPath, err)
			}
			title := sidebar.LanguageLabel(c.Language) + " Practice"
			if err := transcript.WriteHTML(f, title, entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", htmlPath)
			return nil
		}

		printConversation(c, entries)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of conversations to show")
	historyViewCmd.Flags().String("html", "", "Write the conversation to this HTML file instead of printing it")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}

func decodeConversation(c *store.Conversation) ([]tutor.Turn, tutor.FeedbackReport, error) {
	var turns []tutor.Turn
	var report tutor.FeedbackReport
	if err := json.Unmarshal(c.Turns, &turns); err != nil {
		return nil, report, fmt.Errorf("decode conversation %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(c.Feedback, &report); err != nil {
		return nil, report, fmt.Errorf("decode feedback %s: %w", c.ID, err)
	}
	return turns, report, nil
}

// conversationEntries rebuilds the transcript the learner saw: the opening
// prompt is not shown, every other turn becomes a user and an assistant
// message, and the feedback comes last.
func conversationEntries(c *store.Conversation) ([]transcript.Entry, error) {
	turns, report, err := decodeConversation(c)
	if err != nil {
		return nil, err
	}

	var entries []transcript.Entry
	add := func(e transcript.Entry) {
		e.Seq = len(entries) + 1
		entries = append(entries, e)
	}
	for i, t := range turns {
		if !(i == 0 && t.User == tutor.OpeningPrompt) {
			add(transcript.Entry{Kind: transcript.KindMessage, Sender: transcript.SenderUser, Text: t.User})
		}
		add(transcript.Entry{Kind: transcript.KindMessage, Sender: transcript.SenderAssistant, Text: t.Assistant})
	}
	add(transcript.Entry{Kind: transcript.KindFeedback, Feedback: &report})
	return entries, nil
}

func printConversation(c *store.Conversation, entries []transcript.Entry) {
	sep := strings.Repeat("─", 60)

	fmt.Printf("ID:        %s\n", c.ID)
	fmt.Printf("Created:   %s\n", c.Created.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Language:  %s\n", sidebar.LanguageLabel(c.Language))
	fmt.Printf("Level:     %s\n", c.Level)
	if c.Focus != "" {
		fmt.Printf("Focus:     %s\n", c.Focus)
	}
	if c.Context != "" {
		fmt.Printf("Setting:   %s\n", c.Context)
	}

	fmt.Println()
	fmt.Println(sep)
	for _, e := range entries {
		if e.Kind == transcript.KindFeedback {
			printFeedback(*e.Feedback, sep)
			continue
		}
		fmt.Printf("%s: %s\n\n", e.Sender.DisplayName(), transcript.Sanitize(e.Text))
	}
}

func printFeedback(r tutor.FeedbackReport, sep string) {
	fmt.Println(sep)
	fmt.Println(strings.ToUpper(transcript.HeadingFeedback))
	fmt.Println(sep)

	fmt.Println(transcript.HeadingCorrections)
	if len(r.Corrections) == 0 {
		fmt.Printf("  %s\n", transcript.NoCorrectionsPlaceholder)
	}
	for _, c := range r.Corrections {
		fmt.Printf("  ✗ %s\n", transcript.Sanitize(c.UserText))
		fmt.Printf("  ✓ %s\n", transcript.Sanitize(c.CorrectedText))
		fmt.Printf("    %s\n", transcript.Sanitize(c.Explanation))
	}

	printList(transcript.HeadingStrengths, r.Strengths)
	printList(transcript.HeadingWeaknesses, r.Weaknesses)
	printList(transcript.HeadingRecommendations, r.Recommendations)
}

func printList(heading string, items []string) {
	fmt.Println()
	fmt.Println(heading)
	for _, it := range items {
		fmt.Printf("  • %s\n", transcript.Sanitize(it))
	}
}
