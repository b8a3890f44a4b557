package main

import (
	"agentui/cmd/agentui/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var reviewLevel string

// reviewCmd opens the interactive preview
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Preview the document interactively (tab: level, c: copy, q: quit)",
	Args:  cobra.NoArgs,
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewLevel, "level", "l", "", "Initial output level")
}

func runReview(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	level, err := selectedLevel(c, reviewLevel)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	in, err := loadRenderInputs(ctx, c, "")
	cancel()
	if err != nil {
		return err
	}

	model := ui.NewReviewModel(ui.ReviewOptions{
		Level:    level,
		Document: in.document,
		Copier:   newExporter(c),
		Resolver: in.resolver,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
