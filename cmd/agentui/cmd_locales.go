package main

import (
	"fmt"

	"agentui/internal/i18n"

	"github.com/spf13/cobra"
)

// localesCmd lists the built-in translation tables
var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "List available locales",
	Args:  cobra.NoArgs,
	RunE:  runLocales,
}

func runLocales(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	resolver, err := newResolver(c)
	if err != nil {
		return err
	}

	active := resolver.Locale()
	for _, locale := range i18n.NewRegistry().Locales() {
		marker := "  "
		if locale == active {
			marker = "* "
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, locale)
	}
	if resolver.OutputTranslated() {
		fmt.Fprintln(cmd.OutOrStdout(), resolver.UI("settings.translateOutput", nil))
	}
	return nil
}
