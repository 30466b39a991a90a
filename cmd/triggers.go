package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zjrosen/taglet/internal/config"
)

var (
	trigAddRune  string
	trigAddLabel string
	trigAddColor string
)

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "Manage tag triggers",
	Long: `Manage the triggers that open a candidate search in the composer.

Changes are written back to the config file; other sections keep their
comments.`,
}

var triggersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured triggers as JSON",
	RunE:  runTriggersList,
}

var triggersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a trigger",
	Long: `Add a trigger to the config file.

Required inputs:
  --rune (-r): Single character that opens a search

Examples:
  taglet triggers add --rune '!' --label Actions --color '#FF6B6B'
  taglet triggers add -r '~'`,
	RunE: runTriggersAdd,
}

var triggersRemoveCmd = &cobra.Command{
	Use:   "remove <rune>",
	Short: "Remove a trigger",
	Long: `Remove a trigger from the config file. The last trigger cannot be
removed; the composer needs at least one.`,
	Args: cobra.ExactArgs(1),
	RunE: runTriggersRemove,
}

func init() {
	triggersAddCmd.Flags().StringVarP(&trigAddRune, "rune", "r", "",
		"single character that opens a search (required)")
	triggersAddCmd.Flags().StringVarP(&trigAddLabel, "label", "l", "",
		"heading shown above the suggestion box")
	triggersAddCmd.Flags().StringVar(&trigAddColor, "color", "",
		"hex color for rendered tags, e.g. '#10B981'")

	triggersCmd.AddCommand(triggersListCmd)
	triggersCmd.AddCommand(triggersAddCmd)
	triggersCmd.AddCommand(triggersRemoveCmd)
	rootCmd.AddCommand(triggersCmd)
}

// triggerRow is the JSON shape printed by list.
type triggerRow struct {
	Rune  string `json:"rune"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
}

func runTriggersList(cmd *cobra.Command, args []string) error {
	triggers := cfg.GetTriggers()
	rows := make([]triggerRow, 0, len(triggers))
	for _, t := range triggers {
		rows = append(rows, triggerRow{Rune: t.Rune, Label: t.Label, Color: t.Color})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func runTriggersAdd(cmd *cobra.Command, args []string) error {
	// Validate required flags
	if trigAddRune == "" {
		return cmd.Help()
	}
	if utf8.RuneCountInString(trigAddRune) != 1 {
		return fmt.Errorf("--rune must be a single character, got %q", trigAddRune)
	}

	newTrigger := config.TriggerConfig{
		Rune:  trigAddRune,
		Label: trigAddLabel,
		Color: trigAddColor,
	}
	configPath := configFilePathOrDefault()
	if err := config.AddTrigger(configPath, newTrigger, cfg.GetTriggers()); err != nil {
		return fmt.Errorf("adding trigger: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added trigger %s (saved to %s)\n", trigAddRune, configPath)
	return nil
}

func runTriggersRemove(cmd *cobra.Command, args []string) error {
	target := args[0]
	triggers := cfg.GetTriggers()

	index := -1
	for i, t := range triggers {
		if t.Rune == target {
			index = i
			break
		}
	}
	if index == -1 {
		available := make([]string, 0, len(triggers))
		for _, t := range triggers {
			available = append(available, t.Rune)
		}
		return fmt.Errorf("no trigger %q configured (have: %s)", target, strings.Join(available, " "))
	}

	configPath := configFilePathOrDefault()
	if err := config.DeleteTrigger(configPath, index, triggers); err != nil {
		return fmt.Errorf("removing trigger: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed trigger %s (saved to %s)\n", target, configPath)
	return nil
}
