package cmd

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zjrosen/taglet/internal/config"
	"github.com/zjrosen/taglet/internal/directory"
	"github.com/zjrosen/taglet/internal/paths"
)

var (
	dirDB         string
	dirTrigger    string
	dirQuery      string
	dirAddTrigger string
	dirAddName    string
	dirAddDetail  string
	dirAddID      string
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Manage the candidate directory database",
	Long: `Manage the SQLite database the composer searches for candidates.

The database holds one row per candidate: a trigger, a stable id, the
display name, and optional detail text. Commands default to the
configured database and fall back to .taglet/candidates.db in the
current directory.`,
}

var directoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates as JSON",
	Long: `List candidates from the directory database as JSON.

Examples:
  # List everything
  taglet directory list

  # Only one trigger
  taglet directory list --trigger @

  # Filter by name or detail
  taglet directory list --trigger @ --query bri

  # Parse specific fields with jq
  taglet directory list | jq '.[].name'`,
	RunE: runDirectoryList,
}

var directoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a candidate",
	Long: `Add a candidate to the directory database, creating the database and
its schema when missing. Without --id a random uuid is generated; adding
with an existing id updates that candidate in place.

Required inputs:
  --trigger (-t): Trigger the candidate completes, e.g. "@"
  --name (-n): Display name rendered after the trigger

Examples:
  taglet directory add --trigger @ --name Brad --detail Platform
  taglet directory add -t '#' -n golang
  taglet directory add -t @ -n Brad --id 11a`,
	RunE: runDirectoryAdd,
}

var directoryUseCmd = &cobra.Command{
	Use:   "use <path>",
	Short: "Point the config at a candidate database",
	Long: `Persist a candidate database path into the config file. The path may
be the database file itself or a project directory containing
.taglet/candidates.db. The database must already exist; other sections
of the config file keep their comments.`,
	Args: cobra.ExactArgs(1),
	RunE: runDirectoryUse,
}

func init() {
	directoryCmd.PersistentFlags().StringVar(&dirDB, "db", "",
		"database file or project directory (overrides config)")

	directoryListCmd.Flags().StringVarP(&dirTrigger, "trigger", "t", "",
		"only list candidates for this trigger")
	directoryListCmd.Flags().StringVarP(&dirQuery, "query", "q", "",
		"filter by name or detail")

	directoryAddCmd.Flags().StringVarP(&dirAddTrigger, "trigger", "t", "",
		"trigger the candidate completes (required)")
	directoryAddCmd.Flags().StringVarP(&dirAddName, "name", "n", "",
		"display name (required)")
	directoryAddCmd.Flags().StringVar(&dirAddDetail, "detail", "",
		"secondary text shown in the suggestion box")
	directoryAddCmd.Flags().StringVar(&dirAddID, "id", "",
		"stable identifier (default: random uuid)")

	directoryCmd.AddCommand(directoryListCmd)
	directoryCmd.AddCommand(directoryAddCmd)
	directoryCmd.AddCommand(directoryUseCmd)
	rootCmd.AddCommand(directoryCmd)
}

// candidateRow is the JSON shape printed by list and add.
type candidateRow struct {
	Trigger string `json:"trigger"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Detail  string `json:"detail,omitempty"`
}

// resolveDirectoryDB resolves the database the directory commands operate
// on: the --db flag, then the configured path, then the local default.
func resolveDirectoryDB() string {
	path := dirDB
	if path == "" {
		path = cfg.Directory.Path
	}
	return paths.ResolveCandidatesDB(path)
}

func runDirectoryList(cmd *cobra.Command, args []string) error {
	dbPath := resolveDirectoryDB()
	store, err := directory.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening candidate directory %s: %w\nRun 'taglet directory add' to create one", dbPath, err)
	}
	defer func() { _ = store.Close() }()

	triggers := cfg.TriggerRunes()
	if dirTrigger != "" {
		if utf8.RuneCountInString(dirTrigger) != 1 {
			return fmt.Errorf("--trigger must be a single character, got %q", dirTrigger)
		}
		r, _ := utf8.DecodeRuneInString(dirTrigger)
		triggers = []rune{r}
	}

	rows := make([]candidateRow, 0)
	for _, trigger := range triggers {
		candidates, err := store.Search(cmd.Context(), trigger, dirQuery)
		if err != nil {
			return fmt.Errorf("searching candidates: %w", err)
		}
		for _, c := range candidates {
			rows = append(rows, candidateRow{
				Trigger: string(trigger),
				ID:      c.ID,
				Name:    c.Name,
				Detail:  c.Detail,
			})
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func runDirectoryAdd(cmd *cobra.Command, args []string) error {
	// Validate required flags
	if dirAddTrigger == "" {
		return cmd.Help()
	}
	if dirAddName == "" {
		return cmd.Help()
	}
	if utf8.RuneCountInString(dirAddTrigger) != 1 {
		return fmt.Errorf("--trigger must be a single character, got %q", dirAddTrigger)
	}
	trigger, _ := utf8.DecodeRuneInString(dirAddTrigger)

	id := dirAddID
	if id == "" {
		id = uuid.NewString()
	}

	dbPath := resolveDirectoryDB()
	store, err := directory.Create(dbPath)
	if err != nil {
		return fmt.Errorf("creating candidate directory %s: %w", dbPath, err)
	}
	defer func() { _ = store.Close() }()

	candidate := directory.Candidate{ID: id, Name: dirAddName, Detail: dirAddDetail}
	if err := store.Upsert(cmd.Context(), trigger, candidate); err != nil {
		return fmt.Errorf("adding candidate: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(candidateRow{
		Trigger: string(trigger),
		ID:      candidate.ID,
		Name:    candidate.Name,
		Detail:  candidate.Detail,
	})
}

func runDirectoryUse(cmd *cobra.Command, args []string) error {
	raw := args[0]
	resolved := paths.ResolveCandidatesDB(raw)

	// Confirm the database opens before persisting the path
	store, err := directory.Open(resolved)
	if err != nil {
		return fmt.Errorf("candidate directory %s: %w", resolved, err)
	}
	_ = store.Close()

	// The config keeps the path as given so project directories and
	// worktree redirects resolve at startup, not once here.
	configPath := configFilePathOrDefault()
	if err := config.SaveDirectoryPath(configPath, raw); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Using %s (saved to %s)\n", resolved, configPath)
	return nil
}
