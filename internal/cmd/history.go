package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strrl/style-dna/internal/profile"
	"github.com/strrl/style-dna/internal/style"
)

var (
	historyUser   string
	historyRemote bool
	historyClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded swipes for a user",
	Long: `Show the swipes recorded for a user, oldest first, followed by per-style
counts. Reads the local DuckDB store unless --remote is given.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "User ID (overrides config)")
	historyCmd.Flags().BoolVar(&historyRemote, "remote", false, "Read swipes from the backend instead of the local store")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the user's swipes from the local store")
	historyCmd.MarkFlagsMutuallyExclusive("remote", "clear")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID := cfg.Session.UserID
	if historyUser != "" {
		userID = historyUser
	}

	if historyClear {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		store, err := openStore(ctx, database)
		if err != nil {
			return err
		}
		n, err := store.DeleteSwipes(ctx, userID)
		if err != nil {
			return err
		}
		logger.Info("Swipe history cleared", zap.String("user_id", userID), zap.Int64("deleted", n))
		fmt.Printf("Deleted %d swipes for %s\n", n, userID)
		return nil
	}

	records, err := loadRecords(cmd, userID, historyRemote)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Printf("No swipes recorded for %s\n", userID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tOUTFIT\tSTYLE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Action, r.CandidateID, r.StyleCategory)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	tallies := profile.TallyRecords(records)
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STYLE\tLIKES\tSUPERLIKES\tDISLIKES")
	for _, c := range style.Categories() {
		t, ok := tallies[c]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", c, t.Likes, t.Superlikes, t.Dislikes)
	}
	return w.Flush()
}

// loadRecords reads a user's swipes from the backend or the local store.
func loadRecords(cmd *cobra.Command, userID string, remote bool) ([]style.Record, error) {
	ctx := cmd.Context()

	if remote {
		client, err := newBackendClient()
		if err != nil {
			return nil, err
		}
		return client.ListSwipes(ctx, userID)
	}

	database, err := openDatabase()
	if err != nil {
		return nil, err
	}
	defer database.Close()

	store, err := openStore(ctx, database)
	if err != nil {
		return nil, err
	}
	return store.ListSwipes(ctx, userID)
}
