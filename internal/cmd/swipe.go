package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strrl/style-dna/internal/output"
	"github.com/strrl/style-dna/internal/profile"
	"github.com/strrl/style-dna/internal/replay"
	"github.com/strrl/style-dna/internal/session"
	"github.com/strrl/style-dna/internal/style"
)

const (
	sinkStore   = "store"
	sinkBackend = "backend"
	sinkBoth    = "both"
	sinkNone    = "none"
)

var (
	swipeScript    string
	swipeSink      string
	swipeRefill    bool
	swipeReport    bool
	swipeReportDir string
	swipeUser      string
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Replay a gesture script against the outfit feed",
	Long: `Replay recorded drag gestures against a batch of outfit candidates.
Each gesture is classified as like, dislike, superlike or nothing, the Style
DNA is updated and the swipe is recorded to the configured sink.

The script is a JSON array or newline-delimited JSON file of {"dx": .., "dy": ..}
offsets in screen points.`,
	RunE: runSwipe,
}

func init() {
	rootCmd.AddCommand(swipeCmd)

	swipeCmd.Flags().StringVarP(&swipeScript, "script", "s", "", "Gesture script to replay (required)")
	swipeCmd.Flags().StringVar(&swipeSink, "sink", sinkStore, "Where swipes are recorded: store, backend, both or none")
	swipeCmd.Flags().BoolVar(&swipeRefill, "refill", false, "Load the next page when the batch runs out")
	swipeCmd.Flags().BoolVar(&swipeReport, "report", false, "Write a Style DNA report after the session")
	swipeCmd.Flags().StringVar(&swipeReportDir, "report-dir", "", "Directory for the report (default: current directory)")
	swipeCmd.Flags().StringVarP(&swipeUser, "user", "u", "", "User ID (overrides config)")
	bindCatalogFlags(swipeCmd)

	_ = swipeCmd.MarkFlagRequired("script")
}

func runSwipe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	skip, err := applyCatalogFlags(cmd)
	if err != nil {
		return err
	}
	if swipeUser != "" {
		cfg.Session.UserID = swipeUser
	}

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	gestures, err := replay.LoadScript(ctx, database, swipeScript)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d gestures from %s\n", len(gestures), swipeScript)

	fetcher, err := newFetcher(database)
	if err != nil {
		return err
	}

	sink, err := buildSink(ctx, database, swipeSink)
	if err != nil {
		return err
	}

	sc := sessionConfig()
	sc.OnExhausted = func(s session.Snapshot) {
		logger.Info("Outfit batch exhausted",
			zap.Int("swipes", s.Swipes),
			zap.Int("batch_length", s.Length))
	}
	controller := session.New(sc, sink, logger)

	filter := cfg.Catalog.Filter()
	filter.Skip = skip
	loaded := controller.LoadBatch(ctx, fetcher, filter)
	fmt.Printf("Loaded %d outfits from %s source\n", loaded, cfg.Catalog.Source)

	opts := []replay.Option{replay.WithLogger(logger)}
	if swipeRefill {
		opts = append(opts, replay.WithRefill(fetcher, filter))
	}

	steps, runErr := replay.New(controller, opts...).Run(ctx, gestures)

	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := controller.Close(closeCtx); err != nil {
		logger.Warn("Not all swipes were delivered", zap.Error(err))
	}

	if runErr != nil {
		return fmt.Errorf("replay interrupted: %w", runErr)
	}

	printSteps(steps)

	snap := controller.Snapshot()
	printSummary(snap)

	if swipeReport {
		p := profile.NewAggregator(profile.DefaultConfig()).Aggregate(profile.Input{
			UserID:    snap.UserID,
			DNA:       snap.DNA,
			Swipes:    snap.Swipes,
			Threshold: cfg.Session.PersonalizationThreshold,
			Tallies:   tallySteps(steps),
		})
		return writeReport(p, swipeReportDir)
	}

	return nil
}

// buildSink maps the --sink flag to a session sink.
func buildSink(ctx context.Context, database *sql.DB, kind string) (session.Sink, error) {
	switch kind {
	case sinkNone:
		return nil, nil
	case sinkStore:
		return openStore(ctx, database)
	case sinkBackend:
		return newBackendClient()
	case sinkBoth:
		store, err := openStore(ctx, database)
		if err != nil {
			return nil, err
		}
		client, err := newBackendClient()
		if err != nil {
			return nil, err
		}
		return session.MultiSink{store, client}, nil
	default:
		return nil, fmt.Errorf("unknown sink %q (want store, backend, both or none)", kind)
	}
}

func printSteps(steps []replay.Step) {
	for i, step := range steps {
		res := step.Result
		if !res.Committed {
			fmt.Printf("  %3d  (%6.1f, %6.1f)  -\n", i+1, step.Gesture.DX, step.Gesture.DY)
			continue
		}
		fmt.Printf("  %3d  (%6.1f, %6.1f)  %-9s %s [%s]\n",
			i+1, step.Gesture.DX, step.Gesture.DY,
			res.Action, res.Candidate.ID, res.Candidate.StyleCategory)
	}
}

func printSummary(snap session.Snapshot) {
	fmt.Printf("\nSession for %s: %d swipes, %d of %d outfits left\n",
		snap.UserID, snap.Swipes, snap.Remaining(), snap.Length)

	if snap.Readiness.Personalized {
		fmt.Println("Feed is personalized.")
	} else {
		fmt.Printf("Personalization: %d/%d swipes\n", snap.Readiness.Progress, snap.Readiness.Threshold)
	}

	fmt.Println("Style DNA:")
	for _, c := range style.Categories() {
		fmt.Printf("  %-12s %.2f\n", c, snap.DNA[c])
	}
}

func tallySteps(steps []replay.Step) map[style.Category]style.Tally {
	tallies := make(map[style.Category]style.Tally)
	for _, step := range steps {
		if !step.Result.Committed {
			continue
		}
		c := step.Result.Candidate.StyleCategory
		t := tallies[c]
		t.Add(step.Result.Action)
		tallies[c] = t
	}
	return tallies
}

func writeReport(p *profile.Profile, dir string) error {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}

	filename, err := output.NewGenerator(dir).Generate(p)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote Style DNA report to %s\n", filename)
	return nil
}
