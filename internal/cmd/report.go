package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/style-dna/internal/output"
	"github.com/strrl/style-dna/internal/profile"
)

var (
	reportUser   string
	reportRemote bool
	reportDir    string
	reportStdout bool
	reportTopN   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rebuild a user's Style DNA from recorded swipes",
	Long: `Replay a user's recorded swipes through the Style DNA update rules and
write a Markdown report to <dir>/.style-dna/<user>.md.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportUser, "user", "u", "", "User ID (overrides config)")
	reportCmd.Flags().BoolVar(&reportRemote, "remote", false, "Read swipes from the backend instead of the local store")
	reportCmd.Flags().StringVarP(&reportDir, "dir", "d", "", "Output directory (default: current directory)")
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "Print the report instead of writing a file")
	reportCmd.Flags().IntVar(&reportTopN, "top", profile.DefaultConfig().TopN, "Number of top styles to list")
}

func runReport(cmd *cobra.Command, args []string) error {
	userID := cfg.Session.UserID
	if reportUser != "" {
		userID = reportUser
	}

	records, err := loadRecords(cmd, userID, reportRemote)
	if err != nil {
		return err
	}

	aggCfg := profile.DefaultConfig()
	aggCfg.TopN = reportTopN
	p := profile.NewAggregator(aggCfg).FromRecords(userID, records, cfg.Session.PersonalizationThreshold)

	if reportStdout {
		fmt.Print(output.Render(p))
		return nil
	}

	return writeReport(p, reportDir)
}
