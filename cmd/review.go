package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobgate/internal/job"
	"jobgate/internal/store"
)

const (
	reviewMarkVerified = "Mark as verified"
	reviewKeepFlagged  = "Keep flagged"
	reviewDeactivate   = "Deactivate posting"
	reviewQuit         = "Quit"

	reviewBatchSize = 50
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Walk through postings the classifier flagged as fake and decide their fate",
	Run: func(_ *cobra.Command, _ []string) {
		review()
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func review() {
	zl, config, err := newRuntime()
	if err != nil {
		log.Fatalf("initializing: %s", err)
	}

	st, err := store.Open(config.Database)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	ctx := context.Background()

	flagged, err := st.ListFlagged(ctx, reviewBatchSize)
	if err != nil {
		zl.Fatal("listing flagged postings", zap.Error(err))
	}

	if flagged.Len() == 0 {
		zl.Info("no flagged postings to review")
		return
	}

	zl.Info("postings flagged for review", zap.Int("count", flagged.Len()))

	for _, posting := range flagged.Items {
		action, err := askReviewAction(posting)
		if err != nil {
			zl.Fatal("reading the answer", zap.Error(err))
		}

		switch action {
		case reviewMarkVerified:
			if err := st.SetVerdict(ctx, posting.ID, true, posting.Confidence); err != nil {
				zl.Fatal("marking posting as verified", zap.Int64("posting_id", posting.ID), zap.Error(err))
			}
			zl.Info("posting verified", zap.Int64("posting_id", posting.ID))
		case reviewDeactivate:
			if err := st.SetActive(ctx, posting.ID, false); err != nil {
				zl.Fatal("deactivating posting", zap.Int64("posting_id", posting.ID), zap.Error(err))
			}
			zl.Info("posting deactivated", zap.Int64("posting_id", posting.ID))
		case reviewKeepFlagged:
			continue
		case reviewQuit:
			zl.Info("review stopped")
			return
		}
	}

	zl.Info("review finished")
}

func askReviewAction(posting *job.Posting) (string, error) {
	label := fmt.Sprintf("[%d] %q by %s (confidence %.2f)",
		posting.ID, posting.Title, posting.CompanyName, posting.Confidence)

	prompt := promptui.Select{
		Label: label,
		Items: []string{reviewMarkVerified, reviewKeepFlagged, reviewDeactivate, reviewQuit},
	}

	_, action, err := prompt.Run()
	return action, err
}
