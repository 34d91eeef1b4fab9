package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobgate/internal/classifier"
	"jobgate/internal/job"
	"jobgate/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load postings from a json file, classifying each on the way in",
	Run: func(cmd *cobra.Command, _ []string) {
		runImport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("file", "f", "", "json file with an array of postings")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command) {
	zl, config, err := newRuntime()
	if err != nil {
		log.Fatalf("initializing: %s", err)
	}

	file, _ := cmd.Flags().GetString("file")

	postings, err := readPostingsFile(file)
	if err != nil {
		zl.Fatal("reading the postings file", zap.String("file", file), zap.Error(err))
	}
	if len(postings) == 0 {
		zl.Info("nothing to import", zap.String("file", file))
		return
	}

	st, err := store.Open(config.Database)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	cl := classifier.Bootstrap(config.ModelDir(), zl)

	ctx := context.Background()

	var verified, flagged int
	for _, posting := range postings {
		if posting.Title == "" || posting.CompanyName == "" {
			zl.Warn("skipping posting without title or company", zap.String("title", posting.Title))
			continue
		}
		if posting.JobType == "" {
			posting.JobType = job.JobTypeFullTime
		}
		if posting.ExperienceLevel == "" {
			posting.ExperienceLevel = job.ExperienceEntry
		}
		posting.IsActive = true

		verdict := cl.Classify(posting.Title, posting.Description, posting.Requirements, posting.CompanyName)
		posting.IsVerified = verdict.IsReal
		posting.Confidence = verdict.Confidence

		if err := st.CreatePosting(ctx, posting); err != nil {
			zl.Fatal("creating posting", zap.String("title", posting.Title), zap.Error(err))
		}

		if verdict.IsReal {
			verified++
		} else {
			flagged++
		}
	}

	zl.Info("import finished",
		zap.Int("imported", verified+flagged),
		zap.Int("verified", verified),
		zap.Int("flagged", flagged),
	)
}

func readPostingsFile(path string) ([]*job.Posting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var postings []*job.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return postings, nil
}
