package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobgate/internal/filtering"
	"jobgate/internal/matcher"
	"jobgate/internal/store"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print the ranked postings for a candidate profile",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Int64P("profile", "p", 0, "candidate profile id")
	recommendCmd.Flags().Bool("dump", false, "dump the eligible postings to a temp file before ranking")
	recommendCmd.MarkFlagRequired("profile")
}

func recommend(cmd *cobra.Command) {
	zl, config, err := newRuntime()
	if err != nil {
		log.Fatalf("initializing: %s", err)
	}

	profileID, _ := cmd.Flags().GetInt64("profile")

	st, err := store.Open(config.Database)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	ctx := context.Background()

	profile, err := st.GetProfile(ctx, profileID)
	if err != nil {
		zl.Fatal("loading the profile", zap.Int64("profile_id", profileID), zap.Error(err))
	}

	postings, err := st.ListPostings(ctx, store.PostingFilter{})
	if err != nil {
		zl.Fatal("listing postings", zap.Error(err))
	}

	zl.Info("found postings", zap.Int("count", postings.Len()))

	cfg := &filtering.Config{ExcludeApplied: config.Recommendations.ExcludeApplied}
	deps := filtering.Deps{
		Applications: st,
		Logger:       zl,
		Profile:      profile,
	}
	eligible, err := filtering.Run(ctx, cfg, deps, filtering.DefaultSteps(), postings)
	if err != nil {
		zl.Fatal("filtering postings", zap.Error(err))
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		path, err := eligible.DumpToTmpFile()
		if err != nil {
			zl.Fatal("dumping postings", zap.Error(err))
		}
		zl.Info("eligible postings dumped", zap.String("file", path))
	}

	results := matcher.Recommend(profile, eligible)
	if len(results) == 0 {
		zl.Info("no matching postings for this profile", zap.Int64("profile_id", profileID))
		return
	}

	type row struct {
		PostingID       int64  `json:"posting_id"`
		Title           string `json:"title"`
		CompanyName     string `json:"company_name"`
		Location        string `json:"location,omitempty"`
		RawScore        int    `json:"raw_score"`
		NormalizedScore int    `json:"normalized_score"`
	}

	rows := make([]row, 0, len(results))
	for _, result := range results {
		rows = append(rows, row{
			PostingID:       result.Posting.ID,
			Title:           result.Posting.Title,
			CompanyName:     result.Posting.CompanyName,
			Location:        result.Posting.Location,
			RawScore:        result.RawScore,
			NormalizedScore: result.NormalizedScore,
		})
	}

	pretty, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		zl.Fatal("encoding recommendations", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
