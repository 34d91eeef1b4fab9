package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobgate/internal/classifier"
	"jobgate/internal/job"
	"jobgate/internal/logger"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single posting as real or fake and print the verdict",
	Run: func(cmd *cobra.Command, _ []string) {
		classify(cmd)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().String("title", "", "posting title")
	classifyCmd.Flags().String("company", "", "company name")
	classifyCmd.Flags().String("description", "", "posting description")
	classifyCmd.Flags().String("requirements", "", "posting requirements")
	classifyCmd.Flags().StringP("file", "f", "", "json file with a posting to classify instead of flags")
	classifyCmd.Flags().Bool("rules-only", false, "skip the trained model and use the rule-based scorer")
}

func classify(cmd *cobra.Command) {
	zl, config, err := newRuntime()
	if err != nil {
		log.Fatalf("initializing: %s", err)
	}

	title, _ := cmd.Flags().GetString("title")
	company, _ := cmd.Flags().GetString("company")
	description, _ := cmd.Flags().GetString("description")
	requirements, _ := cmd.Flags().GetString("requirements")

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		posting, err := readPostingFile(file)
		if err != nil {
			zl.Fatal("reading the posting file", zap.String("file", file), zap.Error(err))
		}
		title = posting.Title
		company = posting.CompanyName
		description = posting.Description
		requirements = posting.Requirements
	}

	if title == "" && description == "" {
		zl.Fatal("nothing to classify: pass --title/--description or --file")
	}

	var cl *classifier.Classifier
	if rulesOnly, _ := cmd.Flags().GetBool("rules-only"); rulesOnly {
		cl = classifier.New(nil, zl)
	} else {
		cl = classifier.Bootstrap(config.ModelDir(), zl)
	}

	zl.Debug("classifying posting",
		zap.String("title", title),
		zap.String("description", logger.TruncateForLog(description, 120)),
	)

	verdict := cl.Classify(title, description, requirements, company)

	pretty, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		zl.Fatal("encoding the verdict", zap.Error(err))
	}

	fmt.Println(string(pretty))
}

func readPostingFile(path string) (*job.Posting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var posting job.Posting
	if err := json.Unmarshal(data, &posting); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &posting, nil
}
