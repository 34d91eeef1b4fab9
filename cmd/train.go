package cmd

import (
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobgate/internal/classifier"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the posting classifier from the seed corpus and save the artifacts",
	Run: func(cmd *cobra.Command, _ []string) {
		train(cmd)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().BoolP("yes", "y", false, "overwrite existing artifacts without asking")
}

func train(cmd *cobra.Command) {
	zl, config, err := newRuntime()
	if err != nil {
		log.Fatalf("initializing: %s", err)
	}

	dir := config.ModelDir()

	if _, err := classifier.LoadModel(dir); err == nil {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			prompt := promptui.Prompt{
				Label:     "Trained artifacts already exist. Overwrite them",
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				zl.Info("keeping the existing artifacts", zap.String("dir", dir))
				return
			}
		}
	}

	zl.Info("training classifier from seed corpus")

	model := classifier.Train()
	if err := model.Save(dir); err != nil {
		zl.Fatal("saving classifier artifacts", zap.String("dir", dir), zap.Error(err))
	}

	zl.Info("classifier artifacts saved", zap.String("dir", dir))
}
