package cmd

import (
	"errors"
	"log"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobgate/internal/logger"
)

const (
	app = "jobgate"
)

type Config struct {
	Listen          string                 `mapstructure:"listen"`
	DataDir         string                 `mapstructure:"data-dir"`
	Database        string                 `mapstructure:"database"`
	Recommendations *RecommendationsConfig `mapstructure:"recommendations"`
}

type RecommendationsConfig struct {
	ExcludeApplied bool `mapstructure:"exclude-applied"`
}

// ModelDir is where the classifier artifacts live.
func (c *Config) ModelDir() string {
	return filepath.Join(c.DataDir, "models")
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobgate is a scoring engine for job boards: it screens postings for scam signals and ranks verified postings for candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("data-dir", "JOBGATE_DATA_DIR"); err != nil {
		log.Fatalf("binding JOBGATE_DATA_DIR environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobgate.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("listen", ":8080")
	viper.SetDefault("data-dir", "data")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless one was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Listen == "" {
		config.Listen = viper.GetString("listen")
	}
	if config.DataDir == "" {
		config.DataDir = viper.GetString("data-dir")
	}
	if config.Database == "" {
		config.Database = filepath.Join(config.DataDir, "jobgate.db")
	}
	if config.Recommendations == nil {
		config.Recommendations = &RecommendationsConfig{}
	}

	return config, nil
}

// newRuntime builds the logger and loads the config the way every
// subcommand needs them.
func newRuntime() (*zap.Logger, *Config, error) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, err
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, err
	}

	return zl, config, nil
}
