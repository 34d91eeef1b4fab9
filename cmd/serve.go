package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobgate/internal/classifier"
	"jobgate/internal/server"
	"jobgate/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the jobgate HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	logger, config, err := newRuntime()
	if err != nil {
		log.Fatalf("initializing: %s", err)
	}

	logger.Info("starting jobgate", zap.String("version", resolveVersion()))

	st, err := store.Open(config.Database)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	// The classifier model is fitted once here and shared read-only by
	// every request.
	cl := classifier.Bootstrap(config.ModelDir(), logger)

	srv := server.New(server.Config{
		Addr:           config.Listen,
		ExcludeApplied: config.Recommendations.ExcludeApplied,
	}, st, cl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
