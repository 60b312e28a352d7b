package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/logger"
	"github.com/spigell/proposal-writer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the proposal generation HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().Int("rate-limit", 0, "generation requests per minute per client ip")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.rate-limit", serveCmd.Flags().Lookup("rate-limit"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the proposal-writer server", zap.String("version", buildVersion()))

	store, err := openHistory(config.HistoryFile, logger)
	if err != nil {
		logger.Fatal("opening proposal history", zap.Error(err))
	}

	srv := server.New(server.Config{
		Addr:        config.Server.Addr,
		CORSOrigins: config.Server.CORSOrigins,
		RateLimit:   config.Server.RateLimit,
	}, newService(ctx, config, logger), store, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
