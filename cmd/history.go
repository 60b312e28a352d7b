package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show proposals from the last 30 days grouped by age",
	Run: func(cmd *cobra.Command, _ []string) {
		showHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Bool("full", false, "print every entry instead of a summary")
}

func showHistory(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := openHistory(config.HistoryFile, logger)
	if err != nil {
		logger.Fatal("opening proposal history", zap.Error(err))
	}

	categorized := store.Categorize(time.Now())

	if cmd.Flag("full").Value.String() == "true" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(categorized); err != nil {
			logger.Fatal("printing history", zap.Error(err))
		}
		return
	}

	fmt.Printf("Past 24 hours: %d\n", len(categorized.Past24Hours))
	fmt.Printf("Past 7 days:   %d\n", len(categorized.Past7Days))
	fmt.Printf("Past 30 days:  %d\n", len(categorized.Past30Days))
	for _, e := range categorized.Past24Hours {
		fmt.Printf("  %s  %-40s score %d\n", e.CreatedAt.Local().Format(time.Kitchen), e.JobTitle, e.MatchScore)
	}
}
