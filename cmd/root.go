package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "proposal-writer"
	envPrefix = "PROPOSAL_WRITER"
)

type Config struct {
	Profile     string             `mapstructure:"profile"`
	Jobs        string             `mapstructure:"jobs"`
	HistoryFile string             `mapstructure:"history-file"`
	Preferences *PreferencesConfig `mapstructure:"preferences"`
	Filters     *FiltersConfig     `mapstructure:"filters"`
	AI          *AIConfig          `mapstructure:"ai"`
	Server      *ServerConfig      `mapstructure:"server"`
}

type PreferencesConfig struct {
	Tone   string `mapstructure:"tone"`
	Length string `mapstructure:"length"`
}

type FiltersConfig struct {
	MinimumScore     int      `mapstructure:"minimum-score"`
	ExcludeLocations []string `mapstructure:"exclude-locations"`
	ExcludeFile      string   `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors-origins"`
	RateLimit   int      `mapstructure:"rate-limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "proposal-writer drafts freelance job proposals from a profile and job posts",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is proposal-writer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every config key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", "profile.yaml")
	v.SetDefault("jobs", "jobs.yaml")
	v.SetDefault("history-file", app+"-history.json")

	v.SetDefault("preferences.tone", "")
	v.SetDefault("preferences.length", "")

	v.SetDefault("filters.minimum-score", 0)
	v.SetDefault("filters.exclude-locations", []string{})
	v.SetDefault("filters.exclude-file", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors-origins", []string{"*"})
	v.SetDefault("server.rate-limit", 30)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig reads the explicit config file, or proposal-writer.yaml from the
// current directory when present. Environment variables override both.
func readConfig(v *viper.Viper, file string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Preferences == nil {
		config.Preferences = &PreferencesConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return &config, nil
}
