package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/mailfacts/internal/logger"
	"github.com/ppiankov/mailfacts/internal/model"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailfacts",
	Short: "Mailfacts - applicant, property and company facts from loan-enquiry emails",
	Long: `Mailfacts reads loan-enquiry emails and pulls out the facts a broker
needs to triage them: applicant names and contact details, income and
employer, property addresses, postcodes and values, and company
registration, trading-as and VAT details.

Extraction is pattern based. Every fact is a literal match from the
message text; nothing is inferred, scored or sent anywhere.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool("output.verbose"))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number for Mailfacts.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mailfacts %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.mailfacts/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match MAILFACTS_* (MAILFACTS_SERVER_ADDR -> server.addr)
	viper.SetEnvPrefix("MAILFACTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("output.verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env vars and Unmarshal see them
func setDefaults(cfg *model.Config) {
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_dir", cfg.Cache.DiskDir)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.include_footer", cfg.Output.IncludeFooter)
	viper.SetDefault("server.addr", cfg.Server.Addr)
	viper.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)
	viper.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)
	viper.SetDefault("server.requests_per_second", cfg.Server.RequestsPerSecond)
	viper.SetDefault("server.burst_size", cfg.Server.BurstSize)
	viper.SetDefault("lookup.companies_house_base_url", cfg.Lookup.CompaniesHouseBaseURL)
}

// loadConfig merges defaults, config file, env vars and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mailfacts"), nil
}
