package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"policyrag/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "policyrag",
	Short: "Semantic search over company policy documents",
	Long: `policyrag fetches a markdown policy corpus, embeds its sections and answers
natural-language questions by inner-product similarity. It also exposes the
lookup form used as an agent tool: the best-matching sections joined into a
single answer string.

Example usage:
  policyrag fetch                          # Download the corpus for offline runs
  policyrag query -q "baggage allowance"   # Ranked sections with scores
  policyrag lookup -q "can I rebook?"      # Tool-style answer blob`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./policyrag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "working directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
