package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"policyrag/config"
	"policyrag/internal/adapter/source"
)

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the policy corpus for offline use",
	Long: `Download the policy corpus and save it under .policyrag/, where later
query and lookup runs pick it up without touching the network.

Examples:
  policyrag fetch
  policyrag fetch --url https://example.com/faq.md`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "corpus URL (default from config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	url := cfg.Source.URL
	if fetchURL != "" {
		url = fetchURL
	}

	if err := config.EnsureWorkDir(rootDir); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	src := source.NewHTTPSource(url)

	var bar *progressbar.ProgressBar
	src.OnProgress = func(written, total int64) {
		if bar == nil {
			bar = progressbar.NewOptions(int(total),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Downloading[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(int(written))
	}

	fmt.Printf("Fetching %s...\n", url)
	text, err := src.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	dest := config.CorpusPath(rootDir)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save corpus: %w", err)
	}

	sections := source.SplitSections(text)
	fmt.Printf("\nSaved %d sections (%d bytes) to %s\n", len(sections), len(text), dest)
	return nil
}
