package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"policyrag/internal/usecase"
)

var (
	lookupText string
	lookupK    int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Answer a question the way the agent tool does",
	Long: `Run the lookup tool: retrieve the best-matching policy sections and join
them into a single answer string.

Examples:
  policyrag lookup -q "can I change my booking?"
  policyrag lookup -q "pet transport rules" -k 3`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringVarP(&lookupText, "query", "q", "", "question (required)")
	lookupCmd.Flags().IntVarP(&lookupK, "top-k", "k", 0, "sections to include (default from config)")
	lookupCmd.MarkFlagRequired("query")
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()

	s, err := buildStack(GetRootDir(), cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.Ingest.Ingest(ctx); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	k := cfg.Retrieve.LookupK
	if lookupK > 0 {
		k = lookupK
	}

	lookupUC := usecase.NewLookupUseCase(s.Retriever, k)
	answer, err := lookupUC.Lookup(ctx, lookupText)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}
