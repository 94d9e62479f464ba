package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	openaiEmb "github.com/kailas-cloud/cprsearch/internal/transport/openai"
)

func newEmbedCmd(opts *options) *cobra.Command {
	var printVector bool
	cmd := &cobra.Command{
		Use:   "embed TEXT...",
		Short: "Embed text with the configured provider",
		Long: `Embed text with the OpenAI-compatible provider from the embedding
config section and print the vector size and token usage.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(); err != nil {
				return err
			}
			ec := opts.cfg.Embedding
			if !ec.Enabled() {
				return errors.New("embedding is not configured: set embedding.api_key")
			}

			base, err := openaiEmb.NewEmbedder(&openaiEmb.Config{
				APIKey:     ec.APIKey,
				BaseURL:    ec.BaseURL,
				Model:      ec.Model,
				Dimensions: ec.Dimensions,
				Provider:   ec.Provider,
				Logger:     opts.logger,
			})
			if err != nil {
				return fmt.Errorf("create embedder: %w", err)
			}
			emb := domain.WithInstruction(base, ec.QueryInstruction)

			res, err := emb.Embed(cmd.Context(), joinArgs(args))
			if err != nil {
				return fmt.Errorf("embed: %w", err)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "model:         %s\n", base.Model())
			_, _ = fmt.Fprintf(w, "dimensions:    %d\n", len(res.Embedding))
			_, _ = fmt.Fprintf(w, "prompt tokens: %d\n", res.PromptTokens)
			_, _ = fmt.Fprintf(w, "total tokens:  %d\n", res.TotalTokens)
			if printVector {
				if err := json.NewEncoder(w).Encode(res.Embedding); err != nil {
					return fmt.Errorf("encode vector: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printVector, "vector", false, "also print the vector as JSON")
	return cmd
}
