package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onepager/onepager/internal/onepager"
)

type renderOptions struct {
	payload  string
	output   string
	strategy string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "onepager-render TEMPLATE.pptx",
		Short: "Apply a one-pager payload to a presentation template",
		Long: "Reads a JSON payload shaped like the /api/generate-nav request body " +
			"(templateFile is ignored), applies it to the first slide of TEMPLATE.pptx " +
			"and writes the resulting deck.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.payload, "payload", "p", "", "JSON payload file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default TEMPLATE.onepager.pptx)")
	cmd.Flags().StringVar(&opts.strategy, "rag-strategy", string(onepager.RAGPositional), "RAG indicator lookup: positional or label")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log section passes to stderr")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

func runRender(cmd *cobra.Command, templatePath string, opts *renderOptions) error {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	raw, err := os.ReadFile(opts.payload)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	var req onepager.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse payload json: %w", err)
	}
	req.TemplateFile = base64.StdEncoding.EncodeToString(template)

	switch onepager.RAGStrategy(opts.strategy) {
	case onepager.RAGPositional, onepager.RAGLabel:
	default:
		return fmt.Errorf("unknown rag strategy %q", opts.strategy)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	gen := onepager.NewGenerator(logger, onepager.WithRAGStrategy(onepager.RAGStrategy(opts.strategy)))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(templatePath, filepath.Ext(templatePath)) + ".onepager.pptx"
	}
	if err := os.WriteFile(output, res.File, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, update := range res.Updates {
		fmt.Fprintf(out, "- %s\n", update)
	}
	fmt.Fprintf(out, "%s\nwrote %s\n", res.Message, output)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "onepager-render:", err)
		os.Exit(1)
	}
}
