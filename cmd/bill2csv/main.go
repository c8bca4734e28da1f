// Command bill2csv extracts an expense table from a bill or statement PDF
// using the Gemini API and writes normalized CSV output next to it.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dvloznov/bill2csv/internal/apikey"
	"github.com/dvloznov/bill2csv/internal/batch"
	"github.com/dvloznov/bill2csv/internal/category"
	"github.com/dvloznov/bill2csv/internal/config"
	"github.com/dvloznov/bill2csv/internal/gemini"
	"github.com/dvloznov/bill2csv/internal/logger"
	"github.com/dvloznov/bill2csv/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, batch.ErrRejectedRows) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type flags struct {
	configPath      string
	categoriesFile  string
	outDir          string
	noPayee         bool
	noClean         bool
	strict          bool
	quiet           bool
	debug           bool
	model           string
	keychainService string
	keychainAccount string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "bill2csv <bill.pdf>",
		Short: "Convert a bill or statement PDF into normalized CSV",
		Long: `bill2csv sends a PDF to the Gemini API, recovers the expense table from
the model response, validates and normalizes every row, and writes the
accepted rows to <bill>.csv with rejected rows in <bill>.errors.csv.

The source may be a local path or a gs:// URI.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], &f)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file path")
	cmd.Flags().StringVar(&f.categoriesFile, "categories", "", "expense categories markdown file")
	cmd.Flags().StringVarP(&f.outDir, "outdir", "o", "", "output directory (default current directory)")
	cmd.Flags().BoolVar(&f.noPayee, "no-payee", false, "omit the Payee column")
	cmd.Flags().BoolVar(&f.noClean, "no-clean", false, "keep raw symbols in descriptions")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail when any row is rejected")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "warnings and errors only")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "dump the raw model response to stderr")
	cmd.Flags().StringVar(&f.model, "model", "", "Gemini model name")
	cmd.Flags().StringVar(&f.keychainService, "keychain-service", "", "macOS Keychain service holding the API key")
	cmd.Flags().StringVar(&f.keychainAccount, "keychain-account", "", "macOS Keychain account holding the API key")

	return cmd
}

func run(cmd *cobra.Command, sourcePath string, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)

	log := logger.New(f.quiet)
	ctx := logger.WithContext(cmd.Context(), log)

	categories, err := category.Discover(cfg.CategoriesFile, cfg.DefaultCategory)
	if err != nil {
		return err
	}

	key, err := apikey.Get(cfg.Keychain.Service, cfg.Keychain.Account)
	if err != nil {
		return err
	}

	policy := cfg.RetryPolicy(gemini.IsTransient)
	client, err := gemini.NewClient(ctx, key, gemini.Options{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Policy:          &policy,
	})
	if err != nil {
		return err
	}

	p := pipeline.NewExtractionPipeline(pipeline.Options{
		Extractor:        client,
		Categories:       categories,
		CleanDescription: cfg.CleanDescription,
		OutDir:           cfg.OutDir,
	})
	state := &pipeline.State{
		RunID:      uuid.NewString(),
		SourcePath: sourcePath,
		Schema:     cfg.Schema(),
	}

	log.Info().Str("run_id", state.RunID).Str("source", sourcePath).Msg("starting extraction")
	if err := p.Execute(ctx, state); err != nil {
		if f.debug && state.RawResponse != "" {
			fmt.Fprintln(os.Stderr, state.RawResponse)
		}
		return err
	}
	if f.debug {
		fmt.Fprintln(os.Stderr, state.RawResponse)
	}

	if cfg.Strict {
		if err := state.Result.StrictErr(); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags overlays explicitly set command-line flags on the loaded
// configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f *flags) {
	if cmd.Flags().Changed("categories") {
		cfg.CategoriesFile = f.categoriesFile
	}
	if cmd.Flags().Changed("outdir") {
		cfg.OutDir = f.outDir
	}
	if cmd.Flags().Changed("no-payee") {
		cfg.IncludePayee = !f.noPayee
	}
	if cmd.Flags().Changed("no-clean") {
		cfg.CleanDescription = !f.noClean
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = f.strict
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = f.model
	}
	if cmd.Flags().Changed("keychain-service") {
		cfg.Keychain.Service = f.keychainService
	}
	if cmd.Flags().Changed("keychain-account") {
		cfg.Keychain.Account = f.keychainAccount
	}
}
