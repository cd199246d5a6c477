// Package cli defines the doctrans command line surface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulocilasjr/translate-file-docx/internal/config"
	"github.com/paulocilasjr/translate-file-docx/internal/logger"
	"github.com/paulocilasjr/translate-file-docx/internal/translator"
)

var (
	cfgFile      string
	targetLang   string
	inputDir     string
	outputDir    string
	csvPath      string
	providerName string
	chunkLimit   int
	glossaryPath string
	debugMode    bool
)

// NewRootCommand creates the doctrans root command.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctrans [flags] [manifest.csv]",
		Short: "Translate documents while keeping their layout",
		Long: `doctrans translates whole documents into another language without
disturbing their layout: PDF pages get the translation on a toggleable
overlay layer, Word documents are rewritten paragraph by paragraph, and
text baked into embedded images is recognized and captioned.

Inputs come from a directory walk of the input root or from a CSV
manifest (header row, one file path per row). Each translated copy
mirrors its input's relative path under the output root. A failing
document is logged and skipped; the batch always runs to the end.

Supported formats: .pdf, .docx, and via pandoc .doc and .rtf.

Translation backends:
  - google: Google Translate v2
  - libretranslate: LibreTranslate, including self-hosted instances
  - openai: chat-completion models`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runBatch,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&targetLang, "target", "t", "", "target language code, e.g. pt or es")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input", "i", "", "root folder scanned for documents")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "root folder for translated copies (default: target language name)")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "CSV manifest with one input path per row")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "translation backend (google, libretranslate, openai)")
	rootCmd.PersistentFlags().IntVar(&chunkLimit, "chunk-limit", 0, "longest text sent to the backend in one call, in characters")
	rootCmd.PersistentFlags().StringVar(&glossaryPath, "glossary", "", "TOML glossary of fixed translations")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	return rootCmd
}

// runBatch loads the configuration, wires the pipeline, and drives every
// discovered job through it. Per-job failures are reported in the summary
// and never turn into a non-zero exit.
func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	updateConfigFromFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug)
	defer func() {
		_ = log.Sync()
	}()

	dispatcher, err := translator.NewDispatcher(cfg, log)
	if err != nil {
		return err
	}

	var manifest string
	if cmd.Flags().Changed("csv") {
		manifest = csvPath
	}
	if len(args) == 1 {
		manifest = args[0]
	}

	var jobs []translator.Job
	if manifest != "" {
		jobs, err = translator.LoadManifest(manifest, cfg.InputDir, cfg.OutputRoot(), log)
	} else {
		jobs, err = translator.DiscoverJobs(cfg.InputDir, cfg.OutputRoot(), log)
	}
	if err != nil {
		return err
	}

	runner := translator.NewRunner(dispatcher, log)
	summary := runner.Run(cmd.Context(), jobs)
	summary.Render(cmd.OutOrStdout())
	return nil
}

// updateConfigFromFlags overrides configuration values with explicitly set
// flags. Unset flags never touch the configuration.
func updateConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("target") {
		cfg.TargetLanguage = targetLang
	}
	if cmd.Flags().Changed("input") {
		cfg.InputDir = inputDir
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = outputDir
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = providerName
	}
	if cmd.Flags().Changed("chunk-limit") {
		cfg.ChunkLimit = chunkLimit
	}
	if cmd.Flags().Changed("glossary") {
		cfg.GlossaryPath = glossaryPath
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugMode
	}
}
