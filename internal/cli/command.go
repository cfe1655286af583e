package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/mdtranslate/internal"
	"codeberg.org/snonux/mdtranslate/internal/cache"
)

// Runner executes the subcommands once flags and config are resolved
type Runner interface {
	Translate(ctx context.Context, inputs []string) error
	View(ctx context.Context, input string) error
	CacheStats(ctx context.Context) error
	CacheClear(ctx context.Context) error
	CacheArchive(ctx context.Context) error
	Models(ctx context.Context) error
	Serve(ctx context.Context) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mdtranslate",
		Short: "Markdown document translator",
		Long: `mdtranslate translates the text of Markdown documents while keeping
code blocks and structure untouched.

Translations are cached per text, provider and language pair, so running
the same document again only sends changed paragraphs to the provider.

Examples:
  mdtranslate translate README.md                 # writes README.ja.md
  mdtranslate translate -t de -o out.md guide.md  # English to German
  mdtranslate translate --batch docs.txt          # many documents
  mdtranslate view README.md                      # translated HTML in the browser
  mdtranslate cache stats                         # cache usage`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newTranslateCommand(flags, runner),
		newViewCommand(runner),
		newCacheCommand(runner),
		newModelsCommand(runner),
		newServeCommand(flags, runner),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.mdtranslate.yaml)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "load environment variables from this file (default is ./.env)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")
	pf.BoolVar(&flags.NoProgress, "no-progress", false, "Disable the progress bar")

	// Provider flags
	pf.StringVarP(&flags.Provider, "provider", "p", flags.Provider, "Translation provider: ollama, openai, gemini, stub")
	pf.StringVarP(&flags.Model, "model", "m", "", "Model name (default depends on provider, ollama uses qwen2.5:7b)")
	pf.StringVar(&flags.OllamaURL, "ollama-url", flags.OllamaURL, "Ollama API base URL")
	pf.Float64Var(&flags.RPS, "rps", 0, "Maximum provider requests per second (0 = unlimited)")
	pf.BoolVar(&flags.Breaker, "breaker", false, "Stop calling the provider for a while after repeated failures")

	// Pipeline flags
	pf.StringVarP(&flags.SourceLang, "source", "s", flags.SourceLang, "Source language code, or 'auto' to detect it")
	pf.StringVarP(&flags.TargetLang, "target", "t", flags.TargetLang, "Target language code")
	pf.IntVarP(&flags.Parallel, "parallel", "j", flags.Parallel, "Maximum concurrent provider requests")

	// Cache flags
	pf.BoolVar(&flags.NoCache, "no-cache", false, "Do not read or write the translation cache")
	pf.StringVar(&flags.CacheBackend, "cache-backend", flags.CacheBackend, "Cache backend: file, memory, sqlite, postgres")
	pf.StringVar(&flags.CacheDir, "cache-dir", "", "Cache directory (default is "+cache.DefaultDir()+")")
	pf.StringVar(&flags.CacheDSN, "cache-dsn", "", "Postgres connection string for the postgres cache backend")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("translate.no_progress", pf.Lookup("no-progress"))
	viper.BindPFlag("provider.name", pf.Lookup("provider"))
	viper.BindPFlag("provider.model", pf.Lookup("model"))
	viper.BindPFlag("provider.ollama_url", pf.Lookup("ollama-url"))
	viper.BindPFlag("provider.rps", pf.Lookup("rps"))
	viper.BindPFlag("provider.breaker", pf.Lookup("breaker"))
	viper.BindPFlag("translate.source_lang", pf.Lookup("source"))
	viper.BindPFlag("translate.target_lang", pf.Lookup("target"))
	viper.BindPFlag("translate.parallel", pf.Lookup("parallel"))
	viper.BindPFlag("translate.no_cache", pf.Lookup("no-cache"))
	viper.BindPFlag("cache.backend", pf.Lookup("cache-backend"))
	viper.BindPFlag("cache.dir", pf.Lookup("cache-dir"))
	viper.BindPFlag("cache.dsn", pf.Lookup("cache-dsn"))
}

func newTranslateCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [file...]",
		Short: "Translate Markdown files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flags.BatchFile == "" {
				return fmt.Errorf("no input: pass a file or --batch")
			}
			if flags.OutputFile != "" && len(args) > 1 {
				return fmt.Errorf("--output can only be used with a single input file")
			}
			return runner.Translate(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Output file (default is <name>.<target>.md next to the input)")
	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "", "Directory for translated files")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", flags.Format, "Output format: markdown or html")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate the files listed in this file (one per line, optional '= output')")

	viper.BindPFlag("translate.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("translate.output_dir", cmd.Flags().Lookup("output-dir"))
	return cmd
}

func newViewCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Translate a file and open the HTML result in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.View(cmd.Context(), args[0])
		},
	}
}

func newCacheCommand(runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the translation cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show cache statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.CacheStats(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached translations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.CacheClear(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "archive",
			Short: "Move the file cache into a timestamped archive directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.CacheArchive(cmd.Context())
			},
		},
	)
	return cmd
}

func newModelsCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available from the selected provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Models(cmd.Context())
		},
	}
}

func newServeCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation HTTP API, optionally watching a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	cmd.Flags().StringVar(&flags.WatchDir, "watch", "", "Translate Markdown files in this directory whenever they change")
	cmd.Flags().StringVar(&flags.OutputDir, "out", "", "Output directory for watched files (default is the watched directory)")

	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".mdtranslate" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mdtranslate")
	}

	// Environment variables: MDTRANSLATE_TRANSLATE_TARGET_LANG and so on
	viper.SetEnvPrefix("MDTRANSLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
