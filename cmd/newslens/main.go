// NewsLens — News sentiment vs. price analysis for stocks and crypto.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newslens/newslens/api"
	"github.com/newslens/newslens/internal/analysis/align"
	"github.com/newslens/newslens/internal/config"
	"github.com/newslens/newslens/internal/datasource"
	"github.com/newslens/newslens/internal/llm"
	"github.com/newslens/newslens/internal/pipeline"
	"github.com/newslens/newslens/internal/report"
	"github.com/newslens/newslens/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newslens",
	Short: "NewsLens — News sentiment vs. price analysis",
	Long: `NewsLens fetches recent news for a ticker, scores each headline's
sentiment, aligns every article to the trading session it affects, and
correlates daily sentiment with intraday returns. The quantitative findings
are handed to an LLM cascade that drafts an analyst-style narrative.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildAnalyzer wires the pipeline from the loaded config.
func buildAnalyzer() (*pipeline.Analyzer, *datasource.YFinance, error) {
	loc, err := cfg.Market.Location()
	if err != nil {
		return nil, nil, err
	}
	aligner := align.New(loc, cfg.Market.CloseHour)

	yf := datasource.NewYFinance()
	news := datasource.NewGoogleNews()

	cascade, err := buildCascade()
	if err != nil {
		// No credentials is a degraded mode, not a startup failure.
		fmt.Fprintf(os.Stderr, "⚠️  narrative generation disabled: %v\n", err)
		cascade = nil
	}

	return pipeline.New(yf, news, yf, aligner, cascade), yf, nil
}

// buildCascade assembles the credential × model fallback grid for the
// configured provider.
func buildCascade() (*llm.Cascade, error) {
	baseURL := ""
	if cfg.LLM.Provider == llm.ProviderOllama {
		baseURL = cfg.LLM.OllamaURL
	}
	gen, err := llm.NewGenerator(cfg.LLM.Provider, baseURL)
	if err != nil {
		return nil, err
	}

	models := cfg.LLM.Models
	if len(models) == 0 {
		switch cfg.LLM.Provider {
		case llm.ProviderOpenAI:
			models = llm.OpenAIModelFallbacks
		case llm.ProviderOllama:
			models = llm.OllamaModelFallbacks
		default:
			models = llm.GeminiModelFallbacks
		}
	}

	return llm.NewCascade(gen, cfg.LLM.Credentials(), models)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewsLens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run news-sentiment analysis on a ticker",
	Long: `Fetch news, price history, and valuation data for a ticker, correlate
daily sentiment with intraday returns, and print the resulting report.

Examples:
  newslens analyze AAPL
  newslens analyze BTC --crypto
  newslens analyze TSLA --days 60 --limit 20 --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		crypto, _ := cmd.Flags().GetBool("crypto")
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")
		noLLM, _ := cmd.Flags().GetBool("no-llm")
		asJSON, _ := cmd.Flags().GetBool("json")

		if crypto {
			ticker = utils.CryptoTicker(ticker)
		}
		if days <= 0 {
			days = cfg.Analysis.LookbackDays
		}
		if limit <= 0 {
			limit = cfg.News.Limit
		}

		analyzer, _, err := buildAnalyzer()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "🔍 Analyzing %s (%d-day window, up to %d articles)\n", ticker, days, limit)
		started := time.Now()

		opts := pipeline.Options{LookbackDays: days, NewsLimit: limit, SkipNarrative: noLLM}
		rep, err := analyzer.Analyze(cmd.Context(), ticker, opts, func(stage, detail string) {
			fmt.Fprintf(os.Stderr, "   %-9s %s\n", stage, detail)
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		fmt.Print(report.RenderText(rep))
		fmt.Fprintf(os.Stderr, "Done in %s\n", report.FormatDuration(time.Since(started)))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("crypto", false, "treat the ticker as a crypto asset (-USD pair)")
	analyzeCmd.Flags().Int("days", 0, "price history window in days (default from config)")
	analyzeCmd.Flags().Int("limit", 0, "max news articles (default from config)")
	analyzeCmd.Flags().Bool("no-llm", false, "skip the generated narrative")
	analyzeCmd.Flags().Bool("json", false, "print the full report as JSON")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, yf, err := buildAnalyzer()
		if err != nil {
			return err
		}

		srv := api.NewServer(cfg, analyzer, yf)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting NewsLens API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  NewsLens — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):    %s\n", time.Now().UTC().Format("02 Jan 2006 15:04:05"))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Market:        %s, close %02d:00\n", cfg.Market.Timezone, cfg.Market.CloseHour)
		fmt.Printf("    LLM Provider:  %s\n", cfg.LLM.Provider)
		fmt.Printf("    Lookback:      %d days\n", cfg.Analysis.LookbackDays)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  Generation credentials:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
