package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/rachitx/ai-news-digest/pkg/config"
	"github.com/rachitx/ai-news-digest/pkg/curator"
	"github.com/rachitx/ai-news-digest/pkg/feeds"
	"github.com/rachitx/ai-news-digest/pkg/llm"
	"github.com/rachitx/ai-news-digest/pkg/mailer"
	"github.com/rachitx/ai-news-digest/pkg/pipeline"
	"github.com/rachitx/ai-news-digest/pkg/scraper"
	"github.com/rachitx/ai-news-digest/pkg/store"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("config: %v", e)
		}
		log.Fatal("invalid configuration")
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("items"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize components
	fetcher := feeds.NewWithConfig(feeds.FetcherConfig{
		Sources:   cfg.Feeds.Sources,
		Lookback:  time.Duration(cfg.Feeds.LookbackHours) * time.Hour,
		RateLimit: cfg.Feeds.RateLimit,
	})

	extractor := scraper.NewWithConfig(scraper.ScraperConfig{
		RateLimit: cfg.Feeds.RateLimit,
	})

	model, err := llm.NewClient(ctx, llm.ClientConfig{
		GroqAPIKey:    cfg.LLM.GroqAPIKey,
		GeminiAPIKey:  cfg.LLM.GeminiAPIKey,
		OllamaBaseURL: cfg.LLM.OllamaBaseURL,
		Model:         cfg.LLM.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %v", err)
	}

	writer, err := llm.NewDigestWriter(model, llm.DigestConfig{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize digest writer: %v", err)
	}

	scorer, err := llm.NewScorer(model, llm.DigestConfig{})
	if err != nil {
		return fmt.Errorf("failed to initialize scorer: %v", err)
	}

	ranker := curator.NewWithConfig(scorer, curator.CuratorConfig{
		Profile:       curator.DefaultProfile(),
		ShortlistSize: cfg.Curator.ShortlistSize,
	})

	newsStore, err := store.NewWithConfig(store.StoreConfig{
		ConnString: cfg.DatabaseURL(),
		TableName:  cfg.Database.TableName,
		BatchSize:  cfg.Database.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize store: %v", err)
	}
	defer newsStore.Close()

	sender, err := mailer.NewWithConfig(mailer.MailerConfig{
		SMTPHost:    cfg.Email.SMTPHost,
		SMTPPort:    cfg.Email.SMTPPort,
		From:        cfg.Email.From,
		To:          cfg.Email.To,
		AppPassword: cfg.Email.AppPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %v", err)
	}

	var bar *progressbar.ProgressBar
	p := pipeline.New(fetcher, extractor, writer, newsStore, ranker, sender, pipeline.PipelineConfig{
		Lookback:      time.Duration(cfg.Feeds.LookbackHours) * time.Hour,
		MinContentLen: cfg.Feeds.MinContentLen,
		DigestSize:    cfg.Curator.DigestSize,
		OnProgress: func(stage string, done, total int) {
			if bar == nil {
				bar = getProgressBar(total, " Summarizing items...")
			}
			bar.Set(done)
		},
	})

	color.Cyan("\nStarting digest run (%d sources, %dh lookback)\n", len(cfg.Feeds.Sources), cfg.Feeds.LookbackHours)

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	if report.Fetched == 0 {
		color.Yellow("\nNo new items in the window; no digest sent\n")
		return nil
	}

	color.Green("\n✓ Fetched %d items, stored %d new, ranked %d, email sent: %v (%.1fs)\n",
		report.Fetched, report.Stored, report.Ranked, report.EmailSent, report.Duration.Seconds())

	return nil
}
