package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/linguist/internal/ai"
	"github.com/example/linguist/internal/bot"
	"github.com/example/linguist/internal/database"
	"github.com/example/linguist/internal/export"
	"github.com/example/linguist/internal/importer"
	"github.com/example/linguist/internal/scheduler"
	"github.com/example/linguist/pkg/models"
)

// chapterFlag registers --chapter; 0 means additional vocabulary
func chapterFlag(cmd *cobra.Command, target *int) {
	cmd.Flags().IntVar(target, "chapter", 0, "chapter 1-60 for the imported words, 0 for additional")
}

func chapterPtr(n int) (*int, error) {
	if n == 0 {
		return nil, nil
	}
	if !models.ValidChapter(n) {
		return nil, fmt.Errorf("chapter %d is outside %d-%d", n, models.MinChapter, models.MaxChapter)
	}
	return models.Chapter(n), nil
}

func printImportResult(result *importer.ImportResult) {
	fmt.Printf("Processed: %d, created: %d, skipped: %d\n", result.TotalProcessed, result.Created, result.Skipped)
	for _, e := range result.Errors {
		fmt.Println("  " + e)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := current.log
			var tutor ai.Tutor = ai.Disabled{}
			if current.cfg.AI.APIKey != "" {
				tutor = ai.New(current.cfg.AI, log)
			} else {
				log.Warn("GEMINI_API_KEY is not set, /ask answers with the fallback message")
			}

			b, err := bot.New(ctx, current.cfg.Bot, current.store, tutor, log)
			if err != nil {
				return err
			}
			defer b.Stop()
			if err := b.Connect(); err != nil {
				return err
			}

			if current.cfg.Reminder.Enabled {
				stats := database.NewStatisticsRepository(current.store)
				s := scheduler.New(b, stats, current.cfg.Reminder.Hour, log)
				if err := s.Start(); err != nil {
					return err
				}
				defer s.Stop()
			}

			log.Info("bot starting, press Ctrl+C to stop")
			if err := b.Start(ctx); err != nil {
				return err
			}
			log.Info("shutdown complete")
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var (
		chapter int
		sheet   string
		start   int
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import words from an .xlsx or .csv file (columns: word, meaning, chapter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultChapter, err := chapterPtr(chapter)
			if err != nil {
				return err
			}
			config := importer.DefaultImportConfig()
			config.FilePath = args[0]
			config.SheetName = sheet
			config.StartRow = start
			config.DefaultChapter = defaultChapter

			repo := database.NewVocabRepository(current.store)
			result, err := importer.ImportFile(cmd.Context(), repo, config)
			if err != nil {
				return err
			}
			printImportResult(result)
			return nil
		},
	}

	chapterFlag(cmd, &chapter)
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name, the first sheet when empty")
	cmd.Flags().IntVar(&start, "start-row", 2, "first data row (1-based)")
	return cmd
}

func bulkCmd() *cobra.Command {
	var chapter int

	cmd := &cobra.Command{
		Use:   "bulk [file]",
		Short: "Import \"word : meaning\" lines from a text file, or stdin with -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := chapterPtr(chapter)
			if err != nil {
				return err
			}

			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			text, err := io.ReadAll(r)
			if err != nil {
				return err
			}

			repo := database.NewVocabRepository(current.store)
			result, err := importer.ImportBulk(cmd.Context(), repo, string(text), target)
			if err != nil {
				return err
			}
			printImportResult(result)
			return nil
		},
	}

	chapterFlag(cmd, &chapter)
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole collection as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := current.store.Load(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export.Write(w, state, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}

func restoreCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Replace the collection with an exported backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if format == "" && (strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml")) {
				format = export.FormatYAML
			}
			state, err := export.Read(f, format)
			if err != nil {
				return err
			}
			if err := current.store.Save(cmd.Context(), state); err != nil {
				return err
			}
			fmt.Printf("Restored %d words and %d grammar entries\n", len(state.Vocabs), len(state.Grammars))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml, guessed from the file name when empty")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := database.NewStatisticsRepository(current.store).Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Vocabulary: %d (%d with image, %d additional)\n", summary.TotalVocab, summary.TotalImages, summary.AdditionalVocab)
			fmt.Printf("Grammar:    %d\n", summary.TotalGrammar)
			fmt.Printf("Chapters:   %d/%d\n", summary.ActiveChapters, models.MaxChapter)
			for _, c := range summary.Chapters {
				if c.Words > 0 {
					fmt.Printf("  %2d: %d words, %d images\n", c.ChapterID, c.Words, c.Images)
				}
			}
			return nil
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the grammar tutor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tutor := ai.New(current.cfg.AI, current.log)
			fmt.Println(tutor.Ask(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}
