package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"storygeo/internal/app"
	"storygeo/internal/audio"
	"storygeo/internal/audio/speaker"
	"storygeo/internal/config"
	"storygeo/internal/i18n"
	"storygeo/internal/models"
	"storygeo/internal/quiz"
	"storygeo/internal/service"
	"storygeo/internal/validation"
)

func build(ctx context.Context, cfg *config.Config, opts app.Options) (*app.App, error) {
	a, err := app.Build(ctx, cfg, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// GenerateCmd writes a new adventure
type GenerateCmd struct {
	Topic    []string `arg:"" help:"What the adventure should be about."`
	Language string   `short:"l" help:"Language code for the story." default:"en"`
}

func (c *GenerateCmd) Run(ctx context.Context, cfg *config.Config) error {
	if !i18n.Supported(c.Language) {
		return fmt.Errorf("%w: %s", service.ErrUnsupportedLanguage, c.Language)
	}
	topic := strings.Join(c.Topic, " ")
	if err := validation.ValidateTopic(topic); err != nil {
		return err
	}
	a, err := build(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	adv, err := a.Adventures.GenerateAdventure(ctx, topic, i18n.LanguageName(c.Language))
	if err != nil {
		return err
	}
	printAdventure(adv)
	return nil
}

// ListCmd prints the adventure collection
type ListCmd struct{}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config) error {
	a, err := build(ctx, cfg, app.Options{Offline: true})
	if err != nil {
		return err
	}
	defer a.Close()

	for _, adv := range a.Adventures.List() {
		printAdventure(&adv)
	}
	return nil
}

// ReadCmd narrates an adventure on the local sound card
type ReadCmd struct {
	ID      string `arg:"" help:"Adventure ID."`
	Section int    `short:"s" help:"Start at this section (1-based)." default:"1"`
}

func (c *ReadCmd) Run(ctx context.Context, cfg *config.Config) error {
	sink, err := speaker.NewSink(audio.SpeechSampleRate, audio.SpeechChannels)
	if err != nil {
		return err
	}
	a, err := build(ctx, cfg, app.Options{Sink: sink})
	if err != nil {
		return err
	}
	defer a.Close()

	adv, err := a.Adventures.Get(c.ID)
	if err != nil {
		return err
	}
	if c.Section < 1 || c.Section > len(adv.Sections) {
		return fmt.Errorf("section must be between 1 and %d", len(adv.Sections))
	}

	fmt.Printf("%s\n\n", adv.Title)
	for i := c.Section - 1; i < len(adv.Sections); i++ {
		text := adv.Sections[i].Text
		fmt.Printf("[%d/%d] %s\n\n", i+1, len(adv.Sections), text)

		outcome, err := a.Narration.Narrate(ctx, text)
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		select {
		case <-outcome:
		case <-ctx.Done():
			a.Narration.Stop()
			return ctx.Err()
		}
	}
	return nil
}

// ExportNarrationCmd saves one section's narration to disk
type ExportNarrationCmd struct {
	ID      string `arg:"" help:"Adventure ID."`
	Section int    `short:"s" help:"Section number (1-based)." default:"1"`
	Output  string `short:"o" help:"Output WAV file (default: <id>_<section>.wav)."`
}

func (c *ExportNarrationCmd) Run(ctx context.Context, cfg *config.Config) error {
	a, err := build(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	adv, err := a.Adventures.Get(c.ID)
	if err != nil {
		return err
	}
	section, ok := adv.Section(c.Section - 1)
	if !ok {
		return fmt.Errorf("section must be between 1 and %d", len(adv.Sections))
	}

	buf, err := a.Narration.Load(ctx, section.Text)
	if err != nil {
		return err
	}

	output := c.Output
	if output == "" {
		output = fmt.Sprintf("%s_%d.wav", adv.ID, c.Section)
	}
	if dir := filepath.Dir(output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := audio.WriteWAV(f, buf); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s)\n", output, buf.Duration().Round(time.Millisecond))
	return nil
}

// QuizCmd asks an adventure's questions on stdin
type QuizCmd struct {
	ID string `arg:"" help:"Adventure ID."`
}

func (c *QuizCmd) Run(ctx context.Context, cfg *config.Config) error {
	a, err := build(ctx, cfg, app.Options{Offline: true})
	if err != nil {
		return err
	}
	defer a.Close()

	adv, err := a.Adventures.Get(c.ID)
	if err != nil {
		return err
	}
	score, err := runQuiz(adv.Quiz, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	profile, err := a.Profiles.Restore(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		fmt.Println("Sign in through the app to keep your points.")
		return nil
	}
	if err := a.Profiles.RecordQuizResult(ctx, profile, adv, score); err != nil {
		return err
	}
	fmt.Printf("%s now has %d points (rank %d).\n", profile.Name, profile.TotalScore, profile.Rank())
	return nil
}

// runQuiz asks every question and returns the score
func runQuiz(questions []models.QuizQuestion, in io.Reader, out io.Writer) (int, error) {
	q, err := quiz.New(questions)
	if err != nil {
		return 0, err
	}
	scanner := bufio.NewScanner(in)

	for !q.Done() {
		current := q.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d: %s\n", q.Index()+1, q.Len(), current.Question)
		for i, opt := range current.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return 0, err
				}
				return 0, io.ErrUnexpectedEOF
			}
			n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err == nil {
				err = q.Select(n - 1)
			}
			if err == nil {
				break
			}
			fmt.Fprintf(out, "Please pick a number from 1 to %d.\n", len(current.Options))
		}

		selected, _ := q.Selected()
		correct := current.IsCorrect(selected)
		if _, err := q.Advance(); err != nil {
			return 0, err
		}
		if correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Not quite. The answer was %s.\n", current.Options[current.CorrectAnswer])
		}
	}

	score, _ := q.Result()
	fmt.Fprintf(out, "\nYou scored %d points!\n", score)
	return score, nil
}

// MigrateCmd applies migrations and exits
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx context.Context, cfg *config.Config) error {
	db, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	return db.Close()
}

// BackupCmd groups the backup subcommands
type BackupCmd struct {
	Export BackupExportCmd `cmd:"" help:"Write a JSON backup."`
	Import BackupImportCmd `cmd:"" help:"Restore a JSON backup."`
}

type BackupExportCmd struct {
	Output string `short:"o" help:"Output file path (default: backup_YYYYMMDD_HHMMSS.json)."`
}

func (c *BackupExportCmd) Run(ctx context.Context, cfg *config.Config) error {
	db, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Generate default filename if not provided
	outputPath := c.Output
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	log.Printf("Exporting database to: %s", outputPath)
	if err := service.NewBackupService(db).Export(ctx, outputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		log.Printf("Export complete! File size: %.2f KB", float64(info.Size())/1024)
	}
	return nil
}

type BackupImportCmd struct {
	Input string `short:"i" required:"" help:"Input file path."`
	Clear bool   `help:"Clear existing data before import (WARNING: destructive)."`
}

func (c *BackupImportCmd) Run(ctx context.Context, cfg *config.Config) error {
	if _, err := os.Stat(c.Input); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("input file does not exist: %s", c.Input)
	}

	db, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	backups := service.NewBackupService(db)

	if c.Clear {
		fmt.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return nil
		}

		log.Println("Clearing existing data...")
		if err := backups.Clear(ctx); err != nil {
			return err
		}
	}

	log.Printf("Importing database from: %s", c.Input)
	if err := backups.Import(ctx, c.Input); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Println("Import complete!")
	return nil
}
