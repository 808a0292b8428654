package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"storygeo/internal/config"
)

// version is set via ldflags at build time
var version = "dev"

var CLI struct {
	Generate        GenerateCmd        `cmd:"" help:"Generate a new adventure about a topic."`
	List            ListCmd            `cmd:"" help:"List stored adventures."`
	Read            ReadCmd            `cmd:"" help:"Read an adventure aloud through the speakers."`
	ExportNarration ExportNarrationCmd `cmd:"" name:"export-narration" help:"Save the narration of one section as a WAV file."`
	Quiz            QuizCmd            `cmd:"" help:"Take an adventure's quiz on the terminal."`
	Migrate         MigrateCmd         `cmd:"" help:"Apply database migrations."`
	Backup          BackupCmd          `cmd:"" help:"Export or import stored adventures and progress."`

	Version kong.VersionFlag `help:"Show version information"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&CLI,
		kong.Name("storygeo"),
		kong.Description("Illustrated, narrated history adventures for children."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(cfg),
	)

	if err := kctx.Run(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
