// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/formatter"
	"github.com/desertthunder/autoalbum/internal/shared"
	"github.com/desertthunder/autoalbum/internal/tasks"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "settings",
			Usage: "Path to the TOML settings file",
			Value: shared.DefaultSettingsPath,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

func confFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "conf",
		Aliases: []string{"c"},
		Usage:   "File or directory holding the sync configuration (config.json inside a directory)",
		Value:   ".",
	}
}

func formatFlag() cli.Flag {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(names, ", ")),
		Value:   string(formatter.Text),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write to a file instead of stdout",
	}
}

// syncCommand runs a behavior against the configured albums
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Update the destination album from the source album",
		ArgsUsage: fmt.Sprintf("[behavior] (one of: %s)", strings.Join(tasks.BehaviorNames(), ", ")),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:  "behavior",
				Value: tasks.DefaultBehavior,
			},
		},
		Flags: []cli.Flag{
			confFlag(),
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of most recent photos to keep in the destination",
				Value:   tasks.DefaultCount,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Plan the changes without touching the destination album",
			},
		},
		Action: r.Sync,
	}
}

// configureCommand launches the interactive configuration wizard
func configureCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "configure",
		Aliases:   []string{"config"},
		Usage:     "Interactively choose the source and destination albums",
		ArgsUsage: "[path]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:  "path",
				Value: ".",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "secret-file",
				Usage: "Client secret file from the Google API Console",
			},
		},
		Action: r.Configure,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the cached Google authorization",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize in the browser and cache the token",
				Flags:  []cli.Flag{confFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token state",
				Flags:  []cli.Flag{confFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// albumsCommand handles album operations
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "albums",
		Usage: "Album operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List owned or shared albums",
				Flags: []cli.Flag{
					confFlag(),
					&cli.BoolFlag{
						Name:  "shared",
						Usage: "List albums shared with you instead of albums you own",
					},
					formatFlag(),
					outputFlag(),
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "contents",
				Usage: "List the media items in an album",
				Flags: []cli.Flag{
					confFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Album ID",
						Required: true,
					},
					formatFlag(),
					outputFlag(),
				},
				Action: r.AlbumsContents,
			},
			{
				Name:  "create",
				Usage: "Create a new album",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "title",
					},
				},
				Flags: []cli.Flag{
					confFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AlbumsCreate,
			},
		},
	}
}

// historyCommand shows recorded sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent sync runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of runs to show",
				Value:   10,
			},
			&cli.StringFlag{
				Name:  "dest",
				Usage: "Only show runs for this destination album ID",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// setupCommand writes default settings and initializes the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a default settings file and initialize the history database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Revert the most recent database migration instead",
			},
		},
		Action: r.Setup,
	}
}
