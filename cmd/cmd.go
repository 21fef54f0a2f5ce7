// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file",
						Value: "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// trackFlags identify a track by id or by title and artist.
func trackFlags(count int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "Track ID",
		},
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   "Track title",
		},
		&cli.StringFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Track artist",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of plays",
			Value:   count,
		},
	}
}

// planCommand handles plan file editing.
func planCommand(r *Runner) *cli.Command {
	file := []cli.Argument{&cli.StringArg{Name: "file"}}

	return &cli.Command{
		Name:  "plan",
		Usage: "Create and edit plan files",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Create an empty plan file",
				Arguments: file,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Plan name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Plan description",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.PlanInit,
			},
			{
				Name:      "add",
				Usage:     "Add plays of a track, merging with an existing entry",
				Arguments: file,
				Flags:     trackFlags(1),
				Action:    r.PlanAdd,
			},
			{
				Name:      "set",
				Usage:     "Set the play count of a track; 0 removes it",
				Arguments: file,
				Flags:     trackFlags(0),
				Action:    r.PlanSet,
			},
			{
				Name:      "sub",
				Usage:     "Move plays from one track to another",
				Arguments: file,
				Flags: append(trackFlags(0),
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Key of the track to replace (id or title|artist)",
						Required: true,
					},
				),
				Action: r.PlanSubstitute,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a track from the plan",
				Arguments: file,
				Flags:     trackFlags(0)[:3],
				Action:    r.PlanRemove,
			},
			{
				Name:      "show",
				Usage:     "Print the plan",
				Arguments: file,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlanShow,
			},
		},
	}
}

// analyzeCommand reports feasibility without building a playlist.
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Check whether a plan can be spaced",
		Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "gap",
				Usage: "Analyze a single gap instead of the configured pair",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Analyze,
	}
}

func scheduleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Scheduling mode (strict or randomized)",
			Value:   "strict",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "Seed for randomized mode (0 picks one)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format (txt, csv, markdown, json)",
			Value:   "txt",
		},
		&cli.BoolFlag{
			Name:  "record",
			Usage: "Save the run to history",
		},
	}
}

// generateCommand schedules one plan.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Build a spaced playlist from a plan",
		Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
		Flags: append(scheduleFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the export to this path",
			},
			&cli.BoolFlag{
				Name:  "strict-exit",
				Usage: "Exit non-zero when the plan is infeasible",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the playlist or report as JSON",
			},
		),
		Action: r.Generate,
	}
}

// batchCommand schedules many plans concurrently.
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Build playlists for several plans at once",
		ArgsUsage: "<file>...",
		Flags: append(scheduleFlags(),
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent workers (max 16)",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory for exports and the manifest",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		),
		Action: r.Batch,
	}
}

// checkCommand validates an exported text playlist.
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Verify the spacing of an exported text playlist",
		Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "gap",
				Usage: "Minimum gap to require (default: fallback gap)",
			},
		},
		Action: r.Check,
	}
}

// historyCommand handles recorded runs.
func historyCommand(r *Runner) *cli.Command {
	ref := []cli.Argument{&cli.StringArg{Name: "ref"}}

	return &cli.Command{
		Name:    "history",
		Aliases: []string{"runs"},
		Usage:   "Inspect recorded runs",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List recorded runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "plan",
						Usage: "Only runs of this plan",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only runs with this status (scheduled or infeasible)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Show only the newest N runs",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show a run by ID or sequence number",
				Arguments: ref,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a run by ID or sequence number",
				Arguments: ref,
				Action:    r.HistoryDelete,
			},
		},
	}
}
