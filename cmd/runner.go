package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/looper/internal/repositories"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/spacing"
	"github.com/desertthunder/looper/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	ownsDB     bool
	runs       *repositories.RunRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB // opened from the config on first use when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "looper",
		Usage:   "Build repeat-heavy playlists where no track comes back too soon",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		After: r.after,
		// exit codes are handled in main
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands:       r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, planCommand, analyzeCommand, generateCommand, batchCommand, checkCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	r.hook(commands)
	return commands
}

// hook attaches config loading to every command with an action, so --config is honored before or after the subcommand name.
func (r *Runner) hook(commands []*cli.Command) {
	for _, c := range commands {
		if c.Action != nil {
			c.Before = r.before
		}
		r.hook(c.Commands)
	}
}

// before loads the configuration named by --config. A missing file falls back to defaults unless the flag was set explicitly.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config") {
			r.logger.Debug("config file not found, using defaults", "path", path)
			return ctx, nil
		}
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db, r.runs, r.ownsDB = nil, nil, false
	return err
}

// repository returns the run repository, opening and migrating the database on first use.
func (r *Runner) repository() (*repositories.RunRepository, error) {
	if r.runs != nil {
		return r.runs, nil
	}

	if r.db == nil {
		r.logger.Debug("opening database", "path", r.config.Database.Path)
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, err
		}
		r.db, r.ownsDB = db, true
	} else if err := shared.RunMigrations(r.db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.runs = repositories.NewRunRepository(r.db)
	return r.runs, nil
}

// engine builds a spacing engine from the scheduler configuration.
func (r *Runner) engine() (*spacing.Engine[string], error) {
	s := r.config.Scheduler
	cfg := spacing.Config{PreferredGap: s.PreferredGap, FallbackGap: s.FallbackGap, RoundsFactor: s.RoundsFactor}
	engine, err := spacing.New[string](cfg, spacing.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	return engine, nil
}

// curator builds a curator; record attaches the run repository.
func (r *Runner) curator(record bool) (*tasks.Curator, error) {
	engine, err := r.engine()
	if err != nil {
		return nil, err
	}

	opts := []tasks.CuratorOption{tasks.WithLogger(r.logger)}
	if record {
		repo, err := r.repository()
		if err != nil {
			return nil, err
		}
		opts = append(opts, tasks.WithRecorder(repositories.NewRunRecorderAdapter(repo)))
	}
	return tasks.NewCurator(engine, opts...), nil
}

// mode resolves the --mode flag against the configured default.
func (r *Runner) mode(cmd *cli.Command) (spacing.Mode, error) {
	name := r.config.Scheduler.Mode
	if cmd.IsSet("mode") {
		name = cmd.String("mode")
	}
	mode, err := spacing.ParseMode(name)
	if err != nil {
		return mode, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return mode, nil
}

// seed resolves the --seed flag against the configured default.
func (r *Runner) seed(cmd *cli.Command) int64 {
	if cmd.IsSet("seed") {
		return cmd.Int64("seed")
	}
	return r.config.Scheduler.Seed
}

// format resolves the --format flag against the configured default.
func (r *Runner) format(cmd *cli.Command) string {
	if cmd.IsSet("format") {
		return cmd.String("format")
	}
	return r.config.Output.Format
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeRendered writes pre-rendered terminal output as-is.
func (r *Runner) writeRendered(s string) error {
	if _, err := io.WriteString(r.output, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
