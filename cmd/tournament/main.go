package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ahalia-sports/tournament-admin/app"
	"github.com/ahalia-sports/tournament-admin/app/modules/match"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchfixtures "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/fixtures"
	"github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/matchtime"
	teamservice "github.com/ahalia-sports/tournament-admin/app/modules/team/application"
	"github.com/ahalia-sports/tournament-admin/config"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/jonboulle/clockwork"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cliApp := &cli.App{
		Name:  "tournament",
		Usage: "college tournament administration service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			scheduleCommand(),
			seedCommand(),
			hashPasswordCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, event router and kickoff queue",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before starting"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			obs := observability.Init(config.ToObsConfig(cfg))

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if c.Bool("migrate") && cfg.Postgres.DSN != "" {
				db := app.OpenDB(cfg.Postgres.DSN)
				err := app.RunMigrations(ctx, db, cfg.Postgres.DSN, obs.Logger)
				db.Close()
				if err != nil {
					return err
				}
			}

			application, err := app.Initialize(ctx, cfg, obs)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			runErr := application.Run(ctx)
			obs.Logger.Info("Shutting down")
			if err := application.Close(context.Background()); err != nil {
				obs.Logger.Error("Shutdown finished with errors", "error", err)
			}
			return runErr
		},
	}
}

func migrateCommand() *cli.Command {
	withMigrators := func(fn func(c *cli.Context, migrators map[string]*migrate.Migrator, dsn string) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Postgres.DSN == "" {
				return fmt.Errorf("postgres dsn is not configured")
			}
			db := app.OpenDB(cfg.Postgres.DSN)
			defer db.Close()
			return fn(c, app.Migrators(db), cfg.Postgres.DSN)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, migrators map[string]*migrate.Migrator, _ string) error {
					for _, m := range app.ModuleMigrations {
						fmt.Printf("Initializing migrations for module: %s\n", m.Name)
						if err := migrators[m.Name].Init(c.Context); err != nil {
							return fmt.Errorf("module %s: %w", m.Name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "up",
				Usage: "apply the job queue schema and every pending module migration",
				Action: withMigrators(func(c *cli.Context, migrators map[string]*migrate.Migrator, dsn string) error {
					if err := app.RunRiverMigrations(c.Context, dsn, rivermigrate.DirectionUp); err != nil {
						return err
					}
					for _, m := range app.ModuleMigrations {
						group, err := migrators[m.Name].Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", m.Name, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.Name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.Name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group of every module",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "queue", Usage: "also roll back one job queue schema step"},
				},
				Action: withMigrators(func(c *cli.Context, migrators map[string]*migrate.Migrator, dsn string) error {
					for i := len(app.ModuleMigrations) - 1; i >= 0; i-- {
						name := app.ModuleMigrations[i].Name
						group, err := migrators[name].Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", name, group)
						}
					}
					if c.Bool("queue") {
						return app.RunRiverMigrations(c.Context, dsn, rivermigrate.DirectionDown)
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, migrators map[string]*migrate.Migrator, _ string) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}
					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, migrators map[string]*migrate.Migrator, _ string) error {
					names := make([]string, 0, len(migrators))
					for name := range migrators {
						names = append(names, name)
					}
					sort.Strings(names)
					for _, name := range names {
						ms, err := migrators[name].MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", name)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "fixture tools that run without the server",
		Subcommands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "print the round robin for a list of teams",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tournament", Value: "asl", Usage: "tournament id from the config"},
					&cli.StringSliceFlag{Name: "teams", Required: true, Usage: "team names in registration order"},
					&cli.StringFlag{Name: "start", Value: "today", Usage: "first match day, YYYY-MM-DD or a phrase like \"next monday\""},
					&cli.StringFlag{Name: "xlsx", Usage: "also write the fixtures to this workbook"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					tournaments, err := match.Tournaments(cfg)
					if err != nil {
						return err
					}
					var t *matchdomain.Tournament
					for i := range tournaments {
						if tournaments[i].ID == c.String("tournament") {
							t = &tournaments[i]
						}
					}
					if t == nil {
						return fmt.Errorf("unknown tournament %q", c.String("tournament"))
					}

					obs := observability.Init(config.ToObsConfig(cfg))
					start, err := matchtime.NewParser(clockwork.NewRealClock(), obs.Logger).ParseStartDate(c.String("start"), t.Location)
					if err != nil {
						return err
					}

					fixtures, err := matchdomain.GenerateRoundRobin(t.ScheduleParams(c.StringSlice("teams"), start))
					if err != nil {
						return err
					}

					tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "#\tDATE\tTIME\tHOME\tAWAY\tVENUE")
					for i, m := range fixtures {
						v := m.View()
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, v.Date, v.Time, v.TeamA, v.TeamB, v.Venue)
					}
					if err := tw.Flush(); err != nil {
						return err
					}

					if path := c.String("xlsx"); path != "" {
						data, err := matchfixtures.Export(fixtures)
						if err != nil {
							return err
						}
						if err := os.WriteFile(path, data, 0o644); err != nil {
							return fmt.Errorf("failed to write workbook: %w", err)
						}
						fmt.Printf("Wrote %d fixtures to %s\n", len(fixtures), path)
					}
					return nil
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "add the sample squads and generated teams to a tournament",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tournament", Value: "asl"},
			&cli.IntFlag{Name: "extra", Value: 0, Usage: "generated teams on top of the samples"},
			&cli.Int64Flag{Name: "random-seed", Value: 1, Usage: "seed for generated team data"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Postgres.DSN == "" {
				return fmt.Errorf("seeding needs a postgres dsn; in-memory data would be lost on exit")
			}
			obs := observability.Init(config.ToObsConfig(cfg))

			application, err := app.Initialize(c.Context, cfg, obs)
			if err != nil {
				return err
			}
			defer application.Close(context.Background())

			faker := gofakeit.New(uint64(c.Int64("random-seed")))
			added, err := teamservice.Seed(c.Context, application.TeamModule.TeamService, obs.Logger, faker, c.String("tournament"), c.Int("extra"))
			if err != nil {
				return err
			}
			players, err := teamservice.SeedPlayers(c.Context, application.TeamModule.TeamService, obs.Logger, c.String("tournament"))
			if err != nil {
				return err
			}
			fmt.Printf("Added %d teams and %d players to %s\n", len(added), len(players), c.String("tournament"))
			return nil
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "print a bcrypt hash for auth.accounts[].password_hash",
		ArgsUsage: "<password>",
		Action: func(c *cli.Context) error {
			password := c.Args().First()
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}
