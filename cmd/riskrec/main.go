package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/newtechremo/riskrec"
	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
	"github.com/newtechremo/riskrec/report"
	"github.com/newtechremo/riskrec/snapshot"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "riskrec",
		Usage: "Explainable risk factor recommendations for workplace safety assessments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "recommend",
				Usage:  "Recommend risk factors for task keywords",
				Action: recommendCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "keyword",
						Aliases:  []string{"k"},
						Usage:    "Task keyword, repeat for several keywords",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Main work category (accepted, not used for filtering)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of recommendations",
						Value: model.DefaultLimit,
					},
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Read from a snapshot directory instead of PostgreSQL",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print recommendations as JSON",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Import risk records from a JSON file",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of risk records",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Import into a snapshot directory instead of PostgreSQL",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Copy all PostgreSQL risk records into a snapshot directory",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "snapshot",
						Usage:    "Snapshot directory",
						Required: true,
					},
				},
			},
		},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	return helper.NewLogger(c.App.ErrWriter, helper.ParseLevel(c.String("log-level")))
}

func openRecommender(c *cli.Context) (*riskrec.Recommender, error) {
	config, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	return riskrec.NewRecommender(config, newLogger(c))
}

func recommendCommand(c *cli.Context) error {
	ctx := context.Background()

	keywords := c.StringSlice("keyword")
	limit := c.Int("limit")
	if limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	var category *string
	if c.IsSet("category") {
		value := c.String("category")
		category = &value
	}

	var results []*model.ScoredRecommendation
	var err error
	if path := c.String("snapshot"); path != "" {
		store := snapshot.NewStore(path, newLogger(c))
		results, err = riskrec.GetRecommendations(ctx, store, keywords, category, limit)
	} else {
		var r *riskrec.Recommender
		r, err = openRecommender(c)
		if err != nil {
			return err
		}
		defer r.Close()
		results, err = r.Recommend(ctx, keywords, category, limit)
	}
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(c.App.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	report.Print(c.App.Writer, results, strings.Join(keywords, " + ")+" 작업 위험요인 추천")
	return nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	records, err := model.NewRiskRecordsFromFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	if path := c.String("snapshot"); path != "" {
		store := snapshot.NewStore(path, newLogger(c))
		saved, err := store.Save(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to import records: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Imported %d records into %s\n", saved, path)
		return nil
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	inserted, err := r.ImportRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to import records: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d records\n", inserted)
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	path := c.String("snapshot")
	exported, err := r.ExportSnapshot(ctx, snapshot.NewStore(path, newLogger(c)))
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Exported %d records into %s\n", exported, path)
	return nil
}
