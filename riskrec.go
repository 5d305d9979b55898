package riskrec

import (
	"context"
	"log/slog"
	"os"

	"github.com/newtechremo/riskrec/core/retrieval"
	"github.com/newtechremo/riskrec/database"
	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
	"github.com/newtechremo/riskrec/snapshot"
	loadSql "github.com/newtechremo/riskrec/sql"
)

// exportPageSize is the number of records read per page when exporting
const exportPageSize = 500

// Recommender owns the PostgreSQL handle and answers recommendation queries against it
type Recommender struct {
	DB     *helper.Database
	Risks  *database.RisksDBHandler
	Engine *retrieval.Engine
	// Logging
	log *slog.Logger
}

// NewRecommender connects to the database, loads the risk assessment schema and
// returns a ready Recommender. A nil logger falls back to an info level pretty logger.
func NewRecommender(config *helper.DatabaseConfiguration, logger *slog.Logger) (*Recommender, error) {
	if logger == nil {
		logger = helper.NewLogger(os.Stdout, slog.LevelInfo)
	}

	db := helper.NewDatabase("riskrec", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		db.Close()
		return nil, helper.StoreUnavailable("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	risks, err := database.NewRisksDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, helper.NewError("create risks handler", err)
	}

	return &Recommender{
		DB:     db,
		Risks:  risks,
		Engine: retrieval.NewEngine(risks, logger),
		log:    logger,
	}, nil
}

// Close closes the database connection
func (r *Recommender) Close() error {
	if r.DB != nil && r.DB.Instance != nil {
		return r.DB.Instance.Close()
	}
	return nil
}

// Recommend returns up to limit ranked recommendations for the keywords.
// The category is accepted but does not narrow the candidates.
func (r *Recommender) Recommend(ctx context.Context, keywords []string, category *string, limit int) ([]*model.ScoredRecommendation, error) {
	return r.Engine.Recommend(ctx, &model.Query{
		Keywords: keywords,
		Category: category,
		Limit:    limit,
	})
}

// ImportRecords inserts the records in order and returns how many were stored.
// Nil records are skipped. The first failing insert stops the import.
func (r *Recommender) ImportRecords(ctx context.Context, records []*model.RiskRecord) (int, error) {
	inserted := 0
	for _, record := range records {
		if record == nil {
			continue
		}
		if err := r.Risks.InsertRiskRecord(ctx, record); err != nil {
			return inserted, helper.NewError("import records", err)
		}
		inserted++
	}

	r.log.Info("Imported risk records", slog.Int("records", inserted))

	return inserted, nil
}

// ExportSnapshot copies every stored record into the snapshot, keeping ids
func (r *Recommender) ExportSnapshot(ctx context.Context, store *snapshot.Store) (int, error) {
	exported := 0
	var lastID *int64
	for {
		page, err := r.Risks.SelectAllRiskRecords(ctx, lastID, exportPageSize)
		if err != nil {
			return exported, helper.NewError("export snapshot", err)
		}
		if len(page) == 0 {
			break
		}

		saved, err := store.Save(ctx, page)
		if err != nil {
			return exported, helper.NewError("export snapshot", err)
		}
		exported += saved

		last := page[len(page)-1].ID
		lastID = &last
	}

	r.log.Info("Exported snapshot", slog.String("path", store.Path()), slog.Int("records", exported))

	return exported, nil
}

// GetRecommendations runs one recommendation query against any candidate source.
// Empty keywords return an empty result without touching the source.
func GetRecommendations(ctx context.Context, source retrieval.CandidateSource, keywords []string, category *string, limit int) ([]*model.ScoredRecommendation, error) {
	engine := retrieval.NewEngine(source, nil)
	return engine.Recommend(ctx, &model.Query{
		Keywords: keywords,
		Category: category,
		Limit:    limit,
	})
}
