package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
	loadSql "github.com/newtechremo/riskrec/sql"
)

// RisksDBHandlerFunctions defines the interface for risk record database operations.
type RisksDBHandlerFunctions interface {
	InsertRiskRecord(ctx context.Context, record *model.RiskRecord) error
	SelectRiskRecord(ctx context.Context, rid uuid.UUID) (*model.RiskRecord, error)
	SelectAllRiskRecords(ctx context.Context, lastID *int64, limit int) ([]*model.RiskRecord, error)
	SelectRiskCandidates(ctx context.Context, keywords []string) ([]*model.RiskRecord, error)
	DeleteRiskRecord(ctx context.Context, rid uuid.UUID) error
	CountRiskRecords(ctx context.Context) (int64, error)
}

// RisksDBHandler handles risk_assessment database operations
type RisksDBHandler struct {
	db *helper.Database
}

// NewRisksDBHandler creates a new risk records database handler.
// It loads the risk assessment SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewRisksDBHandler(db *helper.Database, force bool) (*RisksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	risksDbHandler := &RisksDBHandler{
		db: db,
	}

	err := loadSql.LoadRiskAssessmentSql(risksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.StoreUnavailable("load risk assessment sql", err)
	}

	err = risksDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RisksDBHandler")

	return risksDbHandler, nil
}

// CreateTable creates the 'risk_assessment' table and its indexes if they do not exist.
func (h *RisksDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_risk_assessment();`)
	if err != nil {
		return helper.StoreUnavailable("init risk assessment", err)
	}

	h.db.Logger.Info("Checked/created table risk_assessment")

	return nil
}

// InsertRiskRecord inserts a record and fills its ID, RID and CreatedAt
func (h *RisksDBHandler) InsertRiskRecord(ctx context.Context, record *model.RiskRecord) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_risk_record($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.TaskName,
		record.RiskFactor,
		record.AccidentType,
		record.MeasuresAdmin,
		record.MeasuresTech,
		record.MeasuresPersonal,
		nullableInt(record.Frequency),
		nullableInt(record.Severity),
	)

	inserted, err := scanRiskRecord(row)
	if err != nil {
		return helper.NewError("scan", err)
	}
	*record = *inserted

	return nil
}

// SelectRiskRecord retrieves a record by RID
func (h *RisksDBHandler) SelectRiskRecord(ctx context.Context, rid uuid.UUID) (*model.RiskRecord, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_risk_record($1)`,
		rid,
	)

	record, err := scanRiskRecord(row)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectAllRiskRecords retrieves records ordered by id, starting after lastID
func (h *RisksDBHandler) SelectAllRiskRecords(ctx context.Context, lastID *int64, limit int) ([]*model.RiskRecord, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_all_risk_records($1, $2)`,
		lastID,
		limit,
	)
	if err != nil {
		return nil, helper.StoreUnavailable("query", err)
	}
	defer rows.Close()

	return scanRiskRecords(rows)
}

// SelectRiskCandidates returns every record where any keyword is a substring of
// task_name, risk_factor, measures_admin or measures_tech, ordered by id.
// A dedicated connection is held for this call only.
func (h *RisksDBHandler) SelectRiskCandidates(ctx context.Context, keywords []string) ([]*model.RiskRecord, error) {
	conn, err := h.db.Instance.Conn(ctx)
	if err != nil {
		return nil, helper.StoreUnavailable("acquire connection", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(
		ctx,
		`SELECT * FROM select_risk_candidates($1)`,
		pq.Array(keywords),
	)
	if err != nil {
		return nil, helper.StoreUnavailable("query", err)
	}
	defer rows.Close()

	candidates, err := scanRiskRecords(rows)
	if err != nil {
		return nil, helper.StoreUnavailable("read candidates", err)
	}

	h.db.Logger.Debug("Selected risk candidates", "keywords", len(keywords), "candidates", len(candidates))

	return candidates, nil
}

// DeleteRiskRecord deletes a record by RID
func (h *RisksDBHandler) DeleteRiskRecord(ctx context.Context, rid uuid.UUID) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_risk_record($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// CountRiskRecords returns the number of stored records
func (h *RisksDBHandler) CountRiskRecords(ctx context.Context) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_risk_records()`).Scan(&count)
	if err != nil {
		return 0, helper.StoreUnavailable("count", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRiskRecord reads one risk_assessment row. NULL text columns become
// empty strings and NULL frequency or severity become 0.
func scanRiskRecord(row rowScanner) (*model.RiskRecord, error) {
	var (
		record                         model.RiskRecord
		taskName, riskFactor, accident sql.NullString
		admin, tech, personal          sql.NullString
		frequency, severity            sql.NullInt64
	)

	err := row.Scan(
		&record.ID,
		&record.RID,
		&taskName,
		&riskFactor,
		&accident,
		&admin,
		&tech,
		&personal,
		&frequency,
		&severity,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.TaskName = taskName.String
	record.RiskFactor = riskFactor.String
	record.AccidentType = accident.String
	record.MeasuresAdmin = admin.String
	record.MeasuresTech = tech.String
	record.MeasuresPersonal = personal.String
	record.Frequency = int(frequency.Int64)
	record.Severity = int(severity.Int64)

	return &record, nil
}

func scanRiskRecords(rows *sql.Rows) ([]*model.RiskRecord, error) {
	records := []*model.RiskRecord{}
	for rows.Next() {
		record, err := scanRiskRecord(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		records = append(records, record)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

// nullableInt stores 0 as NULL so unknown frequency or severity stays unknown
func nullableInt(value int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(value), Valid: value != 0}
}
