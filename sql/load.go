package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed risk_assessment.sql
var riskAssessmentSQL string

// Function list for verification
var RiskAssessmentFunctions = []string{
	"init_risk_assessment",
	"insert_risk_record",
	"select_risk_record",
	"select_all_risk_records",
	"select_risk_candidates",
	"delete_risk_record",
	"count_risk_records",
}

// Init initializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadRiskAssessmentSql creates the risk_assessment table and its functions.
// Without force nothing is executed when all functions already exist.
func LoadRiskAssessmentSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, RiskAssessmentFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing risk assessment functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(riskAssessmentSQL)
	if err != nil {
		return fmt.Errorf("error executing risk assessment SQL: %w", err)
	}

	exist, err := checkFunctions(db, RiskAssessmentFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL risk assessment functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	for _, f := range sqlFunctions {
		var exists bool
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !exists {
			log.Printf("Function %s does not exist", f)
			return false, nil
		}
	}
	return true, nil
}
