package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/newtechremo/riskrec"
	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
	"github.com/newtechremo/riskrec/report"
)

var sampleRecords = []*model.RiskRecord{
	{
		TaskName:         "지게차 운반 작업",
		RiskFactor:       "지게차 운반 중 적재물 과다로 전방 시야가 가려져 보행자와 충돌",
		AccidentType:     "부딪힘",
		MeasuresAdmin:    "작업계획서 작성 및 유도자 배치",
		MeasuresTech:     "후방 경보장치 및 후방 카메라 설치",
		MeasuresPersonal: "안전모 착용",
		Frequency:        3,
		Severity:         4,
	},
	{
		TaskName:      "지게차 하역 작업",
		RiskFactor:    "포크 위 화물이 떨어지며 하부 작업자 협착",
		AccidentType:  "끼임",
		MeasuresAdmin: "포크 하부 출입 금지",
		MeasuresTech:  "화물 고정장치 사용",
		Frequency:     2,
		Severity:      5,
	},
	{
		TaskName:         "중량물 운반",
		RiskFactor:       "인력 운반 중 허리 부담으로 근골격계 질환 발생",
		AccidentType:     "불균형 및 무리한 동작",
		MeasuresAdmin:    "2인 1조 운반",
		MeasuresPersonal: "보호장갑 착용",
		Frequency:        3,
		Severity:         2,
	},
	{
		TaskName:     "자재 정리",
		RiskFactor:   "통로에 적치된 자재에 걸려 넘어짐",
		AccidentType: "넘어짐",
		MeasuresTech: "지게차 통로와 보행 통로 구분",
		Frequency:    2,
		Severity:     2,
	},
	{
		TaskName:      "고소 작업대 작업",
		RiskFactor:    "작업대 난간 미설치로 작업자 추락",
		AccidentType:  "떨어짐",
		MeasuresAdmin: "안전대 부착설비 설치",
		Frequency:     2,
		Severity:      5,
	},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := helper.TestDatabaseConfiguration(dbPort)

	r, err := riskrec.NewRecommender(dbConfig, nil)
	if err != nil {
		log.Fatalf("Failed to create recommender: %v", err)
	}
	defer r.Close()

	ctx := context.Background()

	fmt.Println("Importing sample records...")
	inserted, err := r.ImportRecords(ctx, sampleRecords)
	if err != nil {
		log.Fatalf("Failed to import records: %v", err)
	}
	fmt.Printf("Imported %d records\n", inserted)

	keywords := []string{"지게차", "운반"}
	category := "건설업"

	results, err := r.Recommend(ctx, keywords, &category, model.DefaultLimit)
	if err != nil {
		log.Fatalf("Failed to recommend: %v", err)
	}

	report.Print(os.Stdout, results, "지게차 + 운반 작업 위험요인 추천")

	fmt.Println("\nBasic example completed successfully!")
}
