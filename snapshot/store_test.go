package snapshot

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	return NewStore(filepath.Join(t.TempDir(), "snapshot"), helper.NewLogger(os.Stdout, slog.LevelDebug))
}

func sampleRecords() []*model.RiskRecord {
	return []*model.RiskRecord{
		{TaskName: "지게차 운반 작업", RiskFactor: "지게차 전도", AccidentType: "끼임", Frequency: 3, Severity: 4},
		{TaskName: "자재 운반", RiskFactor: "자재 낙하", AccidentType: "맞음"},
		{TaskName: "청소", RiskFactor: "미끄러짐", MeasuresPersonal: "지게차 유도"},
	}
}

func TestStoreSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Assigns sequential ids to new records", func(t *testing.T) {
		store := newTestStore(t)
		records := sampleRecords()

		saved, err := store.Save(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 3, saved)
		assert.NotZero(t, records[0].ID)
		assert.Less(t, records[0].ID, records[1].ID)
		assert.Less(t, records[1].ID, records[2].ID)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Keeps given ids and overwrites on conflict", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Save(ctx, []*model.RiskRecord{{ID: 7, TaskName: "첫번째"}})
		require.NoError(t, err)
		saved, err := store.Save(ctx, []*model.RiskRecord{{ID: 7, TaskName: "두번째"}, nil})
		require.NoError(t, err)
		assert.Equal(t, 1, saved, "Nil records are not counted")

		records, err := store.SelectAllRiskRecords(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, int64(7), records[0].ID)
		assert.Equal(t, "두번째", records[0].TaskName)
	})

	t.Run("New ids skip existing records", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Save(ctx, []*model.RiskRecord{{ID: 1, TaskName: "기존"}, {ID: 2, TaskName: "기존"}})
		require.NoError(t, err)
		fresh := &model.RiskRecord{TaskName: "신규"}
		_, err = store.Save(ctx, []*model.RiskRecord{fresh})
		require.NoError(t, err)
		assert.Greater(t, fresh.ID, int64(2))

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Cancelled context aborts the save", func(t *testing.T) {
		store := newTestStore(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		saved, err := store.Save(cancelled, sampleRecords())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, saved)
	})

	t.Run("Negative id rejects the batch", func(t *testing.T) {
		store := newTestStore(t)

		saved, err := store.Save(ctx, []*model.RiskRecord{{TaskName: "지게차 운반"}, {ID: -1, TaskName: "지게차 하역"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidID)
		assert.Zero(t, saved)

		_, err = store.Save(ctx, []*model.RiskRecord{{TaskName: "지게차 운반"}, {TaskName: "지게차 하역"}})
		require.NoError(t, err)
		candidates, err := store.SelectRiskCandidates(ctx, []string{"지게차"})
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Less(t, candidates[0].ID, candidates[1].ID)
		for _, candidate := range candidates {
			assert.Positive(t, candidate.ID)
		}
	})
}

func TestStoreSelectRiskCandidates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	records := sampleRecords()
	_, err := store.Save(ctx, records)
	require.NoError(t, err)

	t.Run("Returns matches in id order", func(t *testing.T) {
		candidates, err := store.SelectRiskCandidates(ctx, []string{"운반"})
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, records[0].ID, candidates[0].ID)
		assert.Equal(t, records[1].ID, candidates[1].ID)
		assert.Equal(t, 3, candidates[0].Frequency)
	})

	t.Run("Personal measures are not searched", func(t *testing.T) {
		candidates, err := store.SelectRiskCandidates(ctx, []string{"유도"})
		require.NoError(t, err)
		assert.NotNil(t, candidates)
		assert.Empty(t, candidates)
	})

	t.Run("Repeated reads reopen the snapshot", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			candidates, err := store.SelectRiskCandidates(ctx, []string{"지게차"})
			require.NoError(t, err)
			assert.Len(t, candidates, 1)
		}
	})

	t.Run("Missing directory is store unavailable", func(t *testing.T) {
		missing := NewStore(filepath.Join(t.TempDir(), "missing"), nil)
		_, err := missing.SelectRiskCandidates(ctx, []string{"지게차"})
		require.Error(t, err)
		assert.ErrorIs(t, err, helper.ErrStoreUnavailable)

		_, err = missing.Count(ctx)
		assert.ErrorIs(t, err, helper.ErrStoreUnavailable)
	})

	t.Run("File path is store unavailable", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := NewStore(file, nil).SelectRiskCandidates(ctx, []string{"지게차"})
		assert.ErrorIs(t, err, helper.ErrStoreUnavailable)
	})
}

func TestMakeRecordKey(t *testing.T) {
	assert.Less(t, string(makeRecordKey(9)), string(makeRecordKey(10)))
	assert.Less(t, string(makeRecordKey(255)), string(makeRecordKey(256)))
	assert.Equal(t, recordPrefix, string(makeRecordKey(1)[:len(recordPrefix)]))
}
