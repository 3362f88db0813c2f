package services

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorcheck/internal/analytics"
	"floorcheck/internal/dataset"
	"floorcheck/internal/exporter"
	"floorcheck/internal/shared/testutil"
	"floorcheck/pkg/contracts/domain"
)

func newDashboard(t *testing.T, rows []testutil.ChecklistRow) *DashboardService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	path := testutil.WriteChecklist(t, t.TempDir(), rows)
	cache := dataset.NewCache(path, dataset.NewLoader(logger), logger)
	return NewDashboardService(cache, logger)
}

func TestDashboardService_Dates(t *testing.T) {
	svc := newDashboard(t, []testutil.ChecklistRow{
		{"02/03/2024", "FloorB", "P1", "Leak"},
		{"01/03/2024", "FloorA", "P1", "Crack"},
		{"sem data", "FloorA", "P2", "Crack"},
		{"02/03/2024", "FloorA", "P2", "Crack"},
	})

	view, err := svc.Dates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"01/03/2024", "02/03/2024"}, view.Dates)
}

func TestDashboardService_Summary(t *testing.T) {
	svc := newDashboard(t, testutil.SampleRows)

	view, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, view.TotalRecords)
	assert.Equal(t, 1, view.InvalidDates)
	assert.Equal(t, "FloorA", view.CriticalFloor)
	assert.Equal(t, "P1", view.CriticalPosition)
	assert.Equal(t, "01/03/2024", view.CriticalDate)
	assert.Equal(t, "Crack", view.CriticalObservation)
	assert.False(t, view.LoadedAt.IsZero())

	want := []domain.CountView{{"FloorA", 2}, {"FloorB", 2}, {"FloorC", 2}}
	if diff := cmp.Diff(want, view.FloorDistribution); diff != "" {
		t.Errorf("floor distribution mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []domain.DateCountView{{"01/03/2024", 3}, {"02/03/2024", 2}}, view.Trend)
	assert.Empty(t, view.Unavailable)
}

func TestDashboardService_UnavailableKPIs(t *testing.T) {
	ctx := context.Background()

	t.Run("every date is null", func(t *testing.T) {
		svc := newDashboard(t, []testutil.ChecklistRow{
			{"sem data", "FloorA", "P1", "Crack"},
			{"", "FloorB", "P2", "Leak"},
			{"31/02/2024", "FloorA", "P1", "Crack"},
		})

		view, err := svc.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, view.TotalRecords)
		assert.Equal(t, 3, view.InvalidDates)
		assert.Equal(t, "FloorA", view.CriticalFloor)
		assert.Equal(t, "P1", view.CriticalPosition)
		assert.Equal(t, domain.NotAvailable, view.CriticalDate)
		assert.Equal(t, []string{"critical_date"}, view.Unavailable)
		assert.Empty(t, view.Trend)
	})

	t.Run("every position is blank", func(t *testing.T) {
		svc := newDashboard(t, []testutil.ChecklistRow{
			{"01/03/2024", "FloorA", "", "Crack"},
			{"01/03/2024", "FloorA", "", "Crack"},
			{"02/03/2024", "FloorB", "", "Leak"},
		})

		summary, err := svc.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.NotAvailable, summary.CriticalPosition)
		assert.Equal(t, []string{"critical_position"}, summary.Unavailable)

		floors, err := svc.Floors(ctx, "01/03/2024", "02/03/2024", "FloorA")
		require.NoError(t, err)
		assert.Equal(t, domain.NotAvailable, floors.First.CriticalPosition)
		assert.Equal(t, "Crack", floors.First.CriticalObservation)
		assert.Equal(t, []string{"critical_position"}, floors.First.Unavailable)
		require.NotNil(t, floors.Drilldown)
		assert.Equal(t, []string{"critical_position"}, floors.Drilldown.Unavailable)

		obs, err := svc.Observations(ctx, "01/03/2024", "02/03/2024", "")
		require.NoError(t, err)
		assert.Equal(t, domain.NotAvailable, obs.Second.CriticalPosition)
		assert.Equal(t, []string{"critical_position"}, obs.Second.Unavailable)
	})
}

func TestDashboardService_Floors(t *testing.T) {
	svc := newDashboard(t, testutil.SampleRows)
	ctx := context.Background()

	t.Run("compares two dates", func(t *testing.T) {
		view, err := svc.Floors(ctx, "01/03/2024", "02/03/2024", "")
		require.NoError(t, err)

		assert.Equal(t, domain.FloorDay{
			Date:                "01/03/2024",
			Records:             3,
			CriticalFloor:       "FloorA",
			CriticalPosition:    "P1",
			CriticalObservation: "Crack",
			Floors:              []domain.CountView{{"FloorA", 2}, {"FloorB", 1}},
		}, view.First)
		assert.Equal(t, "FloorB", view.Second.CriticalFloor)
		assert.Equal(t, "P3", view.Second.CriticalPosition)
		assert.Equal(t, "Leak", view.Second.CriticalObservation)

		want := []domain.ComparisonView{
			{Value: "FloorA", First: 2, Second: 0},
			{Value: "FloorB", First: 1, Second: 1},
			{Value: "FloorC", First: 0, Second: 1},
		}
		if diff := cmp.Diff(want, view.Comparison); diff != "" {
			t.Errorf("comparison mismatch (-want +got):\n%s", diff)
		}
		assert.Nil(t, view.Drilldown)
	})

	t.Run("drills into a floor on the first date", func(t *testing.T) {
		view, err := svc.Floors(ctx, "01/03/2024", "02/03/2024", "FloorB")
		require.NoError(t, err)
		require.NotNil(t, view.Drilldown)
		assert.Equal(t, "P3", view.Drilldown.CriticalPosition)
		assert.Equal(t, "Leak", view.Drilldown.CriticalObservation)
		assert.Equal(t, []domain.RecordView{{"01/03/2024", "FloorB", "P3", "Leak"}}, view.Drilldown.Rows)
	})

	t.Run("same date on both sides is allowed", func(t *testing.T) {
		view, err := svc.Floors(ctx, "01/03/2024", "1/3/2024", "")
		require.NoError(t, err)
		assert.Equal(t, view.First, view.Second)
	})

	tests := []struct {
		name    string
		date1   string
		date2   string
		floor   string
		wantErr error
	}{
		{"unparsable date", "2024-13-45", "02/03/2024", "", ErrInvalidDate},
		{"date without rows", "05/03/2024", "02/03/2024", "", analytics.ErrEmptyResult},
		{"unknown floor", "01/03/2024", "02/03/2024", "FloorZ", analytics.ErrEmptyResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Floors(ctx, tt.date1, tt.date2, tt.floor)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDashboardService_Positions(t *testing.T) {
	svc := newDashboard(t, testutil.SampleRows)
	ctx := context.Background()

	view, err := svc.Positions(ctx, "01/03/2024", "")
	require.NoError(t, err)
	assert.Equal(t, "P1", view.CriticalPosition)
	assert.Equal(t, 3, view.Records)
	assert.Equal(t, []domain.CountView{{"P1", 1}, {"P2", 1}, {"P3", 1}}, view.TopPositions)
	assert.Empty(t, view.Rows)

	view, err = svc.Positions(ctx, "01/03/2024", "P3")
	require.NoError(t, err)
	assert.Equal(t, "P3", view.Selected)
	assert.Equal(t, []domain.RecordView{{"01/03/2024", "FloorB", "P3", "Leak"}}, view.Rows)

	_, err = svc.Positions(ctx, "01/03/2024", "P9")
	assert.ErrorIs(t, err, analytics.ErrEmptyResult)
}

func TestDashboardService_PositionsTopTen(t *testing.T) {
	var rows []testutil.ChecklistRow
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			rows = append(rows, testutil.ChecklistRow{"01/03/2024", "FloorA", "P" + string(rune('A'+i)), "Crack"})
		}
	}
	svc := newDashboard(t, rows)

	view, err := svc.Positions(context.Background(), "01/03/2024", "")
	require.NoError(t, err)
	require.Len(t, view.TopPositions, TopRanking)
	assert.Equal(t, "PL", view.TopPositions[0].Value)
	assert.Equal(t, 12, view.TopPositions[0].Count)
	assert.Equal(t, "PL", view.CriticalPosition)
}

func TestDashboardService_Observations(t *testing.T) {
	svc := newDashboard(t, testutil.SampleRows)
	ctx := context.Background()

	view, err := svc.Observations(ctx, "01/03/2024", "02/03/2024", "Leak")
	require.NoError(t, err)

	assert.Equal(t, "Leak", view.Selected)
	assert.Equal(t, "Crack", view.First.CriticalObservation)
	assert.Equal(t, "P1", view.First.CriticalPosition)
	assert.Equal(t, []domain.CountView{{"Crack", 2}, {"Leak", 1}}, view.First.TopObservations)
	assert.Equal(t, []domain.RecordView{{"01/03/2024", "FloorB", "P3", "Leak"}}, view.First.Rows)

	assert.Equal(t, "Leak", view.Second.CriticalObservation)
	assert.Equal(t, []domain.RecordView{{"02/03/2024", "FloorB", "P3", "Leak"}}, view.Second.Rows)

	t.Run("observation absent on one date", func(t *testing.T) {
		view, err := svc.Observations(ctx, "01/03/2024", "02/03/2024", "Stain")
		require.NoError(t, err)
		assert.Empty(t, view.First.Rows)
		assert.Len(t, view.Second.Rows, 1)
	})

	t.Run("same dates", func(t *testing.T) {
		_, err := svc.Observations(ctx, "01/03/2024", "01/03/2024", "")
		assert.ErrorIs(t, err, ErrSameDates)
	})
}

func TestDashboardService_Table(t *testing.T) {
	svc := newDashboard(t, testutil.SampleRows)
	ctx := context.Background()

	tests := []struct {
		name      string
		page      int
		size      int
		wantPage  int
		wantSize  int
		wantRows  int
		wantPages int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize, 6, 1},
		{"first page", 1, 4, 1, 4, 4, 2},
		{"last partial page", 2, 4, 2, 4, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.Table(ctx, tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, view.Page)
			assert.Equal(t, tt.wantSize, view.PageSize)
			assert.Len(t, view.Rows, tt.wantRows)
			assert.Equal(t, tt.wantPages, view.TotalPages)
			assert.Equal(t, 6, view.TotalRows)
			assert.Equal(t, []string{"Data", "Piso", "Posição", "Observação"}, view.Columns)
		})
	}

	view, err := svc.Table(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordView{Date: "", Floor: "FloorC", Position: "P4", Observation: "Crack"}, view.Rows[1])

	_, err = svc.Table(ctx, 3, 4)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestDashboardService_Export(t *testing.T) {
	svc := newDashboard(t, testutil.SampleRows)

	var out bytes.Buffer
	err := svc.Export(context.Background(), &out, exporter.NewCSVWriter(exporter.WriteOptions{Delimiter: ';'}, nil))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Data;Piso;Posição;Observação")
	assert.Contains(t, out.String(), "02/03/2024;FloorC;P1;Stain")
}

func TestDashboardService_NoData(t *testing.T) {
	ctx := context.Background()

	t.Run("header only", func(t *testing.T) {
		svc := newDashboard(t, nil)
		_, err := svc.Summary(ctx)
		assert.ErrorIs(t, err, ErrNoData)
		_, err = svc.Table(ctx, 1, 15)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("missing file", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		path := filepath.Join(t.TempDir(), "absent.csv")
		svc := NewDashboardService(dataset.NewCache(path, dataset.NewLoader(logger), logger), logger)
		_, err := svc.Dates(ctx)
		assert.ErrorIs(t, err, dataset.ErrFileNotFound)
	})
}
