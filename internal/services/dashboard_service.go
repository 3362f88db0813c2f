package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"floorcheck/internal/analytics"
	"floorcheck/internal/dataset"
	"floorcheck/internal/exporter"
	"floorcheck/pkg/contracts/domain"
)

const (
	// DefaultPageSize is the number of raw table rows per page.
	DefaultPageSize = 15

	// TopRanking is the length of the position and observation rankings.
	TopRanking = 10
)

// DatasetSource provides the current checklist dataset.
type DatasetSource interface {
	Get(ctx context.Context) (*dataset.Dataset, error)
}

// DashboardService computes the views of the dashboard pages.
type DashboardService struct {
	source DatasetSource
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service over source.
func NewDashboardService(source DatasetSource, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source: source,
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// dataset returns the current dataset, failing with ErrNoData when it has no rows.
func (s *DashboardService) dataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	if ds.Empty() {
		s.logger.WarnContext(ctx, "checklist has no rows", slog.String("source", ds.Source))
		return nil, ErrNoData
	}
	return ds, nil
}

// Dates lists the dates present in the checklist, oldest first.
func (s *DashboardService) Dates(ctx context.Context) (domain.DatesView, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.DatesView{}, err
	}
	dates := analytics.Dates(ds)
	view := domain.DatesView{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		view.Dates = append(view.Dates, dataset.FormatDate(d))
	}
	return view, nil
}

// Summary returns the KPIs over the full history.
func (s *DashboardService) Summary(ctx context.Context) (domain.SummaryView, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.SummaryView{}, err
	}

	floor, err := analytics.MostFrequent(ds, dataset.ColumnFloor)
	if err != nil {
		return domain.SummaryView{}, err
	}

	var missing kpis
	trend := analytics.Trend(ds)
	view := domain.SummaryView{
		TotalRecords:        ds.Len(),
		InvalidDates:        ds.InvalidDates,
		CriticalFloor:       floor,
		CriticalPosition:    missing.mode(ds, dataset.ColumnPosition, "critical_position"),
		CriticalDate:        missing.mode(ds, dataset.ColumnDate, "critical_date"),
		CriticalObservation: missing.mode(ds, dataset.ColumnObservation, "critical_observation"),
		FloorDistribution:   countViews(analytics.CountBy(ds, dataset.ColumnFloor)),
		Trend:               make([]domain.DateCountView, 0, len(trend)),
		LoadedAt:            ds.LoadedAt,
	}
	for _, t := range trend {
		view.Trend = append(view.Trend, domain.DateCountView{Date: dataset.FormatDate(t.Date), Count: t.Count})
	}
	view.Unavailable = missing

	s.logger.DebugContext(ctx, "summary computed",
		slog.Int("rows", view.TotalRecords),
		slog.String("critical_floor", view.CriticalFloor))
	return view, nil
}

// Floors compares the floors of two dates. A non-empty floor adds a
// drill-down of that floor on the first date.
func (s *DashboardService) Floors(ctx context.Context, date1, date2, floor string) (domain.FloorsView, error) {
	first, err := parseDate("date1", date1)
	if err != nil {
		return domain.FloorsView{}, err
	}
	second, err := parseDate("date2", date2)
	if err != nil {
		return domain.FloorsView{}, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.FloorsView{}, err
	}

	day1 := analytics.FilterByDate(ds, first)
	day2 := analytics.FilterByDate(ds, second)
	firstDay, err := floorDay(day1, first)
	if err != nil {
		return domain.FloorsView{}, err
	}
	secondDay, err := floorDay(day2, second)
	if err != nil {
		return domain.FloorsView{}, err
	}

	view := domain.FloorsView{
		First:      firstDay,
		Second:     secondDay,
		Comparison: comparisonViews(analytics.Compare(
			analytics.CountBy(day1, dataset.ColumnFloor),
			analytics.CountBy(day2, dataset.ColumnFloor),
		)),
	}

	if floor = strings.TrimSpace(floor); floor != "" {
		subset := analytics.FilterBy(day1, dataset.ColumnFloor, floor)
		if subset.Empty() {
			return domain.FloorsView{}, fmt.Errorf("%w: floor %q on %s", analytics.ErrEmptyResult, floor, dataset.FormatDate(first))
		}
		var missing kpis
		view.Drilldown = &domain.FloorDrilldown{
			Floor:               floor,
			Date:                dataset.FormatDate(first),
			CriticalPosition:    missing.mode(subset, dataset.ColumnPosition, "critical_position"),
			CriticalObservation: missing.mode(subset, dataset.ColumnObservation, "critical_observation"),
			Rows:                recordViews(subset),
		}
		view.Drilldown.Unavailable = missing
	}
	return view, nil
}

func floorDay(day *dataset.Dataset, date time.Time) (domain.FloorDay, error) {
	critical, err := analytics.MostFrequent(day, dataset.ColumnFloor)
	if err != nil {
		return domain.FloorDay{}, fmt.Errorf("floors on %s: %w", dataset.FormatDate(date), err)
	}
	var missing kpis
	onFloor := analytics.FilterBy(day, dataset.ColumnFloor, critical)
	view := domain.FloorDay{
		Date:                dataset.FormatDate(date),
		Records:             day.Len(),
		CriticalFloor:       critical,
		CriticalPosition:    missing.mode(onFloor, dataset.ColumnPosition, "critical_position"),
		CriticalObservation: missing.mode(onFloor, dataset.ColumnObservation, "critical_observation"),
		Floors:              countViews(analytics.CountBy(day, dataset.ColumnFloor)),
	}
	view.Unavailable = missing
	return view, nil
}

// Positions ranks the positions of one date. A non-empty position adds the
// rows recorded for it.
func (s *DashboardService) Positions(ctx context.Context, date, position string) (domain.PositionsView, error) {
	d, err := parseDate("date", date)
	if err != nil {
		return domain.PositionsView{}, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.PositionsView{}, err
	}

	day := analytics.FilterByDate(ds, d)
	critical, err := analytics.MostFrequent(day, dataset.ColumnPosition)
	if err != nil {
		return domain.PositionsView{}, fmt.Errorf("positions on %s: %w", dataset.FormatDate(d), err)
	}

	view := domain.PositionsView{
		Date:             dataset.FormatDate(d),
		Records:          day.Len(),
		CriticalPosition: critical,
		TopPositions:     countViews(analytics.TopN(analytics.CountBy(day, dataset.ColumnPosition), TopRanking)),
	}
	if position = strings.TrimSpace(position); position != "" {
		subset := analytics.FilterBy(day, dataset.ColumnPosition, position)
		if subset.Empty() {
			return domain.PositionsView{}, fmt.Errorf("%w: position %q on %s", analytics.ErrEmptyResult, position, view.Date)
		}
		view.Selected = position
		view.Rows = recordViews(subset)
	}
	return view, nil
}

// Observations compares the observations of two distinct dates. A non-empty
// observation adds the rows recorded for it on each date.
func (s *DashboardService) Observations(ctx context.Context, date1, date2, observation string) (domain.ObservationsView, error) {
	first, err := parseDate("date1", date1)
	if err != nil {
		return domain.ObservationsView{}, err
	}
	second, err := parseDate("date2", date2)
	if err != nil {
		return domain.ObservationsView{}, err
	}
	if first.Equal(second) {
		return domain.ObservationsView{}, ErrSameDates
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.ObservationsView{}, err
	}

	observation = strings.TrimSpace(observation)
	firstDay, err := observationDay(analytics.FilterByDate(ds, first), first, observation)
	if err != nil {
		return domain.ObservationsView{}, err
	}
	secondDay, err := observationDay(analytics.FilterByDate(ds, second), second, observation)
	if err != nil {
		return domain.ObservationsView{}, err
	}
	return domain.ObservationsView{First: firstDay, Second: secondDay, Selected: observation}, nil
}

func observationDay(day *dataset.Dataset, date time.Time, observation string) (domain.ObservationDay, error) {
	critical, err := analytics.MostFrequent(day, dataset.ColumnObservation)
	if err != nil {
		return domain.ObservationDay{}, fmt.Errorf("observations on %s: %w", dataset.FormatDate(date), err)
	}
	var missing kpis
	view := domain.ObservationDay{
		Date:                dataset.FormatDate(date),
		Records:             day.Len(),
		CriticalObservation: critical,
		CriticalPosition:    missing.mode(day, dataset.ColumnPosition, "critical_position"),
		TopObservations:     countViews(analytics.TopN(analytics.CountBy(day, dataset.ColumnObservation), TopRanking)),
	}
	view.Unavailable = missing
	if observation != "" {
		view.Rows = recordViews(analytics.FilterBy(day, dataset.ColumnObservation, observation))
	}
	return view, nil
}

// Table returns one page of the raw checklist. Page numbers start at 1; a
// non-positive page or size falls back to the first page and DefaultPageSize.
func (s *DashboardService) Table(ctx context.Context, page, pageSize int) (domain.TableView, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.TableView{}, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := ds.Len()
	pages := (total + pageSize - 1) / pageSize
	if page > pages {
		return domain.TableView{}, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, pages)
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	rows := make([]domain.RecordView, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, recordView(ds.At(i)))
	}
	return domain.TableView{
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: pages,
		Columns:    ds.Headers(),
		Rows:       rows,
	}, nil
}

// Export renders the full checklist to out with exp.
func (s *DashboardService) Export(ctx context.Context, out io.Writer, exp exporter.Exporter) error {
	ds, err := s.dataset(ctx)
	if err != nil {
		return err
	}
	if err := exp.Write(out, ds); err != nil {
		return fmt.Errorf("export %s: %w", exp.FileName(), err)
	}
	s.logger.InfoContext(ctx, "checklist exported",
		slog.String("file", exp.FileName()),
		slog.Int("rows", ds.Len()))
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	d, ok := dataset.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrInvalidDate, field, value)
	}
	return d, nil
}

// kpis collects the JSON names of the KPIs that came out as
// domain.NotAvailable.
type kpis []string

// mode is MostFrequent for a secondary KPI. A column with no values yields
// domain.NotAvailable and records field instead of failing the whole view.
func (k *kpis) mode(ds *dataset.Dataset, col dataset.Column, field string) string {
	v, err := analytics.MostFrequent(ds, col)
	if err != nil {
		*k = append(*k, field)
		return domain.NotAvailable
	}
	return v
}

func recordView(r dataset.Record) domain.RecordView {
	return domain.RecordView{
		Date:        r.Value(dataset.ColumnDate),
		Floor:       r.Floor,
		Position:    r.Position,
		Observation: r.Observation,
	}
}

func recordViews(ds *dataset.Dataset) []domain.RecordView {
	rows := make([]domain.RecordView, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		rows = append(rows, recordView(ds.At(i)))
	}
	return rows
}

func countViews(counts []analytics.Count) []domain.CountView {
	views := make([]domain.CountView, 0, len(counts))
	for _, c := range counts {
		views = append(views, domain.CountView{Value: c.Value, Count: c.Count})
	}
	return views
}

func comparisonViews(cmp []analytics.Comparison) []domain.ComparisonView {
	views := make([]domain.ComparisonView, 0, len(cmp))
	for _, c := range cmp {
		views = append(views, domain.ComparisonView{Value: c.Value, First: c.First, Second: c.Second})
	}
	return views
}
