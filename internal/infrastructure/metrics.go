package infrastructure

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"floorcheck/internal/dataset"
	"floorcheck/internal/notify"
)

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Dataset metrics
	DatasetLoadsTotal   metric.Int64Counter
	DatasetLoadDuration metric.Float64Histogram
	DatasetRows         metric.Int64Gauge

	// Alert metrics
	AlertsTotal     metric.Int64Counter
	AlertRecipients metric.Int64Histogram

	// Auth metrics
	LoginsTotal metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoadsTotal, err = meter.Int64Counter(
		"dataset_loads_total",
		metric.WithDescription("Total number of checklist file loads"),
	); err != nil {
		return nil, err
	}
	if m.DatasetLoadDuration, err = meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Checklist load and parse duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.DatasetRows, err = meter.Int64Gauge(
		"dataset_rows",
		metric.WithDescription("Rows in the last successfully loaded checklist"),
	); err != nil {
		return nil, err
	}

	if m.AlertsTotal, err = meter.Int64Counter(
		"alerts_sent_total",
		metric.WithDescription("Total number of critical floor alert submissions"),
	); err != nil {
		return nil, err
	}
	if m.AlertRecipients, err = meter.Int64Histogram(
		"alert_recipients",
		metric.WithDescription("Recipients per alert submission"),
	); err != nil {
		return nil, err
	}

	if m.LoginsTotal, err = meter.Int64Counter(
		"logins_total",
		metric.WithDescription("Total number of login attempts"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

func statusAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordDatasetLoad records one checklist load. It satisfies dataset.LoadObserver.
func (m *BusinessMetrics) RecordDatasetLoad(ctx context.Context, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{statusAttr(err)}
	if err != nil {
		reason := "other"
		switch {
		case errors.Is(err, dataset.ErrFileNotFound):
			reason = "file_not_found"
		case errors.Is(err, dataset.ErrMissingColumn):
			reason = "missing_column"
		case errors.Is(err, dataset.ErrMalformed):
			reason = "malformed"
		}
		attrs = append(attrs, attribute.String("reason", reason))
		RecordError(ctx, err)
	} else {
		m.DatasetRows.Record(ctx, int64(rows))
	}

	m.DatasetLoadsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.DatasetLoadDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(statusAttr(err)))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("dataset.loaded", trace.WithAttributes(
			attribute.Int("rows", rows),
			attribute.Float64("duration_seconds", duration.Seconds()),
		))
	}
}

// RecordAlert records one alert submission. It satisfies services.AlertRecorder.
func (m *BusinessMetrics) RecordAlert(ctx context.Context, recipients int, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{statusAttr(err)}
	if err != nil && !errors.Is(err, notify.ErrSendFailure) {
		attrs = append(attrs, attribute.String("reason", "compose"))
	}
	m.AlertsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err == nil {
		m.AlertRecipients.Record(ctx, int64(recipients))
	}
}

// RecordLogin records a login attempt. role is empty for failed attempts.
func (m *BusinessMetrics) RecordLogin(ctx context.Context, role string, success bool) {
	if m == nil {
		return
	}
	status := "failure"
	if success {
		status = "success"
	}
	m.LoginsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("role", role),
	))
}

// RecordHTTPRequest records one served request.
func (m *BusinessMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
