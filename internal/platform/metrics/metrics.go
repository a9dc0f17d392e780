// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes StoryVoter's Prometheus instruments.

HTTP traffic, database pool usage and the domain events that matter for
operating the vote engine (casts, rejections, publications, credits) are all
registered on one [prometheus.Registerer] supplied by the caller.

Every recording method is safe on a nil *Metrics so services can be built
without instrumentation in tests.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storyvoter"

// Metrics holds Prometheus metrics for the API process.
type Metrics struct {
	registry prometheus.Gatherer

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	DBConnPoolStats  *prometheus.GaugeVec

	VotesCast         *prometheus.CounterVec
	VoteRejections    *prometheus.CounterVec
	ChaptersPublished prometheus.Counter
	CoinsCredited     prometheus.Counter
	Payments          *prometheus.CounterVec
}

// New registers every instrument on registry.
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of requests currently being processed",
		}),
		DBConnPoolStats: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connection_pool",
			Help:      "Database connection pool statistics",
		}, []string{"stat"}),
		VotesCast: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Accepted votes by kind",
		}, []string{"kind"}),
		VoteRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_rejections_total",
			Help:      "Rejected vote attempts by error code",
		}, []string{"reason"}),
		ChaptersPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chapters_published_total",
			Help:      "Chapters published",
		}),
		CoinsCredited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_credited_total",
			Help:      "Coins credited from completed payments",
		}),
		Payments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment lifecycle events",
		}, []string{"event"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// # Domain Events

// VoteCast counts an accepted vote. kind is "ordinary" or "boosted".
func (m *Metrics) VoteCast(kind string) {
	if m == nil {
		return
	}
	m.VotesCast.WithLabelValues(kind).Inc()
}

// VoteRejected counts a refused vote by its error code.
func (m *Metrics) VoteRejected(code string) {
	if m == nil {
		return
	}
	m.VoteRejections.WithLabelValues(code).Inc()
}

// ChapterPublished counts a published chapter.
func (m *Metrics) ChapterPublished() {
	if m == nil {
		return
	}
	m.ChaptersPublished.Inc()
}

// CoinsCreditedBy adds credited coins.
func (m *Metrics) CoinsCreditedBy(coins int64) {
	if m == nil {
		return
	}
	m.CoinsCredited.Add(float64(coins))
}

// PaymentEvent counts a payment lifecycle event ("created", "create_failed", "webhook",
// "credited", "duplicate", "canceled", "mismatch").
func (m *Metrics) PaymentEvent(event string) {
	if m == nil {
		return
	}
	m.Payments.WithLabelValues(event).Inc()
}

// # Infrastructure

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordDBPoolStats records database connection pool statistics.
func (m *Metrics) RecordDBPoolStats(stat *pgxpool.Stat) {
	if m == nil || stat == nil {
		return
	}
	m.DBConnPoolStats.WithLabelValues("total").Set(float64(stat.TotalConns()))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(stat.AcquiredConns()))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(stat.EmptyAcquireCount()))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(stat.AcquireDuration().Milliseconds()))
}
