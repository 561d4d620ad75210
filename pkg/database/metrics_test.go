package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolStatsCollector_NotNil(t *testing.T) {
	// Collect panics with a nil pool, but construction and Describe work.
	c := NewPoolStatsCollector(nil, "reviewdesk")
	require.NotNil(t, c)
	assert.Equal(t, "reviewdesk", c.service)
}

func TestPoolStatsCollector_ImplementsCollector(t *testing.T) {
	var _ prometheus.Collector = NewPoolStatsCollector(nil, "reviewdesk")
}

func TestPoolStatsCollector_DescriptorNames(t *testing.T) {
	c := NewPoolStatsCollector(nil, "reviewdesk")

	ch := make(chan *prometheus.Desc, 20)
	c.Describe(ch)
	close(ch)

	var descs []string
	for d := range ch {
		descs = append(descs, d.String())
	}
	require.Len(t, descs, 12)

	expected := []string{
		"db_pool_acquired_connections",
		"db_pool_idle_connections",
		"db_pool_total_connections",
		"db_pool_max_connections",
		"db_pool_constructing_connections",
		"db_pool_acquire_count_total",
		"db_pool_acquire_duration_seconds_total",
		"db_pool_canceled_acquire_count_total",
		"db_pool_empty_acquire_count_total",
		"db_pool_new_connections_total",
		"db_pool_max_lifetime_destroy_total",
		"db_pool_max_idle_destroy_total",
	}

	joined := strings.Join(descs, "\n")
	for _, name := range expected {
		assert.Contains(t, joined, name)
	}
}
