package xdiag

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/mock/gomock"
)

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)
	return mp, reader
}

// counterValues 收集指定计数器各属性值下的累计值。
func counterValues(t *testing.T, reader *sdkmetric.ManualReader, name, attr string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is %T", name, m.Data)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(attr))
				values[v.AsString()] += dp.Value
			}
		}
	}
	return values
}

func TestMetricsEventsWritten(t *testing.T) {
	mp, reader := newTestMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	s, _ := newTestSender(t, WithEnabled(true), WithMeterProvider(mp))

	s.Send(NewEvent(LevelWarning, "a"))
	s.Send(NewEvent(LevelWarning, "b"))
	s.Send(NewEvent(LevelError, "c"))
	s.Send(NewEvent(Level(11), "d"))

	got := counterValues(t, reader, MetricEventsWritten, attrLevel)
	assert.Equal(t, map[string]int64{"Warning": 2, "Error": 1, "unknown": 1}, got)
	assert.Empty(t, counterValues(t, reader, MetricEventsDropped, attrLevel))
}

func TestMetricsEventsDropped(t *testing.T) {
	mp, reader := newTestMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	s, _ := newTestSender(t, WithEnabled(true), WithMeterProvider(mp))

	ctrl := gomock.NewController(t)
	fs := NewMockfileSystem(ctrl)
	fs.EXPECT().OpenFile(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, os.ErrPermission).Times(2)
	s.fs = fs

	s.Send(NewEvent(LevelCritical, "x"))
	s.Send(NewEvent(LevelCritical, "y"))

	assert.Equal(t, map[string]int64{"Critical": 2}, counterValues(t, reader, MetricEventsDropped, attrLevel))
}

func TestMetricsDisabledSendNotCounted(t *testing.T) {
	mp, reader := newTestMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	s, _ := newTestSender(t, WithMeterProvider(mp))

	s.Send(NewEvent(LevelCritical, "x"))

	assert.Empty(t, counterValues(t, reader, MetricEventsWritten, attrLevel))
	assert.Empty(t, counterValues(t, reader, MetricEventsDropped, attrLevel))
}

func TestMetricsConfigRejected(t *testing.T) {
	mp, reader := newTestMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	s, _ := newTestSender(t, WithMeterProvider(mp))

	assert.False(t, s.SetLogDirectory(blockedDir(t)))
	assert.False(t, s.SetLogDirectory(blockedDir(t)))
	assert.False(t, s.SetLogDirectory(" "))

	got := counterValues(t, reader, MetricConfigRejected, attrOp)
	assert.Equal(t, map[string]int64{opSetLogDirectory: 3}, got)
}
