package xdiag

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// 自身指标名称
const (
	instrumentationName = modulePath

	MetricEventsWritten  = "xdiag.events.written"
	MetricEventsDropped  = "xdiag.events.dropped"
	MetricConfigRejected = "xdiag.config.rejected"

	attrLevel = "level"
	attrOp    = "op"
)

// senderMetrics Sender 的自身指标
//
// 属性集在创建时预先计算，Send 热路径上不分配。
type senderMetrics struct {
	written  metric.Int64Counter
	dropped  metric.Int64Counter
	rejected metric.Int64Counter

	levelOpts  [levelCount]metric.AddOption
	unknownOpt metric.AddOption
}

func newSenderMetrics(mp metric.MeterProvider) *senderMetrics {
	meter := mp.Meter(instrumentationName)
	m := &senderMetrics{}

	var err error
	m.written, err = meter.Int64Counter(MetricEventsWritten,
		metric.WithDescription("Diagnostic events appended to the log file"),
		metric.WithUnit("{event}"))
	if err != nil {
		m.written = noop.Int64Counter{}
	}
	m.dropped, err = meter.Int64Counter(MetricEventsDropped,
		metric.WithDescription("Diagnostic events discarded because the write failed"),
		metric.WithUnit("{event}"))
	if err != nil {
		m.dropped = noop.Int64Counter{}
	}
	m.rejected, err = meter.Int64Counter(MetricConfigRejected,
		metric.WithDescription("Rejected log directory configurations"),
		metric.WithUnit("{config}"))
	if err != nil {
		m.rejected = noop.Int64Counter{}
	}

	for i := range m.levelOpts {
		m.levelOpts[i] = metric.WithAttributeSet(attribute.NewSet(attribute.String(attrLevel, Level(i).String())))
	}
	m.unknownOpt = metric.WithAttributeSet(attribute.NewSet(attribute.String(attrLevel, "unknown")))
	return m
}

func (m *senderMetrics) levelOpt(l Level) metric.AddOption {
	if l.IsValid() {
		return m.levelOpts[l]
	}
	return m.unknownOpt
}

func (m *senderMetrics) eventWritten(l Level) {
	m.written.Add(context.Background(), 1, m.levelOpt(l))
}

func (m *senderMetrics) eventDropped(l Level) {
	m.dropped.Add(context.Background(), 1, m.levelOpt(l))
}

func (m *senderMetrics) configRejected(op string) {
	m.rejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String(attrOp, op)))
}
