package tritonctl

import (
	"sync/atomic"
)

// ClientMetrics contains atomic counters of a client.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ClientMetrics struct {
	// CommandSendCount indicates the number of commands written to the controller.
	CommandSendCount atomic.Uint64
	// ReplyRecvCount indicates the number of replies received.
	ReplyRecvCount atomic.Uint64
	// TimeoutCount indicates the number of commands whose reply timed out.
	TimeoutCount atomic.Uint64
	// ConnErrCount indicates the number of I/O failures other than timeouts.
	ConnErrCount atomic.Uint64
	// ParseErrCount indicates the number of replies that violated the reply-format contract.
	ParseErrCount atomic.Uint64
	// RetryCount indicates the number of re-reads made by the stabilization waits.
	RetryCount atomic.Uint64
	// AdvisoryCount indicates the number of operator advisories emitted.
	AdvisoryCount atomic.Uint64
}

func (m *ClientMetrics) incCommandSendCount() { m.CommandSendCount.Add(1) }

func (m *ClientMetrics) incReplyRecvCount() { m.ReplyRecvCount.Add(1) }

func (m *ClientMetrics) incTimeoutCount() { m.TimeoutCount.Add(1) }

func (m *ClientMetrics) incConnErrCount() { m.ConnErrCount.Add(1) }

func (m *ClientMetrics) incParseErrCount() { m.ParseErrCount.Add(1) }

func (m *ClientMetrics) incRetryCount() { m.RetryCount.Add(1) }

func (m *ClientMetrics) incAdvisoryCount() { m.AdvisoryCount.Add(1) }
