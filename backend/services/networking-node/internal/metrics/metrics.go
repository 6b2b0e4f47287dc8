package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
)

const namespace = "ocpp_node"

// Collector exports node activity to Prometheus. It implements node.Observer.
type Collector struct {
	frames      *prometheus.CounterVec
	forwarded   *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	connections prometheus.Gauge
	commands    *prometheus.CounterVec
}

// New registers the node metrics on reg. stats feeds the queue gauges and may
// be nil.
func New(reg prometheus.Registerer, stats func() node.Stats) *Collector {
	factory := promauto.With(reg)
	c := &Collector{
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames crossing the node links.",
		}, []string{"direction", "type", "action"}),
		forwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_forwarded_total",
			Help:      "Frames relayed to another node.",
		}, []string{"type"}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames discarded by the node.",
		}, []string{"reason"}),
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of active ws connections",
		}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Outgoing commands by final status.",
		}, []string{"action", "status"}),
	}
	if stats != nil {
		gauge := func(name, help string, value func(node.Stats) int) {
			factory.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      name,
				Help:      help,
			}, func() float64 { return float64(value(stats())) })
		}
		gauge("calls_pending", "Outgoing CALLs awaiting a response.", func(s node.Stats) int { return s.Pending })
		gauge("calls_queued", "Outgoing CALLs waiting for a free slot or a route.", func(s node.Stats) int { return s.Queued })
		gauge("calls_forwarding", "Forwarded CALLs awaiting a response.", func(s node.Stats) int { return s.Forwarding })
	}
	return c
}

func (c *Collector) FrameReceived(ev node.FrameEvent) {
	c.countFrame(ev)
}

func (c *Collector) FrameSent(ev node.FrameEvent) {
	c.countFrame(ev)
}

func (c *Collector) FrameForwarded(_, _ ocpp.NodeID, msg *ocpp.Message) {
	c.forwarded.WithLabelValues(msg.Type.String()).Inc()
}

func (c *Collector) FrameDropped(_ ocpp.NodeID, _ []byte, reason error) {
	c.dropped.WithLabelValues(DropReason(reason)).Inc()
}

// SetConnections records the number of attached ws connections.
func (c *Collector) SetConnections(count int) {
	c.connections.Set(float64(count))
}

// CommandFinished counts a terminated command.
func (c *Collector) CommandFinished(r node.CommandResult) {
	c.commands.WithLabelValues(r.Action, string(r.Status)).Inc()
}

func (c *Collector) countFrame(ev node.FrameEvent) {
	if ev.Message == nil {
		return
	}
	c.frames.WithLabelValues(string(ev.Direction), ev.Message.Type.String(), ev.Message.Action).Inc()
}

// DropReason maps a drop error to a bounded label value.
func DropReason(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, node.ErrLoop):
		return "loop"
	case errors.Is(err, node.ErrHopLimit):
		return "hop_limit"
	case errors.Is(err, node.ErrUnknownMessage):
		return "unknown_message"
	case errors.Is(err, node.ErrUnexpectedOrigin):
		return "unexpected_origin"
	case errors.Is(err, node.ErrNotConnected):
		return "not_connected"
	case errors.Is(err, node.ErrNoRoute):
		return "no_route"
	case errors.Is(err, node.ErrOverlayRequired):
		return "overlay_required"
	case isFrameError(err):
		return "invalid_frame"
	default:
		return "write_failed"
	}
}

func isFrameError(err error) bool {
	var oerr *ocpp.Error
	return errors.As(err, &oerr)
}
