package metrics

import (
	"strconv"

	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "neon"

	worldLabel   = "world_id"
	levelLabel   = "level"
	treeLabel    = "tree"
	outcomeLabel = "outcome"
)

// Исходы хода сущности
const (
	OutcomeMoved   = "moved"
	OutcomeBlocked = "blocked"
	OutcomeWait    = "wait"
)

var (
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "world_ticks_total",
		Help:      "The number of simulation ticks per world.",
	}, []string{worldLabel})

	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_turns_total",
		Help:      "The number of entity turns by outcome.",
	}, []string{worldLabel, outcomeLabel})

	tickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "world_tick_seconds",
		Help:      "The time to process one simulation tick.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	}, []string{worldLabel})

	streamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "The number of connected websocket stream clients.",
	})
)

func InstrumentTick(worldID string, seconds float64) {
	ticksTotal.
		With(prometheus.Labels{worldLabel: worldID}).
		Inc()
	tickDuration.
		With(prometheus.Labels{worldLabel: worldID}).
		Observe(seconds)
}

func InstrumentTurn(worldID, outcome string) {
	turnsTotal.
		With(prometheus.Labels{worldLabel: worldID, outcomeLabel: outcome}).
		Inc()
}

func InstrumentStreamConnect() {
	streamClients.Inc()
}

func InstrumentStreamDisconnect() {
	streamClients.Dec()
}

// SummarySource отдает сводки по всем активным мирам.
// Вызывается на каждый scrape, поэтому должна сама брать нужные блокировки.
type SummarySource interface {
	Summaries() []domain.WorldSummary
}

// TreeCollector экспортирует форму индексов каждого мира в момент scrape
type TreeCollector struct {
	source SummarySource

	nodes    *prometheus.Desc
	leaves   *prometheus.Desc
	depth    *prometheus.Desc
	elements *prometheus.Desc
	growths  *prometheus.Desc
}

func NewTreeCollector(source SummarySource) *TreeCollector {
	labels := []string{worldLabel, levelLabel, treeLabel}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "tree", name), help, labels, nil)
	}
	return &TreeCollector{
		source:   source,
		nodes:    desc("nodes", "The number of quadtree nodes."),
		leaves:   desc("leaves", "The number of quadtree leaves."),
		depth:    desc("depth", "The maximum quadtree depth."),
		elements: desc("elements", "The number of indexed entities."),
		growths:  desc("growths", "The number of times the entity index grew its bounds."),
	}
}

func (c *TreeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.leaves
	ch <- c.depth
	ch <- c.elements
	ch <- c.growths
}

func (c *TreeCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.source.Summaries() {
		id := s.ID.String()
		lvl := strconv.Itoa(s.Level)

		c.collectTree(ch, s.Terrain, id, lvl, "terrain")
		c.collectTree(ch, s.Elevation, id, lvl, "elevation")
		c.collectTree(ch, s.Entities, id, lvl, "entities")

		ch <- prometheus.MustNewConstMetric(c.elements, prometheus.GaugeValue, float64(s.Entities.Elements), id, lvl, "entities")
		ch <- prometheus.MustNewConstMetric(c.growths, prometheus.CounterValue, float64(s.Entities.Growths), id, lvl, "entities")
	}
}

func (c *TreeCollector) collectTree(ch chan<- prometheus.Metric, s spatial.Stats, labels ...string) {
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(s.Nodes), labels...)
	ch <- prometheus.MustNewConstMetric(c.leaves, prometheus.GaugeValue, float64(s.Leaves), labels...)
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(s.Depth), labels...)
}
