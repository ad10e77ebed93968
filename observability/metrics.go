package observability

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"

	"taprush/core/events"
)

var weiPerToken = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// Metrics tracks the engine's operational counters. It implements
// events.Emitter so it can sit on the node's event stream without the engine
// knowing about Prometheus.
type Metrics struct {
	gamesStarted    *prometheus.CounterVec
	gamesScored     *prometheus.CounterVec
	tokensMinted    *prometheus.CounterVec
	tokensMintedWei *prometheus.CounterVec
	dailyClaims     prometheus.Counter
	boardRankings   *prometheus.CounterVec
}

// NewMetrics registers the engine metrics against the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taprush",
			Name:      "games_started_total",
			Help:      "Play sessions opened, by game mode.",
		}, []string{"mode"}),
		gamesScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taprush",
			Name:      "games_scored_total",
			Help:      "Play sessions settled by an attested score, by game mode.",
		}, []string{"mode"}),
		tokensMinted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taprush",
			Name:      "mints_total",
			Help:      "Mint operations, by reason.",
		}, []string{"reason"}),
		tokensMintedWei: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taprush",
			Name:      "minted_tokens",
			Help:      "Whole reward tokens minted, by reason.",
		}, []string{"reason"}),
		dailyClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taprush",
			Name:      "daily_claims_total",
			Help:      "Successful daily check-in claims.",
		}),
		boardRankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taprush",
			Name:      "leaderboard_rankings_total",
			Help:      "Submissions that landed on a leaderboard, by game mode.",
		}, []string{"mode"}),
	}
	if reg != nil {
		reg.MustRegister(m.gamesStarted, m.gamesScored, m.tokensMinted, m.tokensMintedWei, m.dailyClaims, m.boardRankings)
	}
	return m
}

// Emit implements events.Emitter.
func (m *Metrics) Emit(evt events.Event) {
	if m == nil {
		return
	}
	switch e := evt.(type) {
	case events.GameStarted:
		m.gamesStarted.WithLabelValues(e.Mode.String()).Inc()
	case events.GameScored:
		m.gamesScored.WithLabelValues(e.Mode.String()).Inc()
	case events.DailyClaimed:
		m.dailyClaims.Inc()
	case events.RankChanged:
		m.boardRankings.WithLabelValues(e.Mode.String()).Inc()
	case events.TokenMinted:
		m.tokensMinted.WithLabelValues(e.Reason).Inc()
		if e.Amount != nil {
			tokens, _ := new(big.Float).Quo(new(big.Float).SetInt(e.Amount), weiPerToken).Float64()
			m.tokensMintedWei.WithLabelValues(e.Reason).Add(tokens)
		}
	}
}
