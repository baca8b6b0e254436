package governor

import (
	"math/big"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type governorMetrics struct {
	proposalsCreated  prometheus.Counter
	votesCast         *prometheus.CounterVec
	proposalsExecuted prometheus.Counter
	proposalsCanceled prometheus.Counter
	unlocks           prometheus.Counter
	rejections        *prometheus.CounterVec
	tokensLocked      prometheus.Gauge
}

// newGovernorMetrics builds the governor metrics and registers them on promRegistry. A nil
// registry leaves them unregistered.
func newGovernorMetrics(promRegistry prometheus.Registerer) *governorMetrics {
	promautoFactory := promauto.With(promRegistry)

	return &governorMetrics{
		proposalsCreated: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "governor_proposals_created_total",
			Help: "total number of proposals created",
		}),
		votesCast: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "governor_votes_cast_total",
			Help: "total number of votes cast, by support",
		}, []string{"support"}),
		proposalsExecuted: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "governor_proposals_executed_total",
			Help: "total number of proposals executed",
		}),
		proposalsCanceled: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "governor_proposals_canceled_total",
			Help: "total number of proposals canceled",
		}),
		unlocks: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "governor_unlocks_total",
			Help: "total number of successful token unlocks",
		}),
		rejections: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "governor_rejections_total",
			Help: "total number of rejected operations, by operation",
		}, []string{"op"}),
		tokensLocked: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "governor_tokens_locked",
			Help: "tokens currently held in custody for proposals and votes, in base units",
		}),
	}
}

func (m *governorMetrics) voteCast(support bool) {
	m.votesCast.WithLabelValues(strconv.FormatBool(support)).Inc()
}

func (m *governorMetrics) rejected(op string) {
	m.rejections.WithLabelValues(op).Inc()
}

func (m *governorMetrics) setLocked(total *big.Int) {
	f, _ := new(big.Float).SetInt(total).Float64()
	m.tokensLocked.Set(f)
}
