package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taxassist",
		Name:      "chat_requests_total",
		Help:      "Chat completions served, by outcome.",
	}, []string{"outcome"})

	actionExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taxassist",
		Name:      "action_executions_total",
		Help:      "Suggested actions executed, by action id and outcome.",
	}, []string{"action_id", "outcome"})
)

func outcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
