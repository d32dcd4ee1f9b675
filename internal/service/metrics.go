package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

var (
	purchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Successful purchases.",
	})
	unitsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_sold_total",
		Help:      "Units removed from stock by purchases.",
	})
	restocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocks_total",
		Help:      "Successful restocks.",
	})
	stockRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_rejections_total",
		Help:      "Purchases refused for insufficient stock.",
	})
	catalogMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_mutations_total",
		Help:      "Admin catalog changes by operation.",
	}, []string{"op"})
	registrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "New accounts by role.",
	}, []string{"role"})
	loginFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Logins rejected for bad credentials.",
	})
)
