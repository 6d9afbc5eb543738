package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UserSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realmgate_user_searches_total",
			Help: "Total number of admin user searches",
		},
		[]string{"realm", "mode"},
	)

	LockedUsersObserved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realmgate_locked_users_observed_total",
			Help: "Total number of temporarily locked users returned by searches",
		},
		[]string{"realm"},
	)

	SearchDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realmgate_user_searches_denied_total",
			Help: "Total number of searches rejected for missing query capability",
		},
	)

	LoginFailuresPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realmgate_login_failures_pruned_total",
			Help: "Total number of stale login failure records removed by the retention sweep",
		},
	)
)
