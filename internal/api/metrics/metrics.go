// Package metrics defines the custom Prometheus metrics for the storefront
// service. It is the single source of truth for metric names, labels, and
// help strings; request-level metrics come from the echoprometheus
// middleware registered in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// GoodsSearchesTotal counts listing requests that used the free-text filter.
var GoodsSearchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "goods_searches_total",
		Help:      "Total number of goods listing requests with a search term.",
	},
)

// AccountChangesTotal counts applied account mutations.
// Label:
//   - field: "email" or "password"
var AccountChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_changes_total",
		Help:      "Total number of account mutations applied, by field.",
	},
	[]string{"field"},
)
