// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package metrics counts parameter list decode outcomes in Prometheus
package metrics

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ddsiinterfaces "go.e43.eu/ddsi/interfaces"
	"go.e43.eu/ddsi/internal/errors"
)

const (
	lvOK           = "ok"
	lvInvalid      = "invalid"
	lvIncompatible = "incompatible"
)

var _ ddsiinterfaces.Observer = (*Observer)(nil)

// Observer is a ddsiinterfaces.Observer which counts outcomes
type Observer struct {
	decodes    *prometheus.CounterVec
	params     *prometheus.CounterVec
	quickScans *prometheus.CounterVec
}

// NewObserver registers the counters with reg
func NewObserver(reg prometheus.Registerer) *Observer {
	return &Observer{
		decodes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ddsi_plist_decodes_total",
			Help: "Total number of parameter lists decoded, by result.",
		}, []string{"result"}),
		params: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ddsi_plist_params_total",
			Help: "Total number of parameters read, by parameter and outcome.",
		}, []string{"param", "result"}),
		quickScans: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ddsi_plist_quickscans_total",
			Help: "Total number of inline QoS quick scans, by result.",
		}, []string{"result"}),
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return lvOK
	case stderrors.Is(err, errors.ErrIncompatible):
		return lvIncompatible
	default:
		return lvInvalid
	}
}

func (o *Observer) ParamDecoded(pid uint16, name string, outcome ddsiinterfaces.ParamOutcome) {
	o.params.WithLabelValues(name, outcome.String()).Inc()
}

func (o *Observer) Decoded(err error) {
	o.decodes.WithLabelValues(result(err)).Inc()
}

func (o *Observer) QuickScanned(err error) {
	o.quickScans.WithLabelValues(result(err)).Inc()
}
