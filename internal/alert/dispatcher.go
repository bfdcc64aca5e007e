// Package alert holds the alert lifecycle state machine: dedup of
// failing checks, start/end timestamps, periodic re-announcement, and
// the final flush on shutdown.
package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/checkmon/checkmon/internal/check"
	"github.com/checkmon/checkmon/internal/metrics"
)

// PostableAlert is one element of the array POSTed to the alert sink,
// in Alertmanager v2 wire format.
type PostableAlert struct {
	StartsAt     time.Time         `json:"startsAt"`
	EndsAt       *time.Time        `json:"endsAt,omitempty"`
	Labels       map[string]string `json:"labels"`
	Annotations  map[string]string `json:"annotations"`
	GeneratorURL string            `json:"generatorURL,omitempty"`
}

type Config struct {
	BaseURL               string
	RealertInterval       time.Duration
	AllowOutputAnnotation bool
}

// Dispatcher owns the active-alert set. It is the single consumer of
// check updates; nothing else reads or writes its state, so no locking
// is needed.
type Dispatcher struct {
	logger   *zap.Logger
	cfg      Config
	url      string
	client   *http.Client
	registry check.Registry
	active   map[int]*PostableAlert

	now func() time.Time
}

func NewDispatcher(logger *zap.Logger, cfg Config, registry check.Registry) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		cfg:      cfg,
		url:      cfg.BaseURL + "/alerts",
		client:   &http.Client{Timeout: 10 * time.Second},
		registry: registry,
		active:   make(map[int]*PostableAlert),
		now:      time.Now,
	}
}

// Run consumes updates until the channel closes, re-announcing the
// active set every RealertInterval. Missed ticks are dropped, never
// queued. On channel close it posts the current set one last time.
func (d *Dispatcher) Run(updates <-chan check.Update) {
	ticker := time.NewTicker(d.cfg.RealertInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if len(d.active) > 0 {
				d.post()
			}
		case u, ok := <-updates:
			if !ok {
				d.post()
				return
			}
			d.process(u)
		}
	}
}

// process applies one update to the state machine. A Failed update for
// an already-alerting check is idempotent; a Succeeded update with no
// active alert is a no-op.
func (d *Dispatcher) process(u check.Update) {
	switch u.Status {
	case check.StatusFailed:
		if _, exists := d.active[u.ID]; exists {
			return
		}
		info, ok := d.registry[u.ID]
		if !ok {
			d.logger.Error("alert_for_unknown_check",
				zap.Int("id", u.ID),
			)
			return
		}

		a := &PostableAlert{
			StartsAt:    d.now().UTC(),
			Labels:      maps.Clone(info.Labels),
			Annotations: maps.Clone(info.Annotations),
		}
		if d.cfg.AllowOutputAnnotation && u.Message != "" {
			if a.Annotations == nil {
				a.Annotations = make(map[string]string, 1)
			}
			a.Annotations["output"] = u.Message
		}

		d.logger.Info("check_failed", zap.String("check", info.Name))
		d.active[u.ID] = a
		metrics.ActiveAlerts.Set(float64(len(d.active)))
		d.post()

	case check.StatusSucceeded:
		a, ok := d.active[u.ID]
		if !ok {
			return
		}
		ended := d.now().UTC()
		a.EndsAt = &ended
		d.logger.Info("check_passing_again", zap.Any("labels", a.Labels))

		// The set still includes the ended alert so the sink observes
		// its resolution.
		d.post()
		delete(d.active, u.ID)
		metrics.ActiveAlerts.Set(float64(len(d.active)))
	}
}

// post sends the full active set. Transport failures are logged and not
// retried; the next state change or tick posts again naturally.
func (d *Dispatcher) post() {
	alerts := make([]*PostableAlert, 0, len(d.active))
	for _, a := range d.active {
		alerts = append(alerts, a)
	}

	if err := d.send(alerts); err != nil {
		metrics.AlertPostsTotal.WithLabelValues("error").Inc()
		d.logger.Error("alert_post_failed", zap.Error(err))
		return
	}
	metrics.AlertPostsTotal.WithLabelValues("ok").Inc()
}

func (d *Dispatcher) send(alerts []*PostableAlert) error {
	body, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encoding alerts: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("alert sink returned %s", resp.Status)
	}
	return nil
}
