package engine

import (
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/logger"
	"github.com/rutsinsao/smart-money-alert/internal/models"
)

// Notifier dispatches an alert to an external channel. Best-effort: errors
// are logged and swallowed so one failed dispatch cannot stop the rest.
type Notifier interface {
	Notify(alert models.Alert) error
}

// Presenter receives an immediate-display event for a newly fired alert.
type Presenter interface {
	ShowAlert(alert models.Alert)
}

// Evaluator applies the compound threshold predicate to correlated pairs and
// suppresses re-dispatch of alert identities already seen during this
// process's lifetime. The seen set is owned by the instance; construct a
// fresh Evaluator to reset it.
type Evaluator struct {
	smartThreshold float64
	dropThreshold  float64
	notifier       Notifier
	presenter      Presenter
	seen           map[string]struct{}
}

// NewEvaluator creates an evaluator with the given thresholds. notifier and
// presenter may be nil, which turns the corresponding side effect into a
// no-op.
func NewEvaluator(smartThreshold, dropThreshold float64, notifier Notifier, presenter Presenter) *Evaluator {
	return &Evaluator{
		smartThreshold: smartThreshold,
		dropThreshold:  dropThreshold,
		notifier:       notifier,
		presenter:      presenter,
		seen:           make(map[string]struct{}),
	}
}

// Evaluate runs one refresh cycle over the correlated pairs. It returns the
// full alert set for display and the subset that was dispatched this cycle
// (identities not seen before). Dispatch side effects run inline, in pair
// order; a notifier failure is logged and does not affect later pairs.
func (ev *Evaluator) Evaluate(pairs []models.CorrelatedPair) (all, dispatched []models.Alert) {
	now := time.Now()

	for _, pair := range pairs {
		if !ev.triggered(pair) {
			continue
		}

		alert := models.Alert{
			Key:        pair.Key,
			League:     pair.Signal.League,
			Date:       pair.Signal.DateText,
			Time:       pair.Signal.TimeText,
			Home:       pair.Signal.Home,
			Away:       pair.Signal.Away,
			Outcome:    pair.Signal.SmartOutcome,
			SmartPct:   *pair.Signal.SmartPct,
			DropPct:    *pair.Price.DropPct,
			DetectedAt: now,
		}
		all = append(all, alert)

		id := alert.Identity()
		if _, ok := ev.seen[id]; ok {
			logger.Debug("Alert %s already dispatched, suppressing", id)
			continue
		}
		ev.seen[id] = struct{}{}
		dispatched = append(dispatched, alert)

		if ev.presenter != nil {
			ev.presenter.ShowAlert(alert)
		}
		if ev.notifier != nil {
			if err := ev.notifier.Notify(alert); err != nil {
				logger.Warn("Failed to dispatch alert %s: %v", id, err)
			}
		}
	}

	return all, dispatched
}

// triggered is the compound predicate: both feeds agree on the dominant
// outcome and each clears its threshold. Absent dominance on either side
// never triggers.
func (ev *Evaluator) triggered(pair models.CorrelatedPair) bool {
	s, p := pair.Signal, pair.Price
	if s.SmartOutcome == "" || s.SmartPct == nil || p.DropOutcome == "" || p.DropPct == nil {
		return false
	}
	return s.SmartOutcome == p.DropOutcome &&
		*s.SmartPct >= ev.smartThreshold &&
		*p.DropPct >= ev.dropThreshold
}

// SeenCount reports the number of distinct alert identities dispatched so
// far in this session.
func (ev *Evaluator) SeenCount() int {
	return len(ev.seen)
}
