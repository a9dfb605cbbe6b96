package engine

import (
	"context"

	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/persist"
)

// changeProfile switches to another profile. The outgoing profile is saved
// with the switch retry budget, then the incoming one is loaded whether or
// not the save succeeded. Nothing else runs until the switch completes.
func (e *Engine) changeProfile(ctx context.Context, m ProfileChanged) {
	e.resolver.Override = append([]model.Rect(nil), m.Rects...)
	if persist.SanitizeName(m.Name) == e.profileKey {
		e.ensureBuckets()
		return
	}

	e.notify(ProfileLoading{Name: m.Name})
	e.statusf(SeverityInfo, "switching profile %s -> %s", e.profile, m.Name)
	if e.active {
		e.saveActive(ctx, e.cfg.SwitchRetries, "switch")
	}
	e.load(m.Name)
}

// load replaces the active store and resets per-profile state.
func (e *Engine) load(name string) {
	store, source := e.persister.Load(name)
	e.store = store
	e.profile = name
	e.profileKey = persist.SanitizeName(name)
	e.active = false
	e.skipped = 0
	e.lastActivity = store.Ticks.Total
	e.keys = keyState{}
	e.ensureBuckets()

	isNew := source == persist.SourceNew
	if isNew {
		e.statusf(SeverityInfo, "profile %s started", name)
	} else {
		e.statusf(SeverityInfo, "profile %s loaded from %s (%d ticks)", name, source, store.Ticks.Total)
	}
	e.logger.Info("profile loaded", "profile", name, "source", source.String(), "total_ticks", store.Ticks.Total)
	e.notify(ProfileLoaded{Name: name, New: isNew, Source: source.String()})
}

// saveWithRetry saves the active profile, retrying up to retries attempts
// with the configured backoff between them.
func (e *Engine) saveWithRetry(ctx context.Context, retries int, reason string) bool {
	attempts := max(retries, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		written, err := e.persister.Save(e.store, e.profile)
		e.record(ctx, reason, attempt, written, err)
		if err == nil {
			e.logger.Info("profile saved", "profile", e.profile, "reason", reason, "bytes", written, "attempt", attempt)
			e.statusf(SeverityInfo, "profile %s saved", e.profile)
			return true
		}
		e.logger.Warn("profile save failed", "profile", e.profile, "reason", reason, "attempt", attempt, "error", err)
		e.statusf(SeverityWarning, "save attempt %d/%d for %s failed: %v", attempt, attempts, e.profile, err)
		if attempt < attempts {
			e.clock.Sleep(e.cfg.RetryBackoff)
		}
	}
	e.logger.Error("profile not saved", "profile", e.profile, "reason", reason, "attempts", attempts)
	e.statusf(SeverityError, "profile %s not saved after %d attempts", e.profile, attempts)
	return false
}

func (e *Engine) record(ctx context.Context, reason string, attempt, written int, saveErr error) {
	if e.journal == nil {
		return
	}
	rec := model.SaveRecord{
		Profile:    e.profileKey,
		Reason:     reason,
		Attempt:    attempt,
		SavedAt:    e.clock.Now(),
		TotalTicks: e.store.Ticks.Total,
		Bytes:      written,
	}
	if saveErr != nil {
		rec.Err = saveErr.Error()
	}
	if err := e.journal.RecordSave(ctx, rec); err != nil {
		e.logger.Warn("record save in journal", "profile", e.profile, "error", err)
	}
}
