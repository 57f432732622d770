// Package onboarding implements the first-run language/currency gate and the
// password-recovery gate. The onboarding machine is linear (NONE → LANG →
// CURR → NONE); the recovery flag is independent and, while set, takes
// absolute priority over every other view.
package onboarding

import (
	"strings"
	"sync"

	"github.com/candleworks/waxpro/internal/cloud"
	"github.com/candleworks/waxpro/internal/models"
)

// Step is the onboarding machine state
type Step string

const (
	StepNone     Step = "NONE"
	StepLanguage Step = "LANG"
	StepCurrency Step = "CURR"
)

// RecoveryMarker is the URL fragment/query marker of a recovery link
const RecoveryMarker = "recovery"

// Gate tracks onboarding progress and the recovery flag
type Gate struct {
	mu           sync.Mutex
	step         Step
	language     models.Language
	recovering   bool
	sessionReady bool
}

// NewGate constructs the gate. The recovery flag is decided synchronously
// from the startup fragment, before any asynchronous session check can
// resolve, so the recovery view renders first when the marker is present.
func NewGate(startupFragment string, settings *models.Settings) *Gate {
	g := &Gate{step: StepNone}
	if !settings.Complete() {
		g.step = StepLanguage
	}
	if HasRecoveryMarker(startupFragment) {
		g.recovering = true
	}
	return g
}

// HasRecoveryMarker reports whether a URL fragment or query carries the
// password-recovery marker (e.g. "#recovery" or "type=recovery").
func HasRecoveryMarker(fragment string) bool {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return false
	}
	if fragment == RecoveryMarker {
		return true
	}
	for _, part := range strings.FieldsFunc(fragment, func(r rune) bool { return r == '&' || r == '?' }) {
		if part == "type="+RecoveryMarker || part == RecoveryMarker {
			return true
		}
	}
	return false
}

// Step returns the current onboarding step
func (g *Gate) Step() Step {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.step
}

// Active reports whether the onboarding gate blocks the inventory views
func (g *Gate) Active() bool {
	return g.Step() != StepNone
}

// ChooseLanguage records the language choice and advances LANG → CURR
func (g *Gate) ChooseLanguage(lang models.Language) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.step != StepLanguage {
		return false
	}
	g.language = lang
	g.step = StepCurrency
	return true
}

// ChooseCurrency records the currency choice, closes the gate and returns the
// now-complete settings for persistence
func (g *Gate) ChooseCurrency(currency models.Currency) (models.Settings, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.step != StepCurrency {
		return models.Settings{}, false
	}
	g.step = StepNone
	return models.Settings{Language: g.language, Currency: currency}, true
}

// Reopen re-enters the gate (explicit settings edit)
func (g *Gate) Reopen() {
	g.mu.Lock()
	g.step = StepLanguage
	g.language = ""
	g.mu.Unlock()
}

// Recovering reports whether the recovery view has priority
func (g *Gate) Recovering() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recovering
}

// SessionReady reports whether the password-update form is interactive
func (g *Gate) SessionReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionReady
}

// CompleteRecovery clears the recovery flag after a successful password
// update or a manual cancel
func (g *Gate) CompleteRecovery() {
	g.mu.Lock()
	g.recovering = false
	g.sessionReady = false
	g.mu.Unlock()
}

// HandleAuthEvent updates the recovery flags from auth-state notifications
func (g *Gate) HandleAuthEvent(event cloud.AuthEvent, _ *cloud.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch event {
	case cloud.EventPasswordRecovery:
		g.recovering = true
		g.sessionReady = true
	case cloud.EventSignedOut:
		g.recovering = false
		g.sessionReady = false
	case cloud.EventSignedIn:
		if g.recovering {
			g.sessionReady = true
		}
	}
}
