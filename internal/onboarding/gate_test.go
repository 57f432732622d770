package onboarding

import (
	"testing"

	"github.com/candleworks/waxpro/internal/cloud"
	"github.com/candleworks/waxpro/internal/models"
)

func TestGateOpensForFreshState(t *testing.T) {
	g := NewGate("", nil)

	if g.Step() != StepLanguage {
		t.Fatalf("a fresh state must start at the language step, got %s", g.Step())
	}
	if !g.Active() {
		t.Error("the gate must block inventory views until onboarding completes")
	}
}

func TestGateClosedWithCompleteSettings(t *testing.T) {
	settings := &models.Settings{Language: models.LanguageIT, Currency: models.CurrencyEUR}
	g := NewGate("", settings)

	if g.Active() {
		t.Error("complete settings must bypass onboarding")
	}
}

func TestOnboardingFlow(t *testing.T) {
	g := NewGate("", nil)

	if !g.ChooseLanguage(models.LanguageES) {
		t.Fatal("language choice must be accepted at the LANG step")
	}
	if g.Step() != StepCurrency {
		t.Fatalf("language choice must advance to CURR, got %s", g.Step())
	}

	settings, ok := g.ChooseCurrency(models.CurrencyUSD)
	if !ok {
		t.Fatal("currency choice must be accepted at the CURR step")
	}
	if settings.Language != models.LanguageES || settings.Currency != models.CurrencyUSD {
		t.Errorf("returned settings must carry both choices, got %+v", settings)
	}
	if g.Active() {
		t.Error("the gate must close after the currency choice")
	}
}

func TestChoicesRejectedOutOfOrder(t *testing.T) {
	g := NewGate("", nil)

	if _, ok := g.ChooseCurrency(models.CurrencyEUR); ok {
		t.Error("the currency choice must be rejected before a language is chosen")
	}

	g.ChooseLanguage(models.LanguageEN)
	if g.ChooseLanguage(models.LanguageFR) {
		t.Error("a second language choice must be rejected at the CURR step")
	}
}

func TestReopenRestartsTheFlow(t *testing.T) {
	settings := &models.Settings{Language: models.LanguageIT, Currency: models.CurrencyEUR}
	g := NewGate("", settings)

	g.Reopen()
	if g.Step() != StepLanguage {
		t.Errorf("reopen must restart at the language step, got %s", g.Step())
	}
}

func TestHasRecoveryMarker(t *testing.T) {
	cases := []struct {
		fragment string
		want     bool
	}{
		{"#recovery", true},
		{"recovery", true},
		{"#type=recovery&access_token=abc", true},
		{"access_token=abc&type=recovery", true},
		{"", false},
		{"#welcome", false},
		{"type=signup", false},
	}
	for _, c := range cases {
		if got := HasRecoveryMarker(c.fragment); got != c.want {
			t.Errorf("HasRecoveryMarker(%q) = %v, want %v", c.fragment, got, c.want)
		}
	}
}

func TestStartupFragmentSetsRecoverySynchronously(t *testing.T) {
	g := NewGate("#type=recovery&access_token=abc", nil)

	if !g.Recovering() {
		t.Fatal("the recovery flag must be set from the startup fragment before any session check")
	}
	if g.SessionReady() {
		t.Error("the password form is not interactive until the session resolves")
	}

	g.HandleAuthEvent(cloud.EventSignedIn, nil)
	if !g.SessionReady() {
		t.Error("a resolved session during recovery must unlock the password form")
	}
}

func TestRecoveryEventLifecycle(t *testing.T) {
	g := NewGate("", &models.Settings{Language: models.LanguageIT, Currency: models.CurrencyEUR})

	g.HandleAuthEvent(cloud.EventPasswordRecovery, nil)
	if !g.Recovering() || !g.SessionReady() {
		t.Fatal("PASSWORD_RECOVERY must set both recovery flags")
	}

	g.CompleteRecovery()
	if g.Recovering() || g.SessionReady() {
		t.Error("completing recovery must clear both flags")
	}

	g.HandleAuthEvent(cloud.EventPasswordRecovery, nil)
	g.HandleAuthEvent(cloud.EventSignedOut, nil)
	if g.Recovering() {
		t.Error("sign-out must abandon an in-progress recovery")
	}
}
