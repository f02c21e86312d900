package usecase

import (
	"fmt"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/model"
)

type Step string

const (
	StepConfigureProfile Step = "configure_profile"
	StepConnectPlatform  Step = "connect_platform"
	StepReady            Step = "ready"
)

// Tab is a dashboard section; each one depends on the previous.
type Tab string

const (
	TabSetup      Tab = "setup"
	TabConnect    Tab = "connect"
	TabCreate     Tab = "create"
	TabAutomation Tab = "automation"
)

func ParseTab(raw string) (Tab, bool) {
	switch t := Tab(raw); t {
	case TabSetup, TabConnect, TabCreate, TabAutomation:
		return t, true
	}
	return "", false
}

// GateDecision tells the caller whether tab can be shown, and if not, where
// to send the user instead.
type GateDecision struct {
	Allowed    bool   `json:"allowed"`
	Tab        Tab    `json:"tab"`
	RedirectTo Tab    `json:"redirect_to,omitempty"`
	Message    string `json:"message,omitempty"`
	Step       Step   `json:"step"`
}

// NextStep is the single gate rule. A nil profile or connection counts as
// unconfigured or disconnected.
func NextStep(profile *model.BusinessProfile, conn *model.PlatformConnection) Step {
	if profile == nil || !profile.IsConfigured {
		return StepConfigureProfile
	}
	if !conn.IsConnected() {
		return StepConnectPlatform
	}
	return StepReady
}

const msgConfigureProfile = "Please configure your profile first"

func connectMessage(platform model.PlatformID) string {
	return fmt.Sprintf("Please connect your %s account first", platform.DisplayName())
}

// Guard decides whether tab may be entered for platform.
func Guard(platform model.PlatformID, tab Tab, profile *model.BusinessProfile, conn *model.PlatformConnection) GateDecision {
	step := NextStep(profile, conn)
	d := GateDecision{Allowed: true, Tab: tab, Step: step}

	switch tab {
	case TabConnect:
		if step == StepConfigureProfile {
			d.deny(TabSetup, msgConfigureProfile)
		}
	case TabCreate, TabAutomation:
		switch step {
		case StepConfigureProfile:
			d.deny(TabSetup, msgConfigureProfile)
		case StepConnectPlatform:
			d.deny(TabConnect, connectMessage(platform))
		}
	}
	return d
}

func (d *GateDecision) deny(to Tab, msg string) {
	d.Allowed = false
	d.RedirectTo = to
	d.Message = msg
}

// Err converts a denied decision into an error carrying the redirect target.
func (d GateDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return &GateError{Decision: d}
}

// GateError carries the redirect target of a denied decision.
type GateError struct {
	Decision GateDecision
}

func (e *GateError) Error() string { return e.Decision.Message }

func (e *GateError) Unwrap() error { return apperror.Validation(e.Decision.Message) }
