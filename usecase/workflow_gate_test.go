package usecase_test

import (
	"errors"
	"testing"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStep_TruthTable(t *testing.T) {
	tests := []struct {
		configured bool
		connected  bool
		want       usecase.Step
	}{
		{false, false, usecase.StepConfigureProfile},
		{false, true, usecase.StepConfigureProfile},
		{true, false, usecase.StepConnectPlatform},
		{true, true, usecase.StepReady},
	}
	for _, tt := range tests {
		profile := &model.BusinessProfile{IsConfigured: tt.configured}
		conn := &model.PlatformConnection{Connected: tt.connected}
		assert.Equal(t, tt.want, usecase.NextStep(profile, conn), "configured=%v connected=%v", tt.configured, tt.connected)
	}
	assert.Equal(t, usecase.StepConfigureProfile, usecase.NextStep(nil, nil))
	assert.Equal(t, usecase.StepConnectPlatform, usecase.NextStep(&model.BusinessProfile{IsConfigured: true}, nil))
}

func TestGuard(t *testing.T) {
	unconfigured := &model.BusinessProfile{}
	configured := &model.BusinessProfile{IsConfigured: true}
	connected := &model.PlatformConnection{Connected: true}

	d := usecase.Guard(model.PlatformInstagram, usecase.TabAutomation, unconfigured, connected)
	assert.False(t, d.Allowed)
	assert.Equal(t, usecase.TabSetup, d.RedirectTo)
	assert.Equal(t, "Please configure your profile first", d.Message)

	d = usecase.Guard(model.PlatformReddit, usecase.TabCreate, configured, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, usecase.TabConnect, d.RedirectTo)
	assert.Equal(t, "Please connect your Reddit account first", d.Message)

	d = usecase.Guard(model.PlatformYouTube, usecase.TabConnect, unconfigured, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, usecase.TabSetup, d.RedirectTo)

	assert.True(t, usecase.Guard(model.PlatformYouTube, usecase.TabSetup, nil, nil).Allowed)
	assert.True(t, usecase.Guard(model.PlatformYouTube, usecase.TabConnect, configured, nil).Allowed)
	assert.True(t, usecase.Guard(model.PlatformYouTube, usecase.TabCreate, configured, connected).Allowed)
}

func TestGateDecision_Err(t *testing.T) {
	d := usecase.Guard(model.PlatformFacebook, usecase.TabCreate, nil, nil)
	err := d.Err()
	require.Error(t, err)

	var gateErr *usecase.GateError
	require.True(t, errors.As(err, &gateErr))
	assert.Equal(t, usecase.TabSetup, gateErr.Decision.RedirectTo)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.NoError(t, usecase.Guard(model.PlatformFacebook, usecase.TabSetup, nil, nil).Err())
}

func TestParseTab(t *testing.T) {
	tab, ok := usecase.ParseTab("automation")
	assert.True(t, ok)
	assert.Equal(t, usecase.TabAutomation, tab)

	_, ok = usecase.ParseTab("billing")
	assert.False(t, ok)
}
