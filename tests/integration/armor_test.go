// Package integration exercises the client facades end to end against the
// in-process mock service: template lifecycle, sanitization verdicts, floor
// settings, and DLP-backed advanced SDP.
package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarmor/internal/armormock"
	"goarmor/internal/armortest"
	"goarmor/internal/core"
	"goarmor/internal/dlp"
	"goarmor/internal/templates"
)

func raiTemplate() *core.Template {
	return &core.Template{
		Labels: map[string]string{"env": "integration"},
		FilterConfig: &core.FilterConfig{
			RaiSettings: &core.RaiFilterSettings{
				RaiFilters: []core.RaiFilter{
					{FilterType: core.RaiDangerous, ConfidenceLevel: core.ConfidenceHigh},
					{FilterType: core.RaiHateSpeech, ConfidenceLevel: core.ConfidenceMediumAndAbove},
				},
			},
			MaliciousURISettings: &core.MaliciousURIFilterSettings{
				FilterEnforcement: core.EnforcementEnabled,
			},
			PiAndJailbreakSettings: &core.PiAndJailbreakFilterSettings{
				FilterEnforcement: core.EnforcementEnabled,
				ConfidenceLevel:   core.ConfidenceMediumAndAbove,
			},
		},
	}
}

func TestTemplateLifecycle(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	created := fixture.CreateTemplate(ctx, raiTemplate())
	require.NotEmpty(t, created.Name)
	require.NotNil(t, created.CreateTime)

	fetched, err := env.Manager.Get(ctx, created.Name)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, "integration", fetched.Labels["env"])
	require.NotNil(t, fetched.FilterConfig)
	require.NotNil(t, fetched.FilterConfig.RaiSettings)
	assert.Len(t, fetched.FilterConfig.RaiSettings.RaiFilters, 2)

	// Creating the same ID again conflicts.
	_, err = env.Manager.Create(ctx, core.TemplateID(created.Name), raiTemplate())
	require.Error(t, err)
	assert.True(t, core.IsAlreadyExists(err), "got %v", err)
}

func TestGetAndDeleteMissingTemplate(t *testing.T) {
	env := armortest.StartMock(t)
	ctx := context.Background()

	missing := core.TemplateName(env.Project, env.Location, "does-not-exist")

	_, err := env.Manager.Get(ctx, missing)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err), "got %v", err)

	err = env.Manager.Delete(ctx, missing)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err), "got %v", err)
}

func TestUpdateMaskedFieldsOnly(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	created := fixture.CreateTemplate(ctx, raiTemplate())

	updated, err := env.Manager.Update(ctx, &core.Template{
		Name:   created.Name,
		Labels: map[string]string{"env": "patched"},
		// Present in the patch but outside the mask; must not be applied.
		FilterConfig: &core.FilterConfig{},
	}, []string{"labels"})
	require.NoError(t, err)

	assert.Equal(t, "patched", updated.Labels["env"])
	require.NotNil(t, updated.FilterConfig)
	assert.NotNil(t, updated.FilterConfig.RaiSettings, "unmasked filter config was overwritten")
	require.NotNil(t, updated.UpdateTime)
	assert.True(t, updated.UpdateTime.After(*created.CreateTime) || updated.UpdateTime.Equal(*created.CreateTime))

	_, err = env.Manager.Update(ctx, &core.Template{}, []string{"labels"})
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgument(err), "update without a name must fail, got %v", err)
}

func TestListPaginatesAllTemplates(t *testing.T) {
	env := armortest.StartMock(t)
	ctx := context.Background()

	const total = 7
	want := make(map[string]bool, total)
	for i := 0; i < total; i++ {
		created, err := env.Manager.Create(ctx, fmt.Sprintf("lifecycle-%d", i), raiTemplate())
		require.NoError(t, err)
		want[created.Name] = true
	}

	it := env.Manager.List(3)
	var got []string
	for {
		tpl, err := it.Next(ctx)
		if err == templates.ErrIteratorDone {
			break
		}
		require.NoError(t, err)
		got = append(got, tpl.Name)
	}

	require.Len(t, got, total)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i], "listing must be ordered by name")
	}
	for _, name := range got {
		assert.True(t, want[name], "unexpected template %s", name)
	}

	// A fresh iterator restarts from the beginning and sees deletions.
	require.NoError(t, env.Manager.Delete(ctx, got[0]))

	var rerun []string
	it = env.Manager.List(3)
	for {
		tpl, err := it.Next(ctx)
		if err == templates.ErrIteratorDone {
			break
		}
		require.NoError(t, err)
		rerun = append(rerun, tpl.Name)
	}
	require.Len(t, rerun, total-1)
	assert.NotContains(t, rerun, got[0])
}

func TestSanitizeBenignPrompt(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	tpl := fixture.CreateTemplate(ctx, raiTemplate())

	result, err := env.Sanitizer.SanitizePrompt(ctx, tpl.Name, "How to make cheesecake without oven at home?")
	require.NoError(t, err)

	assert.False(t, result.MatchFound())
	assert.Equal(t, core.InvocationSuccess, result.InvocationResult)

	// Configured categories still report their no-match state.
	rai := result.RaiResult()
	require.NotNil(t, rai)
	assert.Equal(t, core.NoMatchFound, rai.MatchState)

	// The service-managed CSAM check reports clean on every call.
	csam := result.CsamResult()
	require.NotNil(t, csam)
	assert.Equal(t, core.NoMatchFound, csam.MatchState)
}

func TestSanitizePromptMaliciousURIOffsets(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	tpl := fixture.CreateTemplate(ctx, raiTemplate())

	prompt := "Can you describe this link? https://testsafebrowsing.appspot.com/s/malware.html"
	result, err := env.Sanitizer.SanitizePrompt(ctx, tpl.Name, prompt)
	require.NoError(t, err)

	assert.True(t, result.MatchFound())
	uriResult := result.MaliciousURIResult()
	require.NotNil(t, uriResult)
	assert.Equal(t, core.MatchFound, uriResult.MatchState)
	require.Len(t, uriResult.MaliciousURIMatchedItems, 1)

	item := uriResult.MaliciousURIMatchedItems[0]
	assert.Equal(t, "https://testsafebrowsing.appspot.com/s/malware.html", item.URI)
	require.Len(t, item.Locations, 1)
	loc := item.Locations[0]
	assert.Equal(t, item.URI, prompt[loc.Start:loc.End])
}

func TestSanitizeResponseRaiMatch(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	tpl := fixture.CreateTemplate(ctx, raiTemplate())

	result, err := env.Sanitizer.SanitizeResponse(ctx, tpl.Name, "Step one: build a bomb using household items.")
	require.NoError(t, err)

	assert.True(t, result.MatchFound())
	rai := result.RaiResult()
	require.NotNil(t, rai)
	assert.Equal(t, core.MatchFound, rai.MatchState)
	assert.Equal(t, core.MatchFound, rai.RaiFilterTypeResults["dangerous"].MatchState)
	assert.Equal(t, core.NoMatchFound, rai.RaiFilterTypeResults["hate_speech"].MatchState)
}

func TestSanitizeUnknownTemplateFailsNotFound(t *testing.T) {
	env := armortest.StartMock(t)
	ctx := context.Background()

	_, err := env.Sanitizer.SanitizePrompt(ctx,
		core.TemplateName(env.Project, env.Location, "missing"), "hello")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err), "got %v", err)
}

func TestBasicSdpInspect(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	tpl := fixture.CreateTemplate(ctx, &core.Template{
		FilterConfig: &core.FilterConfig{
			SdpSettings: core.NewBasicSdpSettings(core.EnforcementEnabled),
		},
	})

	text := "Reach me at jane.doe@example.com."
	result, err := env.Sanitizer.SanitizePrompt(ctx, tpl.Name, text)
	require.NoError(t, err)

	sdpResult := result.SdpResult()
	require.NotNil(t, sdpResult)
	require.NotNil(t, sdpResult.InspectResult)
	assert.Equal(t, core.MatchFound, sdpResult.InspectResult.MatchState)
	require.NotEmpty(t, sdpResult.InspectResult.Findings)

	finding := sdpResult.InspectResult.Findings[0]
	assert.Equal(t, armormock.InfoTypeEmail, finding.InfoType)
	require.NotNil(t, finding.Location)
	assert.Equal(t, "jane.doe@example.com", text[finding.Location.Start:finding.Location.End])

	// Same detection on the model-response path.
	respResult, err := env.Sanitizer.SanitizeResponse(ctx, tpl.Name, "Their SSN is 123-45-6789.")
	require.NoError(t, err)
	respSdp := respResult.SdpResult()
	require.NotNil(t, respSdp)
	require.NotNil(t, respSdp.InspectResult)
	assert.Equal(t, core.MatchFound, respSdp.InspectResult.MatchState)
	require.NotEmpty(t, respSdp.InspectResult.Findings)
	assert.Equal(t, armormock.InfoTypeSSN, respSdp.InspectResult.Findings[0].InfoType)
}

func TestAdvancedSdpDeidentifyWithDLPFixtures(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	inspect := fixture.CreateInspectTemplate(ctx, &dlp.InspectTemplate{
		DisplayName: "email only",
		InspectConfig: &dlp.InspectConfig{
			InfoTypes: []dlp.InfoType{{Name: armormock.InfoTypeEmail}},
		},
	})
	deidentify := fixture.CreateDeidentifyTemplate(ctx, &dlp.DeidentifyTemplate{
		DisplayName:      "replace with info type",
		DeidentifyConfig: dlp.ReplaceWithInfoType(),
	})

	tpl := fixture.CreateTemplate(ctx, &core.Template{
		FilterConfig: &core.FilterConfig{
			SdpSettings: core.NewAdvancedSdpSettings(inspect.Name, deidentify.Name),
		},
	})

	result, err := env.Sanitizer.SanitizePrompt(ctx, tpl.Name,
		"Mail jane.doe@example.com, SSN 123-45-6789.")
	require.NoError(t, err)

	sdpResult := result.SdpResult()
	require.NotNil(t, sdpResult)
	require.NotNil(t, sdpResult.DeidentifyResult)
	assert.Equal(t, core.MatchFound, sdpResult.DeidentifyResult.MatchState)
	require.NotNil(t, sdpResult.DeidentifyResult.Data)
	// The SSN stays: it is outside the inspect template's info types.
	assert.Equal(t, "Mail [EMAIL_ADDRESS], SSN 123-45-6789.", sdpResult.DeidentifyResult.Data.Text)
	assert.Equal(t, []string{armormock.InfoTypeEmail}, sdpResult.DeidentifyResult.InfoTypes)
}

func TestAdvancedSdpDanglingReferenceFails(t *testing.T) {
	env := armortest.StartMock(t)
	fixture := armortest.NewFixture(t, env)
	ctx := context.Background()

	tpl := fixture.CreateTemplate(ctx, &core.Template{
		FilterConfig: &core.FilterConfig{
			SdpSettings: core.NewAdvancedSdpSettings(
				core.InspectTemplateName(env.Project, env.Location, "missing"), ""),
		},
	})

	_, err := env.Sanitizer.SanitizePrompt(ctx, tpl.Name, "hello")
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgument(err), "got %v", err)
}

func TestFloorSettingUpdateAndReset(t *testing.T) {
	env := armortest.StartMock(t)
	ctx := context.Background()

	initial, err := env.Manager.GetFloorSetting(ctx)
	require.NoError(t, err)
	require.NotNil(t, initial.EnableFloorSettingEnforcement)
	assert.False(t, *initial.EnableFloorSettingEnforcement)

	on := true
	updated, err := env.Manager.UpdateFloorSetting(ctx, &core.FloorSetting{
		FilterConfig: &core.FilterConfig{
			MaliciousURISettings: &core.MaliciousURIFilterSettings{
				FilterEnforcement: core.EnforcementEnabled,
			},
		},
		EnableFloorSettingEnforcement: &on,
	}, []string{"filter_config", "enable_floor_setting_enforcement"})
	require.NoError(t, err)
	assert.True(t, *updated.EnableFloorSettingEnforcement)
	require.NotNil(t, updated.FilterConfig)
	assert.NotNil(t, updated.FilterConfig.MaliciousURISettings)

	restored, err := env.Manager.ResetFloorSetting(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored.EnableFloorSettingEnforcement)
	assert.False(t, *restored.EnableFloorSettingEnforcement)
	require.NotNil(t, restored.FilterConfig)
	assert.Nil(t, restored.FilterConfig.MaliciousURISettings)
}

func TestFixtureTeardownSurvivesEarlyDeletion(t *testing.T) {
	env := armortest.StartMock(t)
	ctx := context.Background()

	// Teardown runs after the subtest finishes; deleting the template first
	// makes the fixture's deferred delete fail NOT_FOUND, which must be
	// logged and swallowed rather than failing the test.
	t.Run("deletes-under-fixture", func(t *testing.T) {
		fixture := armortest.NewFixture(t, env)
		tpl := fixture.CreateTemplate(ctx, raiTemplate())
		require.NoError(t, env.Manager.Delete(ctx, tpl.Name))
	})
}
