package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarmor/internal/core"
)

func TestParseTemplate_Full(t *testing.T) {
	data := []byte(`
labels:
  env: dev
  team: safety
filters:
  rai:
    - type: HATE_SPEECH
      confidence: MEDIUM_AND_ABOVE
    - type: DANGEROUS
      confidence: HIGH
  malicious_uris: true
  pi_and_jailbreak:
    confidence: MEDIUM_AND_ABOVE
  sdp:
    basic: true
metadata:
  log_sanitize_operations: true
`)

	tpl, err := ParseTemplate(data)
	require.NoError(t, err)

	assert.Equal(t, "dev", tpl.Labels["env"])
	require.NotNil(t, tpl.FilterConfig.RaiSettings)
	require.Len(t, tpl.FilterConfig.RaiSettings.RaiFilters, 2)
	assert.Equal(t, core.RaiHateSpeech, tpl.FilterConfig.RaiSettings.RaiFilters[0].FilterType)
	assert.Equal(t, core.ConfidenceHigh, tpl.FilterConfig.RaiSettings.RaiFilters[1].ConfidenceLevel)

	require.NotNil(t, tpl.FilterConfig.MaliciousURISettings)
	assert.Equal(t, core.EnforcementEnabled, tpl.FilterConfig.MaliciousURISettings.FilterEnforcement)

	require.NotNil(t, tpl.FilterConfig.SdpSettings)
	assert.NotNil(t, tpl.FilterConfig.SdpSettings.Basic())
	assert.Nil(t, tpl.FilterConfig.SdpSettings.Advanced())

	require.NotNil(t, tpl.TemplateMetadata)
	assert.True(t, tpl.TemplateMetadata.LogSanitizeOperations)
	assert.False(t, tpl.TemplateMetadata.LogTemplateOperations)
}

func TestParseTemplate_AdvancedSdp(t *testing.T) {
	data := []byte(`
filters:
  sdp:
    advanced:
      inspect_template: projects/p/locations/l/inspectTemplates/i
      deidentify_template: projects/p/locations/l/deidentifyTemplates/d
`)

	tpl, err := ParseTemplate(data)
	require.NoError(t, err)

	adv := tpl.FilterConfig.SdpSettings.Advanced()
	require.NotNil(t, adv)
	assert.Equal(t, "projects/p/locations/l/inspectTemplates/i", adv.InspectTemplate)
	assert.Equal(t, "projects/p/locations/l/deidentifyTemplates/d", adv.DeidentifyTemplate)
}

func TestParseTemplate_RejectsDualSdpModes(t *testing.T) {
	data := []byte(`
filters:
  sdp:
    basic: true
    advanced:
      inspect_template: projects/p/locations/l/inspectTemplates/i
`)

	_, err := ParseTemplate(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestParseTemplate_RejectsEmptyAdvanced(t *testing.T) {
	data := []byte(`
filters:
  sdp:
    advanced: {}
`)

	_, err := ParseTemplate(data)
	require.Error(t, err)
}

func TestParseTemplate_RejectsRaiWithoutType(t *testing.T) {
	data := []byte(`
filters:
  rai:
    - confidence: HIGH
`)

	_, err := ParseTemplate(data)
	require.Error(t, err)
}
