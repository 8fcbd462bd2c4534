package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresProjectID(t *testing.T) {
	t.Setenv("ARMOR_PROJECT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARMOR_PROJECT_ID")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ARMOR_PROJECT_ID", "my-project")
	t.Setenv("ARMOR_LOCATION", "")
	t.Setenv("ARMOR_ENDPOINT", "")
	t.Setenv("ARMOR_DLP_ENDPOINT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-project", cfg.ProjectID)
	assert.Equal(t, DefaultLocation, cfg.Location)
	assert.Equal(t, DefaultDLPEndpoint, cfg.DLPEndpoint)
	assert.Equal(t, "https://modelarmor.us-central1.rep.googleapis.com", cfg.ServiceEndpoint())
}

func TestLoad_ExplicitValues(t *testing.T) {
	t.Setenv("ARMOR_PROJECT_ID", "p")
	t.Setenv("ARMOR_LOCATION", "europe-west4")
	t.Setenv("ARMOR_ENDPOINT", "http://localhost:8787")
	t.Setenv("ARMOR_INSPECT_TEMPLATE_ID", "insp-1")
	t.Setenv("ARMOR_DEIDENTIFY_TEMPLATE_ID", "deid-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "europe-west4", cfg.Location)
	// Explicit endpoint wins over the regional pattern.
	assert.Equal(t, "http://localhost:8787", cfg.ServiceEndpoint())
	assert.Equal(t, "insp-1", cfg.InspectTemplateID)
	assert.Equal(t, "deid-1", cfg.DeidentifyTemplateID)
}
