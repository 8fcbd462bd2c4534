package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"goarmor/internal/core"
)

// templateFile is the YAML schema for declarative template definitions
// consumed by the CLI and fixtures.
//
//	labels:
//	  env: dev
//	filters:
//	  rai:
//	    - type: HATE_SPEECH
//	      confidence: MEDIUM_AND_ABOVE
//	  malicious_uris: true
//	  pi_and_jailbreak:
//	    confidence: MEDIUM_AND_ABOVE
//	  sdp:
//	    basic: true
//	metadata:
//	  log_sanitize_operations: true
type templateFile struct {
	Labels   map[string]string `yaml:"labels"`
	Filters  filtersFile       `yaml:"filters"`
	Metadata *metadataFile     `yaml:"metadata"`
}

type filtersFile struct {
	Rai            []raiFilterFile  `yaml:"rai"`
	MaliciousURIs  bool             `yaml:"malicious_uris"`
	PiAndJailbreak *piJailbreakFile `yaml:"pi_and_jailbreak"`
	Sdp            *sdpFile         `yaml:"sdp"`
}

type raiFilterFile struct {
	Type       string `yaml:"type"`
	Confidence string `yaml:"confidence"`
}

type piJailbreakFile struct {
	Confidence string `yaml:"confidence"`
}

type sdpFile struct {
	Basic    bool             `yaml:"basic"`
	Advanced *advancedSdpFile `yaml:"advanced"`
}

type advancedSdpFile struct {
	InspectTemplate    string `yaml:"inspect_template"`
	DeidentifyTemplate string `yaml:"deidentify_template"`
}

type metadataFile struct {
	LogTemplateOperations bool `yaml:"log_template_operations"`
	LogSanitizeOperations bool `yaml:"log_sanitize_operations"`
}

// LoadTemplateFile parses a YAML template definition into a core.Template.
// The basic and advanced SDP modes are mutually exclusive; naming both is
// an error.
func LoadTemplateFile(path string) (*core.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate parses YAML template definition bytes.
func ParseTemplate(data []byte) (*core.Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse template file: %w", err)
	}

	cfg := &core.FilterConfig{}

	for _, r := range f.Filters.Rai {
		if r.Type == "" {
			return nil, fmt.Errorf("rai filter entry missing type")
		}
		if cfg.RaiSettings == nil {
			cfg.RaiSettings = &core.RaiFilterSettings{}
		}
		cfg.RaiSettings.RaiFilters = append(cfg.RaiSettings.RaiFilters, core.RaiFilter{
			FilterType:      core.RaiFilterType(r.Type),
			ConfidenceLevel: core.DetectionConfidenceLevel(r.Confidence),
		})
	}

	if f.Filters.MaliciousURIs {
		cfg.MaliciousURISettings = &core.MaliciousURIFilterSettings{
			FilterEnforcement: core.EnforcementEnabled,
		}
	}

	if pj := f.Filters.PiAndJailbreak; pj != nil {
		cfg.PiAndJailbreakSettings = &core.PiAndJailbreakFilterSettings{
			FilterEnforcement: core.EnforcementEnabled,
			ConfidenceLevel:   core.DetectionConfidenceLevel(pj.Confidence),
		}
	}

	if sdp := f.Filters.Sdp; sdp != nil {
		if sdp.Basic && sdp.Advanced != nil {
			return nil, fmt.Errorf("sdp: basic and advanced modes are mutually exclusive")
		}
		switch {
		case sdp.Basic:
			cfg.SdpSettings = core.NewBasicSdpSettings(core.EnforcementEnabled)
		case sdp.Advanced != nil:
			if sdp.Advanced.InspectTemplate == "" && sdp.Advanced.DeidentifyTemplate == "" {
				return nil, fmt.Errorf("sdp: advanced mode requires an inspect or deidentify template")
			}
			cfg.SdpSettings = core.NewAdvancedSdpSettings(sdp.Advanced.InspectTemplate, sdp.Advanced.DeidentifyTemplate)
		}
	}

	tpl := &core.Template{
		Labels:       f.Labels,
		FilterConfig: cfg,
	}
	if f.Metadata != nil {
		tpl.TemplateMetadata = &core.TemplateMetadata{
			LogTemplateOperations: f.Metadata.LogTemplateOperations,
			LogSanitizeOperations: f.Metadata.LogSanitizeOperations,
		}
	}
	return tpl, nil
}
