// Package core provides the wire types, resource naming, and error model
// shared by the Model Armor client facades.
package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// FilterEnforcement toggles a filter on or off in a template.
type FilterEnforcement string

const (
	EnforcementEnabled  FilterEnforcement = "ENABLED"
	EnforcementDisabled FilterEnforcement = "DISABLED"
)

// RaiFilterType identifies a responsible-AI content category.
type RaiFilterType string

const (
	RaiSexuallyExplicit RaiFilterType = "SEXUALLY_EXPLICIT"
	RaiHateSpeech       RaiFilterType = "HATE_SPEECH"
	RaiHarassment       RaiFilterType = "HARASSMENT"
	RaiDangerous        RaiFilterType = "DANGEROUS"
)

// DetectionConfidenceLevel is the confidence threshold at which a RAI or
// jailbreak filter reports a match.
type DetectionConfidenceLevel string

const (
	ConfidenceLowAndAbove    DetectionConfidenceLevel = "LOW_AND_ABOVE"
	ConfidenceMediumAndAbove DetectionConfidenceLevel = "MEDIUM_AND_ABOVE"
	ConfidenceHigh           DetectionConfidenceLevel = "HIGH"
)

// FilterMatchState reports whether a filter found a violation.
type FilterMatchState string

const (
	NoMatchFound FilterMatchState = "NO_MATCH_FOUND"
	MatchFound   FilterMatchState = "MATCH_FOUND"
)

// InvocationResult reports whether the filters themselves executed.
type InvocationResult string

const (
	InvocationSuccess InvocationResult = "SUCCESS"
	InvocationFailure InvocationResult = "FAILURE"
)

// Template is a named, reusable filter configuration resource.
type Template struct {
	Name             string            `json:"name,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	FilterConfig     *FilterConfig     `json:"filterConfig,omitempty"`
	TemplateMetadata *TemplateMetadata `json:"templateMetadata,omitempty"`
	CreateTime       *time.Time        `json:"createTime,omitempty"`
	UpdateTime       *time.Time        `json:"updateTime,omitempty"`
}

// TemplateMetadata holds optional per-template logging toggles.
type TemplateMetadata struct {
	LogTemplateOperations bool `json:"logTemplateOperations,omitempty"`
	LogSanitizeOperations bool `json:"logSanitizeOperations,omitempty"`
}

// FilterConfig is the filter configuration of a template or floor setting.
type FilterConfig struct {
	RaiSettings            *RaiFilterSettings            `json:"raiSettings,omitempty"`
	SdpSettings            *SdpSettings                  `json:"sdpSettings,omitempty"`
	MaliciousURISettings   *MaliciousURIFilterSettings   `json:"maliciousUriFilterSettings,omitempty"`
	PiAndJailbreakSettings *PiAndJailbreakFilterSettings `json:"piAndJailbreakFilterSettings,omitempty"`
}

// RaiFilterSettings lists the enabled RAI categories and their thresholds.
type RaiFilterSettings struct {
	RaiFilters []RaiFilter `json:"raiFilters,omitempty"`
}

// RaiFilter pairs a RAI category with a confidence threshold.
type RaiFilter struct {
	FilterType      RaiFilterType            `json:"filterType"`
	ConfidenceLevel DetectionConfidenceLevel `json:"confidenceLevel,omitempty"`
}

// MaliciousURIFilterSettings toggles URI reputation filtering.
type MaliciousURIFilterSettings struct {
	FilterEnforcement FilterEnforcement `json:"filterEnforcement,omitempty"`
}

// PiAndJailbreakFilterSettings toggles prompt-injection and jailbreak
// detection.
type PiAndJailbreakFilterSettings struct {
	FilterEnforcement FilterEnforcement        `json:"filterEnforcement,omitempty"`
	ConfidenceLevel   DetectionConfidenceLevel `json:"confidenceLevel,omitempty"`
}

// SdpConfig selects exactly one sensitive-data filtering mode. The two
// implementations are BasicSdpConfig and AdvancedSdpConfig; the wire format
// keeps them as mutually exclusive optional fields, and the codec rejects
// payloads that set both.
type SdpConfig interface {
	isSdpConfig()
}

// BasicSdpConfig enables the service's built-in sensitive-data detection.
type BasicSdpConfig struct {
	FilterEnforcement FilterEnforcement `json:"filterEnforcement,omitempty"`
}

func (*BasicSdpConfig) isSdpConfig() {}

// AdvancedSdpConfig delegates detection and redaction to externally defined
// DLP inspect and deidentify templates, referenced by resource name.
type AdvancedSdpConfig struct {
	InspectTemplate    string `json:"inspectTemplate,omitempty"`
	DeidentifyTemplate string `json:"deidentifyTemplate,omitempty"`
}

func (*AdvancedSdpConfig) isSdpConfig() {}

// SdpSettings wraps the basic-or-advanced sensitive-data mode choice.
type SdpSettings struct {
	Config SdpConfig
}

// NewBasicSdpSettings returns SdpSettings in basic mode.
func NewBasicSdpSettings(enforcement FilterEnforcement) *SdpSettings {
	return &SdpSettings{Config: &BasicSdpConfig{FilterEnforcement: enforcement}}
}

// NewAdvancedSdpSettings returns SdpSettings in advanced mode.
func NewAdvancedSdpSettings(inspectTemplate, deidentifyTemplate string) *SdpSettings {
	return &SdpSettings{Config: &AdvancedSdpConfig{
		InspectTemplate:    inspectTemplate,
		DeidentifyTemplate: deidentifyTemplate,
	}}
}

// Basic returns the basic-mode config, or nil if advanced mode is set.
func (s *SdpSettings) Basic() *BasicSdpConfig {
	if s == nil {
		return nil
	}
	b, _ := s.Config.(*BasicSdpConfig)
	return b
}

// Advanced returns the advanced-mode config, or nil if basic mode is set.
func (s *SdpSettings) Advanced() *AdvancedSdpConfig {
	if s == nil {
		return nil
	}
	a, _ := s.Config.(*AdvancedSdpConfig)
	return a
}

type sdpSettingsWire struct {
	BasicConfig    *BasicSdpConfig    `json:"basicConfig,omitempty"`
	AdvancedConfig *AdvancedSdpConfig `json:"advancedConfig,omitempty"`
}

// MarshalJSON writes the selected mode into its wire field.
func (s SdpSettings) MarshalJSON() ([]byte, error) {
	var w sdpSettingsWire
	switch cfg := s.Config.(type) {
	case *BasicSdpConfig:
		w.BasicConfig = cfg
	case *AdvancedSdpConfig:
		w.AdvancedConfig = cfg
	case nil:
	default:
		return nil, fmt.Errorf("unknown sdp config type %T", s.Config)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the wire fields, rejecting payloads that set both
// basicConfig and advancedConfig.
func (s *SdpSettings) UnmarshalJSON(data []byte) error {
	var w sdpSettingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.BasicConfig != nil && w.AdvancedConfig != nil {
		return fmt.Errorf("sdpSettings: basicConfig and advancedConfig are mutually exclusive")
	}
	switch {
	case w.BasicConfig != nil:
		s.Config = w.BasicConfig
	case w.AdvancedConfig != nil:
		s.Config = w.AdvancedConfig
	default:
		s.Config = nil
	}
	return nil
}

// FloorSetting is the location-wide baseline filter policy. It is a
// singleton per project: projects/{project}/locations/global/floorSetting.
type FloorSetting struct {
	Name                          string        `json:"name,omitempty"`
	FilterConfig                  *FilterConfig `json:"filterConfig,omitempty"`
	EnableFloorSettingEnforcement *bool         `json:"enableFloorSettingEnforcement,omitempty"`
	UpdateTime                    *time.Time    `json:"updateTime,omitempty"`
}

// DataItem carries a single text payload in sanitization requests and
// deidentification results.
type DataItem struct {
	Text string `json:"text,omitempty"`
}

// SanitizeUserPromptRequest is the body of a :sanitizeUserPrompt call.
type SanitizeUserPromptRequest struct {
	UserPromptData DataItem `json:"userPromptData"`
}

// SanitizeModelResponseRequest is the body of a :sanitizeModelResponse call.
type SanitizeModelResponseRequest struct {
	ModelResponseData DataItem `json:"modelResponseData"`
}

// SanitizeResponse is the top-level sanitization response envelope.
type SanitizeResponse struct {
	SanitizationResult *SanitizationResult `json:"sanitizationResult,omitempty"`
}

// Filter result category keys in SanitizationResult.FilterResults.
const (
	FilterResultKeyRai            = "rai"
	FilterResultKeySdp            = "sdp"
	FilterResultKeyMaliciousURIs  = "malicious_uris"
	FilterResultKeyPiAndJailbreak = "pi_and_jailbreak"
	FilterResultKeyCsam           = "csam"
)

// SanitizationResult is the outcome of one sanitization call: an overall
// match state, the invocation outcome, and per-category results.
type SanitizationResult struct {
	FilterMatchState FilterMatchState        `json:"filterMatchState,omitempty"`
	InvocationResult InvocationResult        `json:"invocationResult,omitempty"`
	FilterResults    map[string]FilterResult `json:"filterResults,omitempty"`
}

// MatchFound reports whether any filter matched.
func (r *SanitizationResult) MatchFound() bool {
	return r != nil && r.FilterMatchState == MatchFound
}

// RaiResult returns the RAI category result, or nil if absent.
func (r *SanitizationResult) RaiResult() *RaiFilterResult {
	if r == nil {
		return nil
	}
	return r.FilterResults[FilterResultKeyRai].RaiFilterResult
}

// SdpResult returns the sensitive-data category result, or nil if absent.
func (r *SanitizationResult) SdpResult() *SdpFilterResult {
	if r == nil {
		return nil
	}
	return r.FilterResults[FilterResultKeySdp].SdpFilterResult
}

// MaliciousURIResult returns the malicious-URI category result, or nil if
// absent.
func (r *SanitizationResult) MaliciousURIResult() *MaliciousURIFilterResult {
	if r == nil {
		return nil
	}
	return r.FilterResults[FilterResultKeyMaliciousURIs].MaliciousURIFilterResult
}

// PiAndJailbreakResult returns the prompt-injection category result, or nil
// if absent.
func (r *SanitizationResult) PiAndJailbreakResult() *PiAndJailbreakFilterResult {
	if r == nil {
		return nil
	}
	return r.FilterResults[FilterResultKeyPiAndJailbreak].PiAndJailbreakFilterResult
}

// CsamResult returns the CSAM category result, or nil if absent. The CSAM
// filter is service-managed and runs on every prompt sanitization.
func (r *SanitizationResult) CsamResult() *CsamFilterResult {
	if r == nil {
		return nil
	}
	return r.FilterResults[FilterResultKeyCsam].CsamFilterResult
}

// FilterResult wraps exactly one category-specific result variant.
type FilterResult struct {
	RaiFilterResult            *RaiFilterResult            `json:"raiFilterResult,omitempty"`
	SdpFilterResult            *SdpFilterResult            `json:"sdpFilterResult,omitempty"`
	MaliciousURIFilterResult   *MaliciousURIFilterResult   `json:"maliciousUriFilterResult,omitempty"`
	PiAndJailbreakFilterResult *PiAndJailbreakFilterResult `json:"piAndJailbreakFilterResult,omitempty"`
	CsamFilterResult           *CsamFilterResult           `json:"csamFilterFilterResult,omitempty"`
}

// RaiFilterResult reports per-category RAI matches.
type RaiFilterResult struct {
	MatchState           FilterMatchState               `json:"matchState,omitempty"`
	RaiFilterTypeResults map[string]RaiFilterTypeResult `json:"raiFilterTypeResults,omitempty"`
}

// RaiFilterTypeResult is the result for a single RAI category.
type RaiFilterTypeResult struct {
	MatchState      FilterMatchState         `json:"matchState,omitempty"`
	ConfidenceLevel DetectionConfidenceLevel `json:"confidenceLevel,omitempty"`
}

// MaliciousURIFilterResult reports flagged URIs with their text offsets.
type MaliciousURIFilterResult struct {
	MatchState               FilterMatchState          `json:"matchState,omitempty"`
	MaliciousURIMatchedItems []MaliciousURIMatchedItem `json:"maliciousUriMatchedItems,omitempty"`
}

// MaliciousURIMatchedItem is one flagged URI and where it occurs.
type MaliciousURIMatchedItem struct {
	URI       string      `json:"uri"`
	Locations []RangeInfo `json:"locations,omitempty"`
}

// RangeInfo is a half-open [Start, End) byte range into the scanned text.
type RangeInfo struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// SdpFilterResult carries either an inspect result (detection only) or a
// deidentify result (detection plus redacted text), matching the template's
// SDP mode.
type SdpFilterResult struct {
	InspectResult    *SdpInspectResult    `json:"inspectResult,omitempty"`
	DeidentifyResult *SdpDeidentifyResult `json:"deidentifyResult,omitempty"`
}

// SdpInspectResult lists detected info-type findings.
type SdpInspectResult struct {
	MatchState        FilterMatchState `json:"matchState,omitempty"`
	Findings          []SdpFinding     `json:"findings,omitempty"`
	FindingsTruncated bool             `json:"findingsTruncated,omitempty"`
}

// SdpFinding is a single detected info-type occurrence.
type SdpFinding struct {
	InfoType   string     `json:"infoType"`
	Likelihood string     `json:"likelihood,omitempty"`
	Location   *RangeInfo `json:"location,omitempty"`
}

// SdpDeidentifyResult carries the redacted text.
type SdpDeidentifyResult struct {
	MatchState       FilterMatchState `json:"matchState,omitempty"`
	Data             *DataItem        `json:"data,omitempty"`
	TransformedBytes int64            `json:"transformedBytes,omitempty"`
	InfoTypes        []string         `json:"infoTypes,omitempty"`
}

// CsamFilterResult reports the service-managed CSAM check. It cannot be
// configured or disabled through templates.
type CsamFilterResult struct {
	MatchState FilterMatchState `json:"matchState,omitempty"`
}

// PiAndJailbreakFilterResult reports prompt-injection / jailbreak detection.
type PiAndJailbreakFilterResult struct {
	MatchState      FilterMatchState         `json:"matchState,omitempty"`
	ConfidenceLevel DetectionConfidenceLevel `json:"confidenceLevel,omitempty"`
}

// ListTemplatesResponse is one page of a template listing.
type ListTemplatesResponse struct {
	Templates     []*Template `json:"templates,omitempty"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}
