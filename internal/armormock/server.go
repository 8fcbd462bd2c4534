package armormock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"goarmor/internal/core"
	"goarmor/internal/dlp"
)

// defaultLocations are the regions the mock treats as existing. Creating a
// template under any other location fails NOT_FOUND, matching the service.
var defaultLocations = []string{
	"us-central1", "us-east1", "us-west1", "europe-west4", "asia-southeast1",
}

var templateIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,62}$`)

// Options configures a mock server.
type Options struct {
	// Store backs all resources. Defaults to an in-memory store.
	Store Store

	// Locations overrides the set of valid locations.
	Locations []string
}

// Server implements the Model Armor and DLP wire surfaces.
type Server struct {
	echo      *echo.Echo
	store     Store
	scanner   *Scanner
	registry  *prometheus.Registry
	metrics   *metrics
	locations map[string]bool
}

// New creates a mock server.
func New(opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	locations := opts.Locations
	if len(locations) == 0 {
		locations = defaultLocations
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		echo:      echo.New(),
		store:     store,
		scanner:   NewScanner(),
		registry:  registry,
		metrics:   newMetrics(registry),
		locations: make(map[string]bool, len(locations)),
	}
	for _, l := range locations {
		s.locations[l] = true
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.requestMetrics)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Model Armor surface
	e.POST("/v1/projects/:project/locations/:location/templates", s.createTemplate)
	e.GET("/v1/projects/:project/locations/:location/templates", s.listTemplates)
	e.GET("/v1/projects/:project/locations/:location/templates/:template", s.getTemplate)
	e.PATCH("/v1/projects/:project/locations/:location/templates/:template", s.updateTemplate)
	e.DELETE("/v1/projects/:project/locations/:location/templates/:template", s.deleteTemplate)
	e.POST("/v1/projects/:project/locations/:location/templates/:template", s.sanitize)
	e.GET("/v1/projects/:project/locations/:location/floorSetting", s.getFloorSetting)
	e.PATCH("/v1/projects/:project/locations/:location/floorSetting", s.updateFloorSetting)

	// DLP surface (fixture support)
	e.POST("/v2/projects/:project/locations/:location/inspectTemplates", s.createDLPTemplate("inspectTemplates"))
	e.DELETE("/v2/projects/:project/locations/:location/inspectTemplates/:template", s.deleteDLPTemplate("inspectTemplates"))
	e.POST("/v2/projects/:project/locations/:location/deidentifyTemplates", s.createDLPTemplate("deidentifyTemplates"))
	e.DELETE("/v2/projects/:project/locations/:location/deidentifyTemplates/:template", s.deleteDLPTemplate("deidentifyTemplates"))

	return s
}

// ServeHTTP implements http.Handler, allowing Server to be used with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Registry exposes the server's Prometheus registry for /metrics mounting.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Close closes the backing store.
func (s *Server) Close() error {
	return s.store.Close()
}

// requestMetrics renders handler errors before observing, so the counter
// sees the status that actually went out on the wire.
func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := next(c); err != nil {
			c.Error(err)
		}
		s.metrics.observeRequest(c.Request().Method, c.Response().Status)
		return nil
	}
}

// errorf builds the APIError a failed handler returns. handleError renders
// it; handlers never write error bodies themselves, so each response is
// written exactly once.
func errorf(status core.StatusCode, format string, args ...interface{}) error {
	return &core.APIError{
		Status:     status,
		HTTPStatus: core.HTTPStatusFor(status),
		Message:    fmt.Sprintf(format, args...),
	}
}

// handleError renders any handler error as the Google error envelope:
//
//	{"error": {"code": 404, "message": "...", "status": "NOT_FOUND"}}
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			apiErr = &core.APIError{
				Status:     core.StatusForHTTP(echoErr.Code),
				HTTPStatus: echoErr.Code,
				Message:    fmt.Sprintf("%v", echoErr.Message),
			}
		} else {
			apiErr = &core.APIError{
				Status:     core.StatusInternal,
				HTTPStatus: http.StatusInternalServerError,
				Message:    err.Error(),
			}
		}
	}

	_ = c.JSON(apiErr.HTTPStatus, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    apiErr.HTTPStatus,
			"message": apiErr.Message,
			"status":  string(apiErr.Status),
		},
	})
}

func (s *Server) checkLocation(c echo.Context) (project, location string, err error) {
	project = c.Param("project")
	location = c.Param("location")
	if !s.locations[location] {
		return "", "", errorf(core.StatusNotFound, "location %q not found", location)
	}
	return project, location, nil
}

func bindJSON(c echo.Context, dst interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}

func now() *time.Time {
	t := time.Now().UTC().Truncate(time.Microsecond)
	return &t
}

// --- Templates ---

func (s *Server) createTemplate(c echo.Context) error {
	project, location, err := s.checkLocation(c)
	if err != nil {
		return err
	}

	templateID := c.QueryParam("templateId")
	if !templateIDPattern.MatchString(templateID) {
		return errorf(core.StatusInvalidArgument, "invalid templateId %q", templateID)
	}

	var tpl core.Template
	if err := bindJSON(c, &tpl); err != nil {
		// Also rejects dual-set basic+advanced SDP payloads at the codec.
		return errorf(core.StatusInvalidArgument, "invalid template: %v", err)
	}

	tpl.Name = core.TemplateName(project, location, templateID)
	tpl.CreateTime = now()
	tpl.UpdateTime = tpl.CreateTime

	data, err := json.Marshal(&tpl)
	if err != nil {
		return errorf(core.StatusInternal, "encode template: %v", err)
	}
	if err := s.store.Create(c.Request().Context(), tpl.Name, data); err != nil {
		if err == ErrExists {
			return errorf(core.StatusAlreadyExists, "template %q already exists", tpl.Name)
		}
		return errorf(core.StatusInternal, "store template: %v", err)
	}

	return c.JSON(http.StatusOK, &tpl)
}

func (s *Server) loadTemplate(ctx context.Context, name string) (*core.Template, error) {
	data, err := s.store.Get(ctx, name)
	if err != nil {
		if err == ErrNotFound {
			return nil, errorf(core.StatusNotFound, "template %q not found", name)
		}
		return nil, errorf(core.StatusInternal, "load template: %v", err)
	}
	var tpl core.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, errorf(core.StatusInternal, "decode template: %v", err)
	}
	return &tpl, nil
}

func (s *Server) getTemplate(c echo.Context) error {
	name := core.TemplateName(c.Param("project"), c.Param("location"), c.Param("template"))
	tpl, err := s.loadTemplate(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tpl)
}

func (s *Server) listTemplates(c echo.Context) error {
	project, location, err := s.checkLocation(c)
	if err != nil {
		return err
	}

	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	prefix := core.LocationName(project, location) + "/templates/"

	// The page token is the last returned resource name, resolved against
	// the name-ordered listing, so tokens stay valid across writes.
	after := ""
	if token := c.QueryParam("pageToken"); token != "" {
		after = prefix + token
	}

	items, err := s.store.List(c.Request().Context(), prefix, pageSize, after)
	if err != nil {
		return errorf(core.StatusInternal, "list templates: %v", err)
	}

	resp := core.ListTemplatesResponse{}
	for _, item := range items {
		var tpl core.Template
		if err := json.Unmarshal(item.Data, &tpl); err != nil {
			return errorf(core.StatusInternal, "decode template: %v", err)
		}
		resp.Templates = append(resp.Templates, &tpl)
	}

	// A full page may have more behind it; emit a cursor token.
	if limit := normalizeLimit(pageSize); len(items) == limit {
		resp.NextPageToken = core.TemplateID(items[len(items)-1].Name)
	}

	return c.JSON(http.StatusOK, &resp)
}

func (s *Server) updateTemplate(c echo.Context) error {
	name := core.TemplateName(c.Param("project"), c.Param("location"), c.Param("template"))
	existing, err := s.loadTemplate(c.Request().Context(), name)
	if err != nil {
		return err
	}

	var patch core.Template
	if err := bindJSON(c, &patch); err != nil {
		return errorf(core.StatusInvalidArgument, "invalid template: %v", err)
	}

	mask := parseUpdateMask(c.QueryParam("updateMask"))
	if err := applyTemplateMask(existing, &patch, mask); err != nil {
		return errorf(core.StatusInvalidArgument, "%v", err)
	}
	existing.UpdateTime = now()

	data, err := json.Marshal(existing)
	if err != nil {
		return errorf(core.StatusInternal, "encode template: %v", err)
	}
	if err := s.store.Put(c.Request().Context(), name, data); err != nil {
		return errorf(core.StatusInternal, "store template: %v", err)
	}

	return c.JSON(http.StatusOK, existing)
}

func (s *Server) deleteTemplate(c echo.Context) error {
	name := core.TemplateName(c.Param("project"), c.Param("location"), c.Param("template"))
	if err := s.store.Delete(c.Request().Context(), name); err != nil {
		if err == ErrNotFound {
			return errorf(core.StatusNotFound, "template %q not found", name)
		}
		return errorf(core.StatusInternal, "delete template: %v", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{})
}

// parseUpdateMask splits a comma-separated field mask.
func parseUpdateMask(mask string) []string {
	if mask == "" {
		return nil
	}
	parts := strings.Split(mask, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// canonMaskPath normalizes snake_case and camelCase mask paths for
// comparison.
func canonMaskPath(p string) string {
	return strings.ReplaceAll(strings.ToLower(p), "_", "")
}

// applyTemplateMask mutates only the fields named in mask. An empty mask
// replaces every mutable field.
func applyTemplateMask(dst, src *core.Template, mask []string) error {
	if len(mask) == 0 {
		dst.Labels = src.Labels
		dst.FilterConfig = src.FilterConfig
		dst.TemplateMetadata = src.TemplateMetadata
		return nil
	}

	for _, path := range mask {
		switch canonMaskPath(path) {
		case "labels":
			dst.Labels = src.Labels
		case "filterconfig":
			dst.FilterConfig = src.FilterConfig
		case "filterconfig.raisettings":
			ensureFilterConfig(dst).RaiSettings = filterConfigOf(src).RaiSettings
		case "filterconfig.sdpsettings":
			ensureFilterConfig(dst).SdpSettings = filterConfigOf(src).SdpSettings
		case "filterconfig.maliciousurifiltersettings":
			ensureFilterConfig(dst).MaliciousURISettings = filterConfigOf(src).MaliciousURISettings
		case "filterconfig.piandjailbreakfiltersettings":
			ensureFilterConfig(dst).PiAndJailbreakSettings = filterConfigOf(src).PiAndJailbreakSettings
		case "templatemetadata":
			dst.TemplateMetadata = src.TemplateMetadata
		default:
			return fmt.Errorf("unsupported update mask path %q", path)
		}
	}
	return nil
}

func ensureFilterConfig(t *core.Template) *core.FilterConfig {
	if t.FilterConfig == nil {
		t.FilterConfig = &core.FilterConfig{}
	}
	return t.FilterConfig
}

func filterConfigOf(t *core.Template) *core.FilterConfig {
	if t.FilterConfig == nil {
		return &core.FilterConfig{}
	}
	return t.FilterConfig
}

// --- Sanitization ---

func (s *Server) sanitize(c echo.Context) error {
	raw := c.Param("template")
	templateID, verb, ok := strings.Cut(raw, ":")
	if !ok {
		return errorf(core.StatusInvalidArgument, "malformed method call %q", raw)
	}

	var (
		source string
		text   string
	)
	switch verb {
	case "sanitizeUserPrompt":
		var req core.SanitizeUserPromptRequest
		if err := bindJSON(c, &req); err != nil {
			return errorf(core.StatusInvalidArgument, "invalid request: %v", err)
		}
		source = "user_prompt"
		text = req.UserPromptData.Text
	case "sanitizeModelResponse":
		var req core.SanitizeModelResponseRequest
		if err := bindJSON(c, &req); err != nil {
			return errorf(core.StatusInvalidArgument, "invalid request: %v", err)
		}
		source = "model_response"
		text = req.ModelResponseData.Text
	default:
		return errorf(core.StatusInvalidArgument, "unknown method %q", verb)
	}

	ctx := c.Request().Context()
	name := core.TemplateName(c.Param("project"), c.Param("location"), templateID)
	tpl, err := s.loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	result, err := s.evaluate(ctx, tpl, text)
	if err != nil {
		return err
	}

	s.metrics.observeVerdict(source, string(result.FilterMatchState))
	return c.JSON(http.StatusOK, &core.SanitizeResponse{SanitizationResult: result})
}

// evaluate runs every filter enabled in the template against text.
func (s *Server) evaluate(ctx context.Context, tpl *core.Template, text string) (*core.SanitizationResult, error) {
	result := &core.SanitizationResult{
		FilterMatchState: core.NoMatchFound,
		InvocationResult: core.InvocationSuccess,
		FilterResults:    make(map[string]core.FilterResult),
	}

	record := func(key string, fr core.FilterResult, state core.FilterMatchState) {
		result.FilterResults[key] = fr
		if state == core.MatchFound {
			result.FilterMatchState = core.MatchFound
		}
	}

	// The CSAM check is service-managed and runs regardless of template
	// configuration. The mock always reports it clean.
	record(core.FilterResultKeyCsam,
		core.FilterResult{CsamFilterResult: &core.CsamFilterResult{MatchState: core.NoMatchFound}},
		core.NoMatchFound)

	cfg := tpl.FilterConfig
	if cfg == nil {
		return result, nil
	}

	if cfg.RaiSettings != nil && len(cfg.RaiSettings.RaiFilters) > 0 {
		rai := s.scanner.ScanRai(text, cfg.RaiSettings.RaiFilters)
		record(core.FilterResultKeyRai, core.FilterResult{RaiFilterResult: rai}, rai.MatchState)
	}

	if cfg.MaliciousURISettings != nil && cfg.MaliciousURISettings.FilterEnforcement == core.EnforcementEnabled {
		uris := s.scanner.ScanMaliciousURIs(text)
		record(core.FilterResultKeyMaliciousURIs, core.FilterResult{MaliciousURIFilterResult: uris}, uris.MatchState)
	}

	if cfg.PiAndJailbreakSettings != nil && cfg.PiAndJailbreakSettings.FilterEnforcement == core.EnforcementEnabled {
		pj := s.scanner.ScanPiAndJailbreak(text, cfg.PiAndJailbreakSettings.ConfidenceLevel)
		record(core.FilterResultKeyPiAndJailbreak, core.FilterResult{PiAndJailbreakFilterResult: pj}, pj.MatchState)
	}

	if cfg.SdpSettings != nil {
		sdpResult, err := s.evaluateSdp(ctx, cfg.SdpSettings, text)
		if err != nil {
			return nil, err
		}
		if sdpResult != nil {
			state := core.NoMatchFound
			if ir := sdpResult.InspectResult; ir != nil && ir.MatchState == core.MatchFound {
				state = core.MatchFound
			}
			if dr := sdpResult.DeidentifyResult; dr != nil && dr.MatchState == core.MatchFound {
				state = core.MatchFound
			}
			record(core.FilterResultKeySdp, core.FilterResult{SdpFilterResult: sdpResult}, state)
		}
	}

	return result, nil
}

func (s *Server) evaluateSdp(ctx context.Context, settings *core.SdpSettings, text string) (*core.SdpFilterResult, error) {
	if basic := settings.Basic(); basic != nil {
		if basic.FilterEnforcement != core.EnforcementEnabled {
			return nil, nil
		}
		findings := s.scanner.InspectSdp(text, nil)
		inspect := &core.SdpInspectResult{MatchState: core.NoMatchFound, Findings: findings}
		if len(findings) > 0 {
			inspect.MatchState = core.MatchFound
		}
		return &core.SdpFilterResult{InspectResult: inspect}, nil
	}

	adv := settings.Advanced()
	if adv == nil {
		return nil, nil
	}

	out := &core.SdpFilterResult{}

	infoTypes, err := s.resolveInspectInfoTypes(ctx, adv.InspectTemplate)
	if err != nil {
		return nil, err
	}

	if adv.InspectTemplate != "" {
		findings := s.scanner.InspectSdp(text, infoTypes)
		inspect := &core.SdpInspectResult{MatchState: core.NoMatchFound, Findings: findings}
		if len(findings) > 0 {
			inspect.MatchState = core.MatchFound
		}
		out.InspectResult = inspect
	}

	if adv.DeidentifyTemplate != "" {
		if _, err := s.store.Get(ctx, adv.DeidentifyTemplate); err != nil {
			if err == ErrNotFound {
				return nil, errorf(core.StatusInvalidArgument, "deidentify template %q not found", adv.DeidentifyTemplate)
			}
			return nil, errorf(core.StatusInternal, "load deidentify template: %v", err)
		}

		redacted, types, transformed := s.scanner.DeidentifySdp(text, infoTypes)
		deid := &core.SdpDeidentifyResult{
			MatchState:       core.NoMatchFound,
			Data:             &core.DataItem{Text: redacted},
			TransformedBytes: transformed,
			InfoTypes:        types,
		}
		if transformed > 0 {
			deid.MatchState = core.MatchFound
		}
		out.DeidentifyResult = deid
	}

	if out.InspectResult == nil && out.DeidentifyResult == nil {
		return nil, nil
	}
	return out, nil
}

// resolveInspectInfoTypes loads the inspect template's info-type list. An
// empty template reference means the built-in defaults.
func (s *Server) resolveInspectInfoTypes(ctx context.Context, inspectTemplate string) ([]string, error) {
	if inspectTemplate == "" {
		return nil, nil
	}
	data, err := s.store.Get(ctx, inspectTemplate)
	if err != nil {
		if err == ErrNotFound {
			return nil, errorf(core.StatusInvalidArgument, "inspect template %q not found", inspectTemplate)
		}
		return nil, errorf(core.StatusInternal, "load inspect template: %v", err)
	}

	var tpl dlp.InspectTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, errorf(core.StatusInternal, "decode inspect template: %v", err)
	}

	var infoTypes []string
	if tpl.InspectConfig != nil {
		for _, it := range tpl.InspectConfig.InfoTypes {
			infoTypes = append(infoTypes, it.Name)
		}
	}
	return infoTypes, nil
}

// --- Floor settings ---

func (s *Server) floorSettingName(c echo.Context) (string, error) {
	if c.Param("location") != "global" {
		return "", errorf(core.StatusInvalidArgument, "floor settings live in the global location")
	}
	return core.FloorSettingName(c.Param("project")), nil
}

func defaultFloorSetting(name string) *core.FloorSetting {
	off := false
	return &core.FloorSetting{
		Name:                          name,
		FilterConfig:                  &core.FilterConfig{},
		EnableFloorSettingEnforcement: &off,
	}
}

func (s *Server) getFloorSetting(c echo.Context) error {
	name, err := s.floorSettingName(c)
	if err != nil {
		return err
	}

	data, err := s.store.Get(c.Request().Context(), name)
	if err == ErrNotFound {
		return c.JSON(http.StatusOK, defaultFloorSetting(name))
	}
	if err != nil {
		return errorf(core.StatusInternal, "load floor setting: %v", err)
	}

	var fs core.FloorSetting
	if err := json.Unmarshal(data, &fs); err != nil {
		return errorf(core.StatusInternal, "decode floor setting: %v", err)
	}
	return c.JSON(http.StatusOK, &fs)
}

func (s *Server) updateFloorSetting(c echo.Context) error {
	name, err := s.floorSettingName(c)
	if err != nil {
		return err
	}

	existing := defaultFloorSetting(name)
	if data, err := s.store.Get(c.Request().Context(), name); err == nil {
		if err := json.Unmarshal(data, existing); err != nil {
			return errorf(core.StatusInternal, "decode floor setting: %v", err)
		}
	}

	var patch core.FloorSetting
	if err := bindJSON(c, &patch); err != nil {
		return errorf(core.StatusInvalidArgument, "invalid floor setting: %v", err)
	}

	mask := parseUpdateMask(c.QueryParam("updateMask"))
	if len(mask) == 0 {
		mask = []string{"filter_config", "enable_floor_setting_enforcement"}
	}
	for _, path := range mask {
		switch canonMaskPath(path) {
		case "filterconfig":
			existing.FilterConfig = patch.FilterConfig
		case "enablefloorsettingenforcement":
			existing.EnableFloorSettingEnforcement = patch.EnableFloorSettingEnforcement
		default:
			return errorf(core.StatusInvalidArgument, "unsupported update mask path %q", path)
		}
	}
	existing.Name = name
	existing.UpdateTime = now()

	data, err := json.Marshal(existing)
	if err != nil {
		return errorf(core.StatusInternal, "encode floor setting: %v", err)
	}
	if err := s.store.Put(c.Request().Context(), name, data); err != nil {
		return errorf(core.StatusInternal, "store floor setting: %v", err)
	}

	return c.JSON(http.StatusOK, existing)
}

// --- DLP templates ---

func (s *Server) createDLPTemplate(collection string) echo.HandlerFunc {
	return func(c echo.Context) error {
		project, location, err := s.checkLocation(c)
		if err != nil {
			return err
		}

		templateID := c.QueryParam("templateId")
		if !templateIDPattern.MatchString(templateID) {
			return errorf(core.StatusInvalidArgument, "invalid templateId %q", templateID)
		}

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return errorf(core.StatusInvalidArgument, "read request: %v", err)
		}

		name := fmt.Sprintf("projects/%s/locations/%s/%s/%s", project, location, collection, templateID)

		// Re-encode with the assigned name so later reads see it.
		var doc map[string]interface{}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &doc); err != nil {
				return errorf(core.StatusInvalidArgument, "invalid template: %v", err)
			}
		} else {
			doc = map[string]interface{}{}
		}
		doc["name"] = name
		data, err := json.Marshal(doc)
		if err != nil {
			return errorf(core.StatusInternal, "encode template: %v", err)
		}

		if err := s.store.Create(c.Request().Context(), name, data); err != nil {
			if err == ErrExists {
				return errorf(core.StatusAlreadyExists, "template %q already exists", name)
			}
			return errorf(core.StatusInternal, "store template: %v", err)
		}

		return c.JSONBlob(http.StatusOK, data)
	}
}

func (s *Server) deleteDLPTemplate(collection string) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := fmt.Sprintf("projects/%s/locations/%s/%s/%s",
			c.Param("project"), c.Param("location"), collection, c.Param("template"))
		if err := s.store.Delete(c.Request().Context(), name); err != nil {
			if err == ErrNotFound {
				return errorf(core.StatusNotFound, "template %q not found", name)
			}
			return errorf(core.StatusInternal, "delete template: %v", err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{})
	}
}
