// Package main is the armorgate CLI: manage Model Armor safety templates
// and run prompts or model responses through them.
//
// Usage:
//
//	ARMOR_PROJECT_ID=my-project armorgate create -id demo -file template.yaml
//	armorgate sanitize-prompt -id demo -text "Can you visit this link?"
//	armorgate floor -reset
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"goarmor/config"
	"goarmor/internal/armorclient"
	"goarmor/internal/core"
	"goarmor/internal/dlp"
	"goarmor/internal/sanitize"
	"goarmor/internal/templates"
	"goarmor/internal/version"
)

const usage = `armorgate - Model Armor safety template tooling

Commands:
  create             Create a template from a YAML definition
  create-sdp         Create an advanced-SDP template from the configured DLP templates
  get                Fetch a template
  list               List templates in the configured location
  update-labels      Replace a template's labels
  delete             Delete a template
  sanitize-prompt    Run a user prompt through a template
  sanitize-response  Run a model response through a template
  floor              Show or reset the project floor setting
  setup-dlp          Provision the configured DLP inspect/deidentify templates
  version            Print version information

Template flags accept a bare ID or a full
projects/{p}/locations/{l}/templates/{id} resource name.
Run "armorgate <command> -h" for command flags.`

func main() {
	setupLogging()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "version" {
		fmt.Println(version.Info())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := newApp(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "create":
		err = app.create(ctx, args)
	case "create-sdp":
		err = app.createSdp(ctx, args)
	case "setup-dlp":
		err = app.setupDLP(ctx, args)
	case "get":
		err = app.get(ctx, args)
	case "list":
		err = app.list(ctx, args)
	case "update-labels":
		err = app.updateLabels(ctx, args)
	case "delete":
		err = app.delete(ctx, args)
	case "sanitize-prompt":
		err = app.sanitizePrompt(ctx, args)
	case "sanitize-response":
		err = app.sanitizeResponse(ctx, args)
	case "floor":
		err = app.floor(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", command, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

// setupLogging uses a colorized handler on a terminal and JSON otherwise,
// so piped output stays machine readable.
func setupLogging() {
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

type app struct {
	cfg       *config.Config
	manager   *templates.Manager
	sanitizer *sanitize.Sanitizer
	dlp       *dlp.Client
}

func newApp(cfg *config.Config) *app {
	client := armorclient.New(armorclient.Config{
		ServiceName: "modelarmor",
		BaseURL:     cfg.ServiceEndpoint(),
		APIKey:      cfg.APIKey,
	}, nil)
	dlpClient := armorclient.New(armorclient.Config{
		ServiceName: "dlp",
		BaseURL:     cfg.DLPEndpoint,
		APIKey:      cfg.APIKey,
	}, nil)

	return &app{
		cfg:       cfg,
		manager:   templates.NewManager(client, cfg.ProjectID, cfg.Location),
		sanitizer: sanitize.New(client),
		dlp:       dlp.NewClient(dlpClient, cfg.ProjectID, cfg.Location),
	}
}

// templateName resolves a -id flag value: a bare ID is expanded under the
// configured project and location, a full resource name is validated and
// used as-is.
func (a *app) templateName(id string) (string, error) {
	if strings.Contains(id, "/") {
		if _, _, _, err := core.ParseTemplateName(id); err != nil {
			return "", err
		}
		return id, nil
	}
	return core.TemplateName(a.cfg.ProjectID, a.cfg.Location, id), nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	id := fs.String("id", "", "Template ID (required)")
	file := fs.String("file", "", "YAML template definition (required)")
	_ = fs.Parse(args)

	if *id == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("-id and -file are required")
	}

	tpl, err := templates.LoadTemplateFile(*file)
	if err != nil {
		return err
	}

	created, err := a.manager.Create(ctx, *id, tpl)
	if err != nil {
		return err
	}
	slog.Info("template created", "name", created.Name)
	return printJSON(created)
}

// dlpTemplateIDs returns the configured inspect and deidentify template IDs,
// failing if either is missing.
func (a *app) dlpTemplateIDs() (inspect, deidentify string, err error) {
	if a.cfg.InspectTemplateID == "" || a.cfg.DeidentifyTemplateID == "" {
		return "", "", fmt.Errorf("ARMOR_INSPECT_TEMPLATE_ID and ARMOR_DEIDENTIFY_TEMPLATE_ID must be set")
	}
	return a.cfg.InspectTemplateID, a.cfg.DeidentifyTemplateID, nil
}

// setupDLP provisions the DLP inspect and deidentify templates that
// create-sdp references. The inspect template detects common PII info
// types; the deidentify template replaces findings with their info-type
// token.
func (a *app) setupDLP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("setup-dlp", flag.ExitOnError)
	_ = fs.Parse(args)

	inspectID, deidentifyID, err := a.dlpTemplateIDs()
	if err != nil {
		return err
	}

	inspect, err := a.dlp.CreateInspectTemplate(ctx, inspectID, &dlp.InspectTemplate{
		DisplayName: "armorgate sensitive data detection",
		InspectConfig: &dlp.InspectConfig{
			InfoTypes: []dlp.InfoType{
				{Name: "EMAIL_ADDRESS"},
				{Name: "PHONE_NUMBER"},
				{Name: "US_SOCIAL_SECURITY_NUMBER"},
			},
		},
	})
	if err != nil {
		return err
	}
	slog.Info("inspect template created", "name", inspect.Name)

	deidentify, err := a.dlp.CreateDeidentifyTemplate(ctx, deidentifyID, &dlp.DeidentifyTemplate{
		DisplayName:      "armorgate sensitive data redaction",
		DeidentifyConfig: dlp.ReplaceWithInfoType(),
	})
	if err != nil {
		return err
	}
	slog.Info("deidentify template created", "name", deidentify.Name)
	return nil
}

// advancedSdpTemplate builds a template whose SDP filter references the
// configured DLP inspect and deidentify templates.
func advancedSdpTemplate(cfg *config.Config, inspectID, deidentifyID string) *core.Template {
	return &core.Template{
		FilterConfig: &core.FilterConfig{
			SdpSettings: core.NewAdvancedSdpSettings(
				core.InspectTemplateName(cfg.ProjectID, cfg.Location, inspectID),
				core.DeidentifyTemplateName(cfg.ProjectID, cfg.Location, deidentifyID),
			),
		},
	}
}

// createSdp creates a Model Armor template wired to the DLP templates that
// setup-dlp provisions.
func (a *app) createSdp(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-sdp", flag.ExitOnError)
	id := fs.String("id", "", "Template ID (required)")
	_ = fs.Parse(args)

	if *id == "" {
		fs.Usage()
		return fmt.Errorf("-id is required")
	}

	inspectID, deidentifyID, err := a.dlpTemplateIDs()
	if err != nil {
		return err
	}

	created, err := a.manager.Create(ctx, *id, advancedSdpTemplate(a.cfg, inspectID, deidentifyID))
	if err != nil {
		return err
	}
	slog.Info("advanced SDP template created", "name", created.Name)
	return printJSON(created)
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "Template ID (required)")
	_ = fs.Parse(args)

	if *id == "" {
		fs.Usage()
		return fmt.Errorf("-id is required")
	}

	name, err := a.templateName(*id)
	if err != nil {
		return err
	}
	tpl, err := a.manager.Get(ctx, name)
	if err != nil {
		return err
	}
	return printJSON(tpl)
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	pageSize := fs.Int("page-size", 0, "Page size (0 for the service default)")
	_ = fs.Parse(args)

	it := a.manager.List(*pageSize)
	count := 0
	for {
		tpl, err := it.Next(ctx)
		if err == templates.ErrIteratorDone {
			break
		}
		if err != nil {
			return err
		}
		if err := printJSON(tpl); err != nil {
			return err
		}
		count++
	}
	slog.Info("listing complete", "templates", count)
	return nil
}

func (a *app) updateLabels(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-labels", flag.ExitOnError)
	id := fs.String("id", "", "Template ID (required)")
	labelsFlag := fs.String("labels", "", "Comma-separated key=value pairs (required)")
	_ = fs.Parse(args)

	if *id == "" || *labelsFlag == "" {
		fs.Usage()
		return fmt.Errorf("-id and -labels are required")
	}

	labels := make(map[string]string)
	for _, pair := range strings.Split(*labelsFlag, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid label %q, want key=value", pair)
		}
		labels[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	name, err := a.templateName(*id)
	if err != nil {
		return err
	}
	updated, err := a.manager.Update(ctx, &core.Template{
		Name:   name,
		Labels: labels,
	}, []string{"labels"})
	if err != nil {
		return err
	}
	slog.Info("labels updated", "name", updated.Name)
	return printJSON(updated)
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Template ID (required)")
	_ = fs.Parse(args)

	if *id == "" {
		fs.Usage()
		return fmt.Errorf("-id is required")
	}

	name, err := a.templateName(*id)
	if err != nil {
		return err
	}
	if err := a.manager.Delete(ctx, name); err != nil {
		return err
	}
	slog.Info("template deleted", "name", name)
	return nil
}

func (a *app) sanitizePrompt(ctx context.Context, args []string) error {
	return a.sanitizeWith(ctx, args, "sanitize-prompt", a.sanitizer.SanitizePrompt)
}

func (a *app) sanitizeResponse(ctx context.Context, args []string) error {
	return a.sanitizeWith(ctx, args, "sanitize-response", a.sanitizer.SanitizeResponse)
}

func (a *app) sanitizeWith(ctx context.Context, args []string, name string,
	call func(context.Context, string, string) (*core.SanitizationResult, error)) error {

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "Template ID (required)")
	text := fs.String("text", "", "Text to sanitize (required)")
	_ = fs.Parse(args)

	if *id == "" || *text == "" {
		fs.Usage()
		return fmt.Errorf("-id and -text are required")
	}

	name, err := a.templateName(*id)
	if err != nil {
		return err
	}
	result, err := call(ctx, name, *text)
	if err != nil {
		return err
	}

	slog.Info("sanitization complete",
		"template", *id,
		"match_state", result.FilterMatchState,
		"invocation", result.InvocationResult,
	)
	return printJSON(result)
}

func (a *app) floor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("floor", flag.ExitOnError)
	reset := fs.Bool("reset", false, "Reset the floor setting to defaults")
	_ = fs.Parse(args)

	if *reset {
		restored, err := a.manager.ResetFloorSetting(ctx)
		if err != nil {
			return err
		}
		slog.Info("floor setting reset", "name", restored.Name)
		return printJSON(restored)
	}

	current, err := a.manager.GetFloorSetting(ctx)
	if err != nil {
		return err
	}
	return printJSON(current)
}
