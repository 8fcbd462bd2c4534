// Package armortest provides test fixtures: unique resource IDs, templates
// and DLP templates that tear themselves down, and an in-process mock
// service wired to ready-made clients.
package armortest

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"goarmor/internal/armorclient"
	"goarmor/internal/armormock"
	"goarmor/internal/core"
	"goarmor/internal/dlp"
	"goarmor/internal/sanitize"
	"goarmor/internal/templates"
)

const cleanupTimeout = 10 * time.Second

// Env is a test environment: an in-process mock service plus clients bound
// to a fresh project. Everything shuts down via tb.Cleanup.
type Env struct {
	Project   string
	Location  string
	Manager   *templates.Manager
	Sanitizer *sanitize.Sanitizer
	DLP       *dlp.Client
	BaseURL   string
}

// StartMock starts an in-process mock service and returns clients pointed
// at it. Each call gets its own store and project ID, so tests stay
// hermetic even when run in parallel.
func StartMock(tb testing.TB) *Env {
	tb.Helper()

	mock := armormock.New(armormock.Options{})
	server := httptest.NewServer(mock)
	tb.Cleanup(func() {
		server.Close()
		_ = mock.Close()
	})

	project := UniqueID("proj")
	location := "us-central1"

	armorTransport := armorclient.NewWithHTTPClient(server.Client(), armorclient.Config{
		ServiceName: "modelarmor",
		BaseURL:     server.URL,
	}, nil)
	dlpTransport := armorclient.NewWithHTTPClient(server.Client(), armorclient.Config{
		ServiceName: "dlp",
		BaseURL:     server.URL,
	}, nil)

	return &Env{
		Project:   project,
		Location:  location,
		Manager:   templates.NewManager(armorTransport, project, location),
		Sanitizer: sanitize.New(armorTransport),
		DLP:       dlp.NewClient(dlpTransport, project, location),
		BaseURL:   server.URL,
	}
}

// UniqueID returns prefix plus a random suffix, keeping fixture resources
// from colliding across test runs.
func UniqueID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "-" + suffix
}

// Fixture creates service resources for a test and deletes them afterwards
// in reverse order. Teardown failures are logged, never fatal: a template
// already deleted by the test under teardown is not an error worth failing
// the run for.
type Fixture struct {
	tb  testing.TB
	env *Env
}

// NewFixture creates a fixture bound to the given environment.
func NewFixture(tb testing.TB, env *Env) *Fixture {
	return &Fixture{tb: tb, env: env}
}

func (f *Fixture) cleanup(name string, fn func(ctx context.Context) error) {
	f.tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			f.tb.Logf("fixture teardown: %s: %v", name, err)
		}
	})
}

// CreateTemplate creates a template with a unique ID and schedules its
// deletion.
func (f *Fixture) CreateTemplate(ctx context.Context, tpl *core.Template) *core.Template {
	f.tb.Helper()

	created, err := f.env.Manager.Create(ctx, UniqueID("tpl"), tpl)
	if err != nil {
		f.tb.Fatalf("create template: %v", err)
	}
	f.cleanup("delete template "+created.Name, func(ctx context.Context) error {
		return f.env.Manager.Delete(ctx, created.Name)
	})
	return created
}

// CreateInspectTemplate creates a DLP inspect template with a unique ID and
// schedules its deletion.
func (f *Fixture) CreateInspectTemplate(ctx context.Context, tpl *dlp.InspectTemplate) *dlp.InspectTemplate {
	f.tb.Helper()

	created, err := f.env.DLP.CreateInspectTemplate(ctx, UniqueID("insp"), tpl)
	if err != nil {
		f.tb.Fatalf("create inspect template: %v", err)
	}
	f.cleanup("delete inspect template "+created.Name, func(ctx context.Context) error {
		return f.env.DLP.DeleteInspectTemplate(ctx, created.Name)
	})
	return created
}

// CreateDeidentifyTemplate creates a DLP deidentify template with a unique
// ID and schedules its deletion.
func (f *Fixture) CreateDeidentifyTemplate(ctx context.Context, tpl *dlp.DeidentifyTemplate) *dlp.DeidentifyTemplate {
	f.tb.Helper()

	created, err := f.env.DLP.CreateDeidentifyTemplate(ctx, UniqueID("deid"), tpl)
	if err != nil {
		f.tb.Fatalf("create deidentify template: %v", err)
	}
	f.cleanup("delete deidentify template "+created.Name, func(ctx context.Context) error {
		return f.env.DLP.DeleteDeidentifyTemplate(ctx, created.Name)
	})
	return created
}

// UpdateFloorSetting applies a floor-setting update and schedules a reset
// to defaults, so later tests see a clean baseline.
func (f *Fixture) UpdateFloorSetting(ctx context.Context, fs *core.FloorSetting, updateMask []string) *core.FloorSetting {
	f.tb.Helper()

	updated, err := f.env.Manager.UpdateFloorSetting(ctx, fs, updateMask)
	if err != nil {
		f.tb.Fatalf("update floor setting: %v", err)
	}
	f.cleanup("reset floor setting", func(ctx context.Context) error {
		_, err := f.env.Manager.ResetFloorSetting(ctx)
		return err
	})
	return updated
}
