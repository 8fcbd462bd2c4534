// Package templates provides the Template Manager facade: CRUD on safety
// templates and floor-setting management. All operations are synchronous
// remote calls with no local caching; errors from the service propagate to
// the caller unchanged.
package templates

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"goarmor/internal/armorclient"
	"goarmor/internal/core"
)

// Manager performs template operations against one project/location pair.
type Manager struct {
	client   *armorclient.Client
	project  string
	location string
}

// NewManager creates a Manager using the given transport.
func NewManager(client *armorclient.Client, project, location string) *Manager {
	return &Manager{
		client:   client,
		project:  project,
		location: location,
	}
}

// Parent returns the projects/{p}/locations/{l} prefix used by this manager.
func (m *Manager) Parent() string {
	return core.LocationName(m.project, m.location)
}

// Create creates a template under the manager's location with the given ID.
// Fails ALREADY_EXISTS if the ID is taken and NOT_FOUND if the parent
// location is invalid.
func (m *Manager) Create(ctx context.Context, templateID string, tpl *core.Template) (*core.Template, error) {
	var created core.Template
	err := m.client.Do(ctx, armorclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/" + m.Parent() + "/templates",
		Query:  url.Values{"templateId": []string{templateID}},
		Body:   tpl,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Get fetches a template by full resource name. Fails NOT_FOUND if absent.
func (m *Manager) Get(ctx context.Context, name string) (*core.Template, error) {
	var tpl core.Template
	err := m.client.Do(ctx, armorclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/" + name,
	}, &tpl)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Update applies a partial update: only the fields named in updateMask are
// mutated. Fails NOT_FOUND if the template does not exist.
func (m *Manager) Update(ctx context.Context, tpl *core.Template, updateMask []string) (*core.Template, error) {
	if tpl == nil || tpl.Name == "" {
		return nil, core.NewAPIError("modelarmor", core.StatusInvalidArgument, "template name is required for update")
	}

	q := url.Values{}
	if len(updateMask) > 0 {
		q.Set("updateMask", strings.Join(updateMask, ","))
	}

	var updated core.Template
	err := m.client.Do(ctx, armorclient.Request{
		Method: http.MethodPatch,
		Path:   "/v1/" + tpl.Name,
		Query:  q,
		Body:   tpl,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a template by full resource name. Not idempotent: deleting
// an already-deleted template fails NOT_FOUND.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.client.Do(ctx, armorclient.Request{
		Method: http.MethodDelete,
		Path:   "/v1/" + name,
	}, nil)
}

// ErrIteratorDone is returned by TemplateIterator.Next when the listing is
// exhausted.
var ErrIteratorDone = errors.New("no more templates")

// List returns a lazy iterator over the location's templates. The iterator
// fetches one page at a time; creating a fresh iterator restarts the
// listing from the beginning.
func (m *Manager) List(pageSize int) *TemplateIterator {
	return &TemplateIterator{m: m, pageSize: pageSize}
}

// TemplateIterator pages through a template listing.
type TemplateIterator struct {
	m        *Manager
	pageSize int

	items     []*core.Template
	pageToken string
	done      bool
}

// Next returns the next template, fetching pages on demand. It returns
// ErrIteratorDone once the listing is exhausted.
func (it *TemplateIterator) Next(ctx context.Context) (*core.Template, error) {
	for len(it.items) == 0 {
		if it.done {
			return nil, ErrIteratorDone
		}
		if err := it.fetchPage(ctx); err != nil {
			return nil, err
		}
	}

	tpl := it.items[0]
	it.items = it.items[1:]
	return tpl, nil
}

func (it *TemplateIterator) fetchPage(ctx context.Context) error {
	q := url.Values{}
	if it.pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(it.pageSize))
	}
	if it.pageToken != "" {
		q.Set("pageToken", it.pageToken)
	}

	var page core.ListTemplatesResponse
	err := it.m.client.Do(ctx, armorclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/" + it.m.Parent() + "/templates",
		Query:  q,
	}, &page)
	if err != nil {
		return err
	}

	it.items = page.Templates
	it.pageToken = page.NextPageToken
	it.done = page.NextPageToken == ""
	return nil
}

// GetFloorSetting fetches the project's floor setting singleton.
func (m *Manager) GetFloorSetting(ctx context.Context) (*core.FloorSetting, error) {
	var fs core.FloorSetting
	err := m.client.Do(ctx, armorclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/" + core.FloorSettingName(m.project),
	}, &fs)
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// UpdateFloorSetting applies a partial update to the floor setting.
func (m *Manager) UpdateFloorSetting(ctx context.Context, fs *core.FloorSetting, updateMask []string) (*core.FloorSetting, error) {
	if fs == nil {
		return nil, core.NewAPIError("modelarmor", core.StatusInvalidArgument, "floor setting is required")
	}
	name := fs.Name
	if name == "" {
		name = core.FloorSettingName(m.project)
	}

	q := url.Values{}
	if len(updateMask) > 0 {
		q.Set("updateMask", strings.Join(updateMask, ","))
	}

	var updated core.FloorSetting
	err := m.client.Do(ctx, armorclient.Request{
		Method: http.MethodPatch,
		Path:   "/v1/" + name,
		Query:  q,
		Body:   fs,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ResetFloorSetting restores the floor setting to its defaults: an empty
// filter configuration with enforcement disabled.
func (m *Manager) ResetFloorSetting(ctx context.Context) (*core.FloorSetting, error) {
	off := false
	return m.UpdateFloorSetting(ctx, &core.FloorSetting{
		Name:                          core.FloorSettingName(m.project),
		FilterConfig:                  &core.FilterConfig{},
		EnableFloorSettingEnforcement: &off,
	}, []string{"filter_config", "enable_floor_setting_enforcement"})
}
