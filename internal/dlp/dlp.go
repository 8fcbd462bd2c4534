// Package dlp provides the slice of the Sensitive Data Protection API the
// fixtures depend on: creating and deleting inspect and deidentify
// templates referenced by advanced SDP configurations.
package dlp

import (
	"context"
	"net/http"
	"net/url"

	"goarmor/internal/armorclient"
	"goarmor/internal/core"
)

// InfoType names a kind of sensitive data, e.g. EMAIL_ADDRESS.
type InfoType struct {
	Name string `json:"name"`
}

// InspectConfig selects the info types an inspect template detects.
type InspectConfig struct {
	InfoTypes     []InfoType `json:"infoTypes,omitempty"`
	MinLikelihood string     `json:"minLikelihood,omitempty"`
}

// InspectTemplate is a reusable DLP detection configuration.
type InspectTemplate struct {
	Name          string         `json:"name,omitempty"`
	DisplayName   string         `json:"displayName,omitempty"`
	InspectConfig *InspectConfig `json:"inspectConfig,omitempty"`
}

// DeidentifyTemplate is a reusable DLP redaction configuration.
type DeidentifyTemplate struct {
	Name             string            `json:"name,omitempty"`
	DisplayName      string            `json:"displayName,omitempty"`
	DeidentifyConfig *DeidentifyConfig `json:"deidentifyConfig,omitempty"`
}

// DeidentifyConfig describes how findings are transformed.
type DeidentifyConfig struct {
	InfoTypeTransformations *InfoTypeTransformations `json:"infoTypeTransformations,omitempty"`
}

// InfoTypeTransformations lists per-info-type transformations.
type InfoTypeTransformations struct {
	Transformations []InfoTypeTransformation `json:"transformations,omitempty"`
}

// InfoTypeTransformation applies one transformation to a set of info types.
// An empty InfoTypes list applies it to every finding.
type InfoTypeTransformation struct {
	InfoTypes               []InfoType               `json:"infoTypes,omitempty"`
	PrimitiveTransformation *PrimitiveTransformation `json:"primitiveTransformation,omitempty"`
}

// PrimitiveTransformation is the transformation to apply. Only
// replace-with-info-type is needed here.
type PrimitiveTransformation struct {
	ReplaceWithInfoTypeConfig *struct{} `json:"replaceWithInfoTypeConfig,omitempty"`
}

// ReplaceWithInfoType returns a deidentify config that replaces every
// finding with its info-type token, e.g. [EMAIL_ADDRESS].
func ReplaceWithInfoType() *DeidentifyConfig {
	return &DeidentifyConfig{
		InfoTypeTransformations: &InfoTypeTransformations{
			Transformations: []InfoTypeTransformation{
				{PrimitiveTransformation: &PrimitiveTransformation{ReplaceWithInfoTypeConfig: &struct{}{}}},
			},
		},
	}
}

// Client performs DLP template operations for one project/location pair.
type Client struct {
	client   *armorclient.Client
	project  string
	location string
}

// NewClient creates a DLP client using the given transport.
func NewClient(client *armorclient.Client, project, location string) *Client {
	return &Client{client: client, project: project, location: location}
}

func (c *Client) parent() string {
	return core.LocationName(c.project, c.location)
}

// CreateInspectTemplate creates an inspect template with the given ID.
func (c *Client) CreateInspectTemplate(ctx context.Context, templateID string, tpl *InspectTemplate) (*InspectTemplate, error) {
	var created InspectTemplate
	err := c.client.Do(ctx, armorclient.Request{
		Method: http.MethodPost,
		Path:   "/v2/" + c.parent() + "/inspectTemplates",
		Query:  url.Values{"templateId": []string{templateID}},
		Body:   tpl,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateDeidentifyTemplate creates a deidentify template with the given ID.
func (c *Client) CreateDeidentifyTemplate(ctx context.Context, templateID string, tpl *DeidentifyTemplate) (*DeidentifyTemplate, error) {
	var created DeidentifyTemplate
	err := c.client.Do(ctx, armorclient.Request{
		Method: http.MethodPost,
		Path:   "/v2/" + c.parent() + "/deidentifyTemplates",
		Query:  url.Values{"templateId": []string{templateID}},
		Body:   tpl,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteInspectTemplate deletes an inspect template by full resource name.
func (c *Client) DeleteInspectTemplate(ctx context.Context, name string) error {
	return c.client.Do(ctx, armorclient.Request{
		Method: http.MethodDelete,
		Path:   "/v2/" + name,
	}, nil)
}

// DeleteDeidentifyTemplate deletes a deidentify template by full resource name.
func (c *Client) DeleteDeidentifyTemplate(ctx context.Context, name string) error {
	return c.client.Do(ctx, armorclient.Request{
		Method: http.MethodDelete,
		Path:   "/v2/" + name,
	}, nil)
}
