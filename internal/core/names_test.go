package core

import "testing"

func TestTemplateName(t *testing.T) {
	got := TemplateName("my-project", "us-central1", "tpl-1")
	want := "projects/my-project/locations/us-central1/templates/tpl-1"
	if got != want {
		t.Errorf("TemplateName() = %q, want %q", got, want)
	}
}

func TestParseTemplateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		project string
		loc     string
		id      string
		wantErr bool
	}{
		{
			name:    "valid",
			input:   "projects/p/locations/us-central1/templates/tpl",
			project: "p",
			loc:     "us-central1",
			id:      "tpl",
		},
		{
			name:    "wrong collection",
			input:   "projects/p/locations/l/inspectTemplates/t",
			wantErr: true,
		},
		{
			name:    "too short",
			input:   "projects/p/locations/l",
			wantErr: true,
		},
		{
			name:    "empty component",
			input:   "projects//locations/l/templates/t",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, loc, id, err := ParseTemplateName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTemplateName(%q): %v", tt.input, err)
			}
			if project != tt.project || loc != tt.loc || id != tt.id {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)", project, loc, id, tt.project, tt.loc, tt.id)
			}
		})
	}
}

func TestFloorSettingName(t *testing.T) {
	got := FloorSettingName("p")
	if got != "projects/p/locations/global/floorSetting" {
		t.Errorf("FloorSettingName() = %q", got)
	}
}

func TestTemplateID(t *testing.T) {
	if got := TemplateID("projects/p/locations/l/templates/tpl-9"); got != "tpl-9" {
		t.Errorf("TemplateID() = %q, want tpl-9", got)
	}
	if got := TemplateID("bare-id"); got != "bare-id" {
		t.Errorf("TemplateID() = %q, want bare-id", got)
	}
}
