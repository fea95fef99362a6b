package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

func TestParseBundledTemplates(t *testing.T) {
	f, err := os.Open("templates.yaml")
	require.NoError(t, err)
	defer f.Close()

	inputs, err := parseTemplates(f, "owner-1")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "Bolig", inputs[0].Name)
	assert.Equal(t, "owner-1", inputs[0].OwnerID)
	require.Len(t, inputs[0].Sections, 2)
	assert.Equal(t, "header", inputs[0].Sections[0].Items[0].Type)
	assert.True(t, inputs[0].Sections[0].Items[1].AllowImages)
}

func TestParseTemplatesRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown type": `
templates:
  - name: Bolig
    sections:
      - title: Tavle
        items:
          - type: slider
            label: Lysstyrke`,
		"unknown field": `
templates:
  - name: Bolig
    colour: red`,
		"missing name": `
templates:
  - sections:
      - title: Tavle`,
		"empty": `templates: []`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTemplates(strings.NewReader(src), "owner-1")
			assert.Error(t, err)
		})
	}
}

type recordingTemplates struct {
	checklistapp.TemplateService
	names []string
}

func (r *recordingTemplates) Create(_ context.Context, input domain.TemplateInput) (*domain.Template, error) {
	r.names = append(r.names, input.Name)
	return &domain.Template{ID: "tpl-" + input.Name, Name: input.Name}, nil
}

func TestInsertTemplates(t *testing.T) {
	rec := &recordingTemplates{}
	created, err := insertTemplates(context.Background(), rec, []domain.TemplateInput{{Name: "Bolig"}, {Name: "Erhverv"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bolig", "Erhverv"}, rec.names)
	assert.Len(t, created, 2)
}

type recordingDeleter struct {
	filters []interface{}
}

func (d *recordingDeleter) DeleteMany(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	d.filters = append(d.filters, filter)
	return &mongo.DeleteResult{DeletedCount: 3}, nil
}

func TestDeleteOwnerTemplatesKeepsOtherOwners(t *testing.T) {
	deleter := &recordingDeleter{}
	deleted, err := deleteOwnerTemplates(context.Background(), deleter, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	require.Len(t, deleter.filters, 1)
	assert.Equal(t, bson.M{"ownerId": "owner-1"}, deleter.filters[0])
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nexport MONGO_DB=\"elkontrol-test\"\nbroken line\n"), 0o600))
	t.Setenv("MONGO_DB", "")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "elkontrol-test", os.Getenv("MONGO_DB"))
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
