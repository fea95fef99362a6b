package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/checklist/domain"
	mongodoc "github.com/elkontrol/inspections/api/internal/infrastructure/mongo"
)

var (
	templateFile  string
	templateOwner string
	dropTemplates bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Insert checklist templates from a YAML file",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().StringVarP(&templateFile, "file", "f", "templates.yaml", "YAML file with templates")
	templatesCmd.Flags().StringVar(&templateOwner, "owner", "", "owner id (token subject) the templates belong to")
	templatesCmd.Flags().BoolVar(&dropTemplates, "drop", false, "delete the owner's existing templates first")
	_ = templatesCmd.MarkFlagRequired("owner")
}

type templateFileDoc struct {
	Templates []templateYAML `yaml:"templates"`
}

type templateYAML struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Sections    []sectionYAML `yaml:"sections"`
}

type sectionYAML struct {
	ID    string     `yaml:"id"`
	Title string     `yaml:"title"`
	Items []itemYAML `yaml:"items"`
}

type itemYAML struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Label       string `yaml:"label"`
	Required    bool   `yaml:"required"`
	AllowImages bool   `yaml:"allowImages"`
}

// parseTemplates decodes the seed file and validates every template the way
// the API does on create.
func parseTemplates(r io.Reader, ownerID string) ([]domain.TemplateInput, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc templateFileDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("no templates in file")
	}

	inputs := make([]domain.TemplateInput, 0, len(doc.Templates))
	for i, tpl := range doc.Templates {
		input := tpl.input(ownerID)
		if _, err := domain.NewTemplate(input, domain.UUIDGenerator{}); err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i+1, strings.TrimSpace(tpl.Name), err)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func (t templateYAML) input(ownerID string) domain.TemplateInput {
	sections := make([]domain.TemplateSectionInput, 0, len(t.Sections))
	for _, s := range t.Sections {
		items := make([]domain.ItemSpecInput, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, domain.ItemSpecInput{
				ID:          it.ID,
				Type:        it.Type,
				Label:       it.Label,
				Required:    it.Required,
				AllowImages: it.AllowImages,
			})
		}
		sections = append(sections, domain.TemplateSectionInput{ID: s.ID, Title: s.Title, Items: items})
	}
	return domain.TemplateInput{
		Name:        t.Name,
		Description: t.Description,
		OwnerID:     ownerID,
		Sections:    sections,
	}
}

// insertTemplates creates each template through the template service.
func insertTemplates(ctx context.Context, templates checklistapp.TemplateService, inputs []domain.TemplateInput) ([]domain.Template, error) {
	created := make([]domain.Template, 0, len(inputs))
	for _, input := range inputs {
		tpl, err := templates.Create(ctx, input)
		if err != nil {
			return created, fmt.Errorf("create template %s: %w", input.Name, err)
		}
		created = append(created, *tpl)
	}
	return created, nil
}

type manyDeleter interface {
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// deleteOwnerTemplates removes the templates of ownerID only; other owners
// share the collection.
func deleteOwnerTemplates(ctx context.Context, templates manyDeleter, ownerID string) (int64, error) {
	result, err := templates.DeleteMany(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	owner := strings.TrimSpace(templateOwner)
	if owner == "" {
		return fmt.Errorf("--owner is required")
	}

	f, err := os.Open(templateFile)
	if err != nil {
		return err
	}
	defer f.Close()

	inputs, err := parseTemplates(f, owner)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, disconnect, err := connect(ctx)
	if err != nil {
		return err
	}
	defer disconnect()

	collections := collectionsFromEnv()
	if dropTemplates {
		deleted, err := deleteOwnerTemplates(ctx, db.Collection(collections.Templates), owner)
		if err != nil {
			return fmt.Errorf("delete templates of %s: %w", owner, err)
		}
		logger.Info("existing templates deleted", zap.String("owner", owner), zap.Int64("count", deleted))
	}
	if err := mongodoc.EnsureIndexes(ctx, db, collections); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	repo := mongodoc.NewTemplateRepository(db, collections.Templates)
	service := checklistapp.NewTemplateService(repo, domain.UUIDGenerator{}, checklistapp.UTCClock)
	created, err := insertTemplates(ctx, service, inputs)
	if err != nil {
		return err
	}
	for _, tpl := range created {
		logger.Info("template seeded", zap.String("id", tpl.ID), zap.String("name", tpl.Name), zap.Int("items", tpl.ItemCount()))
	}
	logger.Info("seed complete", zap.Int("templates", len(created)), zap.String("owner", owner))
	return nil
}
