package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type seqIDs struct {
	prefix string
	n      int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

func safetyTemplate(t *testing.T) Template {
	t.Helper()
	tpl, err := NewTemplate(TemplateInput{
		Name:    "Bolig",
		OwnerID: "user-1",
		Sections: []TemplateSectionInput{
			{
				Title: "Tavle",
				Items: []ItemSpecInput{
					{Type: "header", Label: "Generelt"},
					{Type: "yesno", Label: "Safe?", Required: true, AllowImages: true},
					{Type: "checkbox", Label: "HPFI testet", Required: true},
					{Type: "text", Label: "Bemærkning"},
				},
			},
			{
				Title: "Installation",
				Items: []ItemSpecInput{
					{Type: "text", Label: "Målt isolationsmodstand", Required: true, AllowImages: true},
				},
			},
		},
	}, &seqIDs{prefix: "t"})
	require.NoError(t, err)
	tpl.ID = "tpl-1"
	return tpl
}

func buildDraft(t *testing.T, templates ...Template) Inspection {
	t.Helper()
	in, err := BuildInspection(NewInspection{Name: "Kontrol", OwnerID: "user-1"}, templates, &seqIDs{prefix: "i"})
	require.NoError(t, err)
	return in
}

func refAt(in Inspection, section, item int) ItemRef {
	return ItemRef{SectionID: in.Sections[section].ID, ItemID: in.Sections[section].Items[item].ID}
}
