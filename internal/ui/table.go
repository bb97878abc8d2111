package ui

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// Table buffers rows and renders them as an aligned, borderless table.
type Table struct {
	w      io.Writer
	header []string
	rows   [][]string
}

func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{w: w, header: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Render() error {
	table := tablewriter.NewTable(t.w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(t.header)
	if err := table.Bulk(t.rows); err != nil {
		return err
	}
	return table.Render()
}

// PrintRepositories renders the repository list with its visibility and owner type.
func PrintRepositories(w io.Writer, repos []models.Repository, t *i18n.Translations) error {
	table := NewTable(w,
		t.GetMessage("repos.column_name", 0, nil),
		t.GetMessage("repos.column_visibility", 0, nil),
		t.GetMessage("repos.column_owner", 0, nil),
		t.GetMessage("repos.column_language", 0, nil),
		t.GetMessage("repos.column_updated", 0, nil),
	)
	for _, r := range repos {
		visibility := t.GetMessage("repos.public", 0, nil)
		if r.Private {
			visibility = t.GetMessage("repos.private", 0, nil)
		}
		updated := ""
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Format("2006-01-02")
		}
		table.AddRow(r.FullName, visibility, r.OwnerType, orDash(r.Language), updated)
	}
	return table.Render()
}

// PrintHistory renders saved searches, newest first.
func PrintHistory(w io.Writer, entries []models.SearchHistoryEntry, t *i18n.Translations) error {
	table := NewTable(w,
		t.GetMessage("history.column_repository", 0, nil),
		t.GetMessage("history.column_range", 0, nil),
		t.GetMessage("history.column_scope", 0, nil),
		"PRs",
		"Commits",
		t.GetMessage("history.column_when", 0, nil),
	)
	for _, e := range entries {
		table.AddRow(
			e.Repository,
			e.StartDate+" → "+e.EndDate,
			string(e.Scope),
			strconv.Itoa(e.PRCount),
			strconv.Itoa(e.CommitCount),
			e.Timestamp.Local().Format("2006-01-02 15:04"),
		)
	}
	return table.Render()
}

// PrintDrafts renders saved drafts, most recently saved first.
func PrintDrafts(w io.Writer, drafts []models.Draft, t *i18n.Translations) error {
	table := NewTable(w,
		"ID",
		t.GetMessage("drafts.column_title", 0, nil),
		t.GetMessage("drafts.column_repository", 0, nil),
		t.GetMessage("drafts.column_blocks", 0, nil),
		t.GetMessage("drafts.column_updated", 0, nil),
	)
	for _, d := range drafts {
		table.AddRow(
			d.ID,
			d.Title,
			orDash(d.Repository),
			strconv.Itoa(len(d.Document.Blocks)),
			d.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
