package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
)

const (
	detailSectionDivider = "----------------------------------------"
	detailTimeLayout     = "2006-01-02 15:04"
)

func buildDetailContent(item curation.ContentItem, st usecase.SaveState) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "(untitled)"
	}

	meta := make([]string, 0, 3)
	if source := strings.TrimSpace(item.Source); source != "" {
		meta = append(meta, source)
	}
	if !item.FetchedAt.IsZero() {
		meta = append(meta, "fetched "+item.FetchedAt.Local().Format(detailTimeLayout))
	}
	switch st {
	case usecase.SavePending:
		meta = append(meta, "saving...")
	case usecase.SaveCommitted:
		meta = append(meta, "saved")
	}

	link := "Generated by AI"
	if !item.IsGenerated() {
		link = item.URL
	}

	summary := strings.TrimSpace(item.Summary)
	if summary == "" {
		summary = "(No summary.)"
	}
	body := strings.TrimSpace(item.Content)
	if body == "" {
		if item.IsGenerated() {
			body = "(No content.)"
		} else {
			body = "(No content. Press enter to open the link.)"
		}
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " | "))
		b.WriteString("\n")
	}
	b.WriteString(link)
	fmt.Fprintf(&b, "\n\n%s\nSummary\n%s\n\n%s\nContent\n%s", detailSectionDivider, summary, detailSectionDivider, body)
	return b.String()
}

func buildDetailContentForWidth(item curation.ContentItem, st usecase.SaveState, width int) string {
	content := buildDetailContent(item, st)
	if width <= 0 {
		return content
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}
