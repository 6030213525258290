package listview

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/tesso57/sutra/internal/presentation/tui/metrics"
	"github.com/tesso57/sutra/internal/presentation/tui/textutil"
)

func rowStyles() list.DefaultItemStyles {
	styles := list.NewDefaultItemStyles()
	for _, s := range []*lipgloss.Style{
		&styles.NormalTitle, &styles.SelectedTitle, &styles.DimmedTitle,
		&styles.NormalDesc, &styles.SelectedDesc, &styles.DimmedDesc,
	} {
		*s = s.PaddingRight(metrics.ItemRightPadding)
	}
	return styles
}

// renderRow writes one single-line row. The text is cut to the list width
// before accent recolors it, so a marked row keeps the selection frame.
func renderRow(w io.Writer, styles list.DefaultItemStyles, m list.Model, index int, text string, accent lipgloss.Color) {
	style := styles.NormalTitle
	if index == m.Index() {
		style = styles.SelectedTitle
	}
	text = textutil.Truncate(text, m.Width()-style.GetHorizontalFrameSize()-metrics.ItemSafetyPadding)
	if accent != "" {
		style = style.Foreground(accent)
	}
	_, _ = io.WriteString(w, style.Render(text))
}
