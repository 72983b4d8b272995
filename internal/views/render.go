package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/todo/internal/theme"
)

type AppData struct {
	Header     string
	MainPane   string
	SidePane   string
	StatusLine string
	StatusErr  bool
	Footer     string
}

// Palette is the colour set for one scheme.
type Palette struct {
	Scheme     theme.Scheme
	Text       lipgloss.Color
	Background lipgloss.Color
	Tint       lipgloss.Color
	Icon       lipgloss.Color
	Danger     lipgloss.Color
	Success    lipgloss.Color
}

var (
	lightPalette = Palette{
		Scheme:     theme.Light,
		Text:       lipgloss.Color("#11181C"),
		Background: lipgloss.Color("#FFFFFF"),
		Tint:       lipgloss.Color("#0A7EA4"),
		Icon:       lipgloss.Color("#687076"),
		Danger:     lipgloss.Color("#DC2626"),
		Success:    lipgloss.Color("#16A34A"),
	}
	darkPalette = Palette{
		Scheme:     theme.Dark,
		Text:       lipgloss.Color("#ECEDEE"),
		Background: lipgloss.Color("#151718"),
		Tint:       lipgloss.Color("#FFFFFF"),
		Icon:       lipgloss.Color("#9BA1A6"),
		Danger:     lipgloss.Color("#F87171"),
		Success:    lipgloss.Color("#4ADE80"),
	}
)

func PaletteFor(s theme.Scheme) Palette {
	if s == theme.Dark {
		return darkPalette
	}
	return lightPalette
}

type styles struct {
	header  lipgloss.Style
	text    lipgloss.Style
	muted   lipgloss.Style
	active  lipgloss.Style
	done    lipgloss.Style
	status  lipgloss.Style
	err     lipgloss.Style
	panel   lipgloss.Style
	footer  lipgloss.Style
	high    lipgloss.Style
	medium  lipgloss.Style
	low     lipgloss.Style
	confirm lipgloss.Style
}

func (p Palette) styles() styles {
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(p.Tint),
		text:    lipgloss.NewStyle().Foreground(p.Text),
		muted:   lipgloss.NewStyle().Foreground(p.Icon),
		active:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.Tint),
		done:    lipgloss.NewStyle().Strikethrough(true).Foreground(p.Icon),
		status:  lipgloss.NewStyle().Foreground(p.Success),
		err:     lipgloss.NewStyle().Foreground(p.Danger),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Icon).Padding(0, 1),
		footer:  lipgloss.NewStyle().Foreground(p.Icon),
		high:    lipgloss.NewStyle().Bold(true).Foreground(p.Danger),
		medium:  lipgloss.NewStyle().Foreground(p.Tint),
		low:     lipgloss.NewStyle().Foreground(p.Icon),
		confirm: lipgloss.NewStyle().Bold(true).Foreground(p.Danger),
	}
}

func RenderApp(data AppData, p Palette) string {
	st := p.styles()
	main := st.panel.Width(58).Render(data.MainPane)
	row := main
	if strings.TrimSpace(data.SidePane) != "" {
		side := st.panel.Width(40).Render(data.SidePane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	}

	lines := []string{
		st.header.Render(data.Header),
		row,
	}
	if data.StatusLine != "" {
		if data.StatusErr {
			lines = append(lines, st.err.Render(data.StatusLine))
		} else {
			lines = append(lines, st.status.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, st.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders task descriptions with the glamour style matching
// the scheme. Rendering errors fall back to the raw text.
func RenderMarkdown(md string, scheme theme.Scheme) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if scheme == theme.Dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
