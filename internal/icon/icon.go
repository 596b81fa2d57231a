package icon

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Icon is a terminal rendering of a named icon. Domain data stores only the
// name; the glyph and style are resolved here, at the presentation boundary.
type Icon struct {
	Name  string
	Glyph string
	Style lipgloss.Style
}

// Fallback is the icon name used when a name is unknown or missing.
const Fallback = "shield"

var registry = map[string]Icon{
	"shield":   {Name: "shield", Glyph: "◆", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#818CF8"))},
	"users":    {Name: "users", Glyph: "◉", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))},
	"lock":     {Name: "lock", Glyph: "▣", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))},
	"code":     {Name: "code", Glyph: "λ", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))},
	"gear":     {Name: "gear", Glyph: "✱", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))},
	"folder":   {Name: "folder", Glyph: "▤", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#F472B6"))},
	"people":   {Name: "people", Glyph: "☷", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))},
	"building": {Name: "building", Glyph: "▥", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))},
	"cpu":      {Name: "cpu", Glyph: "▢", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF"))},
}

// Lookup resolves a name to its icon, falling back for unknown names.
func Lookup(name string) Icon {
	if ic, ok := registry[name]; ok {
		return ic
	}
	return registry[Fallback]
}

// Valid reports whether name is a registered icon name.
func Valid(name string) bool {
	_, ok := registry[name]
	return ok
}

// Normalize returns name when registered, the fallback name otherwise.
func Normalize(name string) string {
	if Valid(name) {
		return name
	}
	return Fallback
}

// Names returns all registered icon names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the styled glyph for name.
func Render(name string) string {
	ic := Lookup(name)
	return ic.Style.Render(ic.Glyph)
}

// Color tokens used by sections. Unknown tokens render with the muted color.
var colors = map[string]lipgloss.Color{
	"yellow": lipgloss.Color("#F59E0B"),
	"green":  lipgloss.Color("#10B981"),
	"blue":   lipgloss.Color("#3B82F6"),
	"sky":    lipgloss.Color("#38BDF8"),
	"purple": lipgloss.Color("#7C3AED"),
	"red":    lipgloss.Color("#EF4444"),
	"teal":   lipgloss.Color("#14B8A6"),
	"orange": lipgloss.Color("#F97316"),
}

// ColorTokens returns all known section color tokens, sorted.
func ColorTokens() []string {
	tokens := make([]string, 0, len(colors))
	for token := range colors {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Color resolves a section color token to a terminal color.
func Color(token string) lipgloss.Color {
	if c, ok := colors[token]; ok {
		return c
	}
	return lipgloss.Color("#6B7280")
}
