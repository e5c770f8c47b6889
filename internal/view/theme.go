package view

import (
	"fmt"
	"html/template"
	"strings"
)

// Palette is one colour family of the theme.
type Palette struct {
	Light        string
	Main         string
	Dark         string
	ContrastText string
}

// Theme holds the colours shared by every rendered page.
type Theme struct {
	Type           string
	Primary        Palette
	Secondary      Palette
	OpenTitle      string
	ProtectedTitle string
}

// DefaultTheme returns the application palette.
func DefaultTheme() Theme {
	return Theme{
		Type: "light",
		Primary: Palette{
			Light:        "#757de8",
			Main:         "#2196f3",
			Dark:         "#002984",
			ContrastText: "#fff",
		},
		Secondary: Palette{
			Light:        "#ff79b0",
			Main:         "#ff4081",
			Dark:         "#c60055",
			ContrastText: "#000",
		},
		OpenTitle:      "#5c6bc0",
		ProtectedTitle: "#ec407a",
	}
}

// ActiveLink is the colour of the menu entry matching the current location.
func (t Theme) ActiveLink() string {
	return t.Secondary.Main
}

// InactiveLink is the colour of every other menu entry.
func (t Theme) InactiveLink() string {
	return "#ffffff"
}

// CSS renders the palette as custom properties followed by the component rules
// used by the templates.
func (t Theme) CSS() template.CSS {
	var b strings.Builder
	b.WriteString(":root {\n")
	vars := []struct{ name, value string }{
		{"primary-light", t.Primary.Light},
		{"primary-main", t.Primary.Main},
		{"primary-dark", t.Primary.Dark},
		{"primary-contrast", t.Primary.ContrastText},
		{"secondary-light", t.Secondary.Light},
		{"secondary-main", t.Secondary.Main},
		{"secondary-dark", t.Secondary.Dark},
		{"secondary-contrast", t.Secondary.ContrastText},
		{"open-title", t.OpenTitle},
		{"protected-title", t.ProtectedTitle},
	}
	for _, v := range vars {
		fmt.Fprintf(&b, "  --%s: %s;\n", v.name, v.value)
	}
	b.WriteString("}\n")
	b.WriteString(componentCSS)
	return template.CSS(b.String())
}

const componentCSS = `body { margin: 0; font-family: Roboto, Helvetica, Arial, sans-serif; background: #fafafa; }
a { text-decoration: none; }
.appbar { display: flex; align-items: center; gap: 8px; padding: 0 16px; min-height: 64px; background: var(--primary-main); color: var(--primary-contrast); box-shadow: 0 2px 4px rgba(0,0,0,.2); }
.appbar .brand { font-size: 1.25rem; margin-right: 8px; }
.appbar .spacer { flex: 1; }
.appbar a, .appbar button { background: none; border: 0; font: inherit; cursor: pointer; padding: 6px 8px; text-transform: uppercase; }
.card { max-width: 600px; margin: 40px auto; padding: 24px; background: #fff; border-radius: 4px; box-shadow: 0 1px 3px rgba(0,0,0,.2); }
.card .title { margin: 0 0 16px; font-weight: 400; color: var(--open-title); }
.card .title.protected { color: var(--protected-title); }
.media { display: block; width: 100%; margin-bottom: 16px; }
.list { list-style: none; margin: 0; padding: 0; }
.list li { display: flex; align-items: center; gap: 16px; padding: 12px 0; border-bottom: 1px solid #eee; }
.list .avatar { display: inline-flex; align-items: center; justify-content: center; width: 40px; height: 40px; border-radius: 50%; background: var(--primary-light); color: #fff; }
.list .grow { flex: 1; }
.list a { color: inherit; }
.field { display: block; width: 300px; margin: 8px auto; padding: 8px; font-size: 1rem; border: 0; border-bottom: 1px solid #999; }
.error { display: none; color: red; margin: 8px 0; }
.error.visible { display: block; }
.button { display: inline-block; padding: 8px 16px; border: 0; border-radius: 4px; font: inherit; text-transform: uppercase; cursor: pointer; background: var(--secondary-main); color: var(--primary-contrast); }
.button.secondary { background: var(--primary-main); }
.icon-button { background: none; border: 0; cursor: pointer; color: var(--secondary-main); }
.actions { text-align: center; margin-top: 16px; }
.dialog { display: none; position: fixed; inset: 0; background: rgba(0,0,0,.4); }
.dialog.open { display: flex; align-items: center; justify-content: center; }
.dialog .panel { background: #fff; padding: 24px; border-radius: 4px; max-width: 400px; }
`
