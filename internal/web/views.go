package web

import (
	"embed"
	htmltemplate "html/template"
	"io"
	"path"
	texttemplate "text/template"

	"github.com/fatih/color"
)

//go:embed templates
var templateFS embed.FS

// Page carries what the views need besides the route.
type Page struct {
	// LoginURL is where the login view sends the user.
	LoginURL string
	// SignOutAction is the form target of the dashboard's sign-out control.
	SignOutAction string
	// Error is an optional message shown on the login view.
	Error string
}

var providerLabels = map[string]string{
	"google": "Google",
	"github": "GitHub",
}

// ProviderName is the display name of the provider LoginURL points at, or
// "" when there is no login URL.
func (p Page) ProviderName() string {
	if p.LoginURL == "" {
		return ""
	}
	name := path.Base(p.LoginURL)
	if label, ok := providerLabels[name]; ok {
		return label
	}
	return name
}

type pageData struct {
	Page
	Route Route
}

var (
	htmlViews = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))

	textViews = texttemplate.Must(texttemplate.New("").Funcs(texttemplate.FuncMap{
		"bold":  color.New(color.Bold).SprintFunc(),
		"faint": color.New(color.Faint).SprintFunc(),
		"red":   color.New(color.FgRed).SprintFunc(),
	}).ParseFS(templateFS, "templates/*.txt"))
)

func viewName(k RouteKind) string {
	switch k {
	case RouteDashboard:
		return "dashboard"
	case RouteLogin:
		return "login"
	default:
		return "loading"
	}
}

// RenderHTML writes the full page for a resolved, non-redirect route.
func RenderHTML(w io.Writer, route Route, page Page) error {
	return htmlViews.ExecuteTemplate(w, viewName(route.Kind)+".html", pageData{Page: page, Route: route})
}

// RenderText writes the terminal rendering of route.
func RenderText(w io.Writer, route Route, page Page) error {
	return textViews.ExecuteTemplate(w, viewName(route.Kind)+".txt", pageData{Page: page, Route: route})
}
