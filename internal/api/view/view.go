// Package view renders the portal's server-side pages from embedded
// html/template files.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	Home      = "home"
	Static    = "static"
	Login     = "login"
	Register  = "register"
	Dashboard = "dashboard"
	Lawyers   = "lawyers"
	Profile   = "profile"
	// AdminUsers and AdminVerification are the admin's account pages.
	AdminUsers        = "admin_users"
	AdminVerification = "admin_verification"
	NotFound          = "notfound"
	Error             = "error"
	Loading           = "loading"
)

var layoutPages = []string{
	Home, Static, Login, Register, Dashboard, Lawyers, Profile,
	AdminUsers, AdminVerification, NotFound, Error,
}

// Page is the data every layout page receives.
type Page struct {
	Title    string
	Identity *domain.Identity
	// Nav is the role's sidebar; empty for visitors.
	Nav []service.NavLink
	// Header is shown to visitors who are not logged in.
	Header []service.NavLink
	Path   string
	Flash  string
	Data   any
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every template once. It panics on a malformed template, which
// can only happen at build time.
func New() *Renderer {
	pages := make(map[string]*template.Template, len(layoutPages)+1)
	for _, name := range layoutPages {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	pages[Loading] = template.Must(template.ParseFS(templateFS, "templates/loading.html"))
	return &Renderer{pages: pages}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	if name == Loading {
		return tmpl.Execute(w, data)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
