package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"telHref": telHref,
}).ParseFS(templateFS, "templates/*.html"))

// Values stored in the database are already HTML-escaped; html/template
// escapes again, so unescape first to avoid "&amp;amp;" in the output.
func plain(s string) string {
	return html.UnescapeString(s)
}

func telHref(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String())
}

func RenderNewLead(d NewLeadData) (string, error) {
	d.Name, d.Phone, d.Email = plain(d.Name), plain(d.Phone), plain(d.Email)
	d.City, d.Notes, d.LandingPage = plain(d.City), plain(d.Notes), plain(d.LandingPage)
	return render("new_lead.html", d)
}

func RenderContact(d ContactData) (string, error) {
	d.Name, d.Email, d.Phone = plain(d.Name), plain(d.Email), plain(d.Phone)
	d.Business, d.Message = plain(d.Business), plain(d.Message)
	return render("contact.html", d)
}

func RenderAssignment(d AssignmentData) (string, error) {
	d.ClientName, d.Name, d.Phone = plain(d.ClientName), plain(d.Name), plain(d.Phone)
	d.Email, d.City, d.Notes = plain(d.Email), plain(d.City), plain(d.Notes)
	return render("assignment.html", d)
}

// NewLeadSubject is bilingual and names where the lead came from.
func NewLeadSubject(source, landingPage string) string {
	origin := plain(landingPage)
	if origin == "" {
		origin = source
	}
	return fmt.Sprintf("ליד חדש | New lead – %s", origin)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
