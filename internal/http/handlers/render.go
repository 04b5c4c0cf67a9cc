package handlers

import (
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"invdash/internal/domain"
)

var pricePrinter = message.NewPrinter(language.Indonesian)

// FormatPrice renders a unit price the way the dashboard shows it, e.g. "Rp 50.000".
func FormatPrice(v float64) string {
	if v == float64(int64(v)) {
		return pricePrinter.Sprintf("Rp %d", int64(v))
	}
	return pricePrinter.Sprintf("Rp %.2f", v)
}

// NewEngine loads the templates under dir with the helpers they use.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFuncMap(template.FuncMap{
		"price": FormatPrice,
		"deref": func(p *int64) string {
			if p == nil {
				return ""
			}
			return fmt.Sprint(*p)
		},
	})
	return engine
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if s := currentSession(c); s != nil {
		data["Session"] = s
		data["CanMutate"] = domain.CanMutate(s)
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}
