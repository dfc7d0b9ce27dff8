package views

import (
	"context"

	"github.com/a-h/templ"
)

// UploadSection renders the submission form followed by the preview area.
func UploadSection(v UploadView) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<div id="upload-section"><form id="uploadForm" method="post" action="/upload/" enctype="multipart/form-data"`)
		h.raw(` hx-post="/upload/" hx-target="#main" hx-swap="innerHTML show:window:top" hx-encoding="multipart/form-data">`)
		csrfField(h, v.CSRF)

		textInput(h, "title", "Título", v.Form.Title, v.Form.Errors["Title"])
		textInput(h, "author", "Autor", v.Form.Author, v.Form.Errors["Author"])

		h.raw(`<label for="category">Categoría</label><select id="category" name="category" required>`)
		h.raw(`<option value="">Selecciona una categoría</option>`)
		for _, opt := range v.Categories {
			h.raw(`<option`)
			h.attr("value", opt.Key)
			if opt.Key == v.Form.Category {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(opt.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		fieldError(h, v.Form.Errors["Category"])

		h.raw(`<label for="content">Contenido</label><textarea id="content" name="content" rows="8" required>`)
		h.text(v.Form.Content)
		h.raw(`</textarea>`)
		fieldError(h, v.Form.Errors["Content"])

		h.raw(`<label for="file">Archivo (opcional)</label><input type="file" id="file" name="file">`)
		h.raw(`<div id="filePreview" class="file-preview"><p>Vista previa del archivo aparecerá aquí</p></div>`)

		h.raw(`<button type="submit">Publicar</button></form>`)
		h.child(ctx, Preview(v.Preview))
		h.raw(`</div>`)
	})
}

func textInput(h *writer, name, label, value, errMsg string) {
	h.raw(`<label`)
	h.attr("for", name)
	h.raw(`>`)
	h.text(label)
	h.raw(`</label><input type="text" required`)
	h.attr("id", name)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`>`)
	fieldError(h, errMsg)
}

func fieldError(h *writer, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<span class="field-error">`)
	h.text(msg)
	h.raw(`</span>`)
}

// SectionBody wraps the active section's content in its page-section element.
func SectionBody(s Section, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section`)
		h.attr("id", s.ID)
		h.attr("class", SectionClass(true))
		h.raw(`><h1>`)
		h.text(s.Title)
		h.raw(`</h1>`)
		h.child(ctx, body)
		h.raw(`</section>`)
	})
}

// Main is the swappable #main region: messages plus the active section.
func Main(msgs []Message, section templ.Component) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.child(ctx, Messages(msgs))
		h.child(ctx, section)
	})
}

// Nav renders the section links. With oob set it replaces the page's nav
// out-of-band, so partial section swaps keep the active link in sync.
func Nav(sections []Section, oob bool) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<nav id="site-nav"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`>`)
		for _, s := range sections {
			h.raw(`<a`)
			h.attr("href", SectionURL(s.ID))
			h.attr("data-section", s.ID)
			h.attr("class", NavClass(s.Active))
			h.attr("hx-get", SectionURL(s.ID))
			h.attr("hx-target", "#main")
			h.attr("hx-swap", "innerHTML show:window:top")
			h.attr("hx-push-url", "true")
			h.raw(`>`)
			h.text(s.Title)
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
	})
}

// Layout renders the full document.
func Layout(p Page, main templ.Component) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		title := p.Site.Name
		if p.Meta.Title != "" {
			title = p.Meta.Title + " | " + p.Site.Name
		}
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(`</title>`)
		if p.Meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", p.Meta.Description)
			h.raw(`>`)
		}
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", p.Meta.URL)
			h.raw(`>`)
		}
		h.raw(`<link rel="stylesheet" href="/public/site.css">`)
		h.raw(`<script src="/public/htmx.min.js" defer></script>`)
		h.raw(`<script type="application/ld+json">`)
		h.raw(WebsiteJsonLD(p.Site))
		h.raw(`</script></head><body`)
		h.attr("hx-headers", hxHeaders(p.CSRF))
		h.raw(`><header><a class="brand" href="/">`)
		h.text(p.Site.Name)
		h.raw(`</a>`)
		h.child(ctx, Nav(p.Sections, false))
		h.raw(`</header><div class="layout"><main id="main">`)
		h.child(ctx, main)
		h.raw(`</main>`)
		sidebar(h, p.CSRF)
		h.raw(`</div><footer><p>`)
		h.text(p.Site.Description)
		h.raw(`</p></footer></body></html>`)
	})
}

func sidebar(h *writer, csrf string) {
	h.raw(`<aside class="sidebar"><div class="sidebar-widget"><form class="search-form" method="post" action="/search/">`)
	csrfField(h, csrf)
	h.raw(`<input type="search" name="q" placeholder="Buscar..."><button type="submit">Buscar</button></form></div>`)
	h.raw(`<div class="sidebar-widget"><form class="newsletter-form" method="post" action="/newsletter/">`)
	csrfField(h, csrf)
	h.raw(`<input type="email" name="email" placeholder="Tu email"><button type="submit">Suscribirse</button></form></div></aside>`)
}

// NotFound renders the 404 page body.
func NotFound(site SiteConfig) templ.Component {
	return Layout(Page{Site: site, Meta: PageMeta{Title: "No encontrado"}}, component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="page-section active"><h1>Página no encontrada</h1><p><a href="/">Volver al inicio</a></p></section>`)
	}))
}

// ServerError renders the 500 page body.
func ServerError(site SiteConfig) templ.Component {
	return Layout(Page{Site: site, Meta: PageMeta{Title: "Error"}}, component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="page-section active"><h1>Algo salió mal</h1><p>Inténtalo de nuevo más tarde.</p></section>`)
	}))
}
