package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// Article renders one record. Deletable articles get the delete control
// bound to the record's id and category.
func Article(f Fragment, deletable bool, csrf string) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<article`)
		h.attr("id", "content-"+f.Category+"-"+strconv.FormatInt(f.ID, 10))
		h.raw(`>`)
		if f.ImageURL != "" {
			h.raw(`<div class="article-header"><img`)
			h.attr("src", f.ImageURL)
			h.attr("alt", f.Title)
			h.raw(`></div>`)
		}
		h.raw(`<div class="article-content"><h2>`)
		h.text(f.Title)
		h.raw(`</h2><div class="article-meta"><span>Por: `)
		h.text(f.Author)
		h.raw(`</span><span>`)
		h.text(f.Date)
		h.raw(`</span><span>`)
		h.text(f.CategoryLabel)
		h.raw(`</span></div>`)
		for _, para := range Paragraphs(f.Body) {
			h.raw(`<p>`)
			for i, line := range para {
				if i > 0 {
					h.raw(`<br>`)
				}
				h.text(line)
			}
			h.raw(`</p>`)
		}
		if deletable {
			h.raw(`<a class="read-more delete"`)
			h.attr("href", DeleteURL(f.Category, f.ID))
			h.attr("hx-delete", ContentURL(f.Category, f.ID))
			h.attr("hx-confirm", ConfirmDeleteText)
			h.attr("hx-target", "#user-"+f.Category+"-content")
			h.attr("hx-swap", "outerHTML")
			h.attr("hx-headers", hxHeaders(csrf))
			h.raw(`>Eliminar</a>`)
		}
		h.raw(`</div></article>`)
	})
}

// Feed renders a category container, replacing whatever it held before.
func Feed(v FeedView) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<div class="user-content"`)
		h.attr("id", v.ContainerID)
		h.attr("hx-get", FeedURL(v.Category))
		h.attr("hx-trigger", "content-changed from:body")
		h.attr("hx-swap", "outerHTML")
		h.raw(`>`)
		if len(v.Items) == 0 {
			h.raw(`<p class="empty">`)
			h.text(EmptyFeedText)
			h.raw(`</p>`)
		}
		for _, f := range v.Items {
			h.child(ctx, Article(f, true, v.CSRF))
		}
		h.raw(`</div>`)
	})
}

// Preview renders the single-item preview area. A nil fragment renders the
// area hidden.
func Preview(f *Fragment) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section id="uploadPreview" class="upload-preview"`)
		if f == nil {
			h.raw(` hidden`)
		}
		h.raw(`><h3>Vista previa</h3><div id="previewContent">`)
		if f != nil {
			h.child(ctx, Article(*f, false, ""))
		}
		h.raw(`</div></section>`)
	})
}

// ConfirmDelete renders the blocking yes/no prompt for one record.
func ConfirmDelete(v ConfirmView) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<div class="confirm"><p>`)
		h.text(ConfirmDeleteText)
		h.raw(`</p><p class="confirm-title">`)
		h.text(v.Item.Title)
		h.raw(`</p><form method="post"`)
		h.attr("action", DeleteURL(v.Item.Category, v.Item.ID))
		h.raw(`>`)
		csrfField(h, v.CSRF)
		h.raw(`<button type="submit" name="confirm" value="yes">Aceptar</button>`)
		h.raw(`<button type="submit" name="confirm" value="no">Cancelar</button>`)
		h.raw(`</form></div>`)
	})
}

// Messages renders pending notifications.
func Messages(msgs []Message) templ.Component {
	return messages(msgs, false)
}

// MessagesOOB renders notifications that replace #messages out-of-band,
// for fragment responses that do not include the #main region.
func MessagesOOB(msgs []Message) templ.Component {
	return messages(msgs, true)
}

func messages(msgs []Message, oob bool) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<div id="messages" class="messages" role="alert"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`>`)
		for _, m := range msgs {
			h.raw(`<p`)
			h.attr("class", "message message-"+m.Kind)
			h.raw(`>`)
			h.text(m.Text)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}

func csrfField(h *writer, csrf string) {
	if csrf == "" {
		return
	}
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", csrf)
	h.raw(`>`)
}
