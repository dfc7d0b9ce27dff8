package philofeed

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"

	"github.com/eringen/philofeed/views"
)

func (a *App) handleHome(c echo.Context) error {
	nav := NewNavigator(DefaultSections, activeSection(c))
	return a.renderSection(c, http.StatusOK, nav, nil)
}

func (a *App) handleSection(c echo.Context) error {
	nav := NewNavigator(DefaultSections, activeSection(c))
	if err := nav.Activate(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	setActiveSection(c, nav.Active().ID)
	return a.renderSection(c, http.StatusOK, nav, nil)
}

func (a *App) handleCategory(c echo.Context) error {
	cat, ok := ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return Render(c, a.Renderer.RenderCategory(cat, CsrfToken(c)))
}

func (a *App) handleUpload(c echo.Context) error {
	sub := Submission{
		Title:    c.FormValue("title"),
		Author:   c.FormValue("author"),
		Category: c.FormValue("category"),
		Content:  c.FormValue("content"),
	}
	fh, err := c.FormFile("file")
	switch {
	case err == nil && fh.Filename != "":
		sub.File = attachmentFromHeader(fh)
	case err == nil, errors.Is(err, http.ErrMissingFile):
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	nav := NewNavigator(DefaultSections, SectionUpload)
	setActiveSection(c, SectionUpload)
	form := views.FormValues{
		Title:    sub.Title,
		Author:   sub.Author,
		Category: sub.Category,
		Content:  sub.Content,
	}

	res, err := a.Pipeline.Submit(c.Request().Context(), sub)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		form.Errors = fieldErrors(verr)
		view := a.uploadView(c, form)
		return a.renderSection(c, http.StatusUnprocessableEntity, nav, &view,
			views.Message{Kind: views.MessageError, Text: msgMissingFields})
	case errors.Is(err, ErrFileRead):
		view := a.uploadView(c, form)
		return a.renderSection(c, http.StatusBadRequest, nav, &view,
			views.Message{Kind: views.MessageError, Text: msgFileRead})
	case err != nil && !errors.Is(err, ErrStorageWrite):
		return err
	}

	msgs := []views.Message{{Kind: views.MessageSuccess, Text: msgPublished(res.Record.Title)}}
	if res.FileName != "" {
		msgs = append(msgs, views.Message{Kind: views.MessageInfo, Text: msgAttachment(res.FileName, res.FileSize)})
	}
	if err != nil {
		msgs = append(msgs, views.Message{Kind: views.MessageError, Text: msgStorageWrite})
	}

	// A fresh view resets every input and the file preview; the preview
	// area shows the new record.
	view := a.uploadView(c, views.FormValues{})
	preview := NewFragment(res.Record)
	view.Preview = &preview
	c.Response().Header().Set("HX-Trigger", "content-changed")
	return a.renderSection(c, http.StatusOK, nav, &view, msgs...)
}

func (a *App) handleConfirmDelete(c echo.Context) error {
	cat, id, ok := parseContentKey(c.Param("category"), c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	rec, err := a.Store.Get(cat, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	nav := NewNavigator(DefaultSections, string(cat))
	body := views.ConfirmDelete(views.ConfirmView{Item: NewFragment(rec), CSRF: CsrfToken(c)})
	return a.renderPage(c, http.StatusOK, nav, body)
}

func (a *App) handleDelete(c echo.Context) error {
	cat, id, ok := parseContentKey(c.Param("category"), c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if c.FormValue("confirm") != "yes" {
		addFlash(c, views.MessageInfo, msgDeleteCancelled)
		return c.Redirect(http.StatusSeeOther, views.SectionURL(string(cat)))
	}
	if err := a.Store.Remove(c.Request().Context(), cat, id); err != nil {
		if !errors.Is(err, ErrStorageWrite) {
			return err
		}
		addFlash(c, views.MessageError, msgStorageWrite)
	}
	addFlash(c, views.MessageSuccess, msgDeleted)
	setActiveSection(c, string(cat))
	return c.Redirect(http.StatusSeeOther, views.SectionURL(string(cat)))
}

// handleDeleteFragment serves htmx deletes, which confirm client-side, and
// answers with the repainted feed.
func (a *App) handleDeleteFragment(c echo.Context) error {
	cat, id, ok := parseContentKey(c.Param("category"), c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	err := a.Store.Remove(c.Request().Context(), cat, id)
	if err != nil && !errors.Is(err, ErrStorageWrite) {
		return err
	}
	feed := a.Renderer.RenderCategory(cat, CsrfToken(c))
	if err != nil {
		msgs := []views.Message{{Kind: views.MessageError, Text: msgStorageWrite}}
		return Render(c, templ.Join(feed, views.MessagesOOB(msgs)))
	}
	return Render(c, feed)
}

func (a *App) handleSearch(c echo.Context) error {
	term := strings.TrimSpace(c.FormValue("q"))
	if term == "" {
		addFlash(c, views.MessageError, msgSearchEmpty)
	} else {
		addFlash(c, views.MessageInfo, msgSearching(term))
	}
	return a.redirectBack(c)
}

func (a *App) handleNewsletter(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	switch {
	case email == "":
		addFlash(c, views.MessageError, msgEmailMissing)
	case !IsValidEmail(email):
		addFlash(c, views.MessageError, msgEmailInvalid)
	default:
		addFlash(c, views.MessageSuccess, msgSubscribed(email))
	}
	return a.redirectBack(c)
}

func (a *App) handleAPIContents(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.Snapshot())
}

func (a *App) handleAPICategory(c echo.Context) error {
	cat, ok := ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, a.Store.List(cat))
}

// IsValidEmail checks the address format only; no DNS lookup is made.
func IsValidEmail(email string) bool {
	return validation.Validate(email, validation.Required, is.EmailFormat) == nil
}

func (a *App) redirectBack(c echo.Context) error {
	nav := NewNavigator(DefaultSections, activeSection(c))
	return c.Redirect(http.StatusSeeOther, views.SectionURL(nav.Active().ID))
}

// renderSection renders the navigator's active section. upload overrides the
// default empty upload form.
func (a *App) renderSection(c echo.Context, code int, nav *Navigator, upload *views.UploadView, extra ...views.Message) error {
	active := nav.Active()
	var body templ.Component
	switch {
	case active.Category != "":
		body = a.Renderer.RenderCategory(active.Category, CsrfToken(c))
	case upload != nil:
		body = views.UploadSection(*upload)
	default:
		body = views.UploadSection(a.uploadView(c, views.FormValues{}))
	}
	return a.renderPage(c, code, nav, body, extra...)
}

// renderPage wraps body in the active section. HTMX requests get only the
// #main region plus an out-of-band nav update.
func (a *App) renderPage(c echo.Context, code int, nav *Navigator, body templ.Component, extra ...views.Message) error {
	msgs := append(takeFlashes(c), extra...)
	active := nav.Active()
	main := views.Main(msgs, views.SectionBody(views.Section{ID: active.ID, Title: active.Title, Active: true}, body))
	if isHTMX(c) {
		return RenderStatus(c, code, templ.Join(main, views.Nav(nav.viewSections(), true)))
	}
	page := views.Page{
		Site: a.siteView(),
		Meta: views.PageMeta{
			Title:       active.Title,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL, "section", active.ID),
		},
		Sections: nav.viewSections(),
		CSRF:     CsrfToken(c),
	}
	return RenderStatus(c, code, views.Layout(page, main))
}

func (a *App) uploadView(c echo.Context, form views.FormValues) views.UploadView {
	return views.UploadView{
		Form:       form,
		Categories: categoryOptions(),
		CSRF:       CsrfToken(c),
	}
}

func fieldErrors(verr *ValidationError) map[string]string {
	out := make(map[string]string, len(verr.Fields))
	for name := range verr.Fields {
		out[name] = verr.Field(name)
	}
	return out
}

func attachmentFromHeader(fh *multipart.FileHeader) *Attachment {
	return &Attachment{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "error", err, "uri", c.Request().RequestURI)
		_ = RenderStatus(c, code, views.ServerError(a.siteView()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
