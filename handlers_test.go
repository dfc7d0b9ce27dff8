package philofeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient drives the app in-process, carrying cookies and the CSRF token
// between requests like a browser would.
type testClient struct {
	t       *testing.T
	app     *App
	slot    *memSlot
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, configure ...func(*SiteConfig)) *testClient {
	t.Helper()
	cfg := SiteConfig{SessionSecret: "test-secret-with-enough-entropy"}
	for _, fn := range configure {
		fn(&cfg)
	}
	slot := &memSlot{}
	app := New(cfg,
		WithSlot(slot),
		WithAppLogger(discardLogger()),
		WithPipelineOptions(WithClock(func() time.Time { return fixedNow })),
	)
	require.NoError(t, app.Init(context.Background()))
	t.Cleanup(func() { app.Close() })

	c := &testClient{t: t, app: app, slot: slot, cookies: map[string]*http.Cookie{}}
	c.get("/", false)
	require.Contains(t, c.cookies, "_csrf")
	return c
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if tok, ok := c.cookies["_csrf"]; ok {
		req.Header.Set("X-CSRF-Token", tok.Value)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *testClient) get(path string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

func (c *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

type fileField struct {
	name, contentType string
	data              []byte
}

func (c *testClient) upload(fields map[string]string, file *fileField) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(c.t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(c.t, err)
		_, err = part.Write(file.data)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	return c.do(req)
}

func validFields() map[string]string {
	return map[string]string{
		"title":    "Sobre la virtud",
		"author":   "Aristóteles",
		"category": "home",
		"content":  "La virtud es un hábito.",
	}
}

func TestHomePage(t *testing.T) {
	c := newTestClient(t)
	rec := c.get("/", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="user-home-content"`)
	assert.Contains(t, body, "Aún no has agregado contenido en esta categoría.")
	assert.Equal(t, 1, strings.Count(body, "nav-link active"))
}

func TestSectionSwitch(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/section/upload/", true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>", "htmx requests get a partial")
	assert.Contains(t, body, `id="uploadForm"`)
	assert.Contains(t, body, `hx-swap-oob="true"`)

	// The active section is remembered for the next full page load.
	rec = c.get("/", false)
	assert.Contains(t, rec.Body.String(), `id="uploadForm"`)
}

func TestUnknownSection(t *testing.T) {
	c := newTestClient(t)
	c.get("/section/texts/", false)

	rec := c.get("/section/about/", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Página no encontrada")

	rec = c.get("/", false)
	assert.Contains(t, rec.Body.String(), `id="user-texts-content"`, "unknown section must not change the active one")
}

func TestUploadSuccess(t *testing.T) {
	c := newTestClient(t)
	rec := c.upload(validFields(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "¡Contenido &#34;Sobre la virtud&#34; publicado con éxito!")
	assert.Equal(t, "content-changed", rec.Header().Get("HX-Trigger"))
	assert.Contains(t, body, `id="previewContent"`)
	assert.Contains(t, body, "14 de marzo de 2024")
	assert.NotContains(t, body, `value="Sobre la virtud"`, "form resets after success")

	recs := c.app.Store.List(CategoryHome)
	require.Len(t, recs, 1)
	assert.Equal(t, fixedNow.UnixMilli(), recs[0].ID)
	assert.Len(t, c.slot.state(t)[CategoryHome], 1)
}

func TestUploadWithImage(t *testing.T) {
	c := newTestClient(t)
	rec := c.upload(validFields(), &fileField{name: "foto.png", contentType: "image/png", data: pngBytes(t, 3, 3)})

	require.Equal(t, http.StatusOK, rec.Code)
	recs := c.app.Store.List(CategoryHome)
	require.Len(t, recs, 1)
	assert.True(t, strings.HasPrefix(recs[0].ImageURL, "data:image/png;base64,"))
	assert.Contains(t, rec.Body.String(), `<img src="data:image/png;base64,`)
}

func TestUploadWithDocument(t *testing.T) {
	c := newTestClient(t)
	rec := c.upload(validFields(), &fileField{name: "notas.txt", contentType: "text/plain", data: []byte("hola")})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="filePreview" class="file-preview"><p>Vista previa del archivo aparecerá aquí</p></div>`,
		"file preview resets after a successful upload")
	assert.NotContains(t, body, `<p>notas.txt (4 B)</p>`)
	assert.Contains(t, body, "Archivo adjunto: notas.txt (4 B)")
	recs := c.app.Store.List(CategoryHome)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].ImageURL)
}

func TestUploadMissingFields(t *testing.T) {
	c := newTestClient(t)
	fields := validFields()
	fields["author"] = ""
	rec := c.upload(fields, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Por favor, completa todos los campos obligatorios")
	assert.Contains(t, body, `value="Sobre la virtud"`, "entered values are kept")
	assert.Contains(t, body, `class="field-error"`)
	assert.Zero(t, c.app.Store.Len())
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
}

func TestUploadRequiresCSRF(t *testing.T) {
	c := newTestClient(t)
	delete(c.cookies, "_csrf")
	rec := c.upload(validFields(), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, c.app.Store.Len())
}

func seedRecord(t *testing.T, c *testClient, cat Category) ContentRecord {
	t.Helper()
	rec := record(fixedNow.UnixMilli(), cat, "Para borrar")
	require.NoError(t, c.app.Store.Append(context.Background(), cat, rec))
	return rec
}

func contentPath(r ContentRecord) string {
	return "/content/" + string(r.Category) + "/" + strconv.FormatInt(r.ID, 10) + "/"
}

func TestDeleteConfirmFlow(t *testing.T) {
	c := newTestClient(t)
	r := seedRecord(t, c, CategoryTexts)

	rec := c.get(contentPath(r)+"delete/", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "¿Estás seguro de que quieres eliminar este contenido?")

	rec = c.postForm(contentPath(r)+"delete/", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/section/texts/", rec.Header().Get("Location"))
	assert.Empty(t, c.app.Store.List(CategoryTexts))
	assert.Empty(t, c.slot.state(t)[CategoryTexts])

	rec = c.get("/section/texts/", false)
	assert.Contains(t, rec.Body.String(), "Contenido eliminado.")
	assert.Contains(t, rec.Body.String(), "Aún no has agregado contenido en esta categoría.")
}

func TestDeleteCancelled(t *testing.T) {
	c := newTestClient(t)
	r := seedRecord(t, c, CategoryHome)

	rec := c.postForm(contentPath(r)+"delete/", url.Values{"confirm": {"no"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, c.app.Store.List(CategoryHome), 1)

	rec = c.get("/", false)
	assert.Contains(t, rec.Body.String(), "Eliminación cancelada.")
}

func TestDeleteFragment(t *testing.T) {
	c := newTestClient(t)
	r := seedRecord(t, c, CategoryCurrents)

	req := httptest.NewRequest(http.MethodDelete, contentPath(r), nil)
	req.Header.Set("HX-Request", "true")
	rec := c.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="user-currents-content"`)
	assert.Contains(t, rec.Body.String(), "Aún no has agregado contenido en esta categoría.")
	assert.Empty(t, c.app.Store.List(CategoryCurrents))
}

func TestDeleteFragmentStorageWriteFailure(t *testing.T) {
	c := newTestClient(t)
	r := seedRecord(t, c, CategoryTexts)
	c.slot.saveErr = errors.New("quota exceeded")

	req := httptest.NewRequest(http.MethodDelete, contentPath(r), nil)
	req.Header.Set("HX-Request", "true")
	rec := c.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="user-texts-content"`)
	assert.Contains(t, body, `<div id="messages" class="messages" role="alert" hx-swap-oob="true">`)
	assert.Contains(t, body, msgStorageWrite)
	assert.Empty(t, c.app.Store.List(CategoryTexts), "in-memory state keeps the delete")
	assert.NotContains(t, body, contentPath(r), "repainted feed omits the deleted record")

	// The warning was shown immediately and is not queued for a later page.
	rec = c.get("/section/texts/", false)
	assert.NotContains(t, rec.Body.String(), msgStorageWrite)
}

func TestConfirmDeleteNotFound(t *testing.T) {
	c := newTestClient(t)
	assert.Equal(t, http.StatusNotFound, c.get("/content/home/123/delete/", false).Code)
	assert.Equal(t, http.StatusNotFound, c.get("/content/music/1/delete/", false).Code)
	assert.Equal(t, http.StatusNotFound, c.get("/content/home/abc/delete/", false).Code)
}

func TestCategoryFragment(t *testing.T) {
	c := newTestClient(t)
	seedRecord(t, c, CategoryPhilosophers)

	rec := c.get("/category/philosophers/", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Para borrar")
	assert.Equal(t, http.StatusNotFound, c.get("/category/upload/", true).Code)
}

func TestSearchAndNewsletter(t *testing.T) {
	tests := []struct {
		name string
		path string
		form url.Values
		want string
	}{
		{"search", "/search/", url.Values{"q": {"Kant"}}, "Buscando: Kant"},
		{"empty search", "/search/", url.Values{"q": {"  "}}, "Por favor, ingresa un término de búsqueda"},
		{"subscribe", "/newsletter/", url.Values{"email": {"ana@example.com"}}, "Gracias por suscribirte con el email: ana@example.com"},
		{"invalid email", "/newsletter/", url.Values{"email": {"ana@"}}, "Por favor, ingresa un email válido"},
		{"missing email", "/newsletter/", url.Values{"email": {""}}, "Por favor, ingresa tu email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			rec := c.postForm(tt.path, tt.form)
			require.Equal(t, http.StatusSeeOther, rec.Code)

			rec = c.get(rec.Header().Get("Location"), false)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestAPIContents(t *testing.T) {
	c := newTestClient(t)
	seedRecord(t, c, CategoryTexts)

	rec := c.get("/api/contents/", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var state State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Len(t, state, 4)
	assert.Len(t, state[CategoryTexts], 1)

	rec = c.get("/api/contents/texts/", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []ContentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Para borrar", recs[0].Title)
}

func TestFeedAndSitemap(t *testing.T) {
	c := newTestClient(t)
	seedRecord(t, c, CategoryHome)

	rec := c.get("/feed/home/", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "<title>Para borrar</title>")
	assert.Contains(t, rec.Body.String(), "<category>Artículo General</category>")

	assert.Equal(t, http.StatusNotFound, c.get("/feed/nope/", false).Code)

	rec = c.get("/sitemap.xml", false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>http://localhost:3000/section/texts/</loc>")
	assert.Contains(t, body, "<lastmod>2024-03-14</lastmod>")
}

func TestSubmitRateLimit(t *testing.T) {
	c := newTestClient(t, func(cfg *SiteConfig) { cfg.SubmitLimit = 1 })

	require.Equal(t, http.StatusOK, c.upload(validFields(), nil).Code)
	rec := c.upload(validFields(), nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, c.app.Store.Len())
}
