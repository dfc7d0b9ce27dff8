package philofeed

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/philofeed/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// ContentLister is the read side of the content store the renderer needs.
type ContentLister interface {
	List(category Category) []ContentRecord
}

// Renderer projects store contents into view components.
type Renderer struct {
	store ContentLister
}

// NewRenderer creates a Renderer reading from store.
func NewRenderer(store ContentLister) *Renderer {
	return &Renderer{store: store}
}

// NewFragment projects a record into its display form. Image URLs that are
// not embedded image data are dropped.
func NewFragment(rec ContentRecord) views.Fragment {
	f := views.Fragment{
		ID:            rec.ID,
		Title:         rec.Title,
		Author:        rec.Author,
		Date:          rec.Date,
		Category:      string(rec.Category),
		CategoryLabel: CategoryName(string(rec.Category)),
		Body:          rec.Content,
	}
	if IsEmbeddedImage(rec.ImageURL) {
		f.ImageURL = rec.ImageURL
	}
	return f
}

// FeedView builds the view model of category's container.
func (r *Renderer) FeedView(category Category, csrf string) views.FeedView {
	recs := r.store.List(category)
	items := make([]views.Fragment, len(recs))
	for i, rec := range recs {
		items[i] = NewFragment(rec)
	}
	return views.FeedView{
		ContainerID: category.ContainerID(),
		Category:    string(category),
		Items:       items,
		CSRF:        csrf,
	}
}

// RenderCategory renders category's full container: every record in order
// with its delete control, or the empty-state placeholder.
func (r *Renderer) RenderCategory(category Category, csrf string) templ.Component {
	return views.Feed(r.FeedView(category, csrf))
}

// RenderPreview renders rec alone, without a delete control, in the visible
// preview area.
func (r *Renderer) RenderPreview(rec ContentRecord) templ.Component {
	f := NewFragment(rec)
	return views.Preview(&f)
}

// categoryOptions lists the upload form's select options.
func categoryOptions() []views.CategoryOption {
	opts := make([]views.CategoryOption, len(Categories))
	for i, c := range Categories {
		opts[i] = views.CategoryOption{Key: string(c), Label: c.Label()}
	}
	return opts
}
