package views

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
}

// Fragment is the display form of one content record. Every string is raw;
// components escape on output.
type Fragment struct {
	ID            int64
	Title         string
	Author        string
	Date          string
	Category      string
	CategoryLabel string
	Body          string
	ImageURL      string // empty, or a data:image URL
}

// Section is a navigation target.
type Section struct {
	ID     string
	Title  string
	Active bool
}

// Message kinds.
const (
	MessageInfo    = "info"
	MessageSuccess = "success"
	MessageError   = "error"
)

// Message is a one-shot user notification.
type Message struct {
	Kind string
	Text string
}

// CategoryOption is one entry of the upload form's category select.
type CategoryOption struct {
	Key   string
	Label string
}

// FormValues are the upload form's current inputs. A successful submission
// renders an empty FormValues, which resets the form.
type FormValues struct {
	Title    string
	Author   string
	Category string
	Content  string
	Errors   map[string]string
}

// UploadView is the upload section.
type UploadView struct {
	Form       FormValues
	Categories []CategoryOption
	Preview    *Fragment
	CSRF       string
}

// FeedView is one category's feed container.
type FeedView struct {
	ContainerID string
	Category    string
	Items       []Fragment
	CSRF        string
}

// ConfirmView is the blocking delete prompt.
type ConfirmView struct {
	Item Fragment
	CSRF string
}

// Page is the full document around one active section.
type Page struct {
	Site     SiteConfig
	Meta     PageMeta
	Sections []Section
	CSRF     string
}
