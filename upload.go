package philofeed

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Submission is the raw upload form.
type Submission struct {
	Title    string
	Author   string
	Category string
	Content  string
	File     *Attachment
}

// Validate checks that every required field is present and the category is
// one of the fixed keys. The attached file is always optional.
func (s *Submission) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.Author, validation.Required),
		validation.Field(&s.Category, validation.Required, validation.In(categoryStrings()...)),
		validation.Field(&s.Content, validation.Required),
	)
}

// Result is what a successful submission produced. FileName and FileSize are
// set only for non-image attachments, which are displayed but not stored.
type Result struct {
	Record   ContentRecord
	FileName string
	FileSize string
}

// Pipeline validates submissions, embeds image attachments, and appends the
// resulting record to the store.
type Pipeline struct {
	store         *ContentStore
	ids           *IDGenerator
	now           func() time.Time
	locale        string
	maxUploadSize int64
	maxImageWidth int
	logger        *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock replaces time.Now for dates and ids.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
		p.ids = NewIDGenerator(now)
	}
}

// WithLocale sets the locale used for the record date.
func WithLocale(locale string) PipelineOption {
	return func(p *Pipeline) { p.locale = locale }
}

// WithMaxUploadSize bounds how many bytes of an image are read.
func WithMaxUploadSize(n int64) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxUploadSize = n
		}
	}
}

// WithMaxImageWidth downscales wider images to n pixels; 0 keeps the bytes as sent.
func WithMaxImageWidth(n int) PipelineOption {
	return func(p *Pipeline) { p.maxImageWidth = n }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a Pipeline writing into store.
func NewPipeline(store *ContentStore, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:         store,
		now:           time.Now,
		locale:        DefaultLocale,
		maxUploadSize: defaultMaxUploadSize,
		logger:        slog.Default(),
	}
	p.ids = NewIDGenerator(p.now)
	for _, opt := range opts {
		opt(p)
	}
	p.ids.Observe(store.MaxID())
	return p
}

// Submit runs one submission end to end. On a storage write failure the
// returned Result is still populated: the record is kept in memory and the
// error wraps ErrStorageWrite.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (Result, error) {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Author = strings.TrimSpace(sub.Author)
	sub.Category = strings.ToLower(strings.TrimSpace(sub.Category))
	if strings.TrimSpace(sub.Content) == "" {
		sub.Content = ""
	}
	if err := sub.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return Result{}, &ValidationError{Fields: verrs}
		}
		return Result{}, err
	}

	var res Result
	var imageURL string
	if sub.File != nil {
		var err error
		imageURL, err = p.embed(sub.File, &res)
		if err != nil {
			p.logger.Warn("upload: attachment rejected",
				slog.String("file", sub.File.Filename),
				slog.String("error", err.Error()))
			return Result{}, err
		}
	}

	// The read above may have taken a while; a client that went away gets
	// nothing stored.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	category := Category(sub.Category)
	rec := ContentRecord{
		ID:       p.ids.Next(),
		Title:    sub.Title,
		Author:   sub.Author,
		Category: category,
		Content:  sub.Content,
		Date:     FormatDate(p.now(), p.locale),
		ImageURL: imageURL,
	}
	res.Record = rec

	if err := p.store.Append(ctx, category, rec); err != nil {
		if errors.Is(err, ErrStorageWrite) {
			return res, err
		}
		return Result{}, err
	}
	p.logger.Info("upload: content published",
		slog.Int64("id", rec.ID),
		slog.String("category", string(category)),
		slog.Bool("image", rec.HasImage()))
	return res, nil
}

// embed returns the data URL for image attachments. Other files are only
// described on res.
func (p *Pipeline) embed(a *Attachment, res *Result) (string, error) {
	mt := normalizeMediaType(a.MediaType)
	if !isImageType(mt) && !needsSniffing(mt) {
		res.FileName = a.Filename
		res.FileSize = FormatFileSize(a.Size)
		return "", nil
	}

	data, err := readAttachment(a, p.maxUploadSize)
	if err != nil {
		return "", err
	}
	if needsSniffing(mt) {
		mt = sniffMediaType(data)
		if !isImageType(mt) {
			res.FileName = a.Filename
			res.FileSize = FormatFileSize(int64(len(data)))
			return "", nil
		}
	}

	data, mt, err = downscaleImage(data, mt, p.maxImageWidth)
	if err != nil {
		return "", errors.Join(ErrFileRead, err)
	}
	return DataURL(mt, data), nil
}
