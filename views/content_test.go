package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("uno\ndos\r\n\r\ntres\n\n\n")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %q", len(got), got)
	}
	if len(got[0]) != 2 || got[0][1] != "dos" {
		t.Errorf("first paragraph = %q", got[0])
	}
	if got[1][0] != "tres" {
		t.Errorf("second paragraph = %q", got[1])
	}
}

func TestArticleLineBreaks(t *testing.T) {
	html := render(t, Article(Fragment{ID: 1, Title: "t", Category: "home", Body: "a\nb"}, false, ""))
	if !strings.Contains(html, "<p>a<br>b</p>") {
		t.Errorf("line break not preserved: %s", html)
	}
}

func TestArticleDeleteControl(t *testing.T) {
	f := Fragment{ID: 42, Title: "t", Category: "texts"}
	html := render(t, Article(f, true, "tok"))
	for _, want := range []string{
		`hx-delete="/content/texts/42/"`,
		`hx-target="#user-texts-content"`,
		`hx-confirm="¿Estás seguro de que quieres eliminar este contenido?"`,
		`href="/content/texts/42/delete/"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if strings.Contains(render(t, Article(f, false, "")), "hx-delete") {
		t.Error("non-deletable article has a delete control")
	}
}

func TestPreviewHiddenWhenEmpty(t *testing.T) {
	html := render(t, Preview(nil))
	if !strings.Contains(html, `id="uploadPreview" class="upload-preview" hidden`) {
		t.Errorf("empty preview not hidden: %s", html)
	}
}

func TestMessagesEscaped(t *testing.T) {
	html := render(t, Messages([]Message{{Kind: MessageSuccess, Text: `¡Contenido "<i>x</i>" publicado con éxito!`}}))
	if strings.Contains(html, "<i>") {
		t.Error("message text not escaped")
	}
	if !strings.Contains(html, `class="message message-success"`) {
		t.Error("missing message kind class")
	}
}

func TestMessagesOOB(t *testing.T) {
	html := render(t, MessagesOOB([]Message{{Kind: MessageError, Text: "fallo"}}))
	if !strings.Contains(html, `id="messages" class="messages" role="alert" hx-swap-oob="true"`) {
		t.Errorf("missing out-of-band swap: %s", html)
	}
	if strings.Contains(render(t, Messages(nil)), "hx-swap-oob") {
		t.Error("in-band messages must not swap out-of-band")
	}
}

func TestUploadSectionKeepsValuesAndErrors(t *testing.T) {
	v := UploadView{
		Form: FormValues{
			Title:    `Un "título"`,
			Category: "currents",
			Errors:   map[string]string{"Author": "cannot be blank"},
		},
		Categories: []CategoryOption{{Key: "home", Label: "Artículo General"}, {Key: "currents", Label: "Corriente Filosófica"}},
	}
	html := render(t, UploadSection(v))
	if !strings.Contains(html, `value="Un &#34;título&#34;"`) {
		t.Errorf("title value not retained/escaped: %s", html)
	}
	if !strings.Contains(html, `<option value="currents" selected>`) {
		t.Error("selected category not retained")
	}
	if !strings.Contains(html, "cannot be blank") {
		t.Error("field error not shown")
	}
	if !strings.Contains(html, "Vista previa del archivo aparecerá aquí") {
		t.Error("missing file preview placeholder")
	}
}

func TestNavMarksActive(t *testing.T) {
	html := render(t, Nav([]Section{{ID: "home", Title: "Inicio"}, {ID: "upload", Title: "Subir", Active: true}}, true))
	if !strings.Contains(html, `hx-swap-oob="true"`) {
		t.Error("oob nav lacks hx-swap-oob")
	}
	if strings.Count(html, "nav-link active") != 1 {
		t.Errorf("want exactly one active link: %s", html)
	}
}

func TestSectionURLs(t *testing.T) {
	if got := SectionURL("texts"); got != "/section/texts/" {
		t.Errorf("SectionURL = %q", got)
	}
	if got := FeedURL("home"); got != "/category/home/" {
		t.Errorf("FeedURL = %q", got)
	}
	if got := DeleteURL("home", 7); got != "/content/home/7/delete/" {
		t.Errorf("DeleteURL = %q", got)
	}
}
