package philofeed

import (
	"time"

	"github.com/goodsign/monday"
)

// DefaultLocale matches the site's Spanish audience.
const DefaultLocale = "es_ES"

// longDateLayouts holds the long-form layout per locale; unlisted locales use
// the Spanish one.
var longDateLayouts = map[monday.Locale]string{
	monday.LocaleEsES: "2 de January de 2006",
	monday.LocaleEnUS: "January 2, 2006",
	monday.LocaleEnGB: "2 January 2006",
	monday.LocaleFrFR: "2 January 2006",
	monday.LocaleDeDE: "2. January 2006",
	monday.LocalePtPT: "2 de January de 2006",
	monday.LocaleItIT: "2 January 2006",
}

// FormatDate renders t in locale's long form, e.g. "14 de marzo de 2024".
func FormatDate(t time.Time, locale string) string {
	loc := monday.Locale(locale)
	layout, ok := longDateLayouts[loc]
	if !ok {
		loc = monday.LocaleEsES
		layout = longDateLayouts[loc]
	}
	return monday.Format(t, layout, loc)
}
