package mention

import (
	"html"
	"strings"
)

// HTML renders the annotated content with escaped text. Mentions become
// <span class="mention"> and task links become <a class="task-link">, each
// carrying the resolved ID as a data attribute.
func (a Annotated) HTML() string {
	var b strings.Builder
	for _, s := range a {
		text := html.EscapeString(s.Text)
		switch s.Kind {
		case SegmentMention:
			b.WriteString(`<span class="mention" data-user-id="`)
			b.WriteString(html.EscapeString(s.RefID))
			b.WriteString(`">`)
			b.WriteString(text)
			b.WriteString(`</span>`)
		case SegmentTask:
			b.WriteString(`<a class="task-link" data-task-id="`)
			b.WriteString(html.EscapeString(s.RefID))
			b.WriteString(`">`)
			b.WriteString(text)
			b.WriteString(`</a>`)
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}
