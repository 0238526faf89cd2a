package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/parchmentlab/parchment/internal/blocks"
)

// BlockHTML renders one canonical block to an HTML fragment. Text runs go
// through the inline markdown tags; equations go through the LaTeX
// substitution table. Unknown payloads render to an empty string.
func BlockHTML(block blocks.Block) string {
	switch content := block.Content.(type) {
	case blocks.ParagraphContent:
		return fmt.Sprintf("<p>%s</p>\n", InlineMarkdown(content.Text))
	case blocks.HeadingContent:
		return fmt.Sprintf("<h2 style=\"font-size:%dpx;color:%s\">%s</h2>\n",
			content.FontSize, html.EscapeString(content.Color), InlineMarkdown(content.Text))
	case blocks.EquationContent:
		return fmt.Sprintf("<div class=\"equation\">%s</div>\n", LatexHTML(content.Latex))
	case blocks.ImageContent:
		var builder strings.Builder
		for _, image := range content.Images {
			fmt.Fprintf(&builder, "<img src=\"%s\" width=\"%d\" height=\"%d\">\n",
				html.EscapeString(image.URL), image.Width, image.Height)
		}
		return builder.String()
	case blocks.VideoContent:
		var builder strings.Builder
		for _, video := range content.Videos {
			fmt.Fprintf(&builder, "<iframe src=\"%s\" width=\"%d\" height=\"%d\"></iframe>\n",
				html.EscapeString(video.URL), video.Width, video.Height)
		}
		return builder.String()
	case blocks.DrawingContent:
		return fmt.Sprintf("<canvas width=\"%d\" height=\"%d\" data-strokes=\"%d\"></canvas>\n",
			content.Width, content.Height, len(content.Strokes))
	case blocks.ListContent:
		var builder strings.Builder
		fmt.Fprintf(&builder, "<h3>%s</h3>\n", InlineMarkdown(content.Heading))
		renderListItems(&builder, content.Items)
		return builder.String()
	case blocks.CheckboxContent:
		var builder strings.Builder
		fmt.Fprintf(&builder, "<h3>%s</h3>\n", InlineMarkdown(content.Heading))
		renderCheckboxItems(&builder, content.Items)
		return builder.String()
	default:
		return ""
	}
}

func renderListItems(builder *strings.Builder, items []blocks.ListItem) {
	if len(items) == 0 {
		return
	}
	builder.WriteString("<ul>\n")
	for _, item := range items {
		fmt.Fprintf(builder, "<li>%s", InlineMarkdown(item.Text))
		renderListItems(builder, item.Sublists)
		builder.WriteString("</li>\n")
	}
	builder.WriteString("</ul>\n")
}

func renderCheckboxItems(builder *strings.Builder, items []blocks.CheckboxItem) {
	if len(items) == 0 {
		return
	}
	builder.WriteString("<ul>\n")
	for _, item := range items {
		checked := ""
		if item.Checked {
			checked = " checked"
		}
		fmt.Fprintf(builder, "<li><input type=\"checkbox\"%s disabled> %s", checked, InlineMarkdown(item.Text))
		renderCheckboxItems(builder, item.Sublists)
		builder.WriteString("</li>\n")
	}
	builder.WriteString("</ul>\n")
}

// InlineMarkdown escapes text and converts the small inline tag set the
// editor supports: **bold**, *italic* and `code`.
func InlineMarkdown(text string) string {
	escaped := html.EscapeString(text)
	escaped = replacePairs(escaped, "**", "<b>", "</b>")
	escaped = replacePairs(escaped, "*", "<i>", "</i>")
	escaped = replacePairs(escaped, "`", "<code>", "</code>")
	return escaped
}

// replacePairs converts consecutive pairs of marker into open/close tags,
// leaving an unmatched trailing marker untouched.
func replacePairs(text, marker, openTag, closeTag string) string {
	segments := strings.Split(text, marker)
	if len(segments) < 3 {
		return text
	}
	var builder strings.Builder
	builder.WriteString(segments[0])
	position := 1
	for ; position+1 < len(segments); position += 2 {
		builder.WriteString(openTag)
		builder.WriteString(segments[position])
		builder.WriteString(closeTag)
		builder.WriteString(segments[position+1])
	}
	if position < len(segments) {
		builder.WriteString(marker)
		builder.WriteString(segments[position])
	}
	return builder.String()
}
