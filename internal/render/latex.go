package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// latexSymbols maps the LaTeX commands the editor recognizes to their
// display characters. Unmatched commands stay verbatim.
var latexSymbols = []struct {
	command string
	display string
}{
	{`\pm`, "±"},
	{`\times`, "×"},
	{`\div`, "÷"},
	{`\cdot`, "·"},
	{`\leq`, "≤"},
	{`\geq`, "≥"},
	{`\neq`, "≠"},
	{`\approx`, "≈"},
	{`\infty`, "∞"},
	{`\alpha`, "α"},
	{`\beta`, "β"},
	{`\gamma`, "γ"},
	{`\delta`, "δ"},
	{`\theta`, "θ"},
	{`\lambda`, "λ"},
	{`\mu`, "μ"},
	{`\pi`, "π"},
	{`\sigma`, "σ"},
	{`\phi`, "φ"},
	{`\omega`, "ω"},
	{`\sum`, "∑"},
	{`\int`, "∫"},
}

var (
	fracPattern      = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)
	sqrtPattern      = regexp.MustCompile(`\\sqrt\{([^{}]*)\}`)
	superscriptGroup = regexp.MustCompile(`\^\{([^{}]*)\}`)
	subscriptGroup   = regexp.MustCompile(`_\{([^{}]*)\}`)
	superscriptOne   = regexp.MustCompile(`\^(\w)`)
	subscriptOne     = regexp.MustCompile(`_(\w)`)
)

// LatexHTML converts an equation string to display HTML via plain
// substitution. This is intentionally not a LaTeX engine; it covers the
// symbol set the editor's equation blocks use.
func LatexHTML(latex string) string {
	escaped := html.EscapeString(latex)

	escaped = fracPattern.ReplaceAllString(escaped,
		`<span class="frac"><span class="num">$1</span><span class="den">$2</span></span>`)
	escaped = sqrtPattern.ReplaceAllString(escaped, `√<span class="root">$1</span>`)
	escaped = superscriptGroup.ReplaceAllString(escaped, `<sup>$1</sup>`)
	escaped = subscriptGroup.ReplaceAllString(escaped, `<sub>$1</sub>`)
	escaped = superscriptOne.ReplaceAllString(escaped, `<sup>$1</sup>`)
	escaped = subscriptOne.ReplaceAllString(escaped, `<sub>$1</sub>`)

	for _, symbol := range latexSymbols {
		escaped = strings.ReplaceAll(escaped, symbol.command, symbol.display)
	}
	return fmt.Sprintf(`<span class="latex">%s</span>`, escaped)
}
