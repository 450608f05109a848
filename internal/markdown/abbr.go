package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var KindAbbreviation = ast.NewNodeKind("Abbreviation")

// Abbreviation wraps an occurrence of a defined abbreviation.
type Abbreviation struct {
	ast.BaseInline
	Title string
}

func (n *Abbreviation) Kind() ast.NodeKind { return KindAbbreviation }

func (n *Abbreviation) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Title": n.Title}, nil)
}

var (
	abbrDefinition = regexp.MustCompile(`^\s{0,3}\*\[([^\]]+)\]:\s*(.*?)\s*$`)
	abbrKey        = parser.NewContextKey()
)

func abbreviations(pc parser.Context) map[string]string {
	if v, ok := pc.Get(abbrKey).(map[string]string); ok {
		return v
	}
	return nil
}

// abbrDefinitionTransformer lifts `*[ABBR]: title` lines out of paragraphs
// into the parser context.
type abbrDefinitionTransformer struct{}

func (t *abbrDefinitionTransformer) Transform(node *ast.Paragraph, reader text.Reader, pc parser.Context) {
	lines := node.Lines()
	source := reader.Source()
	kept := text.NewSegments()
	found := false
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		m := abbrDefinition.FindSubmatch(seg.Value(source))
		if m == nil {
			kept.Append(seg)
			continue
		}
		defs := abbreviations(pc)
		if defs == nil {
			defs = map[string]string{}
			pc.Set(abbrKey, defs)
		}
		defs[strings.TrimSpace(string(m[1]))] = string(m[2])
		found = true
	}
	if !found {
		return
	}
	if kept.Len() == 0 {
		node.Parent().RemoveChild(node.Parent(), node)
		return
	}
	last := kept.Len() - 1
	lastSeg := kept.At(last)
	kept.Set(last, lastSeg.TrimRightSpace(source))
	node.SetLines(kept)
}

// abbrTransformer wraps every whole-word use of a defined abbreviation.
type abbrTransformer struct{}

func (t *abbrTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	defs := abbreviations(pc)
	if len(defs) == 0 {
		return
	}
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	pattern := regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, KindAbbreviation:
			return ast.WalkSkipChildren, nil
		}
		if t, ok := n.(*ast.Text); ok {
			texts = append(texts, t)
		}
		return ast.WalkContinue, nil
	})

	for _, t := range texts {
		splitAbbreviations(t, pattern, defs, source)
	}
}

func splitAbbreviations(t *ast.Text, pattern *regexp.Regexp, defs map[string]string, source []byte) {
	seg := t.Segment
	matches := pattern.FindAllIndex(seg.Value(source), -1)
	if len(matches) == 0 {
		return
	}
	parent := t.Parent()
	pos := seg.Start
	for _, m := range matches {
		start, stop := seg.Start+m[0], seg.Start+m[1]
		if start > pos {
			parent.InsertBefore(parent, t, ast.NewTextSegment(text.NewSegment(pos, start)))
		}
		abbr := &Abbreviation{Title: defs[string(source[start:stop])]}
		abbr.AppendChild(abbr, ast.NewTextSegment(text.NewSegment(start, stop)))
		parent.InsertBefore(parent, t, abbr)
		pos = stop
	}
	// t keeps the tail so its line break flags survive.
	t.Segment = text.NewSegment(pos, seg.Stop)
	if pos == seg.Stop && !t.SoftLineBreak() && !t.HardLineBreak() {
		parent.RemoveChild(parent, t)
	}
}

type abbrRenderer struct{}

func (r *abbrRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAbbreviation, r.render)
}

func (r *abbrRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</abbr>")
		return ast.WalkContinue, nil
	}
	n := node.(*Abbreviation)
	_, _ = w.WriteString(`<abbr title="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Title)))
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}

// Abbr adds `*[ABBR]: Title` definitions; the definitions are dropped from
// the output and every use of ABBR becomes an <abbr> element.
var Abbr goldmark.Extender = &abbr{}

type abbr struct{}

func (a *abbr) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithParagraphTransformers(util.Prioritized(&abbrDefinitionTransformer{}, 200)),
		parser.WithASTTransformers(util.Prioritized(&abbrTransformer{}, 100)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&abbrRenderer{}, 500),
	))
}
