package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	KindSuperscript = ast.NewNodeKind("Superscript")
	KindInsert      = ast.NewNodeKind("Insert")
)

// Superscript is ^text^.
type Superscript struct {
	ast.BaseInline
}

func (n *Superscript) Kind() ast.NodeKind { return KindSuperscript }

func (n *Superscript) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// Insert is ^^text^^.
type Insert struct {
	ast.BaseInline
}

func (n *Insert) Kind() ast.NodeKind { return KindInsert }

func (n *Insert) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type caretDelimiterProcessor struct{}

func (p *caretDelimiterProcessor) IsDelimiter(b byte) bool { return b == '^' }

func (p *caretDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

// OnMatch gets 2 when both runs are at least two carets long.
func (p *caretDelimiterProcessor) OnMatch(consumes int) ast.Node {
	if consumes == 2 {
		return &Insert{}
	}
	return &Superscript{}
}

var caretDelimiter = &caretDelimiterProcessor{}

type caretParser struct{}

func (s *caretParser) Trigger() []byte { return []byte{'^'} }

func (s *caretParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 1, caretDelimiter)
	if node == nil || before == '^' {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func (s *caretParser) CloseBlock(ast.Node, parser.Context) {}

type caretRenderer struct{}

func (r *caretRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSuperscript, wrapTag("sup"))
	reg.Register(KindInsert, wrapTag("ins"))
}

func wrapTag(tag string) renderer.NodeRendererFunc {
	return func(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString("<" + tag + ">")
		} else {
			_, _ = w.WriteString("</" + tag + ">")
		}
		return ast.WalkContinue, nil
	}
}

// Caret adds ^superscript^ and ^^inserted^^ text.
var Caret goldmark.Extender = &caret{}

type caret struct{}

func (c *caret) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&caretParser{}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&caretRenderer{}, 500),
	))
}
