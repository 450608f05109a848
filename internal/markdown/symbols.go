package markdown

import (
	"bytes"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type symbol struct {
	src   string
	html  string
	words bool // must stand alone, not inside a word or number
}

// Longest first within a shared prefix.
var symbols = []symbol{
	{"(tm)", "&trade;", false},
	{"(TM)", "&trade;", false},
	{"(c)", "&copy;", false},
	{"(C)", "&copy;", false},
	{"(r)", "&reg;", false},
	{"(R)", "&reg;", false},
	{"c/o", "&#8453;", true},
	{"+/-", "&plusmn;", false},
	{"=/=", "&ne;", false},
	{"<-->", "&harr;", false},
	{"<--", "&larr;", false},
	{"-->", "&rarr;", false},
	{"1/2", "&frac12;", true},
	{"1/3", "&#8531;", true},
	{"1/4", "&frac14;", true},
	{"1/5", "&#8533;", true},
	{"1/6", "&#8537;", true},
	{"1/8", "&#8539;", true},
	{"2/3", "&#8532;", true},
	{"2/5", "&#8534;", true},
	{"3/4", "&frac34;", true},
	{"3/5", "&#8535;", true},
	{"3/8", "&#8540;", true},
	{"4/5", "&#8536;", true},
	{"5/6", "&#8538;", true},
	{"5/8", "&#8541;", true},
	{"7/8", "&#8542;", true},
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordByte(line []byte, i int) bool {
	if i >= len(line) {
		return false
	}
	return isWordRune(util.ToRune(line, i))
}

type symbolParser struct{}

func (s *symbolParser) Trigger() []byte {
	return []byte{'(', 'c', '+', '=', '<', '-', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
}

func (s *symbolParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	before := block.PrecendingCharacter()

	for _, sym := range symbols {
		if !bytes.HasPrefix(line, []byte(sym.src)) {
			continue
		}
		if sym.words && (isWordRune(before) || isWordByte(line, len(sym.src))) {
			continue
		}
		block.Advance(len(sym.src))
		return codeString(sym.html)
	}

	if n, width := ordinal(line, before); width > 0 {
		block.Advance(width)
		return codeString(n)
	}
	return nil
}

func codeString(html string) ast.Node {
	n := ast.NewString([]byte(html))
	n.SetCode(true)
	return n
}

// ordinal matches 1st, 22nd, 113th and friends as a whole word and returns
// the number with its suffix raised.
func ordinal(line []byte, before rune) (string, int) {
	if isWordRune(before) || len(line) == 0 || line[0] < '1' || line[0] > '9' {
		return "", 0
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i+2 > len(line) || isWordByte(line, i+2) {
		return "", 0
	}
	digits, suffix := line[:i], string(line[i:i+2])
	if suffix != ordinalSuffix(digits) {
		return "", 0
	}
	return string(digits) + "<sup>" + suffix + "</sup>", i + 2
}

func ordinalSuffix(digits []byte) string {
	last := digits[len(digits)-1]
	if len(digits) > 1 && digits[len(digits)-2] == '1' {
		return "th"
	}
	switch last {
	case '1':
		return "st"
	case '2':
		return "nd"
	case '3':
		return "rd"
	default:
		return "th"
	}
}

// SmartSymbols replaces (c), (tm), (r), c/o, +/-, =/=, arrows, common
// fractions and ordinal numbers with their typographic forms. It runs before
// the typographer so --> is not turned into a dash.
var SmartSymbols goldmark.Extender = &smartSymbols{}

type smartSymbols struct{}

func (s *smartSymbols) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&symbolParser{}, 450),
	))
}
