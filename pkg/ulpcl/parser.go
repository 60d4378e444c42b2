package ulpcl

import "time"

const (
	lcidInvalid uint32 = 0xFFFFFFFF
	lcidMax     uint32 = 0x7FFFFFFF
)

// parseLCID parses a digit-only LCID value, returning lcidInvalid if the bytes are not all
// digits or the accumulated value overflows lcidMax.
func parseLCID(data string) uint32 {
	var value uint64
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c < '0' || c > '9' {
			return lcidInvalid
		}
		value = value*10 + uint64(c-'0')
		if value > uint64(lcidMax) {
			return lcidInvalid
		}
	}
	return uint32(value)
}

func isValidNameChar(ch byte) bool {
	switch ch {
	case '-', '_':
		return true
	default:
		return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
	}
}

// isValidIdentifierName validates a message id's body, skipping the leading '#' sign that the
// lexer requires but which is not itself part of the name.
func isValidIdentifierName(name string) bool {
	for i := 1; i < len(name); i++ {
		if !isValidNameChar(name[i]) {
			return false
		}
	}
	return true
}

func isValidGroupName(name string) bool {
	for i := 0; i < len(name); i++ {
		if !isValidNameChar(name[i]) {
			return false
		}
	}
	return true
}

// groupNode adapts either a *RootGroup or a *Group to the same recursive-descent parsing logic,
// standing in for the C++ parser's _Group_type template parameter.
type groupNode struct {
	messages *[]Message
	groups   *[]Group
}

func rootNode(r *RootGroup) groupNode { return groupNode{&r.Messages, &r.Groups} }
func childNode(g *Group) groupNode    { return groupNode{&g.Messages, &g.Groups} }

func (n groupNode) isGroupNameUnique(name string) bool {
	for i := range *n.groups {
		if (*n.groups)[i].Name == name {
			return false
		}
	}
	return true
}

func (n groupNode) isIdentifierNameUnique(id string) bool {
	for i := range *n.messages {
		if (*n.messages)[i].ID == id {
			return false
		}
	}
	return true
}

func (n groupNode) appendGroup(name string) bool {
	if !n.isGroupNameUnique(name) {
		return false
	}
	*n.groups = append(*n.groups, Group{Name: name})
	return true
}

func (n groupNode) appendMessage(id, value string) bool {
	if !n.isIdentifierNameUnique(id) {
		return false
	}
	*n.messages = append(*n.messages, Message{ID: id, Value: value})
	return true
}

func (n groupNode) lastGroup() groupNode {
	return childNode(&(*n.groups)[len(*n.groups)-1])
}

func (n groupNode) lastGroupEmpty() bool {
	g := (*n.groups)[len(*n.groups)-1]
	return len(g.Messages) == 0 && len(g.Groups) == 0
}

// parserBase mirrors _Parser_base: a shared cursor (*off) over a fixed token stream, carried
// across the static and dynamic parsing phases so the dynamic parser resumes exactly where the
// static parser left off.
type parserBase struct {
	off    *int
	tree   *ParseTree
	stream TokenStream
	rep    *reporter
}

func (p *parserBase) remainingTokens() int {
	return len(p.stream) - *p.off - 1
}

func (p *parserBase) isMatchingKeyword(t Token, k keyword) bool {
	return t.Type == TokenKeyword && parseKeyword(t.Data) == k
}

func (p *parserBase) currentToken() Token {
	return p.stream[*p.off]
}

func (p *parserBase) currentTokenAndAdvance() Token {
	t := p.stream[*p.off]
	*p.off++
	return t
}

// staticParser parses the fixed '@language', '@lcid', optional '@meta' and '@content' envelope
// that precedes every pack's message tree. Grounded on _Static_parser in parser.cpp.
type staticParser struct {
	parserBase
}

func (p *staticParser) parseLanguage() bool {
	if p.remainingTokens() < 3 {
		loc := p.currentToken().Location
		p.rep.errorAt(&loc, "E2000", "undefined symbol '@language' which is required")
		return false
	}

	first := p.currentTokenAndAdvance()
	if !p.isMatchingKeyword(first, keywordLanguage) {
		p.rep.errorAt(&first.Location, "E2000", "undefined symbol '@language' which is required")
		return false
	}

	second := p.currentTokenAndAdvance()
	third := p.currentTokenAndAdvance()
	if second.Type != TokenColon || third.Type != TokenStringLiteral {
		p.rep.errorAt(&first.Location, "E2006", "invalid usage of the '@language' keyword")
		return false
	}

	if len(third.Data) > 255 {
		p.rep.errorAt(&third.Location, "E2017", "'@language' value exceeds 255 bytes when encoded as UTF-8")
		return false
	}

	p.tree.Language = third.Data
	return true
}

func (p *staticParser) parseLCIDDirective() bool {
	if p.remainingTokens() < 3 {
		loc := p.currentToken().Location
		p.rep.errorAt(&loc, "E2000", "undefined symbol '@lcid' which is required")
		return false
	}

	first := p.currentTokenAndAdvance()
	if !p.isMatchingKeyword(first, keywordLcid) {
		p.rep.errorAt(&first.Location, "E2000", "undefined symbol '@lcid' which is required")
		return false
	}

	second := p.currentTokenAndAdvance()
	third := p.currentTokenAndAdvance()
	if second.Type != TokenColon || third.Type != TokenStringLiteral {
		p.rep.errorAt(&first.Location, "E2006", "invalid usage of the '@lcid' keyword")
		return false
	}

	lcid := parseLCID(third.Data)
	if lcid == lcidInvalid {
		p.rep.errorAt(&third.Location, "E2011", "invalid '@lcid' value")
		return false
	}

	p.tree.LCID = lcid
	return true
}

func (p *staticParser) skipMeta() bool {
	loc := p.currentTokenAndAdvance().Location
	if p.currentTokenAndAdvance().Type != TokenLeftCurly {
		p.rep.errorAt(&loc, "E2003", "missing opening bracket '{' for group '@meta'")
		return false
	}

	maxOff := len(p.stream) - 1
	for *p.off < maxOff {
		t := p.currentTokenAndAdvance()
		if p.isMatchingKeyword(t, keywordContent) {
			break
		} else if t.Type == TokenRightCurly {
			return true
		}
	}

	p.rep.errorAt(&loc, "E2004", "missing closing bracket '}' for group '@meta'")
	return false
}

func (p *staticParser) validateContent() bool {
	if p.remainingTokens() < 3 {
		loc := p.currentToken().Location
		p.rep.errorAt(&loc, "E2000", "undefined symbol '@content' which is required")
		return false
	}

	first := p.currentTokenAndAdvance()
	if !p.isMatchingKeyword(first, keywordContent) {
		p.rep.errorAt(&first.Location, "E2000", "undefined symbol '@content' which is required")
		return false
	}

	if p.currentTokenAndAdvance().Type != TokenLeftCurly {
		p.rep.errorAt(&first.Location, "E2003", "missing opening bracket '{' for group '@content'")
		return false
	}

	if p.stream[len(p.stream)-2].Type != TokenRightCurly {
		p.rep.errorAt(&first.Location, "E2004", "missing closing bracket '}' for group '@content'")
		return false
	}

	return true
}

func (p *staticParser) parse() bool {
	if !p.parseLanguage() || !p.parseLCIDDirective() {
		return false
	}

	if p.remainingTokens() < 2 {
		t := p.currentToken()
		if t.Type != TokenLeftCurly {
			p.rep.errorAt(&t.Location, "E2001", "missing opening bracket '{' for the global section")
		} else {
			loc := p.stream[len(p.stream)-1].Location
			p.rep.errorAt(&loc, "E2002", "missing closing bracket '}' for the global section")
		}
		return false
	}

	if t := p.currentTokenAndAdvance(); t.Type != TokenLeftCurly {
		p.rep.errorAt(&t.Location, "E2001", "missing opening bracket '{' for the global section")
		return false
	}

	if t := p.stream[len(p.stream)-1]; t.Type != TokenRightCurly {
		p.rep.errorAt(&t.Location, "E2002", "missing closing bracket '}' for the global section")
		return false
	}

	if p.remainingTokens() > 0 && p.isMatchingKeyword(p.currentToken(), keywordMeta) {
		if !p.skipMeta() {
			return false
		}
	}

	return p.validateContent()
}

// dynamicParser walks the token stream after the static envelope, recursively building the
// message tree. Grounded on _Dynamic_parser in parser.cpp.
type dynamicParser struct {
	parserBase
	opts *Options
}

func (p *dynamicParser) parseGroup(node groupNode, loc TokenLocation) bool {
	if p.remainingTokens() < 4 {
		p.rep.errorAt(&loc, "E2006", "invalid usage of the '@group' keyword")
		return false
	}

	if p.currentTokenAndAdvance().Type != TokenColon {
		p.rep.errorAt(&loc, "E2006", "invalid usage of the '@group' keyword")
		return false
	}

	first := p.currentTokenAndAdvance()
	if first.Type != TokenStringLiteral {
		p.rep.errorAt(&loc, "E2006", "invalid usage of the '@group' keyword")
		return false
	}

	if !isValidGroupName(first.Data) {
		p.rep.errorAt(&first.Location, "E2009", "illegal group name '%s'", first.Data)
		return false
	}

	if p.currentTokenAndAdvance().Type != TokenLeftCurly {
		p.rep.errorAt(&loc, "E2003", "missing opening bracket '{' for group '%s'", first.Data)
		return false
	}

	if !node.appendGroup(first.Data) {
		p.rep.errorAt(&first.Location, "E2007", "ambiguous group name, '%s' is already defined", first.Data)
		return false
	}

	maxOff := len(p.stream) - 2
	for *p.off < maxOff {
		t := p.currentToken()
		switch t.Type {
		case TokenKeyword:
			if parseKeyword(t.Data) != keywordGroup {
				p.rep.errorAt(&t.Location, "E2006", "invalid usage of the '%s' keyword", t.Data)
				return false
			}
			*p.off++
			if !p.parseGroup(node.lastGroup(), t.Location) {
				return false
			}
		case TokenIdentifier:
			if !p.parseMessage(node.lastGroup()) {
				return false
			}
		case TokenRightCurly:
			if node.lastGroupEmpty() {
				if p.opts.Model == ErrorModelStrict {
					p.rep.errorAt(&loc, "E2015", "group '%s' has no members", first.Data)
					return false
				}
				p.rep.warnAt(&loc, "W2002", "group '%s' has no members", first.Data)
			}
			*p.off++
			return true
		default:
			p.rep.errorAt(&t.Location, "E2012", "unexpected token '%s'", t.Data)
			return false
		}
	}

	p.rep.errorAt(&loc, "E2004", "missing closing bracket '}' for group '%s'", first.Data)
	return false
}

func (p *dynamicParser) parseMessage(node groupNode) bool {
	if p.remainingTokens() < 3 {
		t := p.currentToken()
		p.rep.errorAt(&t.Location, "E2005", "incomplete message '%s'", t.Data)
		return false
	}

	first := p.currentTokenAndAdvance()
	if !isValidIdentifierName(first.Data) {
		p.rep.errorAt(&first.Location, "E2010", "illegal identifier name '%s'", first.Data)
		return false
	}

	second := p.currentTokenAndAdvance()
	third := p.currentTokenAndAdvance()
	if second.Type != TokenColon || third.Type != TokenStringLiteral {
		p.rep.errorAt(&first.Location, "E2005", "incomplete message '%s'", first.Data)
		return false
	}

	// Multi-line messages are consecutive string literals, each one more line of the value.
	maxOff := len(p.stream) - 2
	value := third.Data
	for *p.off < maxOff {
		t := p.currentToken()
		if t.Type != TokenStringLiteral {
			break
		}
		value += "\n" + t.Data
		*p.off++
	}

	empty := value == ""
	if empty {
		if p.opts.Model == ErrorModelStrict {
			p.rep.errorAt(&third.Location, "E2014", "message '%s' has an empty value", first.Data)
			return false
		}
		p.rep.warnAt(&third.Location, "W2001", "message '%s' has an empty value", first.Data)
		if p.opts.DiscardEmptyMessages {
			return true
		}
	}

	if !node.appendMessage(first.Data, value) {
		p.rep.errorAt(&first.Location, "E2008", "ambiguous identifier name, '%s' is already defined", first.Data)
		return false
	}

	return true
}

func (p *dynamicParser) parse() bool {
	maxOff := len(p.stream) - 2
	root := rootNode(&p.tree.Content)
	for *p.off < maxOff {
		t := p.currentToken()
		switch t.Type {
		case TokenKeyword:
			if parseKeyword(t.Data) != keywordGroup {
				p.rep.errorAt(&t.Location, "E2006", "invalid usage of the '%s' keyword", t.Data)
				return false
			}
			*p.off++
			if !p.parseGroup(root, t.Location) {
				return false
			}
		case TokenIdentifier:
			if !p.parseMessage(root) {
				return false
			}
		default:
			p.rep.errorAt(&t.Location, "E2012", "unexpected token '%s'", t.Data)
			return false
		}
	}
	return true
}

// ParseTokenStream runs the static then dynamic parser over stream, producing a ParseTree.
// Grounded on parse_token_stream in parser.cpp.
func ParseTokenStream(stream TokenStream, pack string, opts *Options, rep *reporter, logger Logger) (ParseTree, bool) {
	logger.Infof(pack, "> starting parse")
	start := time.Now()

	if len(stream) == 0 {
		logger.Infof(pack, "> completed parse (took %.5fs)", time.Since(start).Seconds())
		return ParseTree{}, true
	}

	var tree ParseTree
	off := 0

	static := &staticParser{parserBase{&off, &tree, stream, rep}}
	if !static.parse() {
		return ParseTree{}, false
	}

	dynamic := &dynamicParser{parserBase{&off, &tree, stream, rep}, opts}
	if !dynamic.parse() {
		return ParseTree{}, false
	}

	if len(tree.Content.Messages) == 0 && len(tree.Content.Groups) == 0 {
		if opts.Model == ErrorModelStrict {
			rep.errorAt(nil, "E2013", "pack '%s' has no messages or groups", pack)
			return ParseTree{}, false
		}
		rep.warnAt(nil, "W2000", "pack '%s' has no messages or groups", pack)
	}

	logger.Infof(pack, "> completed parse (took %.5fs)", time.Since(start).Seconds())
	return tree, true
}
