package tape

import (
	"strings"
	"unicode"
)

// Lexer splits tape source into tokens.
type Lexer struct {
	input   string
	pos     int
	nextPos int
	ch      byte
	line    int
	column  int
}

// New returns a lexer over input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.nextPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.nextPos]
	}
	l.pos = l.nextPos
	l.nextPos++
	l.column++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readString reads a quoted string, handling the usual backslash escapes.
func (l *Lexer) readString(quote byte) string {
	var sb strings.Builder
	l.readChar()
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 0:
				return sb.String()
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readWhile(ok func(byte) bool) string {
	start := l.pos
	for l.ch != 0 && ok(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token of the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	for l.ch == '#' {
		l.skipComment()
	}

	tok := Token{Line: l.line, Column: l.column}
	switch {
	case l.ch == 0:
		tok.Type = TOKEN_EOF

	case l.ch == '\n':
		tok.Type, tok.Literal = TOKEN_NEWLINE, "\n"
		l.readChar()

	case l.ch == '+':
		tok.Type, tok.Literal = TOKEN_PLUS, "+"
		l.readChar()

	case l.ch == '"' || l.ch == '\'' || l.ch == '`':
		tok.Type, tok.Literal = TOKEN_STRING, l.readString(l.ch)

	case isDigit(l.ch):
		num := l.readWhile(func(c byte) bool { return isDigit(c) || c == '.' })
		if isLetter(l.ch) {
			tok.Type, tok.Literal = TOKEN_DURATION, num+l.readWhile(isLetter)
		} else {
			tok.Type, tok.Literal = TOKEN_NUMBER, num
		}

	case isIdentifierChar(l.ch):
		tok.Literal = l.readWhile(isIdentifierChar)
		tok.Type = LookupKeyword(tok.Literal)

	default:
		tok.Type, tok.Literal = TOKEN_ILLEGAL, string(l.ch)
		l.readChar()
	}
	return tok
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isLetter(ch byte) bool { return unicode.IsLetter(rune(ch)) }

func isIdentifierChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

// Tokenize returns every token of input, ending with TOKEN_EOF.
func Tokenize(input string) []Token {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			return tokens
		}
	}
}
