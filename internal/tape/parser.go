package tape

import (
	"fmt"
	"strings"
	"time"
)

type argKind int

const (
	argNumber argKind = iota
	argString
	argDuration
	argDirection
	argName
	argButton
)

func (k argKind) String() string {
	switch k {
	case argNumber:
		return "a number"
	case argString:
		return "a string"
	case argDuration:
		return "a duration"
	case argDirection:
		return "Left, Right, Up or Down"
	case argName:
		return "an action name"
	default:
		return "Right"
	}
}

func (k argKind) accepts(tok Token) bool {
	switch k {
	case argNumber:
		return tok.Type == TOKEN_NUMBER && !strings.Contains(tok.Literal, ".")
	case argString:
		return tok.Type == TOKEN_STRING
	case argDuration:
		return tok.Type == TOKEN_DURATION
	case argDirection:
		return tok.Type.IsDirection()
	case argName:
		return tok.Type == TOKEN_IDENTIFIER || tok.Type == TOKEN_STRING
	default:
		return tok.Type == TOKEN_RIGHT_ARG
	}
}

// syntax lists the required then optional arguments of a command.
type syntax struct {
	typ      CommandType
	required []argKind
	optional []argKind
}

var repeatable = []argKind{argNumber}

var syntaxes = map[TokenType]syntax{
	TOKEN_SLEEP: {typ: CommandType_Sleep, required: []argKind{argDuration}},
	TOKEN_KEY:   {typ: CommandType_Key, required: []argKind{argString}},

	TOKEN_ACTION:          {typ: CommandType_Action, required: []argKind{argName}},
	TOKEN_NEW_WINDOW:      {typ: CommandType_NewWindow, optional: repeatable},
	TOKEN_CLOSE_WINDOW:    {typ: CommandType_CloseWindow, optional: repeatable},
	TOKEN_NEXT_WINDOW:     {typ: CommandType_NextWindow, optional: repeatable},
	TOKEN_MINIMIZE_WINDOW: {typ: CommandType_MinimizeWindow, optional: repeatable},
	TOKEN_RESTORE_WINDOWS: {typ: CommandType_RestoreWindows},
	TOKEN_TOGGLE_TILING:   {typ: CommandType_ToggleTiling},
	TOKEN_TOGGLE_FULLSCRN: {typ: CommandType_ToggleFullscreen},
	TOKEN_FOCUS:           {typ: CommandType_Focus, required: []argKind{argDirection}},
	TOKEN_CYCLE_GAPS:      {typ: CommandType_CycleGaps, optional: repeatable},
	TOKEN_SWITCH_WS:       {typ: CommandType_SwitchWS, required: []argKind{argNumber}},
	TOKEN_MOVE_TO_WS:      {typ: CommandType_MoveToWS, required: []argKind{argNumber}},

	TOKEN_PRESS:   {typ: CommandType_Press, required: []argKind{argNumber, argNumber}, optional: []argKind{argButton}},
	TOKEN_MOVE:    {typ: CommandType_Move, required: []argKind{argNumber, argNumber}},
	TOKEN_RELEASE: {typ: CommandType_Release, optional: []argKind{argNumber, argNumber}},
	TOKEN_DRAG: {
		typ:      CommandType_Drag,
		required: []argKind{argNumber, argNumber, argNumber, argNumber},
		optional: []argKind{argButton},
	},

	TOKEN_OPEN_WINDOW: {typ: CommandType_OpenWindow, required: []argKind{argString}},
	TOKEN_RESIZE:      {typ: CommandType_Resize, required: []argKind{argNumber, argNumber}},
	TOKEN_LAYOUT:      {typ: CommandType_Layout, required: []argKind{argString}},
	TOKEN_EXPECT: {
		typ:      CommandType_Expect,
		required: []argKind{argString, argNumber, argNumber, argNumber, argNumber},
	},
	TOKEN_SCREENSHOT: {typ: CommandType_Screenshot},
	TOKEN_OUTPUT:     {typ: CommandType_Output, required: []argKind{argString}},
}

// Parser turns tokens into commands, collecting errors as it goes.
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser returns a parser reading from l.
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse reads the whole input. Lines with errors are skipped.
func (p *Parser) Parse() []Command {
	var commands []Command
	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		if cmd, ok := p.parseCommand(); ok {
			commands = append(commands, cmd)
		}
		p.skipToNextLine()
	}
	return commands
}

func (p *Parser) parseCommand() (Command, bool) {
	if p.curTok.Type.IsModifier() {
		return p.parseKeyComboCommand()
	}
	syn, ok := syntaxes[p.curTok.Type]
	if !ok {
		p.addError(fmt.Sprintf("unexpected token: %q", p.curTok.Literal))
		return Command{}, false
	}

	cmd := Command{Type: syn.typ, Line: p.curTok.Line}
	name := p.curTok.Literal
	p.nextToken()

	for _, kind := range syn.required {
		if !kind.accepts(p.curTok) {
			p.addError(fmt.Sprintf("%s expects %s, got %q", name, kind, p.curTok.Literal))
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	for _, kind := range syn.optional {
		if p.atLineEnd() {
			break
		}
		if !kind.accepts(p.curTok) {
			p.addError(fmt.Sprintf("%s expects %s, got %q", name, kind, p.curTok.Literal))
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	if !p.atLineEnd() {
		p.addError(fmt.Sprintf("unexpected argument to %s: %q", name, p.curTok.Literal))
		return cmd, false
	}

	if cmd.Type == CommandType_Sleep {
		d, err := time.ParseDuration(cmd.Args[0])
		if err != nil {
			p.addError(fmt.Sprintf("invalid duration: %s", cmd.Args[0]))
			return cmd, false
		}
		cmd.Duration = d
	}
	if cmd.Type == CommandType_Release && len(cmd.Args) == 1 {
		p.addError("Release expects both coordinates")
		return cmd, false
	}
	cmd.Raw = formatRaw(name, cmd.Type, cmd.Args)
	return cmd, true
}

// parseKeyComboCommand parses Ctrl+X, Alt+Shift+3 and the like.
func (p *Parser) parseKeyComboCommand() (Command, bool) {
	cmd := Command{Type: CommandType_KeyCombo, Line: p.curTok.Line}

	var parts []string
	for p.curTok.Type.IsModifier() {
		parts = append(parts, p.curTok.Literal)
		p.nextToken()
		if p.curTok.Type != TOKEN_PLUS {
			p.addError(fmt.Sprintf("expected + after %s", parts[len(parts)-1]))
			return cmd, false
		}
		p.nextToken()
	}

	switch p.curTok.Type {
	case TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_LEFT_ARG, TOKEN_RIGHT_ARG, TOKEN_UP_ARG, TOKEN_DOWN_ARG:
		parts = append(parts, p.curTok.Literal)
		p.nextToken()
	default:
		p.addError(fmt.Sprintf("expected key after modifier, got %q", p.curTok.Literal))
		return cmd, false
	}
	if !p.atLineEnd() {
		p.addError(fmt.Sprintf("unexpected token after key combo: %q", p.curTok.Literal))
		return cmd, false
	}

	combo := strings.Join(parts, "+")
	kc, err := ParseKeyCombo(combo)
	if err != nil {
		p.addError(err.Error())
		return cmd, false
	}
	cmd.Args = []string{kc.String()}
	cmd.Raw = combo
	return cmd, true
}

func (p *Parser) atLineEnd() bool {
	return p.curTok.Type == TOKEN_NEWLINE || p.curTok.Type == TOKEN_EOF
}

func (p *Parser) skipToNextLine() {
	for !p.atLineEnd() {
		p.nextToken()
	}
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the errors collected while parsing.
func (p *Parser) Errors() []string {
	return p.errors
}

// formatRaw renders a command back into tape syntax, quoting strings.
func formatRaw(name string, typ CommandType, args []string) string {
	var sb strings.Builder
	sb.WriteString(name)
	for i, a := range args {
		sb.WriteByte(' ')
		if quoted(typ, i) {
			fmt.Fprintf(&sb, "%q", a)
		} else {
			sb.WriteString(a)
		}
	}
	return sb.String()
}

func quoted(typ CommandType, i int) bool {
	switch typ {
	case CommandType_Key, CommandType_OpenWindow, CommandType_Layout, CommandType_Output:
		return true
	case CommandType_Expect:
		return i == 0
	}
	return false
}

// ParseFile parses tape source, returning its commands and any errors.
func ParseFile(content string) ([]Command, []string) {
	p := NewParser(New(content))
	commands := p.Parse()
	return commands, p.Errors()
}
