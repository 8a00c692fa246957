package tape

// Player steps through a list of commands.
type Player struct {
	commands []Command
	index    int
	finished bool
}

// NewPlayer returns a player positioned at the first command.
func NewPlayer(commands []Command) *Player {
	return &Player{commands: commands, finished: len(commands) == 0}
}

// NextCommand returns the command to run next, or nil when done.
func (p *Player) NextCommand() *Command {
	if p.index >= len(p.commands) {
		return nil
	}
	return &p.commands[p.index]
}

// Advance moves past the current command.
func (p *Player) Advance() {
	if p.index < len(p.commands) {
		p.index++
	}
	if p.index >= len(p.commands) {
		p.finished = true
	}
}

// Stop ends playback early.
func (p *Player) Stop() {
	p.finished = true
}

// IsFinished reports whether playback is over.
func (p *Player) IsFinished() bool {
	return p.finished
}

// CurrentIndex returns the index of the next command.
func (p *Player) CurrentIndex() int {
	return p.index
}

// TotalCommands returns the number of commands.
func (p *Player) TotalCommands() int {
	return len(p.commands)
}

// Progress returns playback progress between 0 and 100.
func (p *Player) Progress() int {
	if len(p.commands) == 0 {
		return 100
	}
	return (p.index * 100) / len(p.commands)
}
