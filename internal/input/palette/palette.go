package palette

import (
	"sort"
	"sync"
)

// recencyBonus is the most a recently used command can gain.
const recencyBonus = 100

// Palette is the searchable command catalogue.
type Palette struct {
	mu       sync.RWMutex
	commands map[string]*Command
	history  *History
	filter   *Filter
}

// New creates an empty palette.
func New() *Palette {
	return &Palette{
		commands: make(map[string]*Command),
		history:  NewHistory(recencyBonus),
		filter:   NewFilter(),
	}
}

// Register adds cmd, replacing any entry with the same ID.
func (p *Palette) Register(cmd *Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.commands[cmd.ID] = cmd
	p.mu.Unlock()
	return nil
}

// RegisterAll adds every command, stopping at the first invalid one.
func (p *Palette) RegisterAll(cmds ...*Command) error {
	for _, cmd := range cmds {
		if err := p.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the entry for id, or nil.
func (p *Palette) Get(id string) *Command {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.commands[id]
}

// Count returns the number of entries.
func (p *Palette) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.commands)
}

// All returns every entry ordered by category, then title.
func (p *Palette) All() []*Command {
	cmds := p.snapshot()
	sort.Slice(cmds, func(i, j int) bool {
		if cmds[i].Category != cmds[j].Category {
			return cmds[i].Category < cmds[j].Category
		}
		return cmds[i].Title < cmds[j].Title
	})
	return cmds
}

// Record notes a successful execution of id for recency ranking.
func (p *Palette) Record(id string) {
	p.history.Add(id)
}

// History returns the execution history.
func (p *Palette) History() *History {
	return p.history
}

// Search ranks entries against query. An empty query lists recent
// commands first, then the rest alphabetically.
func (p *Palette) Search(query string, limit int) []SearchResult {
	results := p.filter.Search(p.snapshot(), query, 0)
	for i := range results {
		if pos := p.history.Position(results[i].Command.ID); pos >= 0 {
			results[i].Score += recencyBonus - pos
		}
	}
	sortResults(results)
	return truncate(results, limit)
}

func (p *Palette) snapshot() []*Command {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cmds := make([]*Command, 0, len(p.commands))
	for _, cmd := range p.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}
