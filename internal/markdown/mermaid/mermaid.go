// Package mermaid finds ```mermaid fenced blocks and tracks which of them
// are folded.
//
// Folding never edits the document. A folded block is shown as a single
// placeholder line by Render; the text underneath is untouched.
package mermaid

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Placeholder replaces a folded block in rendered output.
const Placeholder = "===> Folded Mermaid Code Block <==="

var (
	beginRe = regexp.MustCompile("^\\s*```mermaid\\s*$")
	endRe   = regexp.MustCompile("^\\s*```\\s*$")

	// blockNamespace scopes block IDs so they never collide with other
	// name-based UUIDs.
	blockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mdenhance:mermaid-block"))
)

// Block is one fenced mermaid block.
type Block struct {
	// ID is derived from the block's content and its occurrence among
	// blocks with the same content, so it survives edits elsewhere.
	ID uuid.UUID
	// FromLine and ToLine are the opening and closing fence lines.
	FromLine int
	ToLine   int
	// Content is the diagram source between the fences.
	Content string
}

// Contains reports whether line falls within the block, fences included.
func (b Block) Contains(line int) bool {
	return line >= b.FromLine && line <= b.ToLine
}

// Scan returns every closed mermaid block in document order. An opening
// fence without a closing one is ignored.
func Scan(lines []string) []Block {
	var blocks []Block
	seen := make(map[string]int)

	for i := 0; i < len(lines); i++ {
		if !beginRe.MatchString(lines[i]) {
			continue
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if endRe.MatchString(lines[j]) {
				end = j
				break
			}
		}
		if end < 0 {
			break
		}

		content := strings.Join(lines[i+1:end], "\n")
		n := seen[content]
		seen[content] = n + 1
		blocks = append(blocks, Block{
			ID:       uuid.NewSHA1(blockNamespace, []byte(strconv.Itoa(n)+"\x00"+content)),
			FromLine: i,
			ToLine:   end,
			Content:  content,
		})
		i = end
	}
	return blocks
}

// BlockAt returns the block containing line.
func BlockAt(blocks []Block, line int) (Block, bool) {
	i := sort.Search(len(blocks), func(i int) bool { return blocks[i].ToLine >= line })
	if i < len(blocks) && blocks[i].Contains(line) {
		return blocks[i], true
	}
	return Block{}, false
}

// Folder remembers folded blocks by ID. It is safe for concurrent use.
type Folder struct {
	mu     sync.Mutex
	folded map[uuid.UUID]struct{}
}

// NewFolder creates a folder with nothing folded.
func NewFolder() *Folder {
	return &Folder{folded: make(map[uuid.UUID]struct{})}
}

// IsFolded reports whether b is folded.
func (f *Folder) IsFolded(b Block) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.folded[b.ID]
	return ok
}

// Fold folds b and reports whether that changed anything.
func (f *Folder) Fold(b Block) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folded[b.ID]; ok {
		return false
	}
	f.folded[b.ID] = struct{}{}
	return true
}

// Unfold unfolds b and reports whether that changed anything.
func (f *Folder) Unfold(b Block) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folded[b.ID]; !ok {
		return false
	}
	delete(f.folded, b.ID)
	return true
}

// Toggle flips b and returns its new state.
func (f *Folder) Toggle(b Block) bool {
	if f.Unfold(b) {
		return false
	}
	return f.Fold(b)
}

// FoldAll folds every block and returns how many changed.
func (f *Folder) FoldAll(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if f.Fold(b) {
			n++
		}
	}
	return n
}

// UnfoldAll unfolds everything and returns how many were folded.
func (f *Folder) UnfoldAll() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.folded)
	f.folded = make(map[uuid.UUID]struct{})
	return n
}

// Prune forgets folds whose blocks are no longer in the document.
func (f *Folder) Prune(blocks []Block) {
	live := make(map[uuid.UUID]struct{}, len(blocks))
	for _, b := range blocks {
		live[b.ID] = struct{}{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.folded {
		if _, ok := live[id]; !ok {
			delete(f.folded, id)
		}
	}
}

// Count returns the number of folded blocks.
func (f *Folder) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.folded)
}

// Render returns lines with every folded block, fences included, replaced
// by one Placeholder line.
func (f *Folder) Render(lines []string) []string {
	blocks := Scan(lines)
	out := make([]string, 0, len(lines))
	next := 0
	for _, b := range blocks {
		if !f.IsFolded(b) {
			continue
		}
		out = append(out, lines[next:b.FromLine]...)
		out = append(out, Placeholder)
		next = b.ToLine + 1
	}
	return append(out, lines[next:]...)
}
