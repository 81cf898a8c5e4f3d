package repl

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// historyEntry is a single history line with the mode it was entered in.
type historyEntry struct {
	line string
	mode inputMode
}

// prefixFor returns the file prefix marking an entry's mode.
func prefixFor(mode inputMode) string {
	if mode == modeCtrl {
		return "c:"
	}

	return "x:"
}

// History manages input history with file persistence. Entries keep the
// mode they were submitted in so navigation can restore it.
type History struct {
	path    string
	entries []historyEntry
	mu      sync.RWMutex
}

// NewHistory creates a History persisted at the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is not
// an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		mode := modeExpr

		if s, ok := strings.CutPrefix(line, "c:"); ok {
			mode, line = modeCtrl, s
		} else if s, ok := strings.CutPrefix(line, "x:"); ok {
			line = s
		}

		h.entries = append(h.entries, historyEntry{line: line, mode: mode})
	}

	return scanner.Err()
}

// Add appends a new entry with the given mode. A duplicate of the last
// entry is skipped; an earlier duplicate is moved to the end.
func (h *History) Add(entry string, mode inputMode) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) > 0 {
		last := h.entries[len(h.entries)-1]
		if last.line == entry && last.mode == mode {
			return len(entry), nil
		}
	}

	moved := false

	for i, e := range h.entries {
		if e.line == entry && e.mode == mode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			moved = true

			break
		}
	}

	h.entries = append(h.entries, historyEntry{line: entry, mode: mode})

	if moved {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(prefixFor(mode) + entry + "\n")
}

// Entry retrieves a historic entry by index. Index 0 is the oldest.
func (h *History) Entry(i int) (line string, mode inputMode, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", modeExpr, ErrOutOfBounds
	}

	return h.entries[i].line, h.entries[i].mode, nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	total := 0

	for _, e := range h.entries {
		n, err := file.WriteString(prefixFor(e.mode) + e.line + "\n")
		if err != nil {
			return total, err
		}

		total += n
	}

	return total, nil
}
