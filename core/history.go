package core

import "strings"

const defaultHistoryMax = 200

// historyRing keeps recent submitted lines with a browse cursor. Blank and
// immediately repeated entries are not recorded.
type historyRing struct {
	entries []string
	max     int
	// pos is the browse position; len(entries) means not browsing.
	pos int
}

// NewHistory returns a History keeping at most max entries.
func NewHistory(max int) History {
	if max <= 0 {
		max = defaultHistoryMax
	}
	return &historyRing{max: max}
}

func (h *historyRing) Append(entry string) bool {
	if strings.TrimSpace(entry) == "" {
		return false
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		h.pos = len(h.entries)
		return false
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.pos = len(h.entries)
	return true
}

func (h *historyRing) Prev() (string, bool) {
	if h.pos == 0 || len(h.entries) == 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

func (h *historyRing) Next() (string, bool) {
	if h.pos >= len(h.entries)-1 {
		h.pos = len(h.entries)
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

func (h *historyRing) Reset() {
	h.pos = len(h.entries)
}

func (h *historyRing) Entries() []string {
	return append([]string(nil), h.entries...)
}
