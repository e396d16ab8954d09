package diag

import (
	"sort"
	"sync"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a limit. Safe for concurrent Add.
// Diagnostics past the limit are not stored but still counted by severity.
type Bag struct {
	mu      sync.Mutex
	items   []Diagnostic
	max     uint16
	dropped map[Severity]int
}

func NewBag(max int) *Bag {
	capped, err := safecast.Conv[uint16](max)
	if err != nil {
		capped = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(capped), 64)),
		max:   capped,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= int(b.max) {
		b.drop(d.Severity, 1)
		return false
	}
	b.items = append(b.items, d)
	return true
}

// drop вызывается под b.mu.
func (b *Bag) drop(sev Severity, n int) {
	if n <= 0 {
		return
	}
	if b.dropped == nil {
		b.dropped = make(map[Severity]int, 3)
	}
	b.dropped[sev] += n
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.dropped {
		n += c
	}
	return n
}

// Count returns the number of diagnostics of severity sev, dropped ones included.
func (b *Bag) Count(sev Severity) int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.dropped[sev]
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.droppedAtLeast(SevError) {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.droppedAtLeast(SevWarning) {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) droppedAtLeast(sev Severity) bool {
	for s, n := range b.dropped {
		if s >= sev && n > 0 {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// Не вызывать одновременно с Add.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag, расширяя лимит при необходимости.
func (b *Bag) Merge(other *Bag) {
	if other == nil || other == b {
		return
	}
	other.mu.Lock()
	incoming := append([]Diagnostic(nil), other.items...)
	carried := make(map[Severity]int, len(other.dropped))
	for sev, n := range other.dropped {
		carried[sev] = n
	}
	other.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	for sev, n := range carried {
		b.drop(sev, n)
	}
	if total := len(b.items) + len(incoming); total > int(b.max) {
		if capped, err := safecast.Conv[uint16](total); err == nil {
			b.max = capped
		} else {
			b.max = ^uint16(0)
		}
	}
	room := int(b.max) - len(b.items)
	if len(incoming) > room {
		for _, d := range incoming[room:] {
			b.drop(d.Severity, 1)
		}
		incoming = incoming[:room]
	}
	b.items = append(b.items, incoming...)
}

// Sort сортирует диагностики по: unit, expr, node, severity (desc), code (asc).
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Unit != dj.Primary.Unit {
			return di.Primary.Unit < dj.Primary.Unit
		}
		if di.Primary.Expr != dj.Primary.Expr {
			return di.Primary.Expr < dj.Primary.Expr
		}
		if di.Primary.Node != dj.Primary.Node {
			return di.Primary.Node < dj.Primary.Node
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	type key struct {
		code   Code
		origin Origin
		msg    string
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[key]bool, len(b.items))
	kept := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		k := key{d.Code, d.Primary, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, d)
	}
	b.items = kept
}
