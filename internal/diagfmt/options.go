package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Width     int // максимальная ширина сообщения в колонках, 0 - не ограничено
	ShowNotes bool
	Summary   bool // trailing "N errors, M warnings" line
	Max       int  // 0 - без ограничения
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
