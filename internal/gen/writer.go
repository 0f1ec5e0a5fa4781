package gen

// Writer accumulates emitted output and provides helpers for canonical
// indentation. It tracks the current 1-based line number so the emitter can
// record term origins.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
	line        uint32
}

// NewWriter creates a writer for one artifact.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 256),
		atLineStart: true,
		line:        1,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Line returns the 1-based line number the next write lands on.
func (w *Writer) Line() uint32 {
	return w.line
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		spaceCount := w.indentLevel * w.opt.IndentWidth
		for range spaceCount {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			w.line++
		}
	}
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Newline writes a newline if the output doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) == 0 || w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
		w.line++
	}
	w.atLineStart = true
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
