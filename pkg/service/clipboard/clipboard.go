package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
)

// System writes to the operating system clipboard
type System struct{}

var _ interfaces.ClipboardWriter = (*System)(nil)

// NewSystem returns a writer for the system clipboard
func NewSystem() *System {
	return &System{}
}

// Available reports whether a system clipboard utility was found
func (s *System) Available() bool {
	return !clipboard.Unsupported
}

// WriteText replaces the clipboard content with text
func (s *System) WriteText(text string) error {
	if clipboard.Unsupported {
		return goerr.New("system clipboard is not supported on this host")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return goerr.Wrap(err, "failed to write clipboard", goerr.V("length", len(text)))
	}
	return nil
}

// Memory keeps the last written text. Used where no system clipboard exists.
type Memory struct {
	mu   sync.Mutex
	text string
}

var _ interfaces.ClipboardWriter = (*Memory)(nil)

// NewMemory returns an in-memory clipboard
func NewMemory() *Memory {
	return &Memory{}
}

// WriteText stores text
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Text returns the last written text
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// New returns the system clipboard when available and the in-memory one
// otherwise
func New() interfaces.ClipboardWriter {
	if s := NewSystem(); s.Available() {
		return s
	}
	return NewMemory()
}
