package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

// Compose renders a title and body as the document shown in the editor.
// The title becomes a leading "# " heading.
func Compose(title, content string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString("\n\n")
	if c := strings.TrimSpace(content); c != "" {
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String()
}

// Parse splits an edited document back into title and body. A document
// without a leading "# " heading has an empty title.
func Parse(doc string) (title, content string) {
	doc = strings.TrimLeft(doc, "\n")
	first, rest, _ := strings.Cut(doc, "\n")
	if t, ok := strings.CutPrefix(strings.TrimRight(first, " \r"), "#"); ok && !strings.HasPrefix(t, "#") {
		return strings.TrimSpace(t), strings.TrimSpace(rest)
	}
	return "", strings.TrimSpace(doc)
}

// Session is one round trip through an external editor on a temp file.
type Session struct {
	path        string
	origTitle   string
	origContent string
}

// NewSession writes the composed document to a temp file.
func NewSession(title, content string) (*Session, error) {
	tmp, err := os.CreateTemp("", "moodjournal-*.md")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	s := &Session{path: tmp.Name(), origTitle: strings.TrimSpace(title), origContent: strings.TrimSpace(content)}
	if _, err := tmp.WriteString(Compose(title, content)); err != nil {
		tmp.Close()
		os.Remove(s.path)
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(s.path)
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	return s, nil
}

// Path is the temp file being edited.
func (s *Session) Path() string { return s.path }

// Command builds the editor process for the session's file.
func (s *Session) Command(editorCmd string) (*exec.Cmd, error) {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty editor command")
	}
	args := append(parts[1:], s.path)
	return exec.Command(parts[0], args...), nil
}

// Result reads the file back. changed is false when the document is empty
// or identical to what was written.
func (s *Session) Result() (title, content string, changed bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", "", false, fmt.Errorf("reading edited file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return s.origTitle, s.origContent, false, nil
	}
	title, content = Parse(string(data))
	if title == s.origTitle && content == s.origContent {
		return title, content, false, nil
	}
	return title, content, true, nil
}

// Cleanup removes the temp file.
func (s *Session) Cleanup() {
	os.Remove(s.path)
}

// Edit opens title and content in an editor attached to the terminal and
// returns the edited values.
func Edit(editorCmd, title, content string) (string, string, bool, error) {
	s, err := NewSession(title, content)
	if err != nil {
		return "", "", false, err
	}
	defer s.Cleanup()

	cmd, err := s.Command(editorCmd)
	if err != nil {
		return "", "", false, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", "", false, fmt.Errorf("editor exited with error: %w", err)
	}
	return s.Result()
}
