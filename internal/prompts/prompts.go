// Package prompts holds the text/template prompt set used by every completion
// call. Defaults are compiled in; an optional YAML file overrides individual
// keys and is hot-reloaded when it changes.
package prompts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Data is the template input. Unused fields are ignored by a template.
type Data struct {
	Date      string
	DateRange string
	Text      string
	Items     []string
}

// Set is an immutable, compiled prompt set.
type Set struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Compile parses the default templates with overrides applied on top.
func Compile(overrides map[string]string) (*Set, error) {
	s := &Set{templates: make(map[string]*template.Template, len(defaults))}
	for key, text := range defaults {
		if o, ok := overrides[key]; ok && strings.TrimSpace(o) != "" {
			text = o
		}
		t, err := template.New(key).Funcs(funcs).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", key, err)
		}
		s.templates[key] = t
	}
	for key := range overrides {
		if _, ok := defaults[key]; !ok {
			return nil, fmt.Errorf("unknown prompt key %q", key)
		}
	}
	return s, nil
}

// Default returns the compiled built-in set.
func Default() *Set {
	s, err := Compile(nil)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) Render(key string, data Data) (string, error) {
	t, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", key)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", key, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Keys lists the prompt keys in sorted order.
func (s *Set) Keys() []string {
	out := make([]string, 0, len(s.templates))
	for k := range s.templates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Store serves the current Set and swaps it atomically on reload. A failed
// reload keeps the previous set.
type Store struct {
	Path   string
	Logger *zap.Logger

	mu      sync.RWMutex
	current *Set
}

// NewStore loads path (may be empty for defaults only).
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{Path: strings.TrimSpace(path), Logger: logger}
	set, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = set
	return s, nil
}

func (s *Store) Current() *Set {
	if s == nil {
		return Default()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Render renders key against the current set.
func (s *Store) Render(key string, data Data) (string, error) {
	return s.Current().Render(key, data)
}

func (s *Store) Reload() error {
	set, err := s.load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = set
	s.mu.Unlock()
	return nil
}

func (s *Store) load() (*Set, error) {
	if s.Path == "" {
		return Compile(nil)
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read prompts %s: %w", s.Path, err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse prompts %s: %w", s.Path, err)
	}
	return Compile(overrides)
}

// Watch reloads the set whenever the override file is written, until ctx is
// done. The parent directory is watched so editors that replace the file by
// rename are picked up.
func (s *Store) Watch(ctx context.Context) error {
	if s == nil || s.Path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("prompts watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.Path)); err != nil {
		w.Close()
		return fmt.Errorf("prompts watcher add %s: %w", s.Path, err)
	}

	go func() {
		defer w.Close()
		target := filepath.Clean(s.Path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := s.Reload(); err != nil {
					if s.Logger != nil {
						s.Logger.Warn("prompt reload failed, keeping previous set", zap.String("path", s.Path), zap.Error(err))
					}
					continue
				}
				if s.Logger != nil {
					s.Logger.Info("prompts reloaded", zap.String("path", s.Path))
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if s.Logger != nil {
					s.Logger.Warn("prompts watcher error", zap.Error(err))
				}
			}
		}
	}()
	return nil
}
