// Package manifest reads and writes the generated namespace manifest: a PHP
// file whose only statement returns a literal prefix => folder array, so the
// runtime can include it instead of re-reading composer.json.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/quadlayers/wp-autoload/pkg/lockfile"
)

const (
	// Filename is the default manifest file name.
	Filename = "namespaces.php"

	header = "<?php return ["
	footer = "];"
)

// Entry is one prefix => folders mapping.
type Entry struct {
	Prefix  string
	Folders []string
}

// Manifest is an ordered prefix => folders mapping.
type Manifest struct {
	entries []Entry
}

// New constructs an empty manifest.
func New() *Manifest {
	return &Manifest{}
}

// Set assigns folders to prefix. Re-assigning a prefix keeps its original
// position and replaces its folders.
func (m *Manifest) Set(prefix string, folders ...string) {
	for i := range m.entries {
		if m.entries[i].Prefix == prefix {
			m.entries[i].Folders = folders
			return
		}
	}
	m.entries = append(m.entries, Entry{Prefix: prefix, Folders: folders})
}

// Get returns the folders of prefix.
func (m *Manifest) Get(prefix string) ([]string, bool) {
	for _, e := range m.entries {
		if e.Prefix == prefix {
			return e.Folders, true
		}
	}
	return nil, false
}

// Entries returns the entries in insertion order.
func (m *Manifest) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Len returns the number of prefixes.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Encode renders the manifest as PHP source. Keys are JSON-escaped, folders
// are plain double-quoted strings; a prefix with several folders renders as
// a list literal.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	for i, e := range m.entries {
		key, err := encodeKey(e.Prefix)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString(key)
		buf.WriteString("=>")
		switch len(e.Folders) {
		case 0:
			return nil, fmt.Errorf("manifest: prefix %q has no folder", e.Prefix)
		case 1:
			if err := writeFolder(&buf, e.Folders[0]); err != nil {
				return nil, err
			}
		default:
			buf.WriteString("[")
			for j, folder := range e.Folders {
				if j > 0 {
					buf.WriteString(",")
				}
				if err := writeFolder(&buf, folder); err != nil {
					return nil, err
				}
			}
			buf.WriteString("]")
		}
	}
	buf.WriteString(footer)
	return buf.Bytes(), nil
}

// Write encodes m to filename under an exclusive lock, creating the parent
// directory if absent.
func Write(m *Manifest, filename string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return lockfile.WriteFile(filename, data, 0o644)
}

// Read loads a manifest previously produced by Write.
func Read(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// Delete removes the manifest file. A missing file is not an error.
func Delete(filename string) error {
	_, err := lockfile.Remove(filename)
	return err
}

func encodeKey(prefix string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(prefix); err != nil {
		return "", err
	}
	// PHP json_encode also escapes forward slashes
	return strings.ReplaceAll(strings.TrimSuffix(buf.String(), "\n"), "/", `\/`), nil
}

func writeFolder(buf *bytes.Buffer, folder string) error {
	if strings.ContainsAny(folder, "\"\\$\n") {
		return fmt.Errorf("manifest: folder %q cannot be written as a plain string", folder)
	}
	buf.WriteByte('"')
	buf.WriteString(folder)
	buf.WriteByte('"')
	return nil
}
