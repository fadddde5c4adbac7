package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError reports a manifest that does not have the generated shape.
type DecodeError struct {
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("manifest: offset %d: %s", e.Offset, e.Msg)
}

// Decode parses the literal array produced by Encode. It accepts nothing
// beyond that shape: no comments, no expressions.
func Decode(data []byte) (*Manifest, error) {
	d := &decoder{data: bytes.TrimSpace(data)}
	if err := d.expect(header); err != nil {
		return nil, err
	}

	m := New()
	d.skipSpace()
	if d.consume("]") {
		return m, d.finish()
	}
	for {
		key, err := d.key()
		if err != nil {
			return nil, err
		}
		if err := d.expect("=>"); err != nil {
			return nil, err
		}
		folders, err := d.folders()
		if err != nil {
			return nil, err
		}
		m.Set(key, folders...)

		d.skipSpace()
		if d.consume(",") {
			d.skipSpace()
			continue
		}
		if d.consume("]") {
			return m, d.finish()
		}
		return nil, d.errorf("want ',' or ']'")
	}
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) errorf(format string, args ...any) error {
	return &DecodeError{Offset: d.pos, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) consume(s string) bool {
	if bytes.HasPrefix(d.data[d.pos:], []byte(s)) {
		d.pos += len(s)
		return true
	}
	return false
}

func (d *decoder) expect(s string) error {
	d.skipSpace()
	if !d.consume(s) {
		return d.errorf("want %q", s)
	}
	return nil
}

func (d *decoder) finish() error {
	if err := d.expect(";"); err != nil {
		return err
	}
	d.skipSpace()
	if d.pos != len(d.data) {
		return d.errorf("trailing content")
	}
	return nil
}

// key reads a JSON string.
func (d *decoder) key() (string, error) {
	if d.pos >= len(d.data) || d.data[d.pos] != '"' {
		return "", d.errorf("want quoted prefix")
	}
	end := d.pos + 1
	for end < len(d.data) && d.data[end] != '"' {
		if d.data[end] == '\\' {
			end++
		}
		end++
	}
	if end >= len(d.data) {
		return "", d.errorf("unterminated prefix")
	}
	var key string
	if err := json.Unmarshal(d.data[d.pos:end+1], &key); err != nil {
		return "", d.errorf("prefix: %v", err)
	}
	d.pos = end + 1
	return key, nil
}

// folder reads a plain double-quoted string.
func (d *decoder) folder() (string, error) {
	if err := d.expect(`"`); err != nil {
		return "", err
	}
	end := bytes.IndexByte(d.data[d.pos:], '"')
	if end < 0 {
		return "", d.errorf("unterminated folder")
	}
	folder := string(d.data[d.pos : d.pos+end])
	d.pos += end + 1
	return folder, nil
}

func (d *decoder) folders() ([]string, error) {
	d.skipSpace()
	if !d.consume("[") {
		folder, err := d.folder()
		if err != nil {
			return nil, err
		}
		return []string{folder}, nil
	}
	var folders []string
	for {
		folder, err := d.folder()
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
		d.skipSpace()
		if d.consume(",") {
			continue
		}
		if d.consume("]") {
			return folders, nil
		}
		return nil, d.errorf("want ',' or ']' in folder list")
	}
}
