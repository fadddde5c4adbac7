// Package composer reads the parts of a composer.json project file that
// drive wp-autoload generation.
package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

const (
	// PackageName is the composer package name of wp-autoload, also the key
	// of its configuration under "extra".
	PackageName = "quadlayers/wp-autoload"
	// DefaultVendorDir is composer's default vendor directory.
	DefaultVendorDir = "vendor"
	// Filename is the project file name.
	Filename = "composer.json"
)

// Namespace is one prefix => folders declaration.
type Namespace struct {
	Prefix  string
	Folders []string
}

// Project is the subset of composer.json used by wp-autoload.
type Project struct {
	// Classmap is autoload.classmap; nil when the key is absent.
	Classmap []string
	// HasClassmap reports whether autoload.classmap was present.
	HasClassmap bool
	// RequireDev lists the package names of require-dev.
	RequireDev []string
	// VendorDir is config.vendor-dir, DefaultVendorDir when absent.
	VendorDir string
	// Namespaces is extra["quadlayers/wp-autoload"] in declaration order.
	Namespaces []Namespace
	// HasNamespaces reports whether the extra key was present.
	HasNamespaces bool
	// NamespacesNotObject reports an extra key that is not an object.
	NamespacesNotObject bool
}

type projectFile struct {
	Autoload struct {
		Classmap json.RawMessage `json:"classmap"`
	} `json:"autoload"`
	RequireDev map[string]string          `json:"require-dev"`
	Extra      map[string]json.RawMessage `json:"extra"`
	Config     struct {
		VendorDir string `json:"vendor-dir"`
	} `json:"config"`
}

// ReadFile reads and parses a composer.json file.
func ReadFile(filename string) (*Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// Parse parses composer.json content.
func Parse(data []byte) (*Project, error) {
	var f projectFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	p := &Project{VendorDir: f.Config.VendorDir}
	if p.VendorDir == "" {
		p.VendorDir = DefaultVendorDir
	}
	for name := range f.RequireDev {
		p.RequireDev = append(p.RequireDev, name)
	}
	sort.Strings(p.RequireDev)

	if raw := f.Autoload.Classmap; len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		p.HasClassmap = true
		// a non-list classmap is reported by Validate as an empty one
		_ = json.Unmarshal(raw, &p.Classmap)
	}

	if raw, ok := f.Extra[PackageName]; ok {
		p.HasNamespaces = true
		namespaces, err := parseNamespaces(raw)
		if errors.Is(err, errNotObject) {
			p.NamespacesNotObject = true
		} else if err != nil {
			return nil, fmt.Errorf("extra.%s: %w", PackageName, err)
		}
		p.Namespaces = namespaces
	}
	return p, nil
}

// RequiresDev reports whether name is listed in require-dev.
func (p *Project) RequiresDev(name string) bool {
	for _, n := range p.RequireDev {
		if n == name {
			return true
		}
	}
	return false
}

var errNotObject = errors.New("not an object")

// parseNamespaces decodes an object of prefix => folder | [folder...],
// preserving key order.
func parseNamespaces(raw json.RawMessage) ([]Namespace, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var namespaces []Namespace
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		prefix := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		folders, err := parseFolders(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", prefix, err)
		}

		// last write wins, first position kept
		if i, ok := index[prefix]; ok {
			namespaces[i].Folders = folders
			continue
		}
		index[prefix] = len(namespaces)
		namespaces = append(namespaces, Namespace{Prefix: prefix, Folders: folders})
	}
	return namespaces, nil
}

func parseFolders(raw json.RawMessage) ([]string, error) {
	var folder string
	if err := json.Unmarshal(raw, &folder); err == nil {
		return []string{folder}, nil
	}
	var folders []string
	if err := json.Unmarshal(raw, &folders); err != nil {
		return nil, fmt.Errorf("want a folder or a list of folders")
	}
	return folders, nil
}
