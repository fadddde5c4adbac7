package composer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotRequiredByRoot is returned by Validate when the root package does not
// require wp-autoload itself. Generation is skipped in that case so that a
// transitive install does not produce unused files.
var ErrNotRequiredByRoot = errors.New("wp-autoload is not required by the root package")

// ValidationError is a project configuration problem reported to the
// operator.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Validate checks p against the project rooted at rootDir.
func Validate(p *Project, rootDir string) error {
	if len(p.RequireDev) == 0 {
		return invalid("The package should be required in dev.")
	}
	if !p.RequiresDev(PackageName) {
		return ErrNotRequiredByRoot
	}

	if p.VendorDir != DefaultVendorDir {
		return invalid("The project's composer.json or composer environment set a non-default vendor directory. The default composer vendor directory must be used.")
	}

	if !p.HasClassmap {
		return invalid(`The "classmap" autoload is required to generate optimized autoload.`)
	}
	if len(p.Classmap) == 0 {
		return invalid(`The "classmap" autoload must be a valid array with folder.`)
	}

	if !p.HasNamespaces {
		return invalid(`The %q must be defined.`, PackageName)
	}
	if p.NamespacesNotObject || len(p.Namespaces) == 0 {
		return invalid(`The %q must be a valid object with namespace and folder.`, PackageName)
	}

	for _, ns := range p.Namespaces {
		if strings.Trim(ns.Prefix, `\`) == "" {
			return invalid(`The %q namespace must not be empty.`, ns.Prefix)
		}
		if len(ns.Folders) == 0 {
			return invalid(`The %q namespace must declare at least one folder.`, ns.Prefix)
		}
		for _, folder := range ns.Folders {
			if err := validateFolder(p, rootDir, folder); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateFolder(p *Project, rootDir, folder string) error {
	if folder == "" {
		return invalid(`Could not scan for classes inside "" which does not appear to be a file nor a folder.`)
	}
	if IsWildcard(folder) {
		if !doublestar.ValidatePattern(strings.TrimRight(folder, "/")) {
			return invalid(`The %q folder is not a valid wildcard pattern.`, folder)
		}
	} else if info, err := os.Stat(filepath.Join(rootDir, folder)); err != nil || !info.IsDir() {
		return invalid(`Could not scan for classes inside %q which does not appear to be a file nor a folder.`, folder)
	}
	if !inClassmap(p.Classmap, folder) {
		return invalid(`The %q folder is not defined in the "classmap" autoload.`, folder)
	}
	return nil
}

// IsWildcard reports whether folder is a glob pattern.
func IsWildcard(folder string) bool {
	return strings.Contains(folder, "*")
}

// inClassmap reports whether folder is listed in classmap, literally or via a
// classmap pattern.
func inClassmap(classmap []string, folder string) bool {
	for _, entry := range classmap {
		if entry == folder {
			return true
		}
		if IsWildcard(entry) {
			if ok, _ := doublestar.Match(strings.TrimRight(entry, "/"), strings.TrimRight(folder, "/")); ok {
				return true
			}
		}
	}
	return false
}

// ExpandFolder resolves folder against rootDir. A plain folder yields its
// joined path; a wildcard folder yields every matching directory, sorted.
func ExpandFolder(rootDir, folder string) ([]string, error) {
	if !IsWildcard(folder) {
		return []string{filepath.Join(rootDir, folder)}, nil
	}
	pattern := strings.TrimRight(folder, "/")
	matches, err := doublestar.Glob(os.DirFS(rootDir), pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", folder, err)
	}
	var dirs []string
	for _, match := range matches {
		abs := filepath.Join(rootDir, filepath.FromSlash(match))
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dirs = append(dirs, abs)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
