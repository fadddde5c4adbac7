// Package convention maps fully-qualified PHP symbol names to the file names
// the WordPress coding standard expects them to live in, e.g.
// Acme\Sub_Ns\My_Widget -> sub-ns/class-my-widget.php.
package convention

import (
	"os"
	"strings"
)

const (
	// NamespaceSeparator separates the segments of a fully-qualified name.
	NamespaceSeparator = `\`
	// WordSeparator is the character replaced by a dash in file names.
	WordSeparator = "_"
	// DefaultExtension is the source file extension of the host.
	DefaultExtension = ".php"
)

// Kind is the file name prefix of a symbol kind.
type Kind string

const (
	KindClass     Kind = "class"
	KindTrait     Kind = "trait"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
)

// DefaultKinds is the fixed probe order. A class file always wins over a
// trait of the same name.
var DefaultKinds = []Kind{KindClass, KindTrait, KindInterface, KindEnum}

// Convention describes how candidate paths are derived.
type Convention struct {
	// Kinds is the ordered list of file name prefixes to try.
	Kinds []Kind
	// Extension is appended to every candidate, including the dot.
	Extension string
}

// Default is the convention used by CandidatePaths.
var Default = Convention{
	Kinds:     DefaultKinds,
	Extension: DefaultExtension,
}

// CandidatePaths returns the ordered candidate files for symbol under root
// using the default convention.
func CandidatePaths(symbol, prefix, root string) []string {
	return Default.CandidatePaths(symbol, prefix, root)
}

// CandidatePaths strips prefix from symbol and returns one candidate per
// kind, in kind order. It does not touch the filesystem. An empty local
// name yields no candidates.
func (c Convention) CandidatePaths(symbol, prefix, root string) []string {
	rest := strings.TrimPrefix(TrimSeparators(symbol), TrimSeparators(prefix))
	rest = strings.TrimPrefix(rest, NamespaceSeparator)

	segments := strings.Split(rest, NamespaceSeparator)
	local := Kebab(segments[len(segments)-1])
	if local == "" {
		return nil
	}

	var base strings.Builder
	for _, segment := range segments[:len(segments)-1] {
		if segment == "" {
			continue
		}
		base.WriteString(Kebab(segment))
		base.WriteRune(os.PathSeparator)
	}

	dir := NormalizeRoot(root) + base.String()
	paths := make([]string, 0, len(c.Kinds))
	for _, kind := range c.Kinds {
		paths = append(paths, dir+string(kind)+"-"+local+c.Extension)
	}
	return paths
}

// Kebab lower-cases name and replaces word separators with dashes.
func Kebab(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, WordSeparator, "-"))
}

// TrimSeparators removes leading and trailing namespace separators.
func TrimSeparators(name string) string {
	return strings.Trim(name, NamespaceSeparator)
}

// NormalizeRoot ensures root ends with exactly one path separator. An empty
// root stays empty so that candidates are relative to the working directory.
func NormalizeRoot(root string) string {
	if root == "" {
		return ""
	}
	sep := string(os.PathSeparator)
	trimmed := strings.TrimRight(root, sep+"/")
	if trimmed == "" {
		return sep
	}
	return trimmed + sep
}
