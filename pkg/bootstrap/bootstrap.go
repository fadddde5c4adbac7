// Package bootstrap patches composer's generated vendor/autoload.php so that
// it also requires the generated wp-autoload loader file.
package bootstrap

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quadlayers/wp-autoload/pkg/lockfile"
)

const (
	phpOpenTag = "<?php"
	marker     = "QuadLayers WP Autoload injected by quadlayers/wp-autoload"
)

// returnLine is the single expected injection target: the bootstrap's
// top-level return statement.
var returnLine = regexp.MustCompile(`(?m)^return (.*);\r?$`)

// WriteFailureError reports a bootstrap write that did not take effect.
type WriteFailureError = lockfile.WriteFailureError

// PatchTargetNotFoundError reports a bootstrap file without a top-level
// return statement.
type PatchTargetNotFoundError struct {
	Filename string
}

func (e *PatchTargetNotFoundError) Error() string {
	return e.Filename + ": error finding proper place to inject autoloader"
}

// Transform returns content with a require of loaderFilename spliced in
// front of the first top-level return. Content that already requires
// loaderFilename is returned unchanged.
func Transform(content, loaderFilename string) (string, bool) {
	require := requireLine(loaderFilename)
	if strings.Contains(content, require) {
		return content, true
	}

	body := strings.TrimLeft(strings.TrimPrefix(strings.TrimLeft(content, " \t\r\n"), phpOpenTag), " \t\r\n")
	loc := returnLine.FindStringSubmatchIndex(body)
	if loc == nil {
		return "", false
	}
	expr := body[loc[2]:loc[3]]

	var b strings.Builder
	b.WriteString(phpOpenTag + "\n\n")
	b.WriteString(body[:loc[0]])
	fmt.Fprintf(&b, "$loader = %s;\n\n", expr)
	b.WriteString("/*\n  " + marker + "\n*/\n")
	b.WriteString(require + "\n\n")
	b.WriteString("return $loader;")
	b.WriteString(body[loc[1]:])
	return b.String(), true
}

func requireLine(loaderFilename string) string {
	return fmt.Sprintf("require_once __DIR__ . '/%s';", loaderFilename)
}

// Option configures an Injector.
type Option func(*Injector) *Injector

func WithLogger(logger zerolog.Logger) Option {
	return func(i *Injector) *Injector {
		i.logger = logger
		return i
	}
}

// Injector rewrites bootstrap files in place.
type Injector struct {
	logger zerolog.Logger
}

// NewInjector constructs an Injector.
func NewInjector(options ...Option) *Injector {
	i := &Injector{logger: zerolog.Nop()}
	for _, opt := range options {
		i = opt(i)
	}
	return i
}

// Inject patches the bootstrap file at filename to require loaderFilename,
// a path relative to the bootstrap's directory. The file is only rewritten
// when its content changes. It reports whether a write happened.
func (i *Injector) Inject(filename, loaderFilename string) (bool, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return false, err
	}

	content, ok := Transform(string(data), loaderFilename)
	if !ok {
		return false, &PatchTargetNotFoundError{Filename: filename}
	}

	written, err := lockfile.WriteFileIfModified(filename, []byte(content), info.Mode().Perm())
	if err != nil {
		return false, err
	}
	i.logger.Debug().Str("file", filename).Bool("written", written).Msg("injected")
	return written, nil
}

// Delete removes the generated loader file. The bootstrap file is left as
// is; composer regenerates it on the next dump. It reports whether the
// loader existed.
func (i *Injector) Delete(loaderPath string) (bool, error) {
	existed, err := lockfile.Remove(loaderPath)
	if err != nil {
		return false, err
	}
	i.logger.Debug().Str("file", loaderPath).Bool("existed", existed).Msg("deleted")
	return existed, nil
}
