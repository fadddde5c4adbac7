// Package plugin is the build-time entry point: it turns a validated
// composer project into the namespace manifest, the generated loader and the
// patched vendor/autoload.php, and rebuilds resolvers from those artifacts
// at runtime.
package plugin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/quadlayers/wp-autoload/pkg/autoload"
	"github.com/quadlayers/wp-autoload/pkg/bootstrap"
	"github.com/quadlayers/wp-autoload/pkg/composer"
	"github.com/quadlayers/wp-autoload/pkg/manifest"
)

const (
	// BootstrapFilename is composer's generated bootstrap, relative to the
	// vendor directory.
	BootstrapFilename = "autoload.php"
	// ManifestDir holds the manifest, relative to the vendor directory.
	ManifestDir = "wp-autoload"

	injectedMessage = "QuadLayers WP Autoload injected into vendor/autoload.php."
	removedMessage  = "QuadLayers WP Autoload removed."
)

// Option configures a Plugin.
type Option func(*Plugin) *Plugin

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Plugin) *Plugin {
		p.logger = logger
		return p
	}
}

// WithOutput sets where operator messages are printed.
func WithOutput(w io.Writer) Option {
	return func(p *Plugin) *Plugin {
		p.out = w
		return p
	}
}

// WithComposerFile overrides the composer.json name. A relative name is
// resolved against the project directory.
func WithComposerFile(name string) Option {
	return func(p *Plugin) *Plugin {
		p.composerFile = name
		return p
	}
}

// Plugin generates and removes wp-autoload artifacts for one project.
type Plugin struct {
	projectDir   string
	composerFile string
	logger       zerolog.Logger
	out          io.Writer
	injector     *bootstrap.Injector
}

// New constructs a Plugin for the project rooted at projectDir.
func New(projectDir string, options ...Option) *Plugin {
	p := &Plugin{
		projectDir:   projectDir,
		composerFile: composer.Filename,
		logger:       zerolog.Nop(),
		out:          os.Stdout,
	}
	for _, opt := range options {
		p = opt(p)
	}
	p.injector = bootstrap.NewInjector(bootstrap.WithLogger(p.logger))
	return p
}

// ComposerFile returns the project composer.json path.
func (p *Plugin) ComposerFile() string {
	if filepath.IsAbs(p.composerFile) {
		return p.composerFile
	}
	return filepath.Join(p.projectDir, p.composerFile)
}

// VendorDir returns the vendor directory.
func (p *Plugin) VendorDir() string {
	return filepath.Join(p.projectDir, composer.DefaultVendorDir)
}

// ManifestFile returns the generated manifest path.
func (p *Plugin) ManifestFile() string {
	return filepath.Join(p.VendorDir(), ManifestDir, manifest.Filename)
}

// LoaderFile returns the generated loader path.
func (p *Plugin) LoaderFile() string {
	return filepath.Join(p.VendorDir(), bootstrap.LoaderFilename)
}

// BootstrapFile returns composer's vendor/autoload.php path.
func (p *Plugin) BootstrapFile() string {
	return filepath.Join(p.VendorDir(), BootstrapFilename)
}

// PostAutoloadDump reads composer.json and runs Generate. It is the hook to
// call after every composer dump-autoload.
func (p *Plugin) PostAutoloadDump() error {
	project, err := composer.ReadFile(p.ComposerFile())
	if err != nil {
		return err
	}
	return p.Generate(project)
}

// Generate validates project, then writes the manifest and the loader and
// injects the loader into vendor/autoload.php. A project that does not
// require wp-autoload in require-dev is skipped without error.
func (p *Plugin) Generate(project *composer.Project) error {
	if err := composer.Validate(project, p.projectDir); err != nil {
		if errors.Is(err, composer.ErrNotRequiredByRoot) {
			p.logger.Info().Msg("skipping: root package does not require " + composer.PackageName)
			return nil
		}
		return err
	}

	m := manifest.New()
	for _, ns := range project.Namespaces {
		m.Set(ns.Prefix, ns.Folders...)
	}
	if err := manifest.Write(m, p.ManifestFile()); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	p.logger.Debug().Str("file", p.ManifestFile()).Int("namespaces", m.Len()).Msg("wrote manifest")

	if err := bootstrap.WriteLoader(p.LoaderFile(), bootstrap.LoaderConfig{
		Manifest: path.Join(ManifestDir, manifest.Filename),
	}); err != nil {
		return fmt.Errorf("writing loader: %w", err)
	}
	p.logger.Debug().Str("file", p.LoaderFile()).Msg("wrote loader")

	if _, err := p.injector.Inject(p.BootstrapFile(), bootstrap.LoaderFilename); err != nil {
		return err
	}
	fmt.Fprintln(p.out, injectedMessage)
	return nil
}

// Uninstall removes the generated loader and manifest. vendor/autoload.php
// is not un-patched; composer regenerates it on the next dump.
func (p *Plugin) Uninstall() error {
	existed, err := p.injector.Delete(p.LoaderFile())
	if err != nil {
		return err
	}
	if err := manifest.Delete(p.ManifestFile()); err != nil {
		return err
	}
	if existed {
		fmt.Fprintln(p.out, removedMessage)
	}
	return nil
}

// Rules returns the resolver rules of the project: from the generated
// manifest when present, else from composer.json. Folders are resolved
// against the project root and wildcard folders are expanded.
func (p *Plugin) Rules() (autoload.Rules, error) {
	namespaces, err := p.namespaces()
	if err != nil {
		return nil, err
	}
	var rules autoload.Rules
	for _, ns := range namespaces {
		for _, folder := range ns.Folders {
			roots, err := composer.ExpandFolder(p.projectDir, folder)
			if err != nil {
				return nil, err
			}
			if len(roots) == 0 {
				p.logger.Warn().Str("prefix", ns.Prefix).Str("folder", folder).Msg("wildcard folder matched no directory")
				continue
			}
			rules = rules.Add(ns.Prefix, roots...)
		}
	}
	return rules, nil
}

// Boot registers one resolver per (prefix, root) of the project on host.
func (p *Plugin) Boot(host autoload.Host, options ...autoload.Option) ([]*autoload.SymbolResolver, error) {
	rules, err := p.Rules()
	if err != nil {
		return nil, err
	}
	resolvers := autoload.RegisterFromRules(host, rules, append([]autoload.Option{autoload.WithLogger(p.logger)}, options...)...)
	p.logger.Debug().Int("resolvers", len(resolvers)).Msg("booted")
	return resolvers, nil
}

func (p *Plugin) namespaces() ([]composer.Namespace, error) {
	m, err := manifest.Read(p.ManifestFile())
	if err == nil {
		var namespaces []composer.Namespace
		for _, e := range m.Entries() {
			namespaces = append(namespaces, composer.Namespace{Prefix: e.Prefix, Folders: e.Folders})
		}
		return namespaces, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	p.logger.Debug().Str("file", p.ManifestFile()).Msg("no manifest, reading composer.json")
	project, err := composer.ReadFile(p.ComposerFile())
	if err != nil {
		return nil, err
	}
	return project.Namespaces, nil
}
