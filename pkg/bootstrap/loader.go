package bootstrap

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/quadlayers/wp-autoload/pkg/convention"
	"github.com/quadlayers/wp-autoload/pkg/lockfile"
)

// LoaderFilename is the default name of the generated loader, written next
// to vendor/autoload.php.
const LoaderFilename = "wp-autoload.php"

// LoaderConfig parameterizes the generated loader.
type LoaderConfig struct {
	// Manifest is the manifest path relative to the loader's directory.
	Manifest string
	// Convention is the naming convention rendered into the loader.
	Convention convention.Convention
}

var loaderTemplate = template.Must(template.New("loader").Funcs(template.FuncMap{
	"kinds": func(kinds []convention.Kind) string {
		quoted := make([]string, len(kinds))
		for i, k := range kinds {
			quoted[i] = "'" + string(k) + "'"
		}
		return strings.Join(quoted, ", ")
	},
}).Parse(`<?php
/*
  Generated by quadlayers/wp-autoload. Do not edit.
*/

if ( ! function_exists( 'quadlayers_wp_autoload_register' ) ) {
	function quadlayers_wp_autoload_register( $prefix, $folder ) {
		$prefix  = trim( $prefix, '\\' ) . '\\';
		$folder  = rtrim( $folder, '/' ) . '/';
		$missing = array();
		spl_autoload_register(
			function ( $class ) use ( $prefix, $folder, &$missing ) {
				$class = ltrim( $class, '\\' );
				if ( 0 !== strpos( $class, $prefix ) || isset( $missing[ $class ] ) ) {
					return;
				}
				$parts = explode( '\\', substr( $class, strlen( $prefix ) ) );
				$name  = strtolower( str_replace( '_', '-', array_pop( $parts ) ) );
				$base  = '';
				foreach ( $parts as $part ) {
					$base .= strtolower( str_replace( '_', '-', $part ) ) . '/';
				}
				foreach ( array( {{ kinds .Convention.Kinds }} ) as $kind ) {
					$path = $folder . $base . $kind . '-' . $name . '{{ .Convention.Extension }}';
					if ( file_exists( $path ) ) {
						require_once $path;
						return;
					}
				}
				$missing[ $class ] = true;
			}
		);
	}
}

$quadlayers_wp_autoload_root = dirname( __DIR__ ) . '/';
foreach ( require __DIR__ . '/{{ .Manifest }}' as $quadlayers_wp_autoload_prefix => $quadlayers_wp_autoload_folders ) {
	foreach ( (array) $quadlayers_wp_autoload_folders as $quadlayers_wp_autoload_folder ) {
		$quadlayers_wp_autoload_dirs = glob( $quadlayers_wp_autoload_root . $quadlayers_wp_autoload_folder, GLOB_ONLYDIR );
		foreach ( $quadlayers_wp_autoload_dirs ? $quadlayers_wp_autoload_dirs : array() as $quadlayers_wp_autoload_dir ) {
			quadlayers_wp_autoload_register( $quadlayers_wp_autoload_prefix, $quadlayers_wp_autoload_dir );
		}
	}
}
`))

// LoaderSource renders the loader file. It includes the manifest and
// registers one autoloader per (prefix, folder) following the same naming
// convention as package convention.
func LoaderSource(cfg LoaderConfig) ([]byte, error) {
	if cfg.Convention.Kinds == nil {
		cfg.Convention = convention.Default
	}
	var buf bytes.Buffer
	if err := loaderTemplate.Execute(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLoader renders the loader and writes it to filename under an
// exclusive lock.
func WriteLoader(filename string, cfg LoaderConfig) error {
	data, err := LoaderSource(cfg)
	if err != nil {
		return err
	}
	return lockfile.WriteFile(filename, data, 0o644)
}
