package composer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectJSON = `{
	"name": "quadlayers/perfect-woocommerce-brands",
	"autoload": {
		"classmap": ["lib/", "modules/*"]
	},
	"require-dev": {
		"quadlayers/wp-autoload": "^1.0",
		"phpunit/phpunit": "^9"
	},
	"extra": {
		"quadlayers/wp-autoload": {
			"\\QuadLayers\\Brands\\": "lib/",
			"QuadLayers\\Brands\\Modules\\": ["modules/*"]
		}
	}
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(projectJSON))
	require.NoError(t, err)

	want := &Project{
		Classmap:    []string{"lib/", "modules/*"},
		HasClassmap: true,
		RequireDev:  []string{"phpunit/phpunit", "quadlayers/wp-autoload"},
		VendorDir:   DefaultVendorDir,
		Namespaces: []Namespace{
			{Prefix: `\QuadLayers\Brands\`, Folders: []string{"lib/"}},
			{Prefix: `QuadLayers\Brands\Modules\`, Folders: []string{"modules/*"}},
		},
		HasNamespaces: true,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	assert.True(t, p.RequiresDev(PackageName))
	assert.False(t, p.RequiresDev("acme/other"))
}

func TestParseNamespacesOrderAndDuplicates(t *testing.T) {
	p, err := Parse([]byte(`{"extra": {"quadlayers/wp-autoload": {"B": "b/", "A": "a/", "B": "c/"}}}`))
	require.NoError(t, err)
	want := []Namespace{
		{Prefix: "B", Folders: []string{"c/"}},
		{Prefix: "A", Folders: []string{"a/"}},
	}
	if diff := cmp.Diff(want, p.Namespaces); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for name, in := range map[string]string{
		"not json":          `{`,
		"bad folder value":  `{"extra": {"quadlayers/wp-autoload": {"A": 1}}}`,
		"bad folder list":   `{"extra": {"quadlayers/wp-autoload": {"A": [1]}}}`,
		"bad vendor config": `{"config": {"vendor-dir": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	dir, cleanup := testtools.CreateFiles(t, []testtools.FileSpec{
		{Path: "lib/class-plugin.php", Content: "<?php\n"},
		{Path: "modules/admin/class-page.php", Content: "<?php\n"},
		{Path: "README.md", Content: "readme"},
	})
	defer cleanup()

	for name, tc := range map[string]struct {
		json    string
		wantErr string
	}{
		"valid": {
			json: projectJSON,
		},
		"no require-dev": {
			json:    `{}`,
			wantErr: "The package should be required in dev.",
		},
		"not required by root": {
			json:    `{"require-dev": {"phpunit/phpunit": "^9"}}`,
			wantErr: ErrNotRequiredByRoot.Error(),
		},
		"custom vendor dir": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "config": {"vendor-dir": "deps"}}`,
			wantErr: "The project's composer.json or composer environment set a non-default vendor directory. The default composer vendor directory must be used.",
		},
		"no classmap": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}}`,
			wantErr: `The "classmap" autoload is required to generate optimized autoload.`,
		},
		"empty classmap": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": []}}`,
			wantErr: `The "classmap" autoload must be a valid array with folder.`,
		},
		"classmap not a list": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": "lib/"}}`,
			wantErr: `The "classmap" autoload must be a valid array with folder.`,
		},
		"no extra": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["lib/"]}}`,
			wantErr: `The "quadlayers/wp-autoload" must be defined.`,
		},
		"extra not an object": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["lib/"]}, "extra": {"quadlayers/wp-autoload": ["lib/"]}}`,
			wantErr: `The "quadlayers/wp-autoload" must be a valid object with namespace and folder.`,
		},
		"extra empty": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["lib/"]}, "extra": {"quadlayers/wp-autoload": {}}}`,
			wantErr: `The "quadlayers/wp-autoload" must be a valid object with namespace and folder.`,
		},
		"missing folder": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["src/"]}, "extra": {"quadlayers/wp-autoload": {"Acme": "src/"}}}`,
			wantErr: `Could not scan for classes inside "src/" which does not appear to be a file nor a folder.`,
		},
		"file is not a folder": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["README.md"]}, "extra": {"quadlayers/wp-autoload": {"Acme": "README.md"}}}`,
			wantErr: `Could not scan for classes inside "README.md" which does not appear to be a file nor a folder.`,
		},
		"folder not in classmap": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["modules/"]}, "extra": {"quadlayers/wp-autoload": {"Acme": "lib/"}}}`,
			wantErr: `The "lib/" folder is not defined in the "classmap" autoload.`,
		},
		"folder matched by classmap pattern": {
			json: `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["modules/*"]}, "extra": {"quadlayers/wp-autoload": {"Acme": "modules/admin/"}}}`,
		},
		"invalid wildcard": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["lib/[*"]}, "extra": {"quadlayers/wp-autoload": {"Acme": "lib/[*"}}}`,
			wantErr: `The "lib/[*" folder is not a valid wildcard pattern.`,
		},
		"empty prefix": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["lib/"]}, "extra": {"quadlayers/wp-autoload": {"\\": "lib/"}}}`,
			wantErr: `The "\\" namespace must not be empty.`,
		},
		"empty folder list": {
			json:    `{"require-dev": {"quadlayers/wp-autoload": "*"}, "autoload": {"classmap": ["lib/"]}, "extra": {"quadlayers/wp-autoload": {"Acme": []}}}`,
			wantErr: `The "Acme" namespace must declare at least one folder.`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			p, err := Parse([]byte(tc.json))
			require.NoError(t, err)
			err = Validate(p, dir)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
			if !errors.Is(err, ErrNotRequiredByRoot) {
				var validationErr *ValidationError
				assert.True(t, errors.As(err, &validationErr))
			}
		})
	}
}

func TestExpandFolder(t *testing.T) {
	dir, cleanup := testtools.CreateFiles(t, []testtools.FileSpec{
		{Path: "modules/b/class-x.php", Content: "<?php\n"},
		{Path: "modules/a/class-y.php", Content: "<?php\n"},
		{Path: "modules/readme.txt", Content: "readme"},
	})
	defer cleanup()

	got, err := ExpandFolder(dir, "modules/*")
	require.NoError(t, err)
	want := []string{filepath.Join(dir, "modules", "a"), filepath.Join(dir, "modules", "b")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	got, err = ExpandFolder(dir, "lib/")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "lib")}, got)
}

func TestReadFile(t *testing.T) {
	dir, cleanup := testtools.CreateFiles(t, []testtools.FileSpec{
		{Path: Filename, Content: projectJSON},
		{Path: "broken.json", Content: "{"},
	})
	defer cleanup()

	p, err := ReadFile(filepath.Join(dir, Filename))
	require.NoError(t, err)
	assert.Len(t, p.Namespaces, 2)

	_, err = ReadFile(filepath.Join(dir, "broken.json"))
	assert.ErrorContains(t, err, "broken.json")
}
