package convention

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCandidatePaths(t *testing.T) {
	for name, tc := range map[string]struct {
		symbol string
		prefix string
		root   string
		want   []string
	}{
		"degenerate": {},
		"sub namespace": {
			symbol: `Acme\Sub_Ns\My_Widget`,
			prefix: `Acme`,
			root:   "/app/lib/",
			want: []string{
				"/app/lib/sub-ns/class-my-widget.php",
				"/app/lib/sub-ns/trait-my-widget.php",
				"/app/lib/sub-ns/interface-my-widget.php",
				"/app/lib/sub-ns/enum-my-widget.php",
			},
		},
		"top level": {
			symbol: `Acme\Foo`,
			prefix: `Acme`,
			root:   "/app/lib",
			want: []string{
				"/app/lib/class-foo.php",
				"/app/lib/trait-foo.php",
				"/app/lib/interface-foo.php",
				"/app/lib/enum-foo.php",
			},
		},
		"prefix with separators": {
			symbol: `QuadLayers\Perfect_Brands\Api\Rest_Controller`,
			prefix: `\QuadLayers\Perfect_Brands\`,
			root:   "/srv/plugin/lib//",
			want: []string{
				"/srv/plugin/lib/api/class-rest-controller.php",
				"/srv/plugin/lib/api/trait-rest-controller.php",
				"/srv/plugin/lib/api/interface-rest-controller.php",
				"/srv/plugin/lib/api/enum-rest-controller.php",
			},
		},
		"nested sub namespaces": {
			symbol: `Acme\A\B_C\D`,
			prefix: `Acme`,
			root:   "lib/",
			want: []string{
				"lib/a/b-c/class-d.php",
				"lib/a/b-c/trait-d.php",
				"lib/a/b-c/interface-d.php",
				"lib/a/b-c/enum-d.php",
			},
		},
		"empty local name": {
			symbol: `Acme\`,
			prefix: `Acme`,
			root:   "/app/lib/",
		},
	} {
		t.Run(name, func(t *testing.T) {
			got := CandidatePaths(tc.symbol, tc.prefix, tc.root)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestConventionExtension(t *testing.T) {
	c := Convention{Kinds: []Kind{KindInterface}, Extension: ".inc"}
	got := c.CandidatePaths(`Acme\Foo_Bar`, "Acme", "/lib")
	if diff := cmp.Diff([]string{"/lib/interface-foo-bar.inc"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestKebab(t *testing.T) {
	for in, want := range map[string]string{
		"":          "",
		"Foo":       "foo",
		"My_Class":  "my-class",
		"A_B_C":     "a-b-c",
		"HTTPQuery": "httpquery",
	} {
		if got := Kebab(in); got != want {
			t.Errorf("Kebab(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeRoot(t *testing.T) {
	for in, want := range map[string]string{
		"":          "",
		"/":         "/",
		"/app/lib":  "/app/lib/",
		"/app/lib/": "/app/lib/",
		"lib///":    "lib/",
	} {
		if got := NormalizeRoot(in); got != want {
			t.Errorf("NormalizeRoot(%q): want %q, got %q", in, want, got)
		}
	}
}
