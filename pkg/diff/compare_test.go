package diff

import (
	"testing"

	"github.com/matzehuels/toolcatalog/pkg/catalog"
)

type toolSpec struct {
	name, version, url string
}

func buildRepo(t *testing.T, specs ...toolSpec) *catalog.Repository {
	t.Helper()
	r := catalog.NewRepository()
	for _, s := range specs {
		v := catalog.NewToolVersion(s.name, s.version)
		v.DownloadLocation = s.url
		if err := r.AddToolVersion(v); err != nil {
			t.Fatalf("AddToolVersion() error: %v", err)
		}
	}
	return r
}

func TestCompareIdentical(t *testing.T) {
	build := func() *catalog.Repository {
		r := buildRepo(t,
			toolSpec{"phpunit", "10.0.0", "https://phar.phpunit.de/phpunit-10.0.0.phar"},
			toolSpec{"phpunit", "9.6.0", "https://phar.phpunit.de/phpunit-9.6.0.phar"},
			toolSpec{"psalm", "5.0.0", ""},
		)
		p := catalog.NewPluginVersion("phpunit", "1.0.0", catalog.InlinePlugin{Code: "<?php"}, nil)
		_ = p.Requirements.PeerTool.Add(catalog.NewRequirement("phpunit", "^10"))
		_ = r.AddPluginVersion(p)
		return r
	}

	x := build()
	if d := Compare(x, x); d != nil {
		t.Errorf("Compare(x, x) = %v, want nil", d)
	}
	if d := Compare(build(), build()); d != nil {
		t.Errorf("Compare of equal snapshots = %v, want nil", d)
	}
}

func TestCompareEmpty(t *testing.T) {
	if d := Compare(catalog.NewRepository(), catalog.NewRepository()); d != nil {
		t.Errorf("Compare(empty, empty) = %v, want nil", d)
	}
	if d := Compare(nil, catalog.NewRepository()); d != nil {
		t.Errorf("Compare(nil, empty) = %v, want nil", d)
	}
	if d := Compare(nil, nil); d != nil {
		t.Errorf("Compare(nil, nil) = %v, want nil", d)
	}
}

func TestCompareClassification(t *testing.T) {
	repo := buildRepo(t,
		toolSpec{"a", "1.0.0", "https://a/1"},
		toolSpec{"a", "2.0.0", "https://a/2"},
	)

	tests := []struct {
		name   string
		before *catalog.Repository
		after  *catalog.Repository
		kind   Kind
		side   func(PropertyDifference) *string
	}{
		{"added", nil, repo, Added, func(p PropertyDifference) *string { return p.New }},
		{"removed", repo, nil, Removed, func(p PropertyDifference) *string { return p.Old }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compare(tt.before, tt.after)
			if d == nil || len(d.Entities) != 1 {
				t.Fatalf("Compare() = %v, want exactly one entity", d)
			}
			e := d.Entities[0]
			if e.Kind != tt.kind || e.Key != "a" || e.Type != ToolEntity {
				t.Errorf("entity = %v %s (%v), want %v a", e.Kind, e.Key, e.Type, tt.kind)
			}
			if len(e.Children) != 2 {
				t.Fatalf("versions = %d, want 2", len(e.Children))
			}
			for _, v := range e.Children {
				if v.Kind != tt.kind {
					t.Errorf("version %s kind = %v, want %v", v.Key, v.Kind, tt.kind)
				}
				for _, p := range v.Children {
					if tt.side(p) == nil {
						t.Errorf("property %s of %s missing its value", p.Name, v.Key)
					}
					if p.Old != nil && p.New != nil {
						t.Errorf("property %s has both sides on a %v version", p.Name, tt.kind)
					}
				}
			}
		})
	}
}

func TestCompareChangedCarriesOnlyDifferences(t *testing.T) {
	before := buildRepo(t,
		toolSpec{"t", "1.0.0", "A"},
		toolSpec{"t", "1.1.0", "same"},
		toolSpec{"u", "1.0.0", "same"},
	)
	after := buildRepo(t,
		toolSpec{"t", "1.0.0", "B"},
		toolSpec{"t", "1.1.0", "same"},
		toolSpec{"u", "1.0.0", "same"},
	)

	d := Compare(before, after)
	if d == nil || len(d.Entities) != 1 {
		t.Fatalf("Compare() = %v, want one changed entity", d)
	}
	e := d.Entities[0]
	if e.Kind != Changed || len(e.Children) != 1 || e.Children[0].Key != "1.0.0" {
		t.Fatalf("entity = %+v", e)
	}
	props := e.Children[0].Children
	if len(props) != 1 || props[0].Name != PropPharURL {
		t.Fatalf("properties = %+v, want only phar-url", props)
	}
	if *props[0].Old != "A" || *props[0].New != "B" {
		t.Errorf("phar-url = %s -> %s", *props[0].Old, *props[0].New)
	}
}

func TestCompareOrderIndependent(t *testing.T) {
	specs := []toolSpec{
		{"zeta", "1.0.0", "z"},
		{"alpha", "2.0.0", "a2"},
		{"alpha", "1.0.0", "a1"},
		{"mid", "0.1.0", "m"},
	}
	reversed := make([]toolSpec, len(specs))
	for i, s := range specs {
		reversed[len(specs)-1-i] = s
	}

	want := Compare(nil, buildRepo(t, specs...)).String()
	got := Compare(nil, buildRepo(t, reversed...)).String()
	if got != want {
		t.Errorf("output depends on insertion order:\n%s\nvs\n%s", got, want)
	}

	d := Compare(nil, buildRepo(t, specs...))
	var names []string
	for _, e := range d.Entities {
		names = append(names, e.Key)
	}
	if names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Errorf("entities not sorted: %v", names)
	}
	if d.Entities[0].Children[0].Key != "1.0.0" {
		t.Errorf("versions not sorted: %s first", d.Entities[0].Children[0].Key)
	}
}

func TestCompareToolsBeforePluginsOfSameName(t *testing.T) {
	after := buildRepo(t, toolSpec{"phpunit", "10.0.0", "u"})
	_ = after.AddPluginVersion(catalog.NewPluginVersion("phpunit", "1.0.0", catalog.InlinePlugin{Code: "x"}, nil))
	_ = after.AddPluginVersion(catalog.NewPluginVersion("composer", "1.0.0", catalog.InlinePlugin{Code: "y"}, nil))

	d := Compare(nil, after)
	if len(d.Entities) != 3 {
		t.Fatalf("entities = %d, want 3", len(d.Entities))
	}
	got := []struct {
		key string
		typ EntityType
	}{
		{d.Entities[0].Key, d.Entities[0].Type},
		{d.Entities[1].Key, d.Entities[1].Type},
		{d.Entities[2].Key, d.Entities[2].Type},
	}
	if got[0].key != "composer" || got[1].typ != ToolEntity || got[2].typ != PluginEntity {
		t.Errorf("entity order = %+v", got)
	}
}

func TestCompareRequirementsSerialization(t *testing.T) {
	mk := func(reqs ...catalog.Requirement) *catalog.Repository {
		r := catalog.NewRepository()
		v := catalog.NewToolVersion("phpstan", "1.0.0")
		for _, req := range reqs {
			_ = v.Requirements.Runtime.Add(req)
		}
		_ = v.Requirements.Library.Add(catalog.NewRequirement("nikic/php-parser", "^4.15"))
		_ = r.AddToolVersion(v)
		return r
	}
	php := catalog.NewRequirement("php", "^7.2")
	ext := catalog.NewRequirement("ext-json", "*")

	d := Compare(mk(php), mk(php, ext))
	if d == nil {
		t.Fatal("added requirement not detected")
	}
	p := d.Entities[0].Children[0].Children[0]
	if p.Name != PropRequirements {
		t.Fatalf("property = %s", p.Name)
	}
	if want := "php: php:^7.2, composer: nikic/php-parser:^4.15"; *p.Old != want {
		t.Errorf("old = %q, want %q", *p.Old, want)
	}
	if want := "php: php:^7.2, ext-json:*, composer: nikic/php-parser:^4.15"; *p.New != want {
		t.Errorf("new = %q, want %q", *p.New, want)
	}

	// Declaration order is part of the serialized value.
	if Compare(mk(php, ext), mk(ext, php)) == nil {
		t.Error("reordered requirements should be reported as a change")
	}
}

func TestComparePluginProperties(t *testing.T) {
	h1, _ := catalog.NewHash("sha-512", "aa")
	h2, _ := catalog.NewHash("sha-512", "bb")

	before := catalog.NewRepository()
	_ = before.AddPluginVersion(catalog.NewPluginVersion("psalm", "1.0.0",
		catalog.FilePlugin{FilePath: "psalm-1.0.0.php", SignaturePath: "psalm-1.0.0.php.asc"}, h1))

	after := catalog.NewRepository()
	_ = after.AddPluginVersion(catalog.NewPluginVersion("psalm", "1.0.0",
		catalog.InlinePlugin{Code: "<?php return [];"}, h2))

	d := Compare(before, after)
	if d == nil {
		t.Fatal("expected a diff")
	}
	e := d.Entities[0]
	if e.Type != PluginEntity {
		t.Errorf("Type = %v, want plugin", e.Type)
	}
	var names []string
	for _, p := range e.Children[0].Children {
		names = append(names, p.Name)
	}
	want := []string{PropCode, PropChecksum, PropSignature}
	if len(names) != len(want) {
		t.Fatalf("properties = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("properties = %v, want %v", names, want)
		}
	}
	sig := e.Children[0].Children[2]
	if sig.Old == nil || sig.New != nil {
		t.Errorf("signature diff = %+v, want removal", sig)
	}
}

type strangeSource struct{ catalog.InlinePlugin }

func TestComparePanicsOnUnknownPluginSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported plugin source")
		}
	}()
	r := catalog.NewRepository()
	_ = r.AddPluginVersion(catalog.NewPluginVersion("p", "1", strangeSource{}, nil))
	Compare(nil, r)
}

func TestCompareIsRepeatable(t *testing.T) {
	before := buildRepo(t, toolSpec{"a", "1", "x"}, toolSpec{"b", "1", "y"})
	after := buildRepo(t, toolSpec{"a", "1", "z"}, toolSpec{"c", "1", "y"})

	first := Compare(before, after).String()
	for range 5 {
		if got := Compare(before, after).String(); got != first {
			t.Fatalf("Compare not idempotent:\n%s\nvs\n%s", got, first)
		}
	}
}
