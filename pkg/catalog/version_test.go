package catalog

import (
	"path/filepath"
	"testing"
)

func mustHash(t *testing.T, typ, value string) *Hash {
	t.Helper()
	h, err := NewHash(typ, value)
	if err != nil {
		t.Fatalf("NewHash() error: %v", err)
	}
	return h
}

func TestToolVersionMergeScalars(t *testing.T) {
	a := NewToolVersion("phpunit", "10.0.0")
	a.DownloadLocation = "https://a.example/phpunit.phar"

	b := NewToolVersion("phpunit", "10.0.0")
	b.DownloadLocation = "https://b.example/phpunit.phar"
	b.SignatureLocation = "https://b.example/phpunit.phar.asc"
	b.Hash = mustHash(t, "sha-256", "beef")

	m := a.Merge(b)

	if m.DownloadLocation != a.DownloadLocation {
		t.Errorf("DownloadLocation = %s, want first value %s", m.DownloadLocation, a.DownloadLocation)
	}
	if m.SignatureLocation != b.SignatureLocation {
		t.Errorf("SignatureLocation = %q, want filled from other", m.SignatureLocation)
	}
	if !m.Hash.Equal(b.Hash) {
		t.Errorf("Hash = %v, want filled from other", m.Hash)
	}
	if a.SignatureLocation != "" || a.Hash != nil {
		t.Error("Merge() mutated its receiver")
	}
	if m.Hash == b.Hash {
		t.Error("Merge() shares the hash pointer with its argument")
	}
}

func TestToolVersionMergeRequirements(t *testing.T) {
	a := NewToolVersion("psalm", "5.0.0")
	_ = a.Requirements.Runtime.Add(NewRequirement("php", "^7.4"))

	b := NewToolVersion("psalm", "5.0.0")
	_ = b.Requirements.Runtime.Add(NewRequirement("php", "^8.0"))
	_ = b.Requirements.Runtime.Add(NewRequirement("ext-dom", "*"))
	_ = b.Requirements.Library.Add(NewRequirement("composer/xdebug-handler", "^3.0"))

	m := a.Merge(b)

	if r, _ := m.Requirements.Runtime.Get("php"); r.Constraint != "^7.4" {
		t.Errorf("php constraint = %q, existing requirement must win", r.Constraint)
	}
	if got := m.Requirements.Runtime.String(); got != "php:^7.4, ext-dom:*" {
		t.Errorf("runtime = %q", got)
	}
	if !m.Requirements.Library.Has("composer/xdebug-handler") {
		t.Error("library requirement not merged")
	}
	if a.Requirements.Runtime.Len() != 1 {
		t.Error("Merge() mutated receiver requirements")
	}
}

func TestToolVersionMergeMonotonic(t *testing.T) {
	a := NewToolVersion("x", "1")
	_ = a.Requirements.Runtime.Add(NewRequirement("php", "*"))
	_ = a.Requirements.Library.Add(NewRequirement("vendor/lib", "^1"))
	a.DownloadLocation = "A"

	// Merging anything into a never loses what a already has.
	others := []*ToolVersion{
		NewToolVersion("x", "1"),
		{Name: "x", Version: "1", DownloadLocation: "B"},
	}
	for _, b := range others {
		m := a.Merge(b)
		for _, cat := range a.Requirements.Categories() {
			for _, r := range cat.List.All() {
				mergedCat := map[string]*RequirementList{
					LabelRuntime: &m.Requirements.Runtime,
					LabelLibrary: &m.Requirements.Library,
				}[cat.Label]
				got, ok := mergedCat.Get(r.Name)
				if !ok || got != r {
					t.Errorf("merge lost %s requirement %s", cat.Label, r)
				}
			}
		}
		if m.DownloadLocation != "A" {
			t.Errorf("DownloadLocation overwritten: %s", m.DownloadLocation)
		}
	}
}

func TestPluginVersionMerge(t *testing.T) {
	h := mustHash(t, "sha-512", "aa")
	a := NewPluginVersion("phpunit", "1.0.0", FilePlugin{FilePath: "/a/plugin.php"}, nil)
	_ = a.Requirements.PeerTool.Add(NewRequirement("phpunit", "^9"))

	b := NewPluginVersion("phpunit", "1.0.0", FilePlugin{FilePath: "/b/plugin.php", SignaturePath: "/b/plugin.php.asc"}, h)
	_ = b.Requirements.PeerTool.Add(NewRequirement("phpunit", "^10"))
	_ = b.Requirements.PeerPlugin.Add(NewRequirement("base", "*"))

	m := a.Merge(b)

	src, ok := m.Source.(FilePlugin)
	if !ok {
		t.Fatalf("Source = %T, want FilePlugin", m.Source)
	}
	if src.FilePath != "/a/plugin.php" {
		t.Errorf("FilePath = %s, first value must win", src.FilePath)
	}
	if src.SignaturePath != "/b/plugin.php.asc" {
		t.Errorf("SignaturePath = %q, want filled from other", src.SignaturePath)
	}
	if !m.Hash.Equal(h) {
		t.Error("Hash not filled from other")
	}
	if r, _ := m.Requirements.PeerTool.Get("phpunit"); r.Constraint != "^9" {
		t.Errorf("peer tool constraint = %q", r.Constraint)
	}
	if !m.Requirements.PeerPlugin.Has("base") {
		t.Error("peer plugin requirement not merged")
	}
	if a.Source.(FilePlugin).SignaturePath != "" {
		t.Error("Merge() mutated receiver source")
	}
	if m.APIVersion != PluginAPIVersion {
		t.Errorf("APIVersion = %s", m.APIVersion)
	}
}

func TestPluginVersionMergeInlineKeepsSource(t *testing.T) {
	a := NewPluginVersion("p", "1", InlinePlugin{Code: "<?php return 1;"}, nil)
	b := NewPluginVersion("p", "1", FilePlugin{FilePath: "p.php", SignaturePath: "p.php.asc"}, nil)

	m := a.Merge(b)
	if _, ok := m.Source.(InlinePlugin); !ok {
		t.Errorf("Source = %T, want InlinePlugin", m.Source)
	}
}

func TestRequirementCategoriesOrder(t *testing.T) {
	var tr ToolRequirements
	var labels []string
	for _, c := range tr.Categories() {
		labels = append(labels, c.Label)
	}
	if len(labels) != 2 || labels[0] != "php" || labels[1] != "composer" {
		t.Errorf("tool categories = %v", labels)
	}

	var pr PluginRequirements
	labels = labels[:0]
	for _, c := range pr.Categories() {
		labels = append(labels, c.Label)
	}
	want := []string{"php", "tool", "plugin", "composer"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("plugin categories = %v, want %v", labels, want)
			break
		}
	}
}

func TestFilePluginPaths(t *testing.T) {
	tests := []struct {
		name     string
		src      FilePlugin
		code     string
		signature string
	}{
		{"relative to root", FilePlugin{Root: "dist", FilePath: "p-1.0.0.php", SignaturePath: "p-1.0.0.php.asc"}, filepath.Join("dist", "p-1.0.0.php"), filepath.Join("dist", "p-1.0.0.php.asc")},
		{"no root", FilePlugin{FilePath: "src/p.php"}, "src/p.php", ""},
		{"absolute ignores root", FilePlugin{Root: "dist", FilePath: "/opt/p.php"}, "/opt/p.php", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.CodeFile(); got != tt.code {
				t.Errorf("CodeFile() = %q, want %q", got, tt.code)
			}
			if got := tt.src.SignatureFile(); got != tt.signature {
				t.Errorf("SignatureFile() = %q, want %q", got, tt.signature)
			}
		})
	}
}

func TestPluginVersionMergeSignatureFromOtherRoot(t *testing.T) {
	a := NewPluginVersion("p", "1", FilePlugin{Root: "a", FilePath: "p.php"}, nil)
	b := NewPluginVersion("p", "1", FilePlugin{Root: "b", FilePath: "p.php", SignaturePath: "p.php.asc"}, nil)

	src := a.Merge(b).Source.(FilePlugin)
	if src.CodeFile() != filepath.Join("a", "p.php") {
		t.Errorf("CodeFile() = %q, first source must win", src.CodeFile())
	}
	if src.SignatureFile() != filepath.Join("b", "p.php.asc") {
		t.Errorf("SignatureFile() = %q, want resolved against the other root", src.SignatureFile())
	}
}
