package filesystem_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/entity-audit/internal/adapters/filesystem"
	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/ports/secondary"
)

const orderClass = `package com.example.domain;

import java.io.Serializable;

public class Order implements Serializable {
    @JsonIgnore
    private String a;
    @JsonIgnore
    private String b;
}
`

func TestPatcher_ReplaceOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Order.java")
	writeTestFile(t, path, orderClass)
	p := filesystem.NewPatcher()

	err := p.ReplaceOnce(path, "public class Order", "public class Order extends AbstractAuditingEntity", secondary.ReplaceOptions{})
	if err != nil {
		t.Fatalf("ReplaceOnce failed: %v", err)
	}
	got := readTestFile(t, path)
	if !strings.Contains(got, "public class Order extends AbstractAuditingEntity implements Serializable") {
		t.Errorf("replacement not applied:\n%s", got)
	}

	err = p.ReplaceOnce(path, "public class Customer", "x", secondary.ReplaceOptions{})
	if !errors.Is(err, audit.ErrPatchSkipped) {
		t.Errorf("ReplaceOnce without match error = %v, want ErrPatchSkipped", err)
	}
	if readTestFile(t, path) != got {
		t.Error("file changed although the match was absent")
	}
}

func TestPatcher_ReplaceAllRegex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Order.java")
	writeTestFile(t, path, orderClass)
	p := filesystem.NewPatcher()

	if err := p.ReplaceOnce(path, `\s*@JsonIgnore`, "", secondary.ReplaceOptions{All: true, Regex: true}); err != nil {
		t.Fatalf("ReplaceOnce failed: %v", err)
	}
	got := readTestFile(t, path)
	if strings.Contains(got, "@JsonIgnore") {
		t.Errorf("@JsonIgnore still present:\n%s", got)
	}

	err := p.ReplaceOnce(path, `\s*@JsonIgnore`, "", secondary.ReplaceOptions{All: true, Regex: true})
	if !errors.Is(err, audit.ErrPatchSkipped) {
		t.Errorf("second run error = %v, want ErrPatchSkipped", err)
	}
}

func TestPatcher_ReplaceFirstOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Order.java")
	writeTestFile(t, path, orderClass)
	p := filesystem.NewPatcher()

	if err := p.ReplaceOnce(path, "@JsonIgnore", "@Transient", secondary.ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceOnce failed: %v", err)
	}
	got := readTestFile(t, path)
	if strings.Count(got, "@Transient") != 1 || strings.Count(got, "@JsonIgnore") != 1 {
		t.Errorf("expected exactly one replacement:\n%s", got)
	}
}

func TestPatcher_InsertGuarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Base.java")
	writeTestFile(t, path, "package x;\n\n    import a.B;\nclass Base {}\n")
	p := filesystem.NewPatcher()

	if err := p.InsertGuarded(path, "import a.B", "import a.C;", ""); err != nil {
		t.Fatalf("InsertGuarded failed: %v", err)
	}
	want := "package x;\n\n    import a.C;\n    import a.B;\nclass Base {}\n"
	if got := readTestFile(t, path); got != want {
		t.Errorf("content =\n%q\nwant\n%q", got, want)
	}

	err := p.InsertGuarded(path, "import a.B", "import a.C;", "")
	if !errors.Is(err, audit.ErrPatchSkipped) {
		t.Errorf("second insert error = %v, want ErrPatchSkipped", err)
	}
	if got := readTestFile(t, path); strings.Count(got, "import a.C;") != 1 {
		t.Errorf("insertion duplicated:\n%s", got)
	}
}

func TestPatcher_InsertGuardedMissingMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Base.java")
	writeTestFile(t, path, "class Base {}\n")
	p := filesystem.NewPatcher()

	err := p.InsertGuarded(path, "import a.B", "import a.C;", "")
	if !errors.Is(err, audit.ErrPatchSkipped) || !errors.Is(err, filesystem.ErrMarkerNotFound) {
		t.Errorf("error = %v, want ErrPatchSkipped and ErrMarkerNotFound", err)
	}
}

func TestPatcher_MissingFile(t *testing.T) {
	p := filesystem.NewPatcher()
	err := p.ReplaceOnce(filepath.Join(t.TempDir(), "nope.java"), "a", "b", secondary.ReplaceOptions{})
	if err == nil || errors.Is(err, audit.ErrPatchSkipped) {
		t.Errorf("error = %v, want a read failure", err)
	}
}

func TestPatcher_Contains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Repo.java")
	writeTestFile(t, path, "@JaversSpringDataAuditable\npublic interface OrderRepository {}\n")
	p := filesystem.NewPatcher()

	tests := []struct {
		name    string
		text    string
		pattern string
		want    bool
	}{
		{"text", "@JaversSpringDataAuditable", "", true},
		{"pattern", "", `@Javers\w+`, true},
		{"neither", "@Audited", `@Envers\w+`, false},
		{"empty guards", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Contains(path, tt.text, tt.pattern)
			if err != nil {
				t.Fatalf("Contains failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatcher_ReplaceRegexExpandsGroups(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		skipped bool
	}{
		{
			name:    "implements clause kept",
			content: "public class Order implements Serializable {\n}\n",
			want:    "public class Order extends AbstractAuditingEntity implements Serializable {\n}\n",
		},
		{
			name:    "bare class",
			content: "public class Order {\n}\n",
			want:    "public class Order extends AbstractAuditingEntity {\n}\n",
		},
		{
			name:    "class already extending another type",
			content: "public class Order extends BaseEntity implements Serializable {\n}\n",
			want:    "public class Order extends BaseEntity implements Serializable {\n}\n",
			skipped: true,
		},
		{
			name:    "longer class name",
			content: "public class OrderItem {\n}\n",
			want:    "public class OrderItem {\n}\n",
			skipped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Order.java")
			writeTestFile(t, path, tt.content)
			p := filesystem.NewPatcher()

			err := p.ReplaceOnce(path, `public class Order(\s+implements\b|\s*\{)`,
				"public class Order extends AbstractAuditingEntity${1}", secondary.ReplaceOptions{Regex: true})
			if tt.skipped != errors.Is(err, audit.ErrPatchSkipped) {
				t.Fatalf("ReplaceOnce error = %v, skipped = %v", err, tt.skipped)
			}
			if !tt.skipped && err != nil {
				t.Fatalf("ReplaceOnce failed: %v", err)
			}
			if got := readTestFile(t, path); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}
