package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsTranslatable(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		want bool
	}{
		{"heading", Heading(1, "Title"), true},
		{"paragraph", Paragraph("Some text"), true},
		{"block quote", BlockQuote("quoted"), true},
		{"list", List(false, "a", "b"), true},
		{"code block", CodeBlock("go", "fmt.Println()"), false},
		{"rule", Rule(), false},
		{"blank paragraph", Paragraph("   \n\t"), false},
		{"empty list", List(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.IsTranslatable(); got != tt.want {
				t.Errorf("IsTranslatable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslatableTextJoinsListItems(t *testing.T) {
	text, ok := List(true, "first", "second").TranslatableText()
	if !ok {
		t.Fatal("expected list to be translatable")
	}
	if text != "first\nsecond" {
		t.Errorf("got %q", text)
	}
}

func TestWithText(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		text string
		want Unit
	}{
		{"heading keeps level", Heading(3, "a"), "b", Heading(3, "b")},
		{"paragraph", Paragraph("a"), "b", Paragraph("b")},
		{"quote", BlockQuote("a"), "b", BlockQuote("b")},
		{"list splits lines", List(false, "a", "b"), "x\n\n y \n", List(false, "x", "y")},
		{"multi-line items", List(true, "a\nb", "c"), "A\nB\n\n<!-- item -->\n\nC", List(true, "A\nB", "C")},
		{"code untouched", CodeBlock("sh", "ls"), "nope", CodeBlock("sh", "ls")},
		{"rule untouched", Rule(), "nope", Rule()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.unit.WithText(tt.text)
			if err != nil {
				t.Fatalf("WithText() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WithText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithTextRejectsItemCountChange(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		text string
	}{
		{"extra line", List(false, "a", "b"), "x\ny\nz"},
		{"missing line", List(false, "a", "b"), "x"},
		{"blank reply", List(false, "a"), "  "},
		{"separator dropped", List(false, "a\nb", "c"), "A\nB\nC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.unit.WithText(tt.text)
			if !errors.Is(err, ErrListShape) {
				t.Fatalf("expected ErrListShape, got %v", err)
			}
			if diff := cmp.Diff(tt.unit, got); diff != "" {
				t.Errorf("unit changed on error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListIdentityTranslation(t *testing.T) {
	lists := []Unit{
		List(false, "foo\nbar", "baz"),
		List(true, "step\n\n```\ncode\n```", "next"),
		List(false, "one", "", "three"),
		List(false, "plain", "items"),
	}

	for _, u := range lists {
		text, ok := u.TranslatableText()
		if !ok {
			t.Fatalf("expected %v to be translatable", u.Items)
		}
		got, err := u.WithText(text)
		if err != nil {
			t.Fatalf("WithText(%q) error = %v", text, err)
		}
		if diff := cmp.Diff(u, got); diff != "" {
			t.Errorf("identity translation changed the list (-want +got):\n%s", diff)
		}
	}
}

func TestWithTextDoesNotAliasItems(t *testing.T) {
	orig := List(false, "a", "b")
	if _, err := orig.WithText("x\ny"); err != nil {
		t.Fatalf("WithText() error = %v", err)
	}
	if orig.Items[0] != "a" || orig.Items[1] != "b" {
		t.Errorf("original items modified: %v", orig.Items)
	}
}

func TestHeadingLevelClamped(t *testing.T) {
	if got := Heading(0, "x").Level; got != 1 {
		t.Errorf("expected level 1, got %d", got)
	}
	if got := Heading(9, "x").Level; got != 6 {
		t.Errorf("expected level 6, got %d", got)
	}
}

func TestKindString(t *testing.T) {
	if KindCodeBlock.String() != "code_block" {
		t.Errorf("unexpected name %q", KindCodeBlock.String())
	}
	if Kind(42).String() != "unknown" {
		t.Errorf("unexpected name for unknown kind")
	}
}
