// ABOUTME: Tests for the DOT serializer covering node lines, edge styles, and byte-stable output.
// ABOUTME: Builds graphs from source through the matcher to keep fixtures readable.
package dot

import (
	"strings"
	"testing"

	"github.com/frond-lang/frond/matcher"
	"github.com/frond-lang/frond/template"
)

func graphFor(t *testing.T, src string) *matcher.Graph {
	t.Helper()
	body, err := template.Parse("test.frond", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := matcher.Build(body)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func TestSerialize_SimpleElement(t *testing.T) {
	got := Serialize(graphFor(t, "<div></div>"))

	want := "digraph markup {\n" +
		"  rankdir=TB\n" +
		"  // root: n0\n" +
		"\n" +
		"  n0 [label=\"<div>\", shape=box]\n" +
		"  n1 [label=\"</div>\", shape=box]\n" +
		"\n" +
		"  n0 -> n1\n" +
		"}\n"
	if got != want {
		t.Errorf("Serialize() =\n%s\nwant\n%s", got, want)
	}
}

func TestSerialize_ConditionShapesAndEdges(t *testing.T) {
	got := Serialize(graphFor(t, "{if $a}<br>{/if}"))

	for _, line := range []string{
		"n0 [label=\"if $a\", shape=diamond]",
		"n1 [label=\"<br/>\", shape=oval]",
		"n2 [label=join, shape=point]",
		"n0 -> n1\n",
		"n1 -> n2\n",
		"n0 -> n2 [label=false, style=dashed]",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("output missing %q:\n%s", line, got)
		}
	}
}

func TestSerialize_EmptyGraph(t *testing.T) {
	got := Serialize(matcher.NewGraph())

	if strings.Contains(got, "root:") {
		t.Errorf("rootless graph emitted a root comment:\n%s", got)
	}
	if !strings.HasPrefix(got, "digraph markup {") || !strings.HasSuffix(got, "}\n") {
		t.Errorf("malformed digraph wrapper:\n%s", got)
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	src := "<div>{if $a}</div><div>{elseif $b}<hr>{else}x{/if}</div>"

	first := Serialize(graphFor(t, src))
	for i := 0; i < 5; i++ {
		if again := Serialize(graphFor(t, src)); again != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, again, first)
		}
	}
}

func TestQuoteValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"join", "join"},
		{"node_1", "node_1"},
		{"<div>", `"<div>"`},
		{"if $a", `"if $a"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a\nb", `"a\nb"`},
		{"", `""`},
		{"1abc", `"1abc"`},
	}

	for _, tc := range cases {
		if got := quoteValue(tc.in); got != tc.want {
			t.Errorf("quoteValue(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
