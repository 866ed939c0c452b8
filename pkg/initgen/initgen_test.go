package initgen

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/zinit/pkg/ctypes"
	"github.com/raymyers/zinit/pkg/fieldtree"
	"github.com/raymyers/zinit/pkg/typedef"
	"gopkg.in/yaml.v3"
)

// TestSpec represents a test case from initgen.yaml
type TestSpec struct {
	Name   string   `yaml:"name"`
	Header string   `yaml:"header"`
	Alias  string   `yaml:"alias"`
	Root   string   `yaml:"root"`
	Exprs  []string `yaml:"exprs,omitempty"`
	Want   []string `yaml:"want,omitempty"`
	Error  string   `yaml:"error,omitempty"` // expected typedef.Kind
}

// TestFile represents the initgen.yaml file structure
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

func loadCases(t *testing.T) []TestSpec {
	t.Helper()
	data, err := os.ReadFile("../../testdata/initgen.yaml")
	if err != nil {
		t.Fatalf("failed to read initgen.yaml: %v", err)
	}
	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse initgen.yaml: %v", err)
	}
	return testFile.Tests
}

func TestGenerateYAML(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			res, err := Generate(tc.Header, tc.Alias, tc.Root, Options{})

			if tc.Error != "" {
				var te *typedef.Error
				if !errors.As(err, &te) {
					t.Fatalf("expected %s error, got %v", tc.Error, err)
				}
				if te.Kind.String() != tc.Error {
					t.Errorf("error kind = %q, want %q (%v)", te.Kind, tc.Error, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}

			if tc.Exprs != nil && !reflect.DeepEqual(res.Exprs, tc.Exprs) {
				t.Errorf("exprs mismatch\ngot:  %q\nwant: %q", res.Exprs, tc.Exprs)
			}
			if !reflect.DeepEqual(res.Blocks, tc.Want) {
				t.Errorf("blocks mismatch\ngot:\n%s\nwant:\n%s",
					strings.Join(res.Blocks, "\n"), strings.Join(tc.Want, "\n"))
			}
			if len(res.Blocks) != res.Tree.Leaves() {
				t.Errorf("%d blocks for %d leaves", len(res.Blocks), res.Tree.Leaves())
			}
		})
	}
}

func TestEmitBacktracksBetweenSiblings(t *testing.T) {
	root := &fieldtree.Node{
		Name: "r", DataType: "S", Kind: fieldtree.Struct,
		Children: []*fieldtree.Node{
			{Name: "in", DataType: "In[2]", Kind: fieldtree.Struct, Children: []*fieldtree.Node{
				{Name: "a", DataType: "uint8", Kind: fieldtree.Leaf},
				{Name: "b", DataType: "uint8[4]", Kind: fieldtree.Leaf},
			}},
			{Name: "c", DataType: "int32", Kind: fieldtree.Leaf},
		},
	}
	want := []string{
		"r.in[2].a = 0;",
		"r.in[2].b[4] = 0;",
		"r.c = 0;",
	}
	if got := Emit(root); !reflect.DeepEqual(got, want) {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitSkipsEmptyStruct(t *testing.T) {
	root := &fieldtree.Node{Name: "r", DataType: "Empty", Kind: fieldtree.Struct}
	if got := Emit(root); len(got) != 0 {
		t.Errorf("Emit = %q, want nothing", got)
	}
}

func TestNestPassThrough(t *testing.T) {
	for _, stmt := range []string{"x = 0;", "a.b.c = 0;", ""} {
		if got := Nest(stmt); got != stmt {
			t.Errorf("Nest(%q) = %q", stmt, got)
		}
		if got := Nest(Nest(stmt)); got != stmt {
			t.Errorf("Nest is not idempotent on %q", stmt)
		}
	}
}

func TestNestDepthMatchesAnnotations(t *testing.T) {
	for n := 1; n <= 25; n++ {
		stmt := "v" + strings.Repeat("[2]", n) + " = 0;"
		out := Nest(stmt)
		lines := strings.Split(out, "\n")
		if len(lines) != 2*n+1 {
			t.Fatalf("depth %d: %d lines", n, len(lines))
		}
		if got := strings.Count(out, "for (int "); got != n {
			t.Errorf("depth %d: %d loops", n, got)
		}
		body := lines[n]
		if !strings.HasPrefix(body, strings.Repeat("\t", n)+"v[") {
			t.Errorf("depth %d: body not indented: %q", n, body)
		}
		if len(ctypes.AnnotationRe.FindAllString(body, -1)) != 0 {
			t.Errorf("depth %d: literal index left in %q", n, body)
		}
		for i := 0; i < n; i++ {
			closing := lines[2*n-i]
			if closing != strings.Repeat("\t", i)+"}" {
				t.Errorf("depth %d: closing %d = %q", n, i, closing)
			}
		}
	}
}

func TestNestCustomIndentAndPrefix(t *testing.T) {
	n := Nester{IndexPrefix: "idx_", Indent: "    "}
	got := n.Nest("s.m[ 02 ][5] = 0;")
	want := "for (int idx_i = 0; idx_i < 2; idx_i++) {\n" +
		"    for (int idx_j = 0; idx_j < 5; idx_j++) {\n" +
		"        s.m[idx_i][idx_j] = 0;\n" +
		"    }\n" +
		"}"
	if got != want {
		t.Errorf("Nest =\n%s\nwant\n%s", got, want)
	}
}

func TestIndexName(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "myi"},
		{1, "myj"},
		{9, "myr"},
		{17, "myz"},
		{18, "myi1"},
		{37, "myj2"},
	}
	for _, tt := range tests {
		if got := IndexName("my", tt.i); got != tt.want {
			t.Errorf("IndexName(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		name := IndexName("my", i)
		if seen[name] {
			t.Fatalf("duplicate index name %q at %d", name, i)
		}
		seen[name] = true
	}
}

func TestGeneratorReusesDatabase(t *testing.T) {
	db, err := typedef.Parse(`
typedef struct A { uint8 x; } a_t;
typedef struct B { a_t inner; uint16 y; } b_t;
`)
	if err != nil {
		t.Fatal(err)
	}
	g := New(db, Options{Primitives: ctypes.Default()})
	if len(g.Database()) != 2 {
		t.Fatalf("Database() has %d entries", len(g.Database()))
	}

	a, err := g.Generate("a_t", "a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Generate("b_t", "b")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Blocks, []string{"a.x = 0;"}) {
		t.Errorf("a blocks = %q", a.Blocks)
	}
	if !reflect.DeepEqual(b.Blocks, []string{"b.inner.x = 0;", "b.y = 0;"}) {
		t.Errorf("b blocks = %q", b.Blocks)
	}
}

func TestGenerateWrapsErrors(t *testing.T) {
	_, err := Generate("typedef int32 a;", "b", "v", Options{})
	if !errors.Is(err, typedef.ErrAliasNotFound) {
		t.Fatalf("expected alias not found, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "resolving b: ") {
		t.Errorf("error = %q", err)
	}
}

func TestNestOversizedBoundKeptVerbatim(t *testing.T) {
	got := Nest("v[99999999999999999999][007] = 0;")
	want := "for (int myi = 0; myi < 99999999999999999999; myi++) {\n" +
		"\tfor (int myj = 0; myj < 007; myj++) {\n" +
		"\t\tv[myi][myj] = 0;\n" +
		"\t}\n" +
		"}"
	if got != want {
		t.Errorf("Nest =\n%s\nwant\n%s", got, want)
	}
}

func TestNewLogsPrimitiveSet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	New(nil, Options{Primitives: ctypes.NewSet("u8", "flag"), Logger: logger})

	out := buf.String()
	if !strings.Contains(out, "primitive set") || !strings.Contains(out, "[u8 flag]") {
		t.Errorf("log = %q", out)
	}
}
