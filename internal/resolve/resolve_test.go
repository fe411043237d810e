package resolve

import (
	"strings"
	"testing"

	"esocialetl/internal/tree"
)

func payload(t *testing.T, doc string) tree.Tree {
	t.Helper()
	out, err := tree.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return out
}

func TestValue_Priority(t *testing.T) {
	t.Parallel()

	p := payload(t, `<evtAdmissao><trabalhador><cpfTrab>111</cpfTrab><nmSoc>Apelido</nmSoc></trabalhador></evtAdmissao>`)["evtAdmissao"].(tree.Tree)

	def := FieldDef{
		Column:       "CPF",
		RecordColumn: "cpf_trabalhador",
		Path:         []string{"trabalhador", "cpfTrab"},
		Alternatives: [][]string{{"trabalhador", "nmSoc"}},
		Default:      "zzz",
	}

	// Flat column wins.
	got := Value(map[string]any{"cpf_trabalhador": "222"}, p, def)
	if got != "222" {
		t.Fatalf("Value()=%q, want flat column 222", got)
	}

	// Empty flat column falls through to the primary path.
	got = Value(map[string]any{"cpf_trabalhador": ""}, p, def)
	if got != "111" {
		t.Fatalf("Value()=%q, want path value 111", got)
	}

	// Missing primary path falls through to alternatives.
	def2 := def
	def2.Path = []string{"trabalhador", "inexistente"}
	got = Value(map[string]any{}, p, def2)
	if got != "Apelido" {
		t.Fatalf("Value()=%q, want alternative Apelido", got)
	}

	// Nothing matches: default.
	def3 := def
	def3.Path = []string{"x"}
	def3.Alternatives = nil
	got = Value(map[string]any{}, nil, def3)
	if got != "zzz" {
		t.Fatalf("Value()=%q, want default zzz", got)
	}
}

func TestValue_UnwrapsTextKey(t *testing.T) {
	t.Parallel()

	p := payload(t, `<ev><vr>100.50<obs>x</obs></vr></ev>`)["ev"].(tree.Tree)
	def := FieldDef{Column: "VALOR", Path: []string{"vr"}}
	if got := Value(map[string]any{}, p, def); got != "100.50" {
		t.Fatalf("Value()=%q, want 100.50 via _text", got)
	}
}

func TestValue_PathAnchorsAtAnyDepth(t *testing.T) {
	t.Parallel()

	p := payload(t, `<evtAfastTemp><infoAfastamento><iniAfastamento><dtIniAfast>2023-02-01</dtIniAfast></iniAfastamento></infoAfastamento></evtAfastTemp>`)

	// Mid-tree path with the mapping document's _text tail.
	def := FieldDef{Column: "INICIO", Path: []string{"iniAfastamento", "dtIniAfast", "_text"}}
	if got := Value(map[string]any{}, p, def); got != "2023-02-01" {
		t.Fatalf("Value()=%q, want 2023-02-01", got)
	}

	// Fully rooted spelling of the same field resolves too.
	def.Path = []string{"evtAfastTemp", "infoAfastamento", "iniAfastamento", "dtIniAfast"}
	if got := Value(map[string]any{}, p, def); got != "2023-02-01" {
		t.Fatalf("Value()=%q, want 2023-02-01 via rooted path", got)
	}
}

func TestFormatDecimal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234,56"},
		{"1234.56", "1234,56"},
		{"1234,5", "1234,50"},
		{"0", "0,00"},
		{"abc", "abc"},
	}
	for _, tc := range cases {
		if got := FormatDecimal(tc.in, 2); got != tc.want {
			t.Errorf("FormatDecimal(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"2023-07-15", "15/07/2023"},
		{"15/07/2023", "15/07/2023"},
		{"2023-07-15T10:30:00", "15/07/2023"},
		{"nao-e-data", "nao-e-data"},
	}
	for _, tc := range cases {
		if got := FormatDate(tc.in); got != tc.want {
			t.Errorf("FormatDate(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplay_DatetimeDropsTimeOfDay(t *testing.T) {
	t.Parallel()

	if got := Display("2023-07-15T10:30:00", "datetime"); got != "15/07/2023" {
		t.Fatalf("Display(datetime)=%q, want 15/07/2023", got)
	}
}

func TestApplyHint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw, hint, want string
	}{
		{"2023-07-15", "date", "15/07/2023"},
		{"2023-07-15", "DD/MM/YYYY", "15/07/2023"},
		{"2023-07-15T08:05:00", "time", "08:05:00"},
		{"1500.5", "money", "1500,50"},
		{"3.14159", "number.3", "3,142"},
		{"42", "number", "42,00"},
		{"texto", "", "texto"},
		{"texto", "upper?", "texto"},
	}
	for _, tc := range cases {
		if got := ApplyHint(tc.raw, tc.hint); got != tc.want {
			t.Errorf("ApplyHint(%q, %q)=%q, want %q", tc.raw, tc.hint, got, tc.want)
		}
	}
}
