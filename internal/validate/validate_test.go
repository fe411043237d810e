package validate

import (
	"fmt"
	"strings"
	"testing"
)

type fakeLogger struct {
	msgs []string
}

func (l *fakeLogger) Printf(format string, v ...any) {
	l.msgs = append(l.msgs, fmt.Sprintf(format, v...))
}

func TestCPF(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"52998224725", true},
		{"529.982.247-25", true},
		{"52998224724", false},
		{"11111111111", false},
		{"1234567890", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := CPF(tc.in); got != tc.want {
			t.Errorf("CPF(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCNPJ(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"11222333000181", true},
		{"11.222.333/0001-81", true},
		{"11222333000180", false},
		{"00000000000000", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := CNPJ(tc.in); got != tc.want {
			t.Errorf("CNPJ(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPIS(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", true}, // optional field
		{"12345678900", true},
		{"12345678901", false},
		{"22222222222", false},
		{"123", false},
	}
	for _, tc := range cases {
		if got := PIS(tc.in); got != tc.want {
			t.Errorf("PIS(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPlausibleDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"2020-05-10", true},
		{"1899-12-31", false},
		{"2150-01-01", false},
		{"10/05/2020", false},
		{"2020-13-01", false},
	}
	for _, tc := range cases {
		if got := PlausibleDate(tc.in); got != tc.want {
			t.Errorf("PlausibleDate(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSanitize_KeepsRecordAndWarns(t *testing.T) {
	t.Parallel()

	log := &fakeLogger{}
	rec := map[string]any{
		"cpf_trabalhador": "529.982.247-24", // bad check digit
		"cnpj_empregador": "11.222.333/0001-81",
	}
	Sanitize("S-2200", rec, log)

	if rec["cpf_trabalhador"] != "52998224724" {
		t.Fatalf("cpf=%v, want digits kept despite failure", rec["cpf_trabalhador"])
	}
	if rec["cnpj_empregador"] != "11222333000181" {
		t.Fatalf("cnpj=%v, want normalized digits", rec["cnpj_empregador"])
	}
	found := false
	for _, m := range log.msgs {
		if strings.Contains(m, "cpf_trabalhador") {
			found = true
		}
		if strings.Contains(m, "cnpj_empregador") {
			t.Fatalf("unexpected warning for valid cnpj: %v", log.msgs)
		}
	}
	if !found {
		t.Fatalf("msgs=%v, want cpf warning", log.msgs)
	}
}

func TestSanitize_LayoutRules(t *testing.T) {
	t.Parallel()

	rec := map[string]any{"nome_trabalhador": "José d'Ávila."}
	Sanitize("S-2200", rec, nil)
	if rec["nome_trabalhador"] != "José dÁvila" {
		t.Fatalf("nome=%q, want punctuation stripped", rec["nome_trabalhador"])
	}

	rec = map[string]any{"codigo": "LOT 01-A"}
	Sanitize("S-1020", rec, nil)
	if rec["codigo"] != "LOT01A" {
		t.Fatalf("codigo=%q, want LOT01A", rec["codigo"])
	}

	rec = map[string]any{"cbo": "25-41"}
	Sanitize("S-1030", rec, nil)
	if rec["cbo"] != "002541" {
		t.Fatalf("cbo=%q, want 002541", rec["cbo"])
	}
}
