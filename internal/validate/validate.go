// Package validate checks and sanitizes Brazilian registry identifiers
// found in eSocial events. Validation never rejects a record: failures are
// logged and the sanitized value is stored anyway, since dropping payroll
// rows silently would be worse than storing a flagged identifier.
package validate

import (
	"strings"
	"time"
)

// Logger is the minimal logging surface used for sanitation warnings.
type Logger interface {
	Printf(format string, v ...any)
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// CPF verifies an 11-digit CPF including both check digits. Empty input is
// invalid; formatting characters are ignored.
func CPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 || allSame(d) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * (10 - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	if r != int(d[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(d[i]-'0') * (11 - i)
	}
	r = (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return r == int(d[10]-'0')
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	pisWeights   = []int{3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// CNPJ verifies a 14-digit CNPJ including both check digits.
func CNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 || allSame(d) {
		return false
	}

	if checkDigit11(d, cnpjWeights1) != int(d[12]-'0') {
		return false
	}
	return checkDigit11(d, cnpjWeights2) == int(d[13]-'0')
}

// PIS verifies an 11-digit PIS/NIS number. Empty input counts as valid:
// the field is optional in several layouts.
func PIS(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	d := Digits(s)
	if len(d) != 11 || allSame(d) {
		return false
	}
	return checkDigit11(d, pisWeights) == int(d[10]-'0')
}

// checkDigit11 computes a mod-11 check digit over the weighted prefix.
func checkDigit11(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// PlausibleDate accepts empty values and ISO dates with a year between
// 1900 and next year. eSocial events occasionally carry placeholder dates
// far in the past or future; those are flagged.
func PlausibleDate(s string) bool {
	if s == "" {
		return true
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	y := d.Year()
	return y >= 1900 && y <= time.Now().Year()+1
}

// Sanitize normalizes identifier columns in place and logs validation
// warnings. code is the layout code the record came from; it selects the
// per-layout rules.
func Sanitize(code string, rec map[string]any, log Logger) {
	if cpf, ok := rec["cpf_trabalhador"].(string); ok && cpf != "" {
		clean := Digits(cpf)
		rec["cpf_trabalhador"] = clean
		if !CPF(clean) {
			warnf(log, "validate: layout=%s cpf_trabalhador=%q failed check digits", code, clean)
		}
	}
	if cnpj, ok := rec["cnpj_empregador"].(string); ok && cnpj != "" {
		clean := Digits(cnpj)
		rec["cnpj_empregador"] = clean
		if !CNPJ(clean) {
			warnf(log, "validate: layout=%s cnpj_empregador=%q failed check digits", code, clean)
		}
	}
	if pis, ok := rec["pis_trabalhador"].(string); ok && pis != "" {
		clean := Digits(pis)
		rec["pis_trabalhador"] = clean
		if !PIS(clean) {
			warnf(log, "validate: layout=%s pis_trabalhador=%q failed check digit", code, clean)
		}
	}

	for _, col := range []string{"data_admissao", "data_alteracao", "data_inicio_afastamento", "data_fim_afastamento", "data_nascimento"} {
		if d, ok := rec[col].(string); ok && d != "" && !PlausibleDate(d) {
			warnf(log, "validate: layout=%s %s=%q outside plausible range", code, col, d)
		}
	}

	switch code {
	case "S-2200":
		if nm, ok := rec["nome_trabalhador"].(string); ok && nm != "" {
			rec["nome_trabalhador"] = stripSymbols(nm)
		}
	case "S-1020":
		if c, ok := rec["codigo"].(string); ok && c != "" {
			rec["codigo"] = stripNonWord(c)
		}
	case "S-1030":
		if cbo, ok := rec["cbo"].(string); ok && cbo != "" {
			rec["cbo"] = padCBO(Digits(cbo))
		}
	}
}

// stripSymbols removes punctuation while keeping letters, digits and
// whitespace (accented letters included).
func stripSymbols(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) || r == ' ' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripNonWord(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case r > 127:
		// Accented letters and other non-ASCII word characters.
		return true
	}
	return false
}

// padCBO left-pads occupation codes to six digits and truncates longer
// values, the fixed CBO width.
func padCBO(d string) string {
	if len(d) >= 6 {
		return d[:6]
	}
	return strings.Repeat("0", 6-len(d)) + d
}

func warnf(log Logger, format string, v ...any) {
	if log != nil {
		log.Printf(format, v...)
	}
}
