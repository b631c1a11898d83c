package seal

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals vendor files use for floats.
const DefaultPrecision = 6

// tokens splits a line into whitespace-separated values while keeping the
// exact separators, so a line can be rebuilt with only some values replaced.
type tokens struct {
	seps []string // seps[i] precedes vals[i]; seps[len(vals)] trails the line
	vals []string
}

func splitTokens(line string) tokens {
	var t tokens
	i := 0
	for {
		start := i
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		sep := line[start:i]
		if i == len(line) {
			t.seps = append(t.seps, sep)
			return t
		}
		start = i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		t.seps = append(t.seps, sep)
		t.vals = append(t.vals, line[start:i])
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func (t tokens) String() string {
	var sb strings.Builder
	for i, v := range t.vals {
		sb.WriteString(t.seps[i])
		sb.WriteString(v)
	}
	sb.WriteString(t.seps[len(t.vals)])
	return sb.String()
}

// set replaces value i, appending with a single space when i is one past the end.
func (t *tokens) set(i int, v string) {
	if i < len(t.vals) {
		t.vals[i] = v
		return
	}
	trail := t.seps[len(t.vals)]
	t.seps[len(t.vals)] = " "
	t.vals = append(t.vals, v)
	t.seps = append(t.seps, trail)
	if len(t.vals) == 1 {
		// Empty line: nothing precedes the first value.
		t.seps[0] = ""
	}
}

// floats parses the first n values (all when n < 0). The error names the
// one-based column that failed.
func (t tokens) floats(n int) ([]float64, error) {
	if n < 0 || n > len(t.vals) {
		n = len(t.vals)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(t.vals[i], 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %q is not a number", i+1, t.vals[i])
		}
		out[i] = v
	}
	return out, nil
}

// numberFormat is how a template token renders a float.
type numberFormat struct {
	verb byte // 'f' or 'e'
	prec int
}

// formatOf infers the format of an existing token. Tokens without a decimal
// point fall back to fixed notation at DefaultPrecision.
func formatOf(tok string) numberFormat {
	mant := tok
	verb := byte('f')
	if i := strings.IndexAny(tok, "eE"); i >= 0 {
		mant = tok[:i]
		verb = 'e'
	}
	dot := strings.IndexByte(mant, '.')
	if dot < 0 {
		if verb == 'e' {
			return numberFormat{verb: 'e', prec: DefaultPrecision}
		}
		return numberFormat{verb: 'f', prec: DefaultPrecision}
	}
	return numberFormat{verb: verb, prec: len(mant) - dot - 1}
}

func (f numberFormat) format(v float64) string {
	s := strconv.FormatFloat(v, f.verb, f.prec, 64)
	if s == "-"+strconv.FormatFloat(0, f.verb, f.prec, 64) {
		// Avoid "-0.000000" for values that round to zero.
		return s[1:]
	}
	return s
}
