package ui

import "testing"

// The mono theme is plain ASCII; every symbol and border it defines,
// including the failure symbol, must stay that way.
func TestMonoThemeIsASCII(t *testing.T) {
	SetTheme("mono")
	defer func() {
		SetTheme("classic")
		SetColorForcing(false, false)
	}()

	th := Current()
	parts := map[string]string{
		"BoxUnchecked": th.BoxUnchecked,
		"BoxChecked":   th.BoxChecked,
		"SymDone":      th.SymDone,
		"SymUnchecked": th.SymUnchecked,
		"SymFail":      th.SymFail,
		"CornerTL":     th.CornerTL,
		"CornerTR":     th.CornerTR,
		"CornerBL":     th.CornerBL,
		"CornerBR":     th.CornerBR,
		"H":            th.H,
		"V":            th.V,
	}
	for name, s := range parts {
		if s == "" {
			t.Errorf("mono theme %s is empty", name)
		}
		for _, r := range s {
			if r > 127 {
				t.Errorf("mono theme %s contains non-ASCII %q", name, s)
			}
		}
	}
}

func TestFailLineUsesThemeSymbol(t *testing.T) {
	SetTheme("mono")
	defer func() {
		SetTheme("classic")
		SetColorForcing(false, false)
	}()

	if got := failLine("boom"); got != "! boom" {
		t.Errorf("failLine = %q, want %q", got, "! boom")
	}
	if got := okLine("done"); got != "x done" {
		t.Errorf("okLine = %q, want %q", got, "x done")
	}
}
