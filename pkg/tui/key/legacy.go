// ABOUTME: Legacy escape sequence mappings for CSI and SS3 terminal key codes.
// ABOUTME: Covers arrows (plain and Ctrl), home, end, page, delete, and backtab.

package key

// legacySequences maps standard CSI and SS3 escape sequences to Key values.
var legacySequences = map[string]Key{
	// CSI sequences
	"\x1b[A":  {Code: CodeUp},
	"\x1b[B":  {Code: CodeDown},
	"\x1b[C":  {Code: CodeRight},
	"\x1b[D":  {Code: CodeLeft},
	"\x1b[H":  {Code: CodeHome},
	"\x1b[F":  {Code: CodeEnd},
	"\x1b[1~": {Code: CodeHome},
	"\x1b[4~": {Code: CodeEnd},
	"\x1b[5~": {Code: CodePageUp},
	"\x1b[6~": {Code: CodePageDown},
	"\x1b[3~": {Code: CodeDelete},
	"\x1b[Z":  {Code: CodeBackTab, Mod: ModShift},

	// xterm modifier form: ESC [ 1 ; <mod> <final>, 5 = Ctrl, 3 = Alt
	"\x1b[1;5C": {Code: CodeRight, Mod: ModCtrl},
	"\x1b[1;5D": {Code: CodeLeft, Mod: ModCtrl},
	"\x1b[1;5A": {Code: CodeUp, Mod: ModCtrl},
	"\x1b[1;5B": {Code: CodeDown, Mod: ModCtrl},
	"\x1b[1;3C": {Code: CodeRight, Mod: ModAlt},
	"\x1b[1;3D": {Code: CodeLeft, Mod: ModAlt},

	// SS3 variants (application cursor mode)
	"\x1bOA": {Code: CodeUp},
	"\x1bOB": {Code: CodeDown},
	"\x1bOC": {Code: CodeRight},
	"\x1bOD": {Code: CodeLeft},
	"\x1bOH": {Code: CodeHome},
	"\x1bOF": {Code: CodeEnd},
}
