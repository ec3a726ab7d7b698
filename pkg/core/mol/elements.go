package mol

import "strings"

var symbols = []string{
	"?",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols[1:] {
		m[strings.ToLower(s)] = i + 1
	}
	m["d"] = 1
	m["t"] = 1
	return m
}()

// Symbol returns the element symbol for an atomic number, or "?" if it is
// unknown.
func Symbol(atomicNo int) string {
	if atomicNo <= 0 || atomicNo >= len(symbols) {
		return "?"
	}
	return symbols[atomicNo]
}

// AtomicNumber returns the atomic number of an element symbol. The lookup is
// case-insensitive. Unknown symbols yield 0 and false.
func AtomicNumber(symbol string) (int, bool) {
	n, ok := atomicNumbers[strings.ToLower(strings.TrimSpace(symbol))]
	return n, ok
}
