package mol_test

import (
	"fmt"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

func ExampleMolecule_Rings() {
	m := mol.New()
	for range 6 {
		m.AddAtom(6)
	}
	for i := range 6 {
		m.AddBond(i, (i+1)%6, 1)
	}
	m.AddAtom(8)
	m.AddBond(0, 6, 1)

	for _, r := range m.Rings() {
		fmt.Println("ring of", r.Size(), "atoms:", r.Atoms)
	}
	fmt.Println("oxygen in ring:", m.IsRingAtom(6))
	// Output:
	// ring of 6 atoms: [0 5 4 3 2 1]
	// oxygen in ring: false
}
