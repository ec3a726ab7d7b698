package inventor_test

import (
	"fmt"

	"github.com/greatlse/openchemlib/pkg/core/inventor"
	"github.com/greatlse/openchemlib/pkg/core/mol"
)

func ExampleInventor_Invent() {
	// propan-2-ol
	m := mol.New()
	c1 := m.AddAtom(6)
	c2 := m.AddAtom(6)
	c3 := m.AddAtom(6)
	o := m.AddAtom(8)
	m.AddBond(c1, c2, 1)
	m.AddBond(c2, c3, 1)
	m.AddBond(c2, o, 1)

	report := inventor.New(inventor.ModeRemoveHydrogen, inventor.WithSeed(1)).Invent(m)

	for bond := range m.AllBonds() {
		fmt.Printf("bond %d: %.2f\n", bond, m.BondLength(bond))
	}
	fmt.Println("atoms:", report.Atoms)
	// Output:
	// bond 0: 1.00
	// bond 1: 1.00
	// bond 2: 1.00
	// atoms: 4
}
