package inventor

import (
	"slices"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

const maxRankedNeighbors = 6

// symmetryRanks partitions atoms into classes of topologically equivalent
// atoms. Ranks start at 1. The seed distinguishes atoms by degree and by
// the E/Z parities of their double bonds; each round refines classes by
// the sorted ranks of up to six neighbors until the class count is
// stable.
func (c *invocation) symmetryRanks() []int {
	sig := make([][]int, c.atoms)
	for atom := range c.atoms {
		sig[atom] = []int{c.conn[atom]}
	}
	for bond := range c.bonds {
		p := c.m.BondParity(bond)
		if p != mol.ParityE && p != mol.ParityZ {
			continue
		}
		for i := range 2 {
			if atom := c.m.BondAtom(i, bond); atom < c.atoms {
				sig[atom] = append(sig[atom], int(p))
			}
		}
	}
	for _, s := range sig {
		slices.Sort(s[1:])
	}

	ranks := make([]int, c.atoms)
	count := consolidateRanks(sig, ranks)
	nbRanks := make([]int, 0, maxRankedNeighbors)
	for {
		for atom := range c.atoms {
			nbRanks = nbRanks[:0]
			for i := range c.conn[atom] {
				nbRanks = append(nbRanks, ranks[c.connAtom(atom, i)])
			}
			slices.Sort(nbRanks)
			n := min(maxRankedNeighbors, len(nbRanks))

			s := make([]int, 1+maxRankedNeighbors)
			s[0] = ranks[atom]
			copy(s[1+maxRankedNeighbors-n:], nbRanks[:n])
			sig[atom] = s
		}
		next := consolidateRanks(sig, ranks)
		if next == count {
			return ranks
		}
		count = next
	}
}

// consolidateRanks assigns dense ranks by signature order and returns the
// number of distinct ranks.
func consolidateRanks(sig [][]int, ranks []int) int {
	order := make([]int, len(sig))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return slices.Compare(sig[a], sig[b]) })

	rank := 0
	for i, atom := range order {
		if i == 0 || slices.Compare(sig[atom], sig[order[i-1]]) != 0 {
			rank++
		}
		ranks[atom] = rank
	}
	return rank
}
