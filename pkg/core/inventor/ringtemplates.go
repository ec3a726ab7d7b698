package inventor

// ringTemplates holds alternating-turn patterns for large rings, indexed by
// ring size minus 10. Bit i of a pattern belongs to ring bond i: 0 (E)
// alternates the turn direction behind the bond, 1 (Z) keeps it. Patterns
// with templateAsymmetric set differ from their bit reversal. Zero entries
// are placeholders.
var ringTemplates = [][]uint32{
	{ // 10-membered rings
		0x00000273,
	},
	nil,
	{ // 12-membered rings
		0x00000999,
	},
	nil,
	{ // 14-membered rings
		0x00000993,
		0x000021C3,
		0x000009D7,
	},
	nil,
	{ // 16-membered rings
		0x00008649,
		0x80008759,
	},
	nil,
	{ // 18-membered rings
		0x00009249,
		0x00021861,
		0x000175D7,
		0x00008643,
		0x000093B7,
		0x0000D66B,
		0x00020703,
		0x8002A753,
		0x0000D649,
		0x0000D759,
		0x80008753,
		0x80008717,
	},
	nil,
	{ // 20-membered rings
		0x00081909,
		0x00081D6B,
		0x000DB861,
		0x00021849,
		0x000A9959,
		0x80081D49,
		0x800819A3,
		0x80084ED9,
		0x80087475,
		0x80087464,
		0x800D19A9,
		0x80086BA9,
		0x800849A9,
		0x80086B21,
	},
	nil,
	{ // 22-membered rings
		0x00084909,
		0x00021843,
		0x00206121,
		0x00081903,
		0x0021AC35,
		0x802A4D49,
		0x00035849,
		0x002B5909,
		0x00021953,
		0x80095909,
		0x80035959,
		0x00095D49,
		0x80206561,
		0x800D1909,
		0x000A9953,
		0x00257535,
		0x80207461,
		0x80021D13,
		0x800876C9,
		0x80086BA3,
		0x802B5D49,
		0x80081D43,
		0x800D192B,
		0x800D1D49,
		0x002B5D6B,
		0x001066D9,
		0x800D19A3,
		0x002AB953,
		0x802A1D43,
		0x00021D57,
		0x000D1C59,
		0x8021DB35,
		0x80229903,
		0x800D1D6B,
		0x802A76C9,
		0x800876EB,
		0x80369909,
		0x80347535,
		0x800A9917,
		0x0022EBA3,
		0x00084E97,
		0x00201C03,
		0x8008B917,
		0x802DD753,
		0x00377249,
		0x80095CB7,
		0x80081C17,
	},
	nil,
	{ // 24-membered rings
		0x00818181,
		0x002126D9,
		0x00204C03,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x00000000,
		0x0086BB75,
	},
}

const templateAsymmetric uint32 = 0x80000000
