package shared

// Enums and constants shared by math, math/pool_fees and atlasswap.

// RoundDirection selects how a pool-token conversion rounds.
type RoundDirection uint8

const (
	RoundDirectionFloor   RoundDirection = 0
	RoundDirectionCeiling RoundDirection = 1
)

type TradeDirection uint8

const (
	TradeDirectionAtoB TradeDirection = 0
	TradeDirectionBtoA TradeDirection = 1
)

func (d TradeDirection) Opposite() TradeDirection {
	if d == TradeDirectionAtoB {
		return TradeDirectionBtoA
	}
	return TradeDirectionAtoB
}

func (d TradeDirection) String() string {
	if d == TradeDirectionAtoB {
		return "AtoB"
	}
	return "BtoA"
}

// CurveType tags the pricing strategy of a pool.
type CurveType uint8

const (
	CurveTypeConstantProduct CurveType = 0
	CurveTypeConstantPrice   CurveType = 1
	CurveTypeStable          CurveType = 2
	CurveTypeOffset          CurveType = 3
)

func (c CurveType) String() string {
	switch c {
	case CurveTypeConstantProduct:
		return "ConstantProduct"
	case CurveTypeConstantPrice:
		return "ConstantPrice"
	case CurveTypeStable:
		return "Stable"
	case CurveTypeOffset:
		return "Offset"
	}
	return "Unknown"
}

// ParseCurveType maps a curve name back to its tag.
func ParseCurveType(name string) (CurveType, bool) {
	for _, c := range []CurveType{CurveTypeConstantProduct, CurveTypeConstantPrice, CurveTypeStable, CurveTypeOffset} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

const (
	// Seed tag of the global state address.
	GlobalStateSeed = "atals-swap"

	CurveLen      = 33
	FeesLen       = 40
	PublicKeyLen  = 32
	BasisPointMax = 10_000

	// Pool token supply that a withdrawal can never burn through.
	MinLpSupply uint64 = 100_000

	DefaultLpDecimals uint8  = 8
	DefaultInitialLp  uint64 = 1_000_000_000

	StableMinAmp uint64 = 1
	StableMaxAmp uint64 = 1_000_000
)
