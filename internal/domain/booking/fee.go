package booking

import "math/big"

const DefaultFeeDenominator = 10000

// FeeRate is a basis-point style ratio. The rate in force when a booking is
// created is the one its split is computed with.
type FeeRate struct {
	Numerator   int64
	Denominator int64
}

// FeeSchedule holds one rate per payment channel.
type FeeSchedule struct {
	OnLedger FeeRate
	OffChain FeeRate
}

// NewFeeSchedule rejects rates that could not produce a conserving split.
func NewFeeSchedule(onLedger, offChain FeeRate) (FeeSchedule, error) {
	if err := onLedger.Validate(); err != nil {
		return FeeSchedule{}, err
	}
	if err := offChain.Validate(); err != nil {
		return FeeSchedule{}, err
	}
	return FeeSchedule{OnLedger: onLedger, OffChain: offChain}, nil
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		OnLedger: FeeRate{Numerator: 300, Denominator: DefaultFeeDenominator}, // 3%
		OffChain: FeeRate{Numerator: 50, Denominator: DefaultFeeDenominator},  // 0.5%
	}
}

func (s FeeSchedule) For(channel PaymentChannel) FeeRate {
	if channel == ChannelOffChain {
		return s.OffChain
	}
	return s.OnLedger
}

// Validate requires a positive denominator and 0 <= numerator <= denominator.
func (r FeeRate) Validate() error {
	if r.Denominator <= 0 || r.Numerator < 0 || r.Numerator > r.Denominator {
		return ErrInvalidFeeRate
	}
	return nil
}

type FeeSplit struct {
	Total       Amount
	PlatformFee Amount
	HostAmount  Amount
}

// Split floors the fee so that PlatformFee + HostAmount == Total exactly.
func (r FeeRate) Split(total Amount) FeeSplit {
	fee := mulDiv(total.units, r.Numerator, r.Denominator)
	if fee > total.units {
		fee = total.units
	}
	return FeeSplit{
		Total:       total,
		PlatformFee: Amount{units: fee},
		HostAmount:  Amount{units: total.units - fee},
	}
}

// Settlement is how escrowed funds leave the booking.
type Settlement struct {
	GuestRefund     Amount
	HostPayout      Amount
	PlatformFee     Amount
	SettledOnLedger bool
}

// splitHostAmount divides hostAmount by guest percentage. The platform fee is
// never part of the split.
func splitHostAmount(hostAmount Amount, guestPercentage int) (guest, host Amount) {
	g := mulDiv(hostAmount.units, int64(guestPercentage), 100)
	return Amount{units: g}, Amount{units: hostAmount.units - g}
}

func mulDiv(a, b, d int64) int64 {
	if d <= 0 {
		return 0
	}
	n := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	n.Quo(n, big.NewInt(d))
	return n.Int64()
}
