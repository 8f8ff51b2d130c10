package syncer

import (
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/domain/property"
	"stayledger/internal/usecase/readmodel"
)

func bookingRMFromDomain(b *booking.Booking, pos ledgerevent.Position) readmodel.BookingRM {
	rec := readmodel.BookingRM{
		LedgerID:           b.ID(),
		PropertyID:         b.PropertyID(),
		Guest:              b.Guest().String(),
		Host:               b.Host().String(),
		CheckIn:            b.Stay().CheckIn(),
		CheckOut:           b.Stay().CheckOut(),
		TotalAmount:        b.TotalAmount().Units(),
		PlatformFee:        b.PlatformFee().Units(),
		HostAmount:         b.HostAmount().Units(),
		Status:             b.Status().String(),
		CheckInWindowStart: timePtr(b.CheckInWindowStart()),
		CheckInDeadline:    timePtr(b.CheckInDeadline()),
		DisputeDeadline:    timePtr(b.DisputeDeadline()),
		IsCheckInComplete:  b.IsCheckInComplete(),
		IsResolvedByHost:   b.IsResolvedByHost(),
		IsResolvedByGuest:  b.IsResolvedByGuest(),
		DisputeReason:      b.DisputeReason(),
		PaidOffChain:       b.PaidOffChain(),
		PaymentReference:   b.PaymentReference(),
	}
	if s := b.Settlement(); s != nil {
		rec.Settlement = &readmodel.SettlementRM{
			GuestRefund:     s.GuestRefund.Units(),
			HostPayout:      s.HostPayout.Units(),
			PlatformFee:     s.PlatformFee.Units(),
			SettledOnLedger: s.SettledOnLedger,
		}
	}
	rec.At(pos)
	return rec
}

func propertyRMFromDomain(p *property.Property, pos ledgerevent.Position) readmodel.PropertyRM {
	rec := readmodel.PropertyRM{
		LedgerID:      p.ID(),
		Host:          p.Host().String(),
		Active:        p.Active(),
		PricePerNight: p.PricePerNight().Units(),
		MetadataURI:   p.MetadataURI(),
	}
	rec.At(pos)
	return rec
}

func bookingCreatedRM(p ledgerevent.BookingCreated, pos ledgerevent.Position) readmodel.BookingRM {
	rec := readmodel.BookingRM{
		LedgerID:         p.BookingID,
		PropertyID:       p.PropertyID,
		Guest:            p.Guest,
		Host:             p.Host,
		CheckIn:          p.CheckIn,
		CheckOut:         p.CheckOut,
		TotalAmount:      p.TotalAmount,
		PlatformFee:      p.PlatformFee,
		HostAmount:       p.HostAmount,
		Status:           booking.StatusActive.String(),
		PaidOffChain:     p.PaidOffChain,
		PaymentReference: p.PaymentReference,
	}
	rec.At(pos)
	return rec
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
