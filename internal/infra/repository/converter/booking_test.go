//go:build unit

package converter_test

import (
	"testing"

	"stayledger/internal/domain/booking"
	"stayledger/internal/infra/repository/converter"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/tests/common/builder"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelFromParams(p sqlc.CreateBookingParams) sqlc.Bookings {
	return sqlc.Bookings{
		ID:                 p.ID,
		PropertyID:         p.PropertyID,
		Guest:              p.Guest,
		Host:               p.Host,
		CheckIn:            p.CheckIn,
		CheckOut:           p.CheckOut,
		TotalAmount:        p.TotalAmount,
		PlatformFee:        p.PlatformFee,
		HostAmount:         p.HostAmount,
		Status:             p.Status,
		CheckInWindowStart: p.CheckInWindowStart,
		CheckInDeadline:    p.CheckInDeadline,
		DisputeDeadline:    p.DisputeDeadline,
		IsCheckInComplete:  p.IsCheckInComplete,
		IsResolvedByHost:   p.IsResolvedByHost,
		IsResolvedByGuest:  p.IsResolvedByGuest,
		DisputeReason:      p.DisputeReason,
		PaymentChannel:     p.PaymentChannel,
		PaymentReference:   p.PaymentReference,
		GuestRefund:        p.GuestRefund,
		HostPayout:         p.HostPayout,
		SettledFee:         p.SettledFee,
		SettledOnLedger:    p.SettledOnLedger,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func TestBookingModel(t *testing.T) {
	t.Run("active booking survives the row mapping", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		params := converter.BookingToCreateParams(b)
		assert.False(t, params.HostPayout.Valid)
		assert.False(t, params.SettledOnLedger.Valid)

		got, err := converter.BookingFromModel(modelFromParams(params))
		require.NoError(t, err)
		want := b.State()
		have := got.State()
		assert.Equal(t, want.ID, have.ID)
		assert.True(t, want.Guest.Equal(have.Guest))
		assert.True(t, want.Stay.CheckIn().Equal(have.Stay.CheckIn()))
		assert.Equal(t, want.Split, have.Split)
		assert.Equal(t, want.Status, have.Status)
		assert.Equal(t, want.Channel, have.Channel)
		assert.True(t, want.CheckInWindowStart.Equal(have.CheckInWindowStart))
		assert.Nil(t, have.Settlement)
	})

	t.Run("settlement columns are read when the payout is set", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		m := modelFromParams(converter.BookingToCreateParams(b))
		m.Status = booking.StatusCompleted.String()
		m.GuestRefund = pgtype.Int8{Int64: 0, Valid: true}
		m.HostPayout = pgtype.Int8{Int64: m.HostAmount, Valid: true}
		m.SettledFee = pgtype.Int8{Int64: m.PlatformFee, Valid: true}
		m.SettledOnLedger = pgtype.Bool{Bool: true, Valid: true}

		got, err := converter.BookingFromModel(m)
		require.NoError(t, err)
		st := got.State().Settlement
		require.NotNil(t, st)
		assert.Equal(t, m.HostAmount, st.HostPayout.Units())
		assert.Equal(t, m.PlatformFee, st.PlatformFee.Units())
		assert.True(t, st.SettledOnLedger)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		m := modelFromParams(converter.BookingToCreateParams(b))
		m.Status = "Teleported"

		_, err = converter.BookingFromModel(m)
		assert.Error(t, err)
	})
}
