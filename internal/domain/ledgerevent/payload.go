package ledgerevent

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrMalformedArgs = errors.New("malformed event args")

// Payload is the closed set of typed event bodies. The unexported method keeps
// the set sealed to this package so a type switch over it stays exhaustive.
type Payload interface {
	EventName() Name
	encode(w *argWriter)
}

type PropertyListed struct {
	PropertyID    string
	Host          string
	PricePerNight int64
	MetadataURI   string
}

type PropertyStatusChanged struct {
	PropertyID string
	Active     bool
}

type BookingCreated struct {
	BookingID        int64
	PropertyID       string
	Guest            string
	Host             string
	CheckIn          time.Time
	CheckOut         time.Time
	TotalAmount      int64
	PlatformFee      int64
	HostAmount       int64
	PaidOffChain     bool
	PaymentReference string
}

type CheckInWindowOpened struct {
	BookingID   int64
	WindowStart time.Time
	Deadline    time.Time
}

type CheckedIn struct {
	BookingID int64
	Guest     string
}

type DisputeRaised struct {
	BookingID       int64
	Reason          string
	DisputeDeadline time.Time
}

type DisputeResolvedByHost struct {
	BookingID int64
}

type DisputeResolvedByGuest struct {
	BookingID int64
}

type DisputeEscalated struct {
	BookingID int64
}

type AdminResolved struct {
	BookingID       int64
	GuestPercentage int
	GuestShare      int64
	HostShare       int64
}

type BookingCompleted struct {
	BookingID       int64
	HostPayout      int64
	PlatformFee     int64
	SettledOnLedger bool
}

type BookingRefunded struct {
	BookingID   int64
	GuestRefund int64
}

type BookingCancelled struct {
	BookingID   int64
	GuestRefund int64
}

// Ignored stands in for any event outside the rental domain.
type Ignored struct {
	Name Name
}

func (PropertyListed) EventName() Name         { return NamePropertyListed }
func (PropertyStatusChanged) EventName() Name  { return NamePropertyStatusChanged }
func (BookingCreated) EventName() Name         { return NameBookingCreated }
func (CheckInWindowOpened) EventName() Name    { return NameCheckInWindowOpened }
func (CheckedIn) EventName() Name              { return NameCheckedIn }
func (DisputeRaised) EventName() Name          { return NameDisputeRaised }
func (DisputeResolvedByHost) EventName() Name  { return NameDisputeResolvedByHost }
func (DisputeResolvedByGuest) EventName() Name { return NameDisputeResolvedByGuest }
func (DisputeEscalated) EventName() Name       { return NameDisputeEscalated }
func (AdminResolved) EventName() Name          { return NameAdminResolved }
func (BookingCompleted) EventName() Name       { return NameBookingCompleted }
func (BookingRefunded) EventName() Name        { return NameBookingRefunded }
func (BookingCancelled) EventName() Name       { return NameBookingCancelled }
func (i Ignored) EventName() Name              { return i.Name }

func (p PropertyListed) encode(w *argWriter) {
	w.str("propertyId", p.PropertyID)
	w.str("host", p.Host)
	w.int("pricePerNight", p.PricePerNight)
	w.str("metadataUri", p.MetadataURI)
}

func (p PropertyStatusChanged) encode(w *argWriter) {
	w.str("propertyId", p.PropertyID)
	w.bool("active", p.Active)
}

func (p BookingCreated) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.str("propertyId", p.PropertyID)
	w.str("guest", p.Guest)
	w.str("host", p.Host)
	w.time("checkIn", p.CheckIn)
	w.time("checkOut", p.CheckOut)
	w.int("totalAmount", p.TotalAmount)
	w.int("platformFee", p.PlatformFee)
	w.int("hostAmount", p.HostAmount)
	w.bool("paidOffChain", p.PaidOffChain)
	w.str("paymentReference", p.PaymentReference)
}

func (p CheckInWindowOpened) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.time("windowStart", p.WindowStart)
	w.time("deadline", p.Deadline)
}

func (p CheckedIn) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.str("guest", p.Guest)
}

func (p DisputeRaised) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.str("reason", p.Reason)
	w.time("disputeDeadline", p.DisputeDeadline)
}

func (p DisputeResolvedByHost) encode(w *argWriter)  { w.int("bookingId", p.BookingID) }
func (p DisputeResolvedByGuest) encode(w *argWriter) { w.int("bookingId", p.BookingID) }
func (p DisputeEscalated) encode(w *argWriter)       { w.int("bookingId", p.BookingID) }

func (p AdminResolved) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.int("guestPercentage", int64(p.GuestPercentage))
	w.int("guestShare", p.GuestShare)
	w.int("hostShare", p.HostShare)
}

func (p BookingCompleted) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.int("hostPayout", p.HostPayout)
	w.int("platformFee", p.PlatformFee)
	w.bool("settledOnLedger", p.SettledOnLedger)
}

func (p BookingRefunded) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.int("guestRefund", p.GuestRefund)
}

func (p BookingCancelled) encode(w *argWriter) {
	w.int("bookingId", p.BookingID)
	w.int("guestRefund", p.GuestRefund)
}

func (Ignored) encode(*argWriter) {}

// Encode flattens a payload into the ledger's name + argument tuple form.
func Encode(p Payload) (Name, Args) {
	w := &argWriter{args: Args{}}
	p.encode(w)
	return p.EventName(), w.args
}

// Decode maps a raw ledger event onto its typed payload. Names outside the
// rental domain decode to Ignored without error.
func Decode(e Event) (Payload, error) {
	r := &argReader{args: e.Args}
	var p Payload
	switch e.Name {
	case NamePropertyListed:
		p = PropertyListed{
			PropertyID:    r.str("propertyId"),
			Host:          r.str("host"),
			PricePerNight: r.int("pricePerNight"),
			MetadataURI:   r.optStr("metadataUri"),
		}
	case NamePropertyStatusChanged:
		p = PropertyStatusChanged{
			PropertyID: r.str("propertyId"),
			Active:     r.bool("active"),
		}
	case NameBookingCreated:
		p = BookingCreated{
			BookingID:        r.int("bookingId"),
			PropertyID:       r.str("propertyId"),
			Guest:            r.str("guest"),
			Host:             r.str("host"),
			CheckIn:          r.time("checkIn"),
			CheckOut:         r.time("checkOut"),
			TotalAmount:      r.int("totalAmount"),
			PlatformFee:      r.int("platformFee"),
			HostAmount:       r.int("hostAmount"),
			PaidOffChain:     r.bool("paidOffChain"),
			PaymentReference: r.optStr("paymentReference"),
		}
	case NameCheckInWindowOpened:
		p = CheckInWindowOpened{
			BookingID:   r.int("bookingId"),
			WindowStart: r.time("windowStart"),
			Deadline:    r.time("deadline"),
		}
	case NameCheckedIn:
		p = CheckedIn{BookingID: r.int("bookingId"), Guest: r.optStr("guest")}
	case NameDisputeRaised:
		p = DisputeRaised{
			BookingID:       r.int("bookingId"),
			Reason:          r.optStr("reason"),
			DisputeDeadline: r.time("disputeDeadline"),
		}
	case NameDisputeResolvedByHost:
		p = DisputeResolvedByHost{BookingID: r.int("bookingId")}
	case NameDisputeResolvedByGuest:
		p = DisputeResolvedByGuest{BookingID: r.int("bookingId")}
	case NameDisputeEscalated:
		p = DisputeEscalated{BookingID: r.int("bookingId")}
	case NameAdminResolved:
		p = AdminResolved{
			BookingID:       r.int("bookingId"),
			GuestPercentage: int(r.int("guestPercentage")),
			GuestShare:      r.int("guestShare"),
			HostShare:       r.int("hostShare"),
		}
	case NameBookingCompleted:
		p = BookingCompleted{
			BookingID:       r.int("bookingId"),
			HostPayout:      r.int("hostPayout"),
			PlatformFee:     r.int("platformFee"),
			SettledOnLedger: r.bool("settledOnLedger"),
		}
	case NameBookingRefunded:
		p = BookingRefunded{BookingID: r.int("bookingId"), GuestRefund: r.int("guestRefund")}
	case NameBookingCancelled:
		p = BookingCancelled{BookingID: r.int("bookingId"), GuestRefund: r.int("guestRefund")}
	default:
		return Ignored{Name: e.Name}, nil
	}
	if r.err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Name, r.err)
	}
	return p, nil
}

type argWriter struct {
	args Args
}

func (w *argWriter) str(k, v string) { w.args[k] = v }

func (w *argWriter) int(k string, v int64) { w.args[k] = strconv.FormatInt(v, 10) }

func (w *argWriter) bool(k string, v bool) { w.args[k] = strconv.FormatBool(v) }

func (w *argWriter) time(k string, v time.Time) {
	if v.IsZero() {
		w.args[k] = "0"
		return
	}
	w.args[k] = strconv.FormatInt(v.Unix(), 10)
}

// argReader records the first failure and returns zero values afterwards,
// so Decode can build a payload in one expression and check once.
type argReader struct {
	args Args
	err  error
}

func (r *argReader) fail(k, why string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s %s", ErrMalformedArgs, k, why)
	}
}

func (r *argReader) str(k string) string {
	v, ok := r.args[k]
	if !ok || v == "" {
		r.fail(k, "missing")
		return ""
	}
	return v
}

func (r *argReader) optStr(k string) string {
	return r.args[k]
}

func (r *argReader) int(k string) int64 {
	v, ok := r.args[k]
	if !ok {
		r.fail(k, "missing")
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.fail(k, "not an integer")
		return 0
	}
	return n
}

func (r *argReader) bool(k string) bool {
	v, ok := r.args[k]
	if !ok {
		r.fail(k, "missing")
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(k, "not a boolean")
		return false
	}
	return b
}

func (r *argReader) time(k string) time.Time {
	secs := r.int(k)
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
