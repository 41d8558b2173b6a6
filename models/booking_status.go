package models

type BookingStatus string

const (
	StatusPendingEstimation BookingStatus = "pending_estimation"
	StatusPending           BookingStatus = "pending"
	StatusAccepted          BookingStatus = "accepted"
	StatusInProgress        BookingStatus = "in_progress"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelled         BookingStatus = "cancelled"
	StatusRejected          BookingStatus = "rejected"
)

func (s BookingStatus) String() string {
	return string(s)
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPendingEstimation, StatusPending, StatusAccepted, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the booking can never change status again.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

type BookingType string

const (
	TypeInstant    BookingType = "instant"
	TypeScheduled  BookingType = "scheduled"
	TypeCallWorker BookingType = "call_worker"
)

func (t BookingType) IsValid() bool {
	switch t {
	case TypeInstant, TypeScheduled, TypeCallWorker:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type SlotStatus string

const (
	SlotActive SlotStatus = "active"
	SlotBusy   SlotStatus = "busy"
	SlotBooked SlotStatus = "booked"
)

type EstimateStatus string

const (
	EstimateLive EstimateStatus = "live"
	EstimateVoid EstimateStatus = "void"
)

type TxnStatus string

const (
	TxnInitiated TxnStatus = "initiated"
	TxnConfirmed TxnStatus = "confirmed"
	TxnFailed    TxnStatus = "failed"
)
