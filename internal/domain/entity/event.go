package entity

// EventKind is the declared type string of an inbound webhook
// notification. Dispatch is a closed table keyed by EventKind; kinds
// not present in a gateway's table are acknowledged and dropped so new
// processor event types never cause errors.
type EventKind string

// BTCPay invoice lifecycle events.
const (
	EventInvoiceReceivedPayment EventKind = "InvoiceReceivedPayment"
	EventInvoiceProcessing      EventKind = "InvoiceProcessing"
	EventInvoicePaymentSettled  EventKind = "InvoicePaymentSettled"
	EventInvoiceSettled         EventKind = "InvoiceSettled"
	EventInvoiceExpired         EventKind = "InvoiceExpired"
	EventInvoiceInvalid         EventKind = "InvoiceInvalid"
)

// Card gateway events.
const (
	EventSubscriptionCreated    EventKind = "net.authorize.customer.subscription.created"
	EventSubscriptionUpdated    EventKind = "net.authorize.customer.subscription.updated"
	EventSubscriptionCancelled  EventKind = "net.authorize.customer.subscription.cancelled"
	EventSubscriptionExpired    EventKind = "net.authorize.customer.subscription.expired"
	EventSubscriptionExpiring   EventKind = "net.authorize.customer.subscription.expiring"
	EventSubscriptionFailed     EventKind = "net.authorize.customer.subscription.failed"
	EventSubscriptionSuspended  EventKind = "net.authorize.customer.subscription.suspended"
	EventSubscriptionTerminated EventKind = "net.authorize.customer.subscription.terminated"
	EventRefundCreated          EventKind = "net.authorize.payment.refund.created"
	EventCaptureCreated         EventKind = "net.authorize.payment.authcapture.created"
)

// SubscriptionStatusActive is the card-gateway status that releases a
// pending submission. Interim statuses received while the submission
// is still pending are ignored.
const SubscriptionStatusActive = "active"

// Transaction statuses applied by the capture/refund handlers.
const (
	TransactionStatusCaptured = "captured"
	TransactionStatusRefunded = "refunded"
)
