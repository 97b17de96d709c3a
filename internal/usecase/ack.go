package usecase

import "net/http"

// Ack terminates a webhook request. Once a stage produces an Ack,
// nothing after it runs; the HTTP handler writes it out verbatim.
// Senders treat any 2xx as "do not retry", so business no-ops and
// business errors all acknowledge 200 — redelivery is only ever driven
// by signature failure, never by downstream logic.
type Ack struct {
	Status int
	Body   string
}

// AckOK acknowledges with 200 and an optional short text body.
func AckOK(body string) Ack {
	return Ack{Status: http.StatusOK, Body: body}
}
