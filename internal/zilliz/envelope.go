package zilliz

import "encoding/json"

// successCode is the envelope code meaning business success.
const successCode = 0

// Envelope is the wire contract both planes wrap every response in. A
// non-zero code means business failure and Data must be ignored.
type Envelope struct {
	// Code is a pointer so that a body missing the field entirely can be
	// told apart from an explicit zero: the former is a decode failure,
	// the latter is success.
	Code    *int64          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeEnvelope strictly parses body as a response envelope. Anything that
// is not a JSON object carrying a code field is rejected; no duck-typed
// field probing.
func decodeEnvelope(body []byte) (*Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if env.Code == nil {
		return nil, false
	}
	return &env, true
}

// ok reports whether the envelope carries the success sentinel.
func (e *Envelope) ok() bool {
	return e.Code != nil && *e.Code == successCode
}
