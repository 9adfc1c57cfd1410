package ideas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// requiredFields are checked in this order; the first missing one fails the payload.
var requiredFields = []string{
	"id",
	"address",
	"timestamp",
	"ideaOwner",
	"contactEmail",
	"ideaName",
	"ideaDescription",
	"category",
	"proofOfConcept",
	"supportingDocuments",
	"expectedOutcome",
	"currentStage",
}

// DecodePayload parses body as a single JSON value. Numbers are kept as
// json.Number so integers survive storage unchanged. Syntax errors and a
// null body are ErrMalformedBody; any other non-object value carries none of
// the required fields and is ErrMissingFields.
func DecodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after value", ErrMalformedBody)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: body is null", ErrMalformedBody)
	}
	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body is %T, not an object", ErrMissingFields, raw)
	}
	return payload, nil
}

// Validate accepts a payload only when every required field is present and
// truthy and supportingDocuments is an array. Empty strings, zero, false and
// null count as missing. Values are otherwise not type checked.
func Validate(payload map[string]any) error {
	if payload == nil {
		return ErrMissingFields
	}
	for _, field := range requiredFields {
		if !truthy(payload[field]) {
			return ErrMissingFields
		}
	}
	if _, ok := payload["supportingDocuments"].([]any); !ok {
		return ErrMissingFields
	}
	return nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return true
		}
		return f != 0 && !math.IsNaN(f)
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}

// fromPayload builds the stored form of a validated payload. Known fields
// keep the submitted values as is; fields outside the submission schema are
// dropped.
func fromPayload(payload map[string]any) Idea {
	docs, _ := payload["supportingDocuments"].([]any)
	return Idea{
		ID:                  payload["id"],
		Address:             payload["address"],
		Timestamp:           payload["timestamp"],
		IdeaOwner:           payload["ideaOwner"],
		ContactEmail:        payload["contactEmail"],
		IdeaName:            payload["ideaName"],
		IdeaDescription:     payload["ideaDescription"],
		Category:            payload["category"],
		ProofOfConcept:      payload["proofOfConcept"],
		SupportingDocuments: docs,
		ExpectedOutcome:     payload["expectedOutcome"],
		CurrentStage:        payload["currentStage"],
		Contributors:        payload["contributors"],
	}
}
