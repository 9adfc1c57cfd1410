package ideas

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const validBody = `{
	"id": "1",
	"address": "0xabc",
	"timestamp": 123,
	"ideaOwner": "alice",
	"contactEmail": "a@x.com",
	"ideaName": "Idea",
	"ideaDescription": "desc",
	"category": "tech",
	"proofOfConcept": "poc",
	"supportingDocuments": [],
	"expectedOutcome": "outcome",
	"currentStage": "draft"
}`

func validPayload(t *testing.T) map[string]any {
	t.Helper()
	payload, err := DecodePayload([]byte(validBody))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	return payload
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	if err := Validate(validPayload(t)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateRejectsEachMissingField(t *testing.T) {
	for _, field := range requiredFields {
		t.Run(field, func(t *testing.T) {
			payload := validPayload(t)
			delete(payload, field)
			if err := Validate(payload); !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields without %s, got %v", field, err)
			}
		})
	}
}

func TestValidateFalsyValuesCountAsMissing(t *testing.T) {
	cases := map[string]any{
		"ideaName":  "",
		"timestamp": json.Number("0"),
		"address":   nil,
		"category":  false,
	}
	for field, value := range cases {
		t.Run(field, func(t *testing.T) {
			payload := validPayload(t)
			payload[field] = value
			if err := Validate(payload); !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected rejection for %s=%v, got %v", field, value, err)
			}
		})
	}
}

func TestValidateSupportingDocumentsShape(t *testing.T) {
	cases := []struct {
		name  string
		value any
		ok    bool
	}{
		{name: "empty array", value: []any{}, ok: true},
		{name: "documents", value: []any{map[string]any{"id": "d1", "url": "https://x", "type": "pdf", "name": "plan.pdf"}}, ok: true},
		{name: "null", value: nil, ok: false},
		{name: "string", value: "doc.pdf", ok: false},
		{name: "object", value: map[string]any{"id": "d1"}, ok: false},
		{name: "string element", value: []any{"doc.pdf"}, ok: true},
		{name: "partial document", value: []any{map[string]any{"url": json.Number("1"), "size": json.Number("10")}}, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload(t)
			payload["supportingDocuments"] = tc.value
			err := Validate(payload)
			if tc.ok && err != nil {
				t.Fatalf("expected accept, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsNonStringValues(t *testing.T) {
	payload := validPayload(t)
	payload["id"] = json.Number("1")
	payload["ideaOwner"] = map[string]any{"name": "alice"}
	if err := Validate(payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateAllowsStringTimestampAndContributors(t *testing.T) {
	payload := validPayload(t)
	payload["timestamp"] = "2026-01-01T00:00:00Z"
	payload["contributors"] = []any{map[string]any{"name": "bob"}}
	if err := Validate(payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	for _, body := range []string{"", "not json", "null", `{"a":1} {"b":2}`, "{"} {
		if _, err := DecodePayload([]byte(body)); !errors.Is(err, ErrMalformedBody) {
			t.Fatalf("body %q: expected ErrMalformedBody, got %v", body, err)
		}
	}
}

func TestDecodePayloadNonObjectIsMissingFields(t *testing.T) {
	for _, body := range []string{"[]", "[1,2]", "42", `"x"`, "true", "false"} {
		_, err := DecodePayload([]byte(body))
		if !errors.Is(err, ErrMissingFields) {
			t.Fatalf("body %q: expected ErrMissingFields, got %v", body, err)
		}
		if errors.Is(err, ErrMalformedBody) {
			t.Fatalf("body %q: must not be reported as malformed", body)
		}
	}
}

func TestFromPayloadDropsUnknownFields(t *testing.T) {
	payload := validPayload(t)
	payload["isAdmin"] = true
	payload["id"] = json.Number("1")
	payload["supportingDocuments"] = []any{map[string]any{"url": "https://x/y", "size": json.Number("10")}}

	idea := fromPayload(payload)
	if idea.IdeaName != "Idea" || idea.CurrentStage != "draft" {
		t.Fatalf("unexpected idea: %+v", idea)
	}
	if idea.Timestamp != json.Number("123") {
		t.Fatalf("expected numeric timestamp to be kept, got %#v", idea.Timestamp)
	}
	if idea.ID != json.Number("1") {
		t.Fatalf("expected numeric id kept as given, got %#v", idea.ID)
	}
	want := map[string]any{"url": "https://x/y", "size": json.Number("10")}
	if len(idea.SupportingDocuments) != 1 || !reflect.DeepEqual(idea.SupportingDocuments[0], want) {
		t.Fatalf("documents must be stored as given: %#v", idea.SupportingDocuments)
	}
	if idea.Contributors != nil {
		t.Fatalf("expected nil contributors, got %v", idea.Contributors)
	}
}
