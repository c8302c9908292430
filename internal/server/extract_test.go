package server

import (
	"testing"
)

func TestExtractReplyWithoutBracesIsUnstructured(t *testing.T) {
	raw := "Hello! How can I help you in Selu today?"
	got := ExtractReply(raw)
	if got.Kind != ExtractionUnstructured {
		t.Fatalf("expected unstructured outcome, got %v", got.Kind)
	}
	if got.Reply != raw {
		t.Fatalf("expected full text as reply, got %q", got.Reply)
	}
	if got.Profile != nil {
		t.Fatalf("expected no profile, got %+v", got.Profile)
	}
}

func TestExtractReplySplitsSingleProfile(t *testing.T) {
	raw := "```json\n" +
		"You should meet Dr. Anjali Deshmukh in Selu. Shall I help with an appointment?\n" +
		"```\n" +
		`{"profiles":[{"name":"Dr. Anjali Deshmukh","designation":"General Physician","contact_number":"9876543210","rating":4.5,"appointment":true}]}`

	got := ExtractReply(raw)
	if got.Kind != ExtractionStructured {
		t.Fatalf("expected structured outcome, got %v", got.Kind)
	}
	if got.Reply != "You should meet Dr. Anjali Deshmukh in Selu. Shall I help with an appointment?" {
		t.Fatalf("expected fence-stripped trimmed prefix, got %q", got.Reply)
	}
	if got.Profile == nil {
		t.Fatalf("expected one profile")
	}
	if got.Profile.Name != "Dr. Anjali Deshmukh" {
		t.Fatalf("unexpected profile name %q", got.Profile.Name)
	}
	if !got.Profile.Appointment {
		t.Fatalf("expected appointment=true")
	}
	if got.Profile.Task || got.Profile.Job {
		t.Fatalf("expected absent boolean flags to default to false, got task=%v job=%v", got.Profile.Task, got.Profile.Job)
	}
	if got.Profile.Rating == nil || *got.Profile.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", got.Profile.Rating)
	}
	if got.Profile.Specialization != nil || got.Profile.Location != nil {
		t.Fatalf("expected absent optional fields to stay nil")
	}
}

func TestExtractReplyTruncatesToFirstProfile(t *testing.T) {
	raw := "Here are some options.\n" +
		`{"profiles":[` +
		`{"name":"First","designation":"Plumber","contact_number":"1"},` +
		`{"name":"Second","designation":"Plumber","contact_number":"2"},` +
		`{"name":"Third","designation":"Plumber","contact_number":"3"}]}`

	got := ExtractReply(raw)
	if got.Kind != ExtractionStructured {
		t.Fatalf("expected structured outcome, got %v", got.Kind)
	}
	if got.Profile == nil || got.Profile.Name != "First" {
		t.Fatalf("expected only the first profile, got %+v", got.Profile)
	}
}

func TestExtractReplyEmptyProfilesList(t *testing.T) {
	raw := `Nothing to recommend here. {"profiles":[]}`
	got := ExtractReply(raw)
	if got.Kind != ExtractionStructured {
		t.Fatalf("expected structured outcome, got %v", got.Kind)
	}
	if got.Profile != nil {
		t.Fatalf("expected no profile for empty list, got %+v", got.Profile)
	}
	if got.Reply != "Nothing to recommend here." {
		t.Fatalf("unexpected reply %q", got.Reply)
	}
}

func TestExtractReplyMissingProfilesKey(t *testing.T) {
	raw := `Reply text. {"something_else": true}`
	got := ExtractReply(raw)
	if got.Kind != ExtractionStructured {
		t.Fatalf("expected structured outcome, got %v", got.Kind)
	}
	if got.Profile != nil {
		t.Fatalf("expected absent profiles key to behave like empty list")
	}
}

func TestExtractReplyMalformedJSONFallsBack(t *testing.T) {
	raw := `Some reply text {"profiles": [something broken}`
	got := ExtractReply(raw)
	if got.Kind != ExtractionMalformed {
		t.Fatalf("expected malformed outcome, got %v", got.Kind)
	}
	if got.Reply != raw {
		t.Fatalf("expected full raw text as fallback reply, got %q", got.Reply)
	}
	if got.Profile != nil {
		t.Fatalf("expected no profile on malformed JSON")
	}
	if got.Err == nil {
		t.Fatalf("expected parse error to be recorded")
	}
}

func TestExtractReplyBracesOutOfOrder(t *testing.T) {
	raw := "closing } before opening {"
	got := ExtractReply(raw)
	if got.Kind != ExtractionUnstructured {
		t.Fatalf("expected unstructured outcome for inverted braces, got %v", got.Kind)
	}
	if got.Reply != raw {
		t.Fatalf("expected full text as reply, got %q", got.Reply)
	}
}
