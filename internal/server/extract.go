package server

import (
	"encoding/json"
	"log"
	"strings"
)

// ProfileRecord is the single recommended contact/service/job entry the model
// may attach to a reply. Field names mirror the JSON contract the prompt
// dictates; optional fields stay null when the model omits them, and the
// boolean flags default to false.
type ProfileRecord struct {
	Name           string   `json:"name"`
	Designation    string   `json:"designation"`
	ContactNumber  string   `json:"contact_number"`
	Specialization *string  `json:"specialization"`
	Rating         *float64 `json:"rating"`
	Location       *string  `json:"location"`
	Appointment    bool     `json:"appointment"`
	Task           bool     `json:"task"`
	Job            bool     `json:"job"`
}

type ExtractionKind int

const (
	// ExtractionUnstructured: no JSON object in the completion; the whole
	// text is the reply.
	ExtractionUnstructured ExtractionKind = iota
	// ExtractionStructured: a well-formed JSON object was found and split
	// from the natural-language prefix.
	ExtractionStructured
	// ExtractionMalformed: brace-delimited text was present but did not
	// parse; behaves like unstructured for callers.
	ExtractionMalformed
)

// Extraction is the tagged outcome of scanning one completion. Profile is
// nil except in the structured case with a non-empty profiles list, and Err
// is set only in the malformed case.
type Extraction struct {
	Kind    ExtractionKind
	Reply   string
	Profile *ProfileRecord
	Err     error
}

type profileEnvelope struct {
	Profiles []ProfileRecord `json:"profiles"`
}

// ExtractReply locates an embedded JSON object between the first '{' and the
// last '}' of the raw completion. Absent or malformed JSON is never an
// error for the caller: the full raw text becomes the reply and no profile
// is returned. On success the prefix text, with markdown fences removed and
// whitespace trimmed, becomes the reply, and the "profiles" list is
// truncated to its first element.
func ExtractReply(raw string) Extraction {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return Extraction{Kind: ExtractionUnstructured, Reply: raw}
	}

	var envelope profileEnvelope
	if err := json.Unmarshal([]byte(raw[start:end+1]), &envelope); err != nil {
		log.Printf("completion JSON did not parse, falling back to plain reply: %v", err)
		return Extraction{Kind: ExtractionMalformed, Reply: raw, Err: err}
	}

	reply := stripFences(raw[:start])
	if len(envelope.Profiles) == 0 {
		return Extraction{Kind: ExtractionStructured, Reply: reply}
	}
	profile := envelope.Profiles[0]
	return Extraction{Kind: ExtractionStructured, Reply: reply, Profile: &profile}
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
