package server

import (
	_ "embed"
	"strings"
	"text/template"
	"time"
)

// The behavioral rule set is configuration, not logic: it lives in its own
// template resource and is baked into the binary at compile time.
//
//go:embed prompt_instructions.tmpl
var promptInstructions string

var promptTemplate = template.Must(template.New("prompt").Parse(promptInstructions))

type promptData struct {
	UserID   string
	Date     string
	Day      string
	Time     string
	Context  string
	Message  string
	Profiles string
}

// composePrompt builds the full instruction-plus-context prompt for one
// request. It is a pure transformation: all decision logic (language
// matching, profile selection, flag semantics) is delegated to the model via
// the embedded directives.
func composePrompt(userID, message, context, profiles string, now time.Time) (string, error) {
	data := promptData{
		UserID:   userID,
		Date:     now.Format("02 January 2006"),
		Day:      now.Format("Monday"),
		Time:     now.Format("03:04 PM"),
		Context:  context,
		Message:  message,
		Profiles: profiles,
	}
	var b strings.Builder
	if err := promptTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
