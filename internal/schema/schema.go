// Package schema validates scenario records against the documented record
// shape before the engine runs.
package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// schemaURL identifies the embedded schema resource.
const schemaURL = "https://homeenergy.local/scenario.schema.json"

//go:embed scenario.schema.json
var schemaJSON []byte

//nolint:gochecknoglobals // Compiled once on first use.
var compiled = sync.OnceValues(compile)

func compile() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing scenario schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err = c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding scenario schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling scenario schema: %w", err)
	}
	return sch, nil
}

// Document returns the raw embedded schema.
func Document() []byte {
	return bytes.Clone(schemaJSON)
}

// Validate checks the normalized form of rec against the scenario schema. It
// returns a *result.ValidationError listing every offending field path, or nil.
func Validate(rec scenario.Record) error {
	sch, err := compiled()
	if err != nil {
		// The schema is embedded, so a compile failure is a build defect.
		panic(err)
	}

	instance := map[string]any(scenario.Normalize(rec))
	err = sch.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return result.NewValidationError(result.Issue{Path: "/", Message: err.Error()})
	}
	return result.NewValidationError(collectIssues(ve)...)
}

// collectIssues flattens the validation error tree into its leaf causes.
func collectIssues(root *jsonschema.ValidationError) []result.Issue {
	printer := message.NewPrinter(language.English)
	seen := map[string]bool{}
	var issues []result.Issue

	var walk func(ve *jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) == 0 {
			issue := result.Issue{
				Path:    pointer(ve.InstanceLocation),
				Message: ve.ErrorKind.LocalizedString(printer),
			}
			key := issue.Path + "\x00" + issue.Message
			if !seen[key] {
				seen[key] = true
				issues = append(issues, issue)
			}
			return
		}
		for _, cause := range ve.Causes {
			walk(cause)
		}
	}
	walk(root)
	return issues
}

// pointer renders an instance location as a JSON pointer.
func pointer(location []string) string {
	if len(location) == 0 {
		return "/"
	}
	escaped := make([]string, len(location))
	for i, token := range location {
		token = strings.ReplaceAll(token, "~", "~0")
		escaped[i] = strings.ReplaceAll(token, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}
