package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTree reports a syntax tree that violates a structural
// invariant of the parser, such as a lambda without a parameter.
var ErrMalformedTree = errors.New("malformed syntax tree")

// DocComment holds the sections of a parsed documentation comment.
// Type and Example are empty when the comment has no such section.
type DocComment struct {
	Doc     string
	Type    string
	Example string
}

// SingleArg is one formal parameter of a function. Doc is nil when the
// parameter carries no comment.
type SingleArg struct {
	Name string  `json:"name" yaml:"name"`
	Doc  *string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Argument is the parameter of one curry level: either Flat or Pattern.
type Argument interface {
	isArgument()
}

// Flat is a plain identifier parameter, as in `x: ...`.
type Flat struct {
	SingleArg
}

// Pattern is a destructuring parameter, as in `{ a, b }: ...`. Entries
// keep source order and duplicates.
type Pattern struct {
	Entries []SingleArg
}

func (Flat) isArgument()    {}
func (Pattern) isArgument() {}

// DocItem is one documented binding before rendering.
type DocItem struct {
	Name    string
	Comment DocComment
	Args    []Argument
}

// ManualEntry is the unit consumed by the renderers.
type ManualEntry struct {
	Category    string
	Name        string
	Description []string
	FnType      string
	Example     string
	Args        []Argument
}

// IntoEntry converts the item into a manual entry of the given category.
// The description is split into paragraphs on blank lines.
func (d DocItem) IntoEntry(category string) ManualEntry {
	return ManualEntry{
		Category:    category,
		Name:        d.Name,
		Description: strings.Split(d.Comment.Doc, "\n\n"),
		FnType:      d.Comment.Type,
		Example:     d.Comment.Example,
		Args:        d.Args,
	}
}

// Title is the fully qualified name of the entry, e.g. lib.strings.concat.
func (e ManualEntry) Title() string {
	return fmt.Sprintf("lib.%s.%s", e.Category, e.Name)
}

// argRecord is the serialized form of an Argument.
type argRecord struct {
	Kind    string      `json:"kind" yaml:"kind"`
	Name    string      `json:"name,omitempty" yaml:"name,omitempty"`
	Doc     *string     `json:"doc,omitempty" yaml:"doc,omitempty"`
	Entries []SingleArg `json:"entries,omitempty" yaml:"entries,omitempty"`
}

const (
	argKindFlat    = "flat"
	argKindPattern = "pattern"
)

func toRecord(arg Argument) argRecord {
	switch a := arg.(type) {
	case Flat:
		return argRecord{Kind: argKindFlat, Name: a.Name, Doc: a.Doc}
	case Pattern:
		return argRecord{Kind: argKindPattern, Entries: a.Entries}
	default:
		panic(fmt.Sprintf("unknown argument type %T", arg))
	}
}

func fromRecord(r argRecord) (Argument, error) {
	switch r.Kind {
	case argKindFlat:
		return Flat{SingleArg{Name: r.Name, Doc: r.Doc}}, nil
	case argKindPattern:
		return Pattern{Entries: r.Entries}, nil
	default:
		return nil, fmt.Errorf("unknown argument kind %q", r.Kind)
	}
}

func argsToRecords(args []Argument) []argRecord {
	if len(args) == 0 {
		return nil
	}
	records := make([]argRecord, 0, len(args))
	for _, a := range args {
		records = append(records, toRecord(a))
	}
	return records
}

func argsFromRecords(records []argRecord) ([]Argument, error) {
	var args []Argument
	for _, r := range records {
		a, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

// MarshalArgs encodes arguments as a JSON array of tagged records.
func MarshalArgs(args []Argument) ([]byte, error) {
	records := argsToRecords(args)
	if records == nil {
		records = []argRecord{}
	}
	return json.Marshal(records)
}

// UnmarshalArgs decodes the output of MarshalArgs.
func UnmarshalArgs(data []byte) ([]Argument, error) {
	var records []argRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode arguments: %w", err)
	}
	return argsFromRecords(records)
}

// entryRecord is the serialized form of a ManualEntry, shared by the JSON
// and YAML outputs.
type entryRecord struct {
	Category    string      `json:"category" yaml:"category"`
	Name        string      `json:"name" yaml:"name"`
	Description []string    `json:"description" yaml:"description"`
	FnType      string      `json:"type,omitempty" yaml:"type,omitempty"`
	Example     string      `json:"example,omitempty" yaml:"example,omitempty"`
	Args        []argRecord `json:"args,omitempty" yaml:"args,omitempty"`
}

func (e ManualEntry) record() entryRecord {
	return entryRecord{
		Category:    e.Category,
		Name:        e.Name,
		Description: e.Description,
		FnType:      e.FnType,
		Example:     e.Example,
		Args:        argsToRecords(e.Args),
	}
}

func (e ManualEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.record())
}

func (e *ManualEntry) UnmarshalJSON(data []byte) error {
	var r entryRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	args, err := argsFromRecords(r.Args)
	if err != nil {
		return err
	}
	*e = ManualEntry{
		Category:    r.Category,
		Name:        r.Name,
		Description: r.Description,
		FnType:      r.FnType,
		Example:     r.Example,
		Args:        args,
	}
	return nil
}

func (e ManualEntry) MarshalYAML() (any, error) {
	return e.record(), nil
}
