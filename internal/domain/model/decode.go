package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Placeholders written by lenient decoding, matching how a template literal
// stringifies a missing or null value.
const (
	missingText = "undefined"
	nullText    = "null"
)

// Decoder turns dataset bodies into typed records.
type Decoder struct {
	strict bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithStrict toggles schema enforcement. Strict is the default.
func WithStrict(strict bool) DecoderOption {
	return func(d *Decoder) {
		d.strict = strict
	}
}

// NewDecoder creates a strict Decoder unless told otherwise.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{strict: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Strict reports whether missing required fields are rejected.
func (d *Decoder) Strict() bool { return d.strict }

// field binds a required string key to its struct slot.
type field[T any] struct {
	key string
	ref func(*T) *string
}

// schema lists the required keys of one record kind. optional and texts
// name the remaining string and string-list keys so lenient decoding can
// stringify them too.
type schema[T any] struct {
	name     string
	scalars  []field[T]
	lists    []string
	optional []string
	texts    []string
}

var experienceSchema = schema[ExperienceEntry]{
	name: "experience",
	scalars: []field[ExperienceEntry]{
		{"title", func(r *ExperienceEntry) *string { return &r.Title }},
		{"company", func(r *ExperienceEntry) *string { return &r.Company }},
		{"period", func(r *ExperienceEntry) *string { return &r.Period }},
		{"description", func(r *ExperienceEntry) *string { return &r.Description }},
	},
	texts: []string{"responsibilities"},
}

var skillSchema = schema[SkillCategory]{
	name: "skills",
	scalars: []field[SkillCategory]{
		{"category", func(r *SkillCategory) *string { return &r.Category }},
		{"icon", func(r *SkillCategory) *string { return &r.Icon }},
	},
	lists: []string{"skills"},
}

var projectSchema = schema[Project]{
	name: "projects",
	scalars: []field[Project]{
		{"title", func(r *Project) *string { return &r.Title }},
		{"description", func(r *Project) *string { return &r.Description }},
	},
	lists:    []string{"technologies"},
	optional: []string{"icon", "github", "demo"},
}

var educationSchema = schema[EducationEntry]{
	name: "education",
	scalars: []field[EducationEntry]{
		{"degree", func(r *EducationEntry) *string { return &r.Degree }},
		{"school", func(r *EducationEntry) *string { return &r.School }},
		{"period", func(r *EducationEntry) *string { return &r.Period }},
	},
	optional: []string{"details"},
}

var certificationSchema = schema[Certification]{
	name: "certifications",
	scalars: []field[Certification]{
		{"name", func(r *Certification) *string { return &r.Name }},
	},
	optional: []string{"issuer"},
}

// Experience decodes an array of ExperienceEntry.
func (d *Decoder) Experience(data []byte) ([]ExperienceEntry, error) {
	const op = "model.decode_experience"
	recs, err := decodeList(experienceSchema, data, d.strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recs, nil
}

// Skills decodes an array of SkillCategory.
func (d *Decoder) Skills(data []byte) ([]SkillCategory, error) {
	const op = "model.decode_skills"
	recs, err := decodeList(skillSchema, data, d.strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recs, nil
}

// Projects decodes an array of Project.
func (d *Decoder) Projects(data []byte) ([]Project, error) {
	const op = "model.decode_projects"
	recs, err := decodeList(projectSchema, data, d.strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recs, nil
}

// Education decodes the education document with its two sequences.
func (d *Decoder) Education(data []byte) (EducationDocument, error) {
	const op = "model.decode_education"

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return EducationDocument{}, fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}
	if top == nil {
		return EducationDocument{}, fmt.Errorf("%s: %w: document is null", op, ErrDecode)
	}
	for _, key := range []string{"education", "certifications"} {
		if raw, ok := top[key]; !ok || isNull(raw) {
			return EducationDocument{}, fmt.Errorf("%s: %w", op, &SchemaError{Record: "education.json", Field: key, Reason: "is required"})
		}
	}

	edu, err := decodeList(educationSchema, top["education"], d.strict)
	if err != nil {
		return EducationDocument{}, fmt.Errorf("%s: %w", op, err)
	}
	certs, err := decodeList(certificationSchema, top["certifications"], d.strict)
	if err != nil {
		return EducationDocument{}, fmt.Errorf("%s: %w", op, err)
	}
	return EducationDocument{Education: edu, Certifications: certs}, nil
}

// decodeList decodes a JSON array record by record so that violations can be
// reported with their index.
func decodeList[T any](s schema[T], data []byte, strict bool) ([]T, error) {
	if isNull(data) {
		return nil, fmt.Errorf("%w: %s: expected an array, got null", ErrDecode, s.name)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, s.name, err)
	}

	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		rec, err := s.decode(i, raw, strict)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s schema[T]) decode(index int, raw json.RawMessage, strict bool) (T, error) {
	var rec T
	name := fmt.Sprintf("%s[%d]", s.name, index)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil || keys == nil {
		return rec, &SchemaError{Record: name, Reason: "must be an object"}
	}
	if !strict {
		loose, err := s.loosen(keys)
		if err != nil {
			return rec, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
		}
		raw = loose
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}

	for _, f := range s.scalars {
		v, ok := keys[f.key]
		if ok && !isNull(v) {
			continue
		}
		if strict {
			return rec, &SchemaError{Record: name, Field: f.key, Reason: "is required"}
		}
		if ok {
			*f.ref(&rec) = nullText
		} else {
			*f.ref(&rec) = missingText
		}
	}
	// Lists are required in both modes; there is nothing sensible to iterate.
	for _, key := range s.lists {
		if v, ok := keys[key]; !ok || isNull(v) {
			return rec, &SchemaError{Record: name, Field: key, Reason: "is required"}
		}
	}
	return rec, nil
}

// loosen rewrites number and boolean values of string keys, and null or
// non-string list elements, as the text a template literal prints for them.
// Objects and arrays in string slots are left alone and still fail decoding.
func (s schema[T]) loosen(keys map[string]json.RawMessage) (json.RawMessage, error) {
	for _, f := range s.scalars {
		if v, ok := keys[f.key]; ok {
			keys[f.key] = scalarText(v)
		}
	}
	// Optional keys are only shown when truthy.
	for _, key := range s.optional {
		if v, ok := keys[key]; ok {
			if isFalsy(v) {
				delete(keys, key)
				continue
			}
			keys[key] = scalarText(v)
		}
	}
	for _, key := range append(append([]string{}, s.lists...), s.texts...) {
		if v, ok := keys[key]; ok {
			keys[key] = listText(v)
		}
	}
	return json.Marshal(keys)
}

func scalarText(v json.RawMessage) json.RawMessage {
	t := bytes.TrimSpace(v)
	if len(t) == 0 {
		return v
	}
	switch t[0] {
	case '"', '{', '[', 'n':
		return v
	}
	b, err := json.Marshal(string(t))
	if err != nil {
		return v
	}
	return b
}

func listText(v json.RawMessage) json.RawMessage {
	if isNull(v) {
		return v
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return v
	}
	for i, e := range elems {
		if isNull(e) {
			elems[i] = json.RawMessage(`"` + nullText + `"`)
			continue
		}
		elems[i] = scalarText(e)
	}
	b, err := json.Marshal(elems)
	if err != nil {
		return v
	}
	return b
}

func isFalsy(v json.RawMessage) bool {
	t := string(bytes.TrimSpace(v))
	if t == "false" {
		return true
	}
	f, err := strconv.ParseFloat(t, 64)
	return err == nil && f == 0
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
