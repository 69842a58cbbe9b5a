package cms

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// The CMS answers with two representations of the same entity depending on
// the endpoint: flat `{"id":1,"title":...}` or enveloped
// `{"id":1,"attributes":{"title":...}}`. Everything below folds both into the
// flat form so no other package branches on shape.

type listEnvelope struct {
	Data []json.RawMessage `json:"data"`
	Meta json.RawMessage   `json:"meta"`
}

type singleEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// flattenEntity merges an attributes envelope into one flat JSON object.
// Already-flat objects pass through unchanged.
func flattenEntity(raw json.RawMessage) (json.RawMessage, error) {
	var probe struct {
		ID         json.RawMessage            `json:"id"`
		Attributes map[string]json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: entity is not an object: %v", ErrBadShape, err)
	}
	if probe.Attributes == nil {
		return raw, nil
	}

	flat := make(map[string]json.RawMessage, len(probe.Attributes)+1)
	for k, v := range probe.Attributes {
		flat[k] = v
	}
	if probe.ID != nil {
		flat["id"] = probe.ID
	}
	merged, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return merged, nil
}

// decodeEntity flattens one entity and unmarshals it into out.
func decodeEntity(raw json.RawMessage, out interface{}) error {
	flat, err := flattenEntity(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(flat, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return nil
}

// relationRef resolves a relation field to its target id (and email when the
// relation is a populated user). Accepts a bare id, a flat object, a
// data-wrapped object or null.
func relationRef(raw json.RawMessage) (int, string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, "", nil
	}

	var id int
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, "", nil
	}

	var wrap struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrap); err != nil {
		return 0, "", fmt.Errorf("%w: relation is neither id nor object", ErrBadShape)
	}
	if wrap.Data != nil {
		raw = wrap.Data
		if string(raw) == "null" {
			return 0, "", nil
		}
	}

	var target struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	}
	if err := decodeEntity(raw, &target); err != nil {
		return 0, "", err
	}
	return target.ID, target.Email, nil
}

// relationList resolves a to-many relation field into its entity items,
// tolerating both a bare array and a `{"data":[...]}` wrapper.
func relationList(raw json.RawMessage) ([]json.RawMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrap struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrap); err != nil {
		return nil, fmt.Errorf("%w: relation list is neither array nor wrapper", ErrBadShape)
	}
	return wrap.Data, nil
}

// filterEq appends one equality filter in the CMS's bracketed query dialect,
// e.g. filterEq(q, "7", "module", "id") -> filters[module][id][$eq]=7.
func filterEq(q url.Values, value string, path ...string) {
	key := "filters"
	for _, p := range path {
		key += "[" + p + "]"
	}
	q.Set(key+"[$eq]", value)
}

// filterContains appends one case-insensitive substring filter.
func filterContains(q url.Values, value string, path ...string) {
	key := "filters"
	for _, p := range path {
		key += "[" + p + "]"
	}
	q.Set(key+"[$containsi]", value)
}

func itoa(n int) string { return strconv.Itoa(n) }
