// Package ingest decodes and validates report request payloads.
//
// Payloads arrive as JSON over HTTP or as JSON/YAML files from the CLI.
// Validation happens once, here, so the analyzers downstream can rely on
// every record carrying its identifying field.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/lifecycle"
	"github.com/rshade/ecoscore/internal/logging"
)

// Payload field names.
const (
	FieldMaterials = "materials"
	FieldTransport = "transport"
	FieldEnergy    = "energy"
)

// MaxMagnitude bounds the absolute value of every numeric field so that
// products and sums in the calculators stay finite.
const MaxMagnitude = 1e12

// calculatedFields are the payload fields whose numbers reach a calculator.
var calculatedFields = []string{FieldMaterials, FieldTransport, FieldEnergy, "lifecycle", "circularEconomy", "lifecycleCost"}

// Payload is a validated report request body.
type Payload struct {
	Materials []Material  `json:"materials,omitempty" yaml:"materials,omitempty"`
	Transport []Transport `json:"transport,omitempty" yaml:"transport,omitempty"`
	Energy    []Energy    `json:"energy,omitempty"    yaml:"energy,omitempty"`

	// HasMaterials etc. record whether the array was present in the body,
	// which is distinct from an empty array.
	HasMaterials bool `json:"-" yaml:"-"`
	HasTransport bool `json:"-" yaml:"-"`
	HasEnergy    bool `json:"-" yaml:"-"`

	Lifecycle       *lifecycle.AssessmentInput `json:"lifecycle,omitempty"       yaml:"lifecycle,omitempty"`
	CircularEconomy *lifecycle.CircularInput   `json:"circularEconomy,omitempty" yaml:"circularEconomy,omitempty"`
	LifecycleCost   *lifecycle.CostInput       `json:"lifecycleCost,omitempty"   yaml:"lifecycleCost,omitempty"`
}

// ParsePayload decodes and validates a JSON request body.
func ParsePayload(data []byte) (*Payload, error) {
	return ParsePayloadWithContext(context.Background(), data)
}

// ParsePayloadWithContext decodes and validates a JSON request body.
//
// Errors are tagged: apperr.KindMalformedRequest when the body is not JSON,
// apperr.KindValidation when a field is missing or has the wrong shape. The
// validation message names the offending field and index.
func ParsePayloadWithContext(ctx context.Context, data []byte) (*Payload, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "parse_payload").
		Int("data_size_bytes", len(data)).
		Msg("parsing report payload")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Malformed(err, "request body is not valid JSON")
	}
	if raw == nil {
		return nil, apperr.Malformed(nil, "request body must be a JSON object")
	}

	p := &Payload{}
	var err error

	if p.HasMaterials, err = decodeArray(raw, FieldMaterials, "name", &p.Materials); err != nil {
		return nil, err
	}
	if p.HasTransport, err = decodeArray(raw, FieldTransport, "type", &p.Transport); err != nil {
		return nil, err
	}
	if p.HasEnergy, err = decodeArray(raw, FieldEnergy, "source", &p.Energy); err != nil {
		return nil, err
	}

	if !p.HasMaterials && !p.HasTransport && !p.HasEnergy {
		return nil, apperr.Validation("at least one of materials, transport, or energy is required")
	}

	if err = decodeOptional(raw, "lifecycle", &p.Lifecycle); err != nil {
		return nil, err
	}
	if err = decodeOptional(raw, "circularEconomy", &p.CircularEconomy); err != nil {
		return nil, err
	}
	if err = decodeOptional(raw, "lifecycleCost", &p.LifecycleCost); err != nil {
		return nil, err
	}
	if err = checkMagnitudes(raw); err != nil {
		return nil, err
	}
	if err = validateCost(p.LifecycleCost); err != nil {
		return nil, err
	}

	log.Debug().
		Str("component", "ingest").
		Int("materials", len(p.Materials)).
		Int("transport", len(p.Transport)).
		Int("energy", len(p.Energy)).
		Msg("payload parsed")

	return p, nil
}

// decodeArray decodes raw[field] into out when present. Each element must
// be an object whose identifying field is a non-empty string.
func decodeArray[T Item](raw map[string]json.RawMessage, field, idField string, out *[]T) (bool, error) {
	value, ok := raw[field]
	if !ok || isNull(value) {
		return false, nil
	}

	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false, apperr.Validation("%s must be an array", field)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return false, apperr.Validation("%s must be an array", field)
	}

	items := make([]T, 0, len(elements))
	for i, elem := range elements {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			return false, apperr.Validation("%s[%d] must be an object", field, i)
		}

		var id string
		if idRaw, present := obj[idField]; !present || json.Unmarshal(idRaw, &id) != nil {
			return false, apperr.Validation("%s[%d] must have a string %q field", field, i, idField)
		}

		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			return false, apperr.Validation("%s[%d] has an invalid field: %v", field, i, err)
		}
		if strings.TrimSpace(item.Identifier()) == "" {
			return false, apperr.Validation("%s[%d] must have a non-empty %q field", field, i, idField)
		}
		items = append(items, item)
	}

	*out = items
	return true, nil
}

func decodeOptional[T any](raw map[string]json.RawMessage, field string, out **T) error {
	value, ok := raw[field]
	if !ok || isNull(value) {
		return nil
	}
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return apperr.Validation("%s is invalid: %v", field, err)
	}
	*out = &v
	return nil
}

// checkMagnitudes rejects numbers outside ±MaxMagnitude anywhere under the
// calculated fields. The message carries the JSON path of the first offender.
func checkMagnitudes(raw map[string]json.RawMessage) error {
	for _, field := range calculatedFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return apperr.Validation("%s is invalid: %v", field, err)
		}
		if err := checkNumber(field, v); err != nil {
			return err
		}
	}
	return nil
}

func checkNumber(path string, v any) error {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.Abs(f) > MaxMagnitude {
			return apperr.Validation("%s must be between %g and %g", path, -MaxMagnitude, MaxMagnitude)
		}
	case []any:
		for i, elem := range t {
			if err := checkNumber(fmt.Sprintf("%s[%d]", path, i), elem); err != nil {
				return err
			}
		}
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if err := checkNumber(path+"."+k, t[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateCost checks the lifecycle cost parameters against the ranges the
// cost analysis accepts.
func validateCost(c *lifecycle.CostInput) error {
	if c == nil {
		return nil
	}
	if c.Lifespan != nil && (*c.Lifespan < 1 || *c.Lifespan > lifecycle.MaxLifespanYears) {
		return apperr.Validation("lifecycleCost.lifespan must be between 1 and %d", lifecycle.MaxLifespanYears)
	}
	rates := []struct {
		name  string
		value *float64
	}{
		{"discountRate", c.DiscountRate},
		{"inflationRate", c.InflationRate},
		{"energyCostEscalation", c.EnergyCostEscalation},
	}
	for _, r := range rates {
		if r.value != nil && !lifecycle.RateInRange(*r.value) {
			return apperr.Validation("lifecycleCost.%s must be between %g and %g",
				r.name, lifecycle.MinRate, lifecycle.MaxRate)
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// LoadPayload reads a payload file. Files ending in .yaml or .yml are parsed
// as YAML; everything else as JSON.
func LoadPayload(ctx context.Context, path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payload file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, apperr.Malformed(err, "payload file %s is not valid YAML", path)
		}
	}

	return ParsePayloadWithContext(ctx, data)
}

// yamlToJSON re-encodes a YAML document as JSON so that both formats share
// one validation path.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return json.Marshal(doc)
}
