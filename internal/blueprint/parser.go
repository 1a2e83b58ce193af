package blueprint

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

var validate = validator.New()

// Load parses blueprint text into a Document. A leading space-format marker
// line is stripped first. The remaining text must be YAML whose top level is
// either a single-element list (first element used as the document body) or
// a mapping (used directly). Loading fails atomically with a *ParseError;
// a malformed unit, phase, or step never yields a partial document.
func Load(text string) (*Document, error) {
	_, body := SplitMarker(text)

	var root any
	if err := yaml.Unmarshal([]byte(body), &root); err != nil {
		return nil, parseWrap("malformed document", err)
	}

	var top map[string]any
	switch v := root.(type) {
	case []any:
		if len(v) == 0 {
			return nil, parseErr("invalid document shape")
		}
		m, ok := v[0].(map[string]any)
		if !ok {
			return nil, parseErr("invalid document shape")
		}
		top = m
	case map[string]any:
		top = v
	default:
		return nil, parseErr("invalid document shape")
	}

	doc, err := parsePlanes(top)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(doc); err != nil {
		return nil, parseWrap("invalid declaration", err)
	}
	return doc, nil
}

// LoadFile reads and parses a blueprint file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(string(data))
}

// LoadDocument accepts either a blueprint file path or raw blueprint text.
// Anything containing a newline or a space-format sigil is treated as text;
// otherwise the argument is tried as a path first.
func LoadDocument(pathOrText string) (*Document, error) {
	if strings.ContainsRune(pathOrText, '\n') || strings.HasPrefix(pathOrText, Sigil) {
		return Load(pathOrText)
	}
	if _, err := os.Stat(pathOrText); err == nil {
		return LoadFile(pathOrText)
	}
	return Load(pathOrText)
}

func parsePlanes(top map[string]any) (*Document, error) {
	doc := &Document{}

	planesRaw, ok := top["planes"]
	if !ok || planesRaw == nil {
		return doc, nil
	}
	planes, ok := planesRaw.(map[string]any)
	if !ok {
		return nil, parseErr("planes must be a mapping")
	}

	agentic, err := planeList(planes, "agentic")
	if err != nil {
		return nil, err
	}
	for _, raw := range agentic {
		unit, err := parseUnit(raw)
		if err != nil {
			return nil, err
		}
		doc.Units = append(doc.Units, unit)
	}

	structural, err := planeList(planes, "structural")
	if err != nil {
		return nil, err
	}
	for _, raw := range structural {
		phase, err := parsePhase(raw)
		if err != nil {
			return nil, err
		}
		doc.Phases = append(doc.Phases, phase)
	}

	return doc, nil
}

func planeList(planes map[string]any, key string) ([]map[string]any, error) {
	raw, ok := planes[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, parseErrf("planes.%s must be a list", key)
	}
	out := make([]map[string]any, 0, len(list))
	for _, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, parseErrf("planes.%s entries must be mappings", key)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseUnit(m map[string]any) (UnitSpec, error) {
	var unit UnitSpec
	var err error

	if unit.Name, err = stringField(m, "name", ""); err != nil {
		return unit, err
	}
	if unit.Role, err = stringField(m, "role", "Generalist"); err != nil {
		return unit, err
	}
	if unit.Goal, err = stringField(m, "goal", ""); err != nil {
		return unit, err
	}
	if unit.PromptTemplate, err = stringField(m, "prompt_engineering", ""); err != nil {
		return unit, err
	}
	if unit.SubDocumentPath, err = stringField(m, "blueprint_path", ""); err != nil {
		return unit, err
	}

	typeTag, err := stringField(m, "type", "")
	if err != nil {
		return unit, err
	}
	if typeTag == string(Composite) || unit.SubDocumentPath != "" {
		unit.Variant = Composite
	} else {
		unit.Variant = Simple
	}
	return unit, nil
}

func parsePhase(m map[string]any) (PhaseSpec, error) {
	var phase PhaseSpec
	var err error

	if phase.Name, err = stringField(m, "name", ""); err != nil {
		return phase, err
	}
	if phase.Description, err = stringField(m, "description", ""); err != nil {
		return phase, err
	}

	stepsRaw, ok := m["steps"]
	if !ok || stepsRaw == nil {
		return phase, nil
	}
	steps, ok := stepsRaw.([]any)
	if !ok {
		return phase, parseErrf("phase %q: steps must be a list", phase.Name)
	}
	for _, elem := range steps {
		sm, ok := elem.(map[string]any)
		if !ok {
			return phase, parseErrf("phase %q: steps must be mappings", phase.Name)
		}
		step, err := parseStep(sm)
		if err != nil {
			return phase, err
		}
		phase.Steps = append(phase.Steps, step)
	}
	return phase, nil
}

func parseStep(m map[string]any) (StepSpec, error) {
	var step StepSpec
	var err error

	if step.Name, err = stringField(m, "name", ""); err != nil {
		return step, err
	}
	if step.UnitRef, err = stringField(m, "agent", ""); err != nil {
		return step, err
	}
	if step.CapabilityRef, err = stringField(m, "tool", ""); err != nil {
		return step, err
	}
	if step.OutputKey, err = stringField(m, "outputs", ""); err != nil {
		return step, err
	}

	switch inputs := m["inputs"].(type) {
	case nil:
	case []any:
		for _, elem := range inputs {
			key, ok := elem.(string)
			if !ok {
				return step, parseErrf("step %q: input keys must be strings", step.Name)
			}
			step.Inputs.Keys = append(step.Inputs.Keys, key)
		}
	case map[string]any:
		step.Inputs.Bindings = make(map[string]string, len(inputs))
		for arg, elem := range inputs {
			key, ok := elem.(string)
			if !ok {
				return step, parseErrf("step %q: input bindings must map to state keys", step.Name)
			}
			step.Inputs.Bindings[arg] = key
		}
	default:
		return step, parseErrf("step %q: inputs must be a list or a mapping", step.Name)
	}

	return step, nil
}

func stringField(m map[string]any, key, fallback string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", parseErrf("field %q must be a string", key)
	}
	return s, nil
}
