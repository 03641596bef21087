package suite

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jakopako/tagcheck/tagmatch"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ruleObject is the object form of a rule, eg. {token: checkbox}.
type ruleObject struct {
	Exact *string `mapstructure:"exact"`
	Token *string `mapstructure:"token"`
	Regex *string `mapstructure:"regex"`
}

// decodeRule turns a yaml value into an attribute rule:
//
//	name: user[email]       # exact value
//	checked: true           # attribute present, false for absent
//	type: {token: checkbox} # case insensitive value
//	id: {regex: ^user_}     # regexp matched anywhere in the value
func decodeRule(node *yaml.Node) (tagmatch.Rule, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return tagmatch.Rule{}, errors.New("missing rule value")
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return tagmatch.Rule{}, err
			}
			return tagmatch.RuleFor(b)
		}
		// numbers are compared the way they are written
		return tagmatch.Exact(node.Value), nil
	case yaml.MappingNode:
		return decodeRuleObject(node)
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return tagmatch.Rule{}, err
	}
	return tagmatch.RuleFor(v)
}

func decodeRuleObject(node *yaml.Node) (tagmatch.Rule, error) {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return tagmatch.Rule{}, err
	}

	var obj ruleObject
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &obj,
	})
	if err != nil {
		return tagmatch.Rule{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return tagmatch.Rule{}, err
	}

	switch {
	case countSet(obj.Exact, obj.Token, obj.Regex) != 1:
		return tagmatch.Rule{}, errors.New("a rule needs exactly one of exact, token and regex")
	case obj.Exact != nil:
		return tagmatch.Exact(*obj.Exact), nil
	case obj.Token != nil:
		return tagmatch.RuleFor(tagmatch.Token(*obj.Token))
	}
	re, err := regexp.Compile(*obj.Regex)
	if err != nil {
		return tagmatch.Rule{}, fmt.Errorf("invalid regex: %w", err)
	}
	return tagmatch.Regex(re), nil
}

func countSet(values ...*string) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}

// decodeAttributes decodes a mapping of attribute names to rules, keeping
// the order of the suite file.
func decodeAttributes(node *yaml.Node) ([]tagmatch.Attr, error) {
	if node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("attributes must be a mapping")
	}
	attrs := make([]tagmatch.Attr, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		rule, err := decodeRule(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		attrs = append(attrs, tagmatch.Attr{Name: name, Rule: rule})
	}
	return attrs, nil
}
