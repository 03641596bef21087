package suite

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goodsign/monday"
	"github.com/jakopako/tagcheck/tagmatch"
	"gopkg.in/yaml.v3"
)

// Presets a check can start from.
const (
	PresetTag        = "tag"
	PresetInput      = "input"
	PresetSelect     = "select"
	PresetCheckbox   = "checkbox"
	PresetForm       = "form"
	PresetDateSelect = "date_select"
	PresetTimeSelect = "time_select"
)

var presets = []string{PresetTag, PresetInput, PresetSelect, PresetCheckbox, PresetForm, PresetDateSelect, PresetTimeSelect}

// Check is a single assertion of a suite. Which fields apply depends on the
// preset, eg. verb and action only make sense for forms.
type Check struct {
	Name     string `yaml:"name"`
	Document string `yaml:"document"`
	// Preset defaults to "tag".
	Preset string `yaml:"preset"`
	// Tag is the tag name of the "tag" preset.
	Tag string `yaml:"tag"`
	// For is the field name path, eg. [user, {name: first}] for "user[name][first]".
	For        any       `yaml:"for"`
	Attributes yaml.Node `yaml:"attributes"`
	Value      yaml.Node `yaml:"value"`
	Checked    *bool     `yaml:"checked"`
	Verb       string    `yaml:"verb"`
	Action     yaml.Node `yaml:"action"`
	Discard    []string  `yaml:"discard"`
	MonthNames string    `yaml:"month_names"`
	Count      *int      `yaml:"count"`
	// Negate expects the document to not match.
	Negate bool `yaml:"negate"`
}

func (c *Check) label(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("#%d", index+1)
}

func (c *Check) preset() string {
	if c.Preset == "" {
		return PresetTag
	}
	return strings.ToLower(c.Preset)
}

// Matcher builds the matcher described by the check.
func (c *Check) Matcher() (tagmatch.Matcher, error) {
	var (
		m   tagmatch.Matcher
		err error
	)
	switch p := c.preset(); p {
	case PresetDateSelect:
		m, err = c.selectGroup(tagmatch.DateSelect())
	case PresetTimeSelect:
		m, err = c.selectGroup(tagmatch.TimeSelect())
	case PresetTag, PresetInput, PresetSelect, PresetCheckbox, PresetForm:
		m, err = c.tag(p)
	default:
		return nil, fmt.Errorf("unknown preset %q, must be one of [%s]", c.Preset, strings.Join(presets, ", "))
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Check) tag(preset string) (*tagmatch.TagMatcher, error) {
	var m *tagmatch.TagMatcher
	switch preset {
	case PresetTag:
		if c.Tag == "" {
			return nil, errors.New("tag needs to be set")
		}
		m = tagmatch.Tag(c.Tag)
	case PresetInput:
		m = tagmatch.Input()
	case PresetSelect:
		m = tagmatch.Select()
	case PresetCheckbox:
		m = tagmatch.Checkbox()
	case PresetForm:
		m = tagmatch.Form()
	}
	if preset != PresetTag && c.Tag != "" {
		return nil, fmt.Errorf("tag can't be set for preset %s", preset)
	}
	if len(c.Discard) > 0 || c.MonthNames != "" {
		return nil, fmt.Errorf("discard and month_names are only supported by %s", PresetDateSelect)
	}
	if preset != PresetForm && (c.Verb != "" || !c.Action.IsZero()) {
		return nil, fmt.Errorf("verb and action are only supported by %s", PresetForm)
	}

	if c.For != nil {
		m.For(c.For)
	}

	attrs, err := decodeAttributes(&c.Attributes)
	if err != nil {
		return nil, err
	}
	m.WithAttributes(attrs...)

	if !c.Value.IsZero() {
		rule, err := decodeRule(&c.Value)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		m.WithValue(rule)
	}

	if c.Checked != nil {
		if *c.Checked {
			m.Checked()
		} else {
			m.NotChecked()
		}
	}

	if c.Verb != "" {
		m.WithVerb(c.Verb)
	}
	if !c.Action.IsZero() {
		rule, err := decodeRule(&c.Action)
		if err != nil {
			return nil, fmt.Errorf("action: %w", err)
		}
		m.WithAction(rule)
	}

	if c.Count != nil {
		if *c.Count < 0 {
			return nil, fmt.Errorf("count must not be negative, got %d", *c.Count)
		}
		m.WithCount(*c.Count)
	}
	return m, nil
}

func (c *Check) selectGroup(g *tagmatch.SelectGroupMatcher) (*tagmatch.SelectGroupMatcher, error) {
	preset := c.preset()
	if c.Tag != "" || !c.Attributes.IsZero() || !c.Value.IsZero() || c.Checked != nil || c.Count != nil {
		return nil, fmt.Errorf("tag, attributes, value, checked and count are not supported by %s", preset)
	}
	if c.Verb != "" || !c.Action.IsZero() {
		return nil, fmt.Errorf("verb and action are only supported by %s", PresetForm)
	}

	parts := g.Parts()
	for _, d := range c.Discard {
		if !slices.Contains(parts, strings.ToLower(d)) {
			return nil, fmt.Errorf("%s has no part %q, must be one of [%s]", preset, d, strings.Join(parts, ", "))
		}
	}

	if c.MonthNames != "" {
		if !slices.Contains(parts, tagmatch.PartMonth) {
			return nil, fmt.Errorf("month_names is only supported by %s", PresetDateSelect)
		}
		if slices.ContainsFunc(c.Discard, func(d string) bool { return strings.EqualFold(d, tagmatch.PartMonth) }) {
			return nil, errors.New("month_names can't be checked on a discarded month")
		}
		locale := monday.Locale(c.MonthNames)
		if !slices.Contains(monday.ListLocales(), locale) {
			return nil, fmt.Errorf("unknown locale %q", c.MonthNames)
		}
		g.WithMonthNames(locale)
	}

	if c.For != nil {
		g.For(c.For)
	}
	g.Discard(c.Discard...)
	return g, nil
}
