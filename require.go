package glcaps

import "fmt"

// Requirement describes a gate condition consumable by [Context.Require].
//
// Built-in implementations are [Version] (a generation floor), [Extension]
// (must be usable) and [RequirementGroup].
type Requirement interface {
	isRequirement()
}

// RequirementGroup is a reusable set of [Requirement] items.
type RequirementGroup []Requirement

func (Version) isRequirement()          {}
func (Extension) isRequirement()        {}
func (RequirementGroup) isRequirement() {}

// Require validates the given requirements against the context and returns
// a *[CapabilityError] for the first unsatisfied one, or nil if all are met.
func (c *Context) Require(required ...Requirement) error {
	for _, req := range required {
		if err := c.require(req); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) require(req Requirement) error {
	switch r := req.(type) {
	case Version:
		if !c.IsVersionSupported(r) {
			return &CapabilityError{
				Name:   r.String(),
				Reason: fmt.Sprintf("context reports %s", c.version),
			}
		}
	case Extension:
		if c.IsExtensionDisabled(r) {
			return &CapabilityError{
				Name:   r.String(),
				Reason: "disabled by configuration or driver workaround",
			}
		}
		if !c.IsExtensionSupported(r) {
			return &CapabilityError{
				Name:   r.String(),
				Reason: fmt.Sprintf("not advertised by the driver and not core in %s", c.version),
			}
		}
	case RequirementGroup:
		for _, nested := range r {
			if nested == nil {
				continue
			}
			if err := c.require(nested); err != nil {
				return err
			}
		}
	}
	return nil
}
