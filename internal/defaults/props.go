package defaults

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// MergeProps overlays the attributes of override on top of base. Both values
// must be known, non-null objects or maps; a null base yields override as is.
func MergeProps(base, override cty.Value) (cty.Value, error) {
	if err := checkProps(override); err != nil {
		return cty.NilVal, fmt.Errorf("override props: %w", err)
	}
	if base.IsNull() {
		return override, nil
	}
	if err := checkProps(base); err != nil {
		return cty.NilVal, fmt.Errorf("baseline props: %w", err)
	}

	attrs := base.AsValueMap()
	if attrs == nil {
		attrs = make(map[string]cty.Value)
	}
	for name, v := range override.AsValueMap() {
		attrs[name] = v
	}
	return cty.ObjectVal(attrs), nil
}

func checkProps(v cty.Value) error {
	if v.IsNull() {
		return fmt.Errorf("props must not be null")
	}
	if !v.IsWhollyKnown() {
		return fmt.Errorf("props must be known")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return fmt.Errorf("props must be an object, got %s", ty.FriendlyName())
	}
	return nil
}

// PropsOf converts a Go struct with `cty` tags into an object value.
func PropsOf(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("could not imply props type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

func mustProps(v any) cty.Value {
	props, err := PropsOf(v)
	if err != nil {
		panic(err)
	}
	return props
}

// stringAttr reads an optional string attribute from props.
func stringAttr(props cty.Value, name string) (string, bool, error) {
	if !props.Type().IsObjectType() || !props.Type().HasAttribute(name) {
		return "", false, nil
	}
	v := props.GetAttr(name)
	if v.IsNull() {
		return "", false, nil
	}
	if !v.Type().Equals(cty.String) {
		return "", true, fmt.Errorf("attribute '%s' must be a string, got %s", name, v.Type().FriendlyName())
	}
	return v.AsString(), true, nil
}
