package defaults

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

type viewProps struct {
	Style      string `cty:"style"`
	Accessible bool   `cty:"accessible"`
}

type textProps struct {
	Text          string `cty:"text"`
	NumberOfLines int    `cty:"number_of_lines"`
}

type buttonProps struct {
	Title    string `cty:"title"`
	Disabled bool   `cty:"disabled"`
}

type imageProps struct {
	Source     string `cty:"source"`
	ResizeMode string `cty:"resize_mode"`
}

type textInputProps struct {
	Placeholder string `cty:"placeholder"`
	Editable    bool   `cty:"editable"`
}

type scrollViewProps struct {
	Horizontal bool `cty:"horizontal"`
}

type placeholderProps struct {
	Label string `cty:"label"`
}

// Builtin returns the default component table compiled into the host.
func Builtin() *Table {
	return NewTable(map[ID]Entry{
		View: {
			Props:   mustProps(viewProps{Style: "default", Accessible: true}),
			Factory: element("View"),
		},
		Text: {
			Props:   mustProps(textProps{}),
			Factory: element("Text"),
		},
		Button: {
			Props:   mustProps(buttonProps{Title: "Button"}),
			Factory: requireString("Button", "title"),
		},
		Image: {
			Props:   mustProps(imageProps{ResizeMode: "cover"}),
			Factory: element("Image"),
		},
		TextInput: {
			Props:   mustProps(textInputProps{Editable: true}),
			Factory: element("TextInput"),
		},
		ScrollView: {
			Props:   mustProps(scrollViewProps{}),
			Factory: element("ScrollView"),
		},
		Placeholder: {
			Props:   mustProps(placeholderProps{Label: "Unavailable"}),
			Factory: requireString("Placeholder", "label"),
		},
	})
}

// element returns a factory that wraps props in an element of the given type.
func element(typ string) Factory {
	return func(props cty.Value) (Element, error) {
		if err := checkProps(props); err != nil {
			return Element{}, fmt.Errorf("%s: %w", typ, err)
		}
		return Element{Type: typ, Props: props}, nil
	}
}

// requireString is like element but also insists on a non-empty string
// attribute, which the host needs to draw anything meaningful.
func requireString(typ, attr string) Factory {
	base := element(typ)
	return func(props cty.Value) (Element, error) {
		el, err := base(props)
		if err != nil {
			return Element{}, err
		}
		s, ok, err := stringAttr(props, attr)
		if err != nil {
			return Element{}, fmt.Errorf("%s: %w", typ, err)
		}
		if !ok || s == "" {
			return Element{}, fmt.Errorf("%s: attribute '%s' is required", typ, attr)
		}
		return el, nil
	}
}
