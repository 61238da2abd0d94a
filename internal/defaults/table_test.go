package defaults

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestBuiltin_IDs(t *testing.T) {
	want := []ID{Button, Image, Placeholder, ScrollView, Text, TextInput, View}
	if diff := cmp.Diff(want, Builtin().IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_BaselineIsStable(t *testing.T) {
	table := Builtin()

	first, err := table.Render(Button, nil)
	require.NoError(t, err)
	second, err := table.Render(Button, nil)
	require.NoError(t, err)

	assert.Equal(t, "Button", first.Type)
	assert.True(t, first.Props.RawEquals(second.Props), "rendering twice must yield identical props")
	assert.Equal(t, "Button", first.Props.GetAttr("title").AsString())
}

func TestRender_OverrideMergesOverBaseline(t *testing.T) {
	table := Builtin()
	override := cty.ObjectVal(map[string]cty.Value{
		"title":  cty.StringVal("Send"),
		"testID": cty.StringVal("send-button"),
	})

	el, err := table.Render(Button, &override)
	require.NoError(t, err)

	assert.Equal(t, "Send", el.Props.GetAttr("title").AsString())
	assert.Equal(t, "send-button", el.Props.GetAttr("testID").AsString())
	assert.True(t, el.Props.GetAttr("disabled").False())

	// The override must not leak into the table.
	baseline, err := table.Render(Button, nil)
	require.NoError(t, err)
	assert.Equal(t, "Button", baseline.Props.GetAttr("title").AsString())
	assert.False(t, baseline.Props.Type().HasAttribute("testID"))
}

func TestRender_UnknownID(t *testing.T) {
	_, err := Builtin().Render(ID("unknown-id"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDefaultID)
	assert.Contains(t, err.Error(), "unknown-id")
}

func TestRender_RejectsNonObjectOverride(t *testing.T) {
	override := cty.StringVal("nope")
	_, err := Builtin().Render(View, &override)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "props must be an object")
}

func TestRender_RequiredAttribute(t *testing.T) {
	testCases := []struct {
		name     string
		override cty.Value
		wantErr  string
	}{
		{
			name:     "empty title",
			override: cty.ObjectVal(map[string]cty.Value{"title": cty.StringVal("")}),
			wantErr:  "Button: attribute 'title' is required",
		},
		{
			name:     "wrong type",
			override: cty.ObjectVal(map[string]cty.Value{"title": cty.NumberIntVal(3)}),
			wantErr:  "Button: attribute 'title' must be a string, got number",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Builtin().Render(Button, &tc.override)
			require.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestNewTable_CopiesEntries(t *testing.T) {
	entries := map[ID]Entry{
		"custom": {Props: cty.EmptyObjectVal, Factory: element("Custom")},
	}
	table := NewTable(entries)
	delete(entries, "custom")

	_, err := table.Lookup("custom")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestNewTable_PanicsOnMissingFactory(t *testing.T) {
	assert.Panics(t, func() {
		NewTable(map[ID]Entry{"broken": {Props: cty.EmptyObjectVal}})
	})
}

func TestMergeProps_NullBase(t *testing.T) {
	override := cty.ObjectVal(map[string]cty.Value{"a": cty.True})
	merged, err := MergeProps(cty.NullVal(cty.EmptyObject), override)
	require.NoError(t, err)
	assert.True(t, merged.RawEquals(override))
}

func TestPropsOf(t *testing.T) {
	props, err := PropsOf(buttonProps{Title: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "Go", props.GetAttr("title").AsString())
	assert.True(t, props.GetAttr("disabled").False())
}
