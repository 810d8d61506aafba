package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Callback
		wire string
	}{
		{
			name: "menu",
			in:   Callback{Kind: kindMenu, Action: "show_account_menu"},
			wire: "menu:show_account_menu",
		},
		{
			name: "entry",
			in:   Callback{Kind: kindEntry, Action: "toggle_tag", EntryID: 7},
			wire: "entry:toggle_tag:7",
		},
		{
			name: "page",
			in:   Callback{Kind: kindPage, Action: "show_account_list", Page: 3},
			wire: "page:show_account_list:3",
		},
		{
			name: "data",
			in:   Callback{Kind: kindData, Action: "set_account_type", Data: "student"},
			wire: "data:set_account_type:student",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wire, tc.in.Encode())

			out, err := DecodeCallback(tc.wire)
			require.NoError(t, err)
			assert.Equal(t, tc.in, out)
		})
	}
}

func TestDecodeCallbackRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{name: "empty", wire: ""},
		{name: "no action", wire: "menu:"},
		{name: "kind only", wire: "menu"},
		{name: "unknown kind", wire: "xyz:action"},
		{name: "entry without id", wire: "entry:toggle_tag"},
		{name: "entry non-numeric id", wire: "entry:toggle_tag:abc"},
		{name: "page negative", wire: "page:show_account_list:-1"},
		{name: "page non-numeric", wire: "page:show_account_list:x"},
		{name: "data without payload", wire: "data:set_account_type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCallback(tc.wire)
			assert.Error(t, err)
		})
	}
}

func TestCallbackHelpers(t *testing.T) {
	assert.Equal(t, "menu:show_account_menu", menuCallback("show_account_menu"))
	assert.Equal(t, "entry:toggle_like:12", entryCallback("toggle_like", 12))
	assert.Equal(t, "page:show_account_list:0", pageCallback("show_account_list", 0))
	assert.Equal(t, "data:set_account_type:mentor", dataCallback("set_account_type", "mentor"))
}
