package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePackName(t *testing.T) {
	testCases := []struct {
		name   string
		link   string
		want   string
		wantOK bool
	}{
		{"canonical link", "https://t.me/addstickers/MyPack123", "MyPack123", true},
		{"underscores", "https://t.me/addstickers/my_pack_by_bot", "my_pack_by_bot", true},
		{"query ignored", "https://t.me/addstickers/Cats?startapp=1", "Cats", true},
		{"trailing path ignored", "https://t.me/addstickers/Dogs/extra", "Dogs", true},
		{"no scheme", "t.me/addstickers/Frogs", "Frogs", true},
		{"stops at invalid char", "https://t.me/addstickers/Ab-cd", "Ab", true},
		{"other host", "https://example.com/foo", "", false},
		{"missing name", "https://t.me/addstickers/", "", false},
		{"channel link", "https://t.me/some_channel/123", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePackName(tc.link)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsValidPackLink(t *testing.T) {
	valid := []string{
		"https://t.me/addstickers/MyPack123",
		"https://t.me/addstickers/my_pack/",
	}
	invalid := []string{
		"http://t.me/addstickers/MyPack123",
		"https://t.me/addstickers/MyPack123?x=1",
		"https://t.me/addstickers/My-Pack",
		"https://t.me/addstickers/",
		" https://t.me/addstickers/MyPack123",
		"https://example.com/foo",
	}

	for _, link := range valid {
		assert.True(t, IsValidPackLink(link), link)
	}
	for _, link := range invalid {
		assert.False(t, IsValidPackLink(link), link)
	}
}
