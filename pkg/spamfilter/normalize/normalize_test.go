package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextStripsEverything(t *testing.T) {
	assert.Equal(t, "hello", Text("HELLO http://x.com 123!!"))
}

func TestTextSteps(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Free ENTRY in 2 a wkly comp", "free entry in  a wkly comp"},
		{"visit https://win.example/now?x=1 today", "visit  today"},
		{"U dun say so early hor... U c already then say...", "u dun say so early hor u c already then say"},
		{"call 0800-123-456!", "call"},
		{"£1000 cash", "£ cash"},
		{"café au lait", "café au lait"},
		{"snake_case & co.", "snakecase  co"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Text(tc.in), "input %q", tc.in)
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"HELLO http://x.com 123!!",
		"ht.tps://spliced",
		"ht1tpx tail",
		"  WINNER!! As a valued network customer you have been selected  ",
		"ÀÉÎ ÕÜ 42 ١٢٣",
		"\t\nhttp\n",
		"h.t.t.p.s",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestTextSplicedURL(t *testing.T) {
	// "ht.tps" becomes "https" once punctuation is gone and is then stripped.
	assert.Equal(t, "", Text("ht.tps"))
}

func TestAll(t *testing.T) {
	got := All([]string{"A1", "b!", "http://c"})
	assert.Equal(t, []string{"a", "b", ""}, got)
}
