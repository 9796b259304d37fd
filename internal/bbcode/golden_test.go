package bbcode

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden fixtures pin the exact rendered bytes for representative
// documents. Regenerate with: go test ./internal/bbcode -update
func TestTransform_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	testCases := []struct {
		name  string
		input string
	}{
		{
			name: "document",
			input: "[quote=Alice;7]Try [b]this[/b]![/quote]\n" +
				"[list]\n[*] first\n[*] second\n[/list]\n" +
				"Ping @bob",
		},
		{
			name:  "code_isolation",
			input: "Before\n[code]\nif a < b {\n\treturn \"x\"\n}\n[/code]\nAfter",
		},
		{
			name:  "media",
			input: "[center][img=120x90]https://e.com/pic.png[/img][/center]\n[yt]dQw4w9WgXcQ[/yt]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g.Assert(t, tc.name, []byte(Transform(tc.input)))
		})
	}
}
