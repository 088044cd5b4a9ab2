package markup

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestDecode_Constructs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Span
	}{
		{"bold", "**Hi**", []Span{{Style: Bold, Text: "Hi"}}},
		{"italic", "say *hi* now", []Span{
			{Style: Text, Text: "say "},
			{Style: Italic, Text: "hi"},
			{Style: Text, Text: " now"},
		}},
		{"heading", "# Title", []Span{{Style: Heading, Text: "Title"}}},
		{"heading needs text", "# ", []Span{{Style: Text, Text: "# "}}},
		{"heading not mid-line", "a # b", []Span{{Style: Text, Text: "a # b"}}},
		{"colored highlight", "=={green}:go==", []Span{{Style: Highlight, Text: "go", Color: Green}}},
		{"bare highlight defaults to yellow", "==go==", []Span{{Style: Highlight, Text: "go", Color: Yellow}}},
		{"unknown color is literal body", "=={red}:x==", []Span{{Style: Highlight, Text: "{red}:x", Color: Yellow}}},
		{"strike", "~~old~~", []Span{{Style: Strike, Text: "old"}}},
		{"line break", "a\nb", []Span{
			{Style: Text, Text: "a"},
			{Style: LineBreak},
			{Style: Text, Text: "b"},
		}},
		{"bold before italic", "**a** *b*", []Span{
			{Style: Bold, Text: "a"},
			{Style: Text, Text: " "},
			{Style: Italic, Text: "b"},
		}},
		{"unclosed bold is literal", "**open", []Span{{Style: Text, Text: "**open"}}},
		{"italic never takes a double asterisk", "**x*", []Span{{Style: Text, Text: "**x*"}}},
		{"italic after rejected star", "**a*b*", []Span{
			{Style: Text, Text: "**a"},
			{Style: Italic, Text: "b"},
		}},
		{"zero width marker stripped", "a\u200bb", []Span{{Style: Text, Text: "ab"}}},
		{"empty", "", []Span{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Decode(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestEncode_Bold(t *testing.T) {
	got := Encode([]Span{{Style: Bold, Text: "Hi"}})
	if got != "**Hi**" {
		t.Errorf("Encode = %q, want %q", got, "**Hi**")
	}
}

func TestEncode_NormalizesHighlight(t *testing.T) {
	got := Encode(Decode("==x== and =={pink}:y=="))
	want := "=={yellow}:x== and =={pink}:y=="
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestEncode_SkipsEmptySpans(t *testing.T) {
	got := Encode([]Span{{Style: Bold}, {Style: Text, Text: "a"}, {Style: LineBreak}, {Style: Italic}})
	if got != "a\n" {
		t.Errorf("Encode = %q", got)
	}
}

func TestStrip(t *testing.T) {
	in := "# Title\n**bold** *it* =={blue}:hl== ~~gone~~ plain"
	want := "Title\nbold it hl gone plain"
	if got := Strip(in); got != want {
		t.Errorf("Strip = %q, want %q", got, want)
	}
}

func TestWrap_InvalidColorFallsBackToYellow(t *testing.T) {
	if got := Wrap("x", Highlight, "purple"); got != "=={yellow}:x==" {
		t.Errorf("Wrap = %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	got := RenderHTML(Decode("# T\n**<b>** =={pink}:p=="))
	want := `<h2>T</h2><br><strong>&lt;b&gt;</strong> <mark data-color="pink">p</mark>`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}

func TestFromHTML_RoundTrip(t *testing.T) {
	src := "# Head\n**b** *i* =={green}:g== ~~s~~ <&> text"
	got := FromHTML(RenderHTML(Decode(src)))
	want := src
	if got != want {
		t.Errorf("FromHTML = %q, want %q", got, want)
	}
}

func TestFromHTML_DropsUnknownTags(t *testing.T) {
	got := FromHTML(`<div><span class="x">a</span><b>b</b><i>c</i><mark class="bg">d</mark></div>`)
	if got != "a**b***c*=={yellow}:d==" {
		t.Errorf("FromHTML = %q", got)
	}
}

// constructGen builds markup strings out of recognized constructs only.
func constructGen() *rapid.Generator[string] {
	word := rapid.StringMatching(`[a-z]{1,8}`)
	return rapid.Custom(func(t *rapid.T) string {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		parts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			w := word.Draw(t, "word")
			switch rapid.IntRange(0, 7).Draw(t, "construct") {
			case 0:
				parts = append(parts, w)
			case 1:
				parts = append(parts, "**"+w+"**")
			case 2:
				parts = append(parts, "*"+w+"*")
			case 3:
				c := rapid.SampledFrom(Colors).Draw(t, "color")
				parts = append(parts, "=={"+string(c)+"}:"+w+"==")
			case 4:
				parts = append(parts, "=="+w+"==")
			case 5:
				parts = append(parts, "~~"+w+"~~")
			case 6:
				parts = append(parts, "\n# "+w+"\n")
			case 7:
				parts = append(parts, "\n")
			}
		}
		return strings.Join(parts, " ")
	})
}

func TestDecode_IdempotentNormalForm(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := constructGen().Draw(t, "markup")
		first := Decode(x)
		second := Decode(Encode(first))
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("decode(encode(decode(%q))) = %#v, want %#v", x, second, first)
		}
	})
}

func TestDecode_ArbitraryInputNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.StringMatching(`[a-z*=~#{}: \n]{0,40}`).Draw(t, "raw")
		spans := Decode(x)
		if again := Decode(Encode(spans)); !reflect.DeepEqual(spans, again) {
			t.Fatalf("not idempotent for %q: %#v vs %#v", x, spans, again)
		}
	})
}
