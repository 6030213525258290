package mainview

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got := Render(Props{
		Width:  100,
		Height: 50,
		Header: "HEADER",
		Notice: "NOTICE",
		Body:   "BODY",
	})

	for _, want := range []string{"HEADER", "NOTICE", "BODY"} {
		if !strings.Contains(got, want) {
			t.Errorf("Missing %s", want)
		}
	}
	if strings.Index(got, "HEADER") > strings.Index(got, "BODY") {
		t.Error("Header should precede body")
	}
}

func TestRender_BodyOnly(t *testing.T) {
	got := Render(Props{Width: 20, Height: 3, Body: "only"})
	if !strings.Contains(got, "only") {
		t.Errorf("Render() = %q", got)
	}
}
