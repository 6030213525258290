package modal

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	if got := Render(Props{Visible: false, Body: "hidden"}); got != "" {
		t.Fatalf("Render() = %q, want empty", got)
	}

	got := Render(Props{Visible: true, Kind: DeleteAgent, Title: "Delete agent", Body: "Delete Go? (y/n)", Width: 80, Height: 20})
	for _, want := range []string{"Delete agent", "Delete Go? (y/n)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
	if lines := strings.Count(got, "\n") + 1; lines != 20 {
		t.Errorf("Expected dialog placed on 20 lines, got %d", lines)
	}
}
