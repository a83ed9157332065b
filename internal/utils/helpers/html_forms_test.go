package helpers

import (
	"strings"
	"testing"
	"time"
)

func TestBuildVerificationCodeHTML(t *testing.T) {
	out := BuildVerificationCodeHTML("123456", 24*time.Hour)
	if !strings.Contains(out, "123456") {
		t.Fatal("в письме нет кода")
	}
	if !strings.Contains(out, "24 hours") {
		t.Fatal("в письме нет срока действия")
	}
}

func TestBuildPasswordResetHTML_ContainsLink(t *testing.T) {
	link := "http://localhost:5173/reset-password/abc123"
	out := BuildPasswordResetHTML(link, time.Hour)
	if strings.Count(out, link) != 2 {
		t.Fatalf("ссылка должна встречаться дважды:\n%s", out)
	}
	if !strings.Contains(out, "1 hour") {
		t.Fatal("нет срока действия ссылки")
	}
}

func TestBuildWelcomeHTML_EscapesName(t *testing.T) {
	out := BuildWelcomeHTML("<script>x</script>", "http://app")
	if strings.Contains(out, "<script>") {
		t.Fatal("имя не экранировано")
	}
}

func TestHumanizeTTL(t *testing.T) {
	cases := map[time.Duration]string{
		24 * time.Hour:   "24 hours",
		48 * time.Hour:   "2 days",
		time.Hour:        "1 hour",
		3 * time.Hour:    "3 hours",
		30 * time.Minute: "30 minutes",
	}
	for d, want := range cases {
		if got := humanizeTTL(d); got != want {
			t.Errorf("humanizeTTL(%v) = %q, ожидали %q", d, got, want)
		}
	}
}
