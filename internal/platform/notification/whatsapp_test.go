package notification

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"03047501095", "923047501095"},
		{"0304-7501095", "923047501095"},
		{"0304 750 1095", "923047501095"},
		{"(0304) 7501095", "923047501095"},
		{"+923047501095", "923047501095"},
		{"923047501095", "923047501095"},
		{"3047501095", "923047501095"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizePhoneRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-number", "0304x7501095"} {
		if _, err := NormalizePhone(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestChatLink(t *testing.T) {
	link, err := ChatLink("03047501095", "Your prescription is ready")
	if err != nil {
		t.Fatalf("chat link: %v", err)
	}
	want := "https://wa.me/923047501095?text=Your+prescription+is+ready"
	if link != want {
		t.Fatalf("expected %q, got %q", want, link)
	}
}

func TestChatLinkWithoutMessage(t *testing.T) {
	link, err := ChatLink("03047501095", "")
	if err != nil {
		t.Fatalf("chat link: %v", err)
	}
	if link != "https://wa.me/923047501095" {
		t.Fatalf("unexpected link: %q", link)
	}
}
