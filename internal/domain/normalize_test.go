package domain

import "testing"

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Alice", "Alice"},
		{"  Alice   Smith ", "Alice Smith"},
		{"a\t b\n c", "a b c"},
	}
	for _, tc := range cases {
		if got := NormalizeHumanName(tc.in); got != tc.want {
			t.Fatalf("NormalizeHumanName(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{" Alice@Example.COM ", "alice@example.com"},
		{"bob@example.com", "bob@example.com"},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Fatalf("NormalizeEmail(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInvite_AddressedTo(t *testing.T) {
	t.Parallel()

	userID := UserID("u-1")
	email := "alice@example.com"

	byID := Invite{ReceiverID: &userID}
	if !byID.AddressedTo(Identity{UserID: "u-1"}) {
		t.Fatalf("expected match by user ID")
	}
	if byID.AddressedTo(Identity{UserID: "u-2", Email: email}) {
		t.Fatalf("ID-addressed invites must not match by email")
	}

	byEmail := Invite{ReceiverEmail: &email}
	if !byEmail.AddressedTo(Identity{UserID: "u-2", Email: "alice@example.com"}) {
		t.Fatalf("expected match by email")
	}
	if byEmail.AddressedTo(Identity{UserID: "u-2", Email: "other@example.com"}) {
		t.Fatalf("unexpected email match")
	}
}
