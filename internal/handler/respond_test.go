package handler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestParseIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	for _, raw := range []string{
		a.String() + "," + b.String(),
		"(" + a.String() + ", " + b.String() + ")",
	} {
		got, err := parseIDs(raw)
		if err != nil {
			t.Fatalf("parseIDs(%q): %v", raw, err)
		}
		if diff := cmp.Diff([]uuid.UUID{a, b}, got); diff != "" {
			t.Fatalf("parseIDs(%q) (-want +got):\n%s", raw, diff)
		}
	}
	for _, raw := range []string{"", "()", " ( ) ", a.String() + ",", "(x)"} {
		if _, err := parseIDs(raw); err == nil {
			t.Errorf("parseIDs(%q) should fail", raw)
		}
	}
}

func TestNegotiate(t *testing.T) {
	offers := []string{mediaJSON, mediaCompanyFriendly, mediaCompanyFull}
	cases := []struct {
		accept string
		want   string
		ok     bool
	}{
		{"", mediaJSON, true},
		{"*/*", mediaJSON, true},
		{"application/vnd.company.company.full+json", mediaCompanyFull, true},
		{"text/html, application/vnd.company.company.friendly+json;q=0.9", mediaCompanyFriendly, true},
		{"APPLICATION/JSON", mediaJSON, true},
		{"text/xml", "", true},
		{"???", "", false},
		{"application/vnd.company.company.full+json;q=0", "", true},
		{"application/json;q=0.5, application/vnd.company.company.full+json", mediaCompanyFull, true},
		{"*/*;q=0.1, application/vnd.company.company.friendly+json", mediaCompanyFriendly, true},
		{"application/json;q=abc", "", false},
	}
	for _, tc := range cases {
		got, ok := negotiate(tc.accept, offers...)
		if got != tc.want || ok != tc.ok {
			t.Errorf("negotiate(%q) = %q, %v; want %q, %v", tc.accept, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOrderByOrDefault(t *testing.T) {
	if got := orderByOrDefault("  ", companyOrderDefault); got != "CompanyName" {
		t.Fatalf("blank orderBy = %q", got)
	}
	if got := orderByOrDefault("id desc", companyOrderDefault); got != "id desc" {
		t.Fatalf("explicit orderBy = %q", got)
	}
}
