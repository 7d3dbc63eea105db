package mapping

import (
	"errors"
	"strings"
	"testing"

	"CompanyAPI/internal/apperror"

	"github.com/google/go-cmp/cmp"
)

func TestNewSetRejectsBadEntries(t *testing.T) {
	cases := map[string][]FieldMapping{
		"empty targets":  {{Source: "Name"}},
		"blank source":   {{Source: "  ", Targets: []string{"Name"}}},
		"duplicate name": {{Source: "Name", Targets: []string{"A"}}, {Source: "name", Targets: []string{"B"}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSet(in...)
			if !errors.Is(err, apperror.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestSetGetIgnoresCase(t *testing.T) {
	s := MustSet(
		FieldMapping{Source: "Name", Targets: []string{"FirstName", "LastName"}},
		FieldMapping{Source: "Age", Targets: []string{"DateOfBirth"}, Invert: true},
	)
	got, ok := s.Get(" nAME ")
	if !ok {
		t.Fatal("expected Name mapping")
	}
	want := FieldMapping{Source: "Name", Targets: []string{"FirstName", "LastName"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Name", "Age"}, s.Sources()); diff != "" {
		t.Fatalf("sources order (-want +got):\n%s", diff)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	set := MustSet(FieldMapping{Source: "Id", Targets: []string{"Id"}})
	r.Register("CompanyDto", "Company", set)

	got, err := r.Lookup("CompanyDto", "Company")
	if err != nil || got != set {
		t.Fatalf("lookup: got %v, %v", got, err)
	}

	_, err = r.Lookup("EmployeeDto", "Employee")
	var cfgErr *apperror.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Matches != 0 {
		t.Fatalf("expected missing ConfigurationError, got %v", err)
	}

	r.Register("CompanyDto", "Company", set)
	_, err = r.Lookup("CompanyDto", "Company")
	if !errors.As(err, &cfgErr) || cfgErr.Matches != 2 {
		t.Fatalf("expected ambiguous ConfigurationError, got %v", err)
	}
}

func TestValidMappingExistsFor(t *testing.T) {
	s := MustSet(
		FieldMapping{Source: "CompanyName", Targets: []string{"Name"}},
		FieldMapping{Source: "Id", Targets: []string{"Id"}},
	)
	cases := []struct {
		orderBy string
		want    bool
	}{
		{"", true},
		{"   ", true},
		{"companyname", true},
		{"CompanyName desc, id", true},
		{"CompanyName,", false},
		{"CompanyName,,id", false},
		{" , ", false},
		{"CompanyName, bogus desc", false},
		{"Name", false},
	}
	for _, tc := range cases {
		if got := ValidMappingExistsFor(s, tc.orderBy); got != tc.want {
			t.Errorf("ValidMappingExistsFor(%q) = %v, want %v", tc.orderBy, got, tc.want)
		}
	}
}

func TestDefaultMappings(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	emp, err := reg.Lookup("EmployeeDto", "Employee")
	if err != nil {
		t.Fatalf("lookup employee: %v", err)
	}
	age, ok := emp.Get("age")
	if !ok || !age.Invert || age.Targets[0] != "DateOfBirth" {
		t.Fatalf("age mapping: %+v", age)
	}
	name, _ := emp.Get("Name")
	if diff := cmp.Diff([]string{"FirstName", "LastName"}, name.Targets); diff != "" {
		t.Fatalf("name targets (-want +got):\n%s", diff)
	}
	if _, err := reg.Lookup("CompanyDto", "Company"); err != nil {
		t.Fatalf("lookup company: %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	doc := `
mappings:
  - dto: CompanyDto
    entity: Company
    fields:
      - source: Id
        target: [Id]
`
	_, err := Load(strings.NewReader(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown key 'target'") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsFieldWithoutTargets(t *testing.T) {
	doc := `
mappings:
  - dto: CompanyDto
    entity: Company
    fields:
      - source: Id
`
	_, err := Load(strings.NewReader(doc))
	if !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
