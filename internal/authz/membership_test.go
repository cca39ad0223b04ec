package authz

import "testing"

func TestSharedOrganisation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{"common org", []string{"ORG_1", "ORG_2"}, []string{"ORG_2", "ORG_3"}, true},
		{"disjoint", []string{"ORG_1"}, []string{"ORG_2"}, false},
		{"identical", []string{"ORG_1"}, []string{"ORG_1"}, true},
		{"a empty", nil, []string{"ORG_1"}, false},
		{"b empty", []string{"ORG_1"}, nil, false},
		{"both empty", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SharedOrganisation(tt.a, tt.b); got != tt.want {
				t.Errorf("SharedOrganisation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Symmetric in its arguments.
			if got := SharedOrganisation(tt.b, tt.a); got != tt.want {
				t.Errorf("SharedOrganisation(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestIsMember(t *testing.T) {
	t.Parallel()

	members := []string{"UID_a", "UID_b"}
	if !IsMember(members, "UID_a") {
		t.Error("expected UID_a to be a member")
	}
	if IsMember(members, "UID_c") {
		t.Error("expected UID_c not to be a member")
	}
	if IsMember(nil, "UID_a") {
		t.Error("expected empty member list to contain nobody")
	}
}
