package model

import "testing"

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", RolePatient, true},
		{"patient", RolePatient, true},
		{"doctor", RoleDoctor, true},
		{"DOCTOR", RoleDoctor, true},
		{"Hospital", RoleHospital, true},
		{"pHaRmAcY", RolePharmacy, true},
		{"nurse", "", false},
		{"admin", "", false},
		{"patients", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeRole(tt.in)
		if ok != tt.wantOK {
			t.Errorf("NormalizeRole(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
