package classdb

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Free", "free"},
		{"GetParent", "get_parent"},
		{"IsSecret", "is_secret"},
		{"GetHTTPServer", "get_http_server"},
		{"GetHTTPURL", "get_httpurl"},
		{"GetID", "get_id"},
		{"Set_Value", "set_value"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := toSnakeCase(tt.in); got != tt.want {
				t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
