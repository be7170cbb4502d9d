package classdb

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Add", "add"},
		{"GetName", "get_name"},
		{"SetHealthPoints", "set_health_points"},
		{"GetHTTPStatus", "get_http_status"},
		{"ID", "id"},
		{"UserID", "user_id"},
		{"ToJSON", "to_json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := toSnakeCase(tt.in); got != tt.want {
				t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
