package inputval

import "testing"

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"http://localhost:8080/mcp", true},
		{"  https://example.com/path  ", true},
		{"", false},
		{"ftp://example.com", false},
		{"not-a-url", false},
		{"https://", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.url); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"FFFFFFFFFFFFFFFFFFFFFFFF", true},
		{"  507f1f77bcf86cd799439011  ", true},
		{"", false},
		{"507f1f77bcf86cd79943901", false},
		{"507f1f77bcf86cd79943901g", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsValidObjectID(tt.id); got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		PhoneNumber string `validate:"required,max=20" label:"Phone number"`
		DeviceName  string `validate:"required" label:"Device name"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:  "valid input",
			input: TestInput{PhoneNumber: "+15550001", DeviceName: "Van 7"},
		},
		{
			name:       "missing phone",
			input:      TestInput{DeviceName: "Van 7"},
			wantErrors: true,
			wantFirst:  "Phone number is required.",
		},
		{
			name:       "phone too long",
			input:      TestInput{PhoneNumber: "+155500011112222333344", DeviceName: "Van 7"},
			wantErrors: true,
			wantFirst:  "Phone number must be at most 20 characters.",
		},
		{
			name:       "missing both",
			input:      TestInput{},
			wantErrors: true,
			wantFirst:  "Phone number is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}
			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{}
	if r.All() != "" {
		t.Errorf("All() = %q, want empty", r.All())
	}
	r.Errors = []FieldError{{Message: "Error 1"}, {Message: "Error 2"}}
	if want := "Error 1; Error 2"; r.All() != want {
		t.Errorf("All() = %q, want %q", r.All(), want)
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type toolInput struct {
		ServerURL string `validate:"required,httpurl" label:"Server URL"`
		AgentID   string `validate:"omitempty,objectid" label:"Agent"`
	}

	if res := Validate(toolInput{ServerURL: "https://mcp.example.com"}); res.HasErrors() {
		t.Errorf("valid input has errors: %v", res.Errors)
	}
	res := Validate(toolInput{ServerURL: "nope", AgentID: "bad"})
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", res.Errors)
	}
	if res.First() != "Server URL must be a valid http(s) URL." {
		t.Errorf("First() = %q", res.First())
	}
}
