package validation

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func usernameTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable()
	err := table.Add("username",
		Required("Username is required."),
		MinLength(3, "Username must be at least 3 characters."),
		MaxLength(16, "Username cannot exceed 16 characters."),
		Pattern(regexp.MustCompile(`^[a-zA-Z0-9_-]+$`), "Username can only contain letters, numbers, underscores, and hyphens."),
	)
	if err != nil {
		t.Fatalf("add username: %v", err)
	}
	err = table.Add("email",
		Required("Email is required."),
		Email("Please enter a valid email address."),
		MaxLength(100, "Email address is too long."),
	)
	if err != nil {
		t.Fatalf("add email: %v", err)
	}
	return table
}

func TestTable_ValidateOrder(t *testing.T) {
	table := usernameTable(t)

	cases := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"empty", "username", "", "Username is required."},
		{"whitespace only", "username", "   \t", "Username is required."},
		{"too short", "username", "ab", "Username must be at least 3 characters."},
		{"short wins over pattern", "username", "a$", "Username must be at least 3 characters."},
		{"too long", "username", strings.Repeat("a", 17), "Username cannot exceed 16 characters."},
		{"long wins over pattern", "username", strings.Repeat("$", 17), "Username cannot exceed 16 characters."},
		{"bad characters", "username", "bad name", "Username can only contain letters, numbers, underscores, and hyphens."},
		{"minimum", "username", "abc", ""},
		{"maximum", "username", strings.Repeat("z", 16), ""},
		{"trimmed", "username", "  jane_doe-1  ", ""},
		{"email empty", "email", "", "Email is required."},
		{"email valid", "email", "test@example.com", ""},
		{"email invalid", "email", "invalid-email", "Please enter a valid email address."},
		{"email short tld", "email", "a@b.c", "Please enter a valid email address."},
		{"email too long", "email", strings.Repeat("a", 101) + "@example.com", "Email address is too long."},
		{"email long and invalid", "email", strings.Repeat("a", 120), "Please enter a valid email address."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := table.Validate(tc.field, tc.value)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Validate(%q, %q) = %q, want %q", tc.field, tc.value, got, tc.want)
			}
		})
	}
}

func TestTable_UsernameBoundsProperty(t *testing.T) {
	table := usernameTable(t)
	alphabet := "abcXYZ019_-"
	for n := 0; n <= 20; n++ {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[i%len(alphabet)])
		}
		got, err := table.Validate("username", b.String())
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		valid := n >= 3 && n <= 16
		if valid && got != "" {
			t.Fatalf("length %d: expected valid, got %q", n, got)
		}
		if !valid && got == "" {
			t.Fatalf("length %d: expected failure", n)
		}
	}
}

func TestTable_UnknownField(t *testing.T) {
	table := usernameTable(t)
	if _, err := table.Validate("message", "hi"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestTable_DuplicateField(t *testing.T) {
	table := NewTable()
	if err := table.Add("name", Required("Name is required.")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := table.Add("name"); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if err := table.Add("  "); err == nil {
		t.Fatalf("expected error for empty field name")
	}
}

func TestTable_FieldsOrder(t *testing.T) {
	table := usernameTable(t)
	if diff := cmp.Diff([]string{"username", "email"}, table.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLengthCountsCharacters(t *testing.T) {
	if got := Length("héllo"); got != 5 {
		t.Fatalf("Length = %d, want 5", got)
	}
	rule := MaxLength(5, "too long")
	if !rule.Passes("héllo") {
		t.Fatalf("expected five characters to pass a max length of 5")
	}
}

func TestLengthCountsAstralRunesOnce(t *testing.T) {
	if got := Length("😀"); got != 1 {
		t.Fatalf("Length = %d, want 1", got)
	}
	if !MaxLength(500, "too long").Passes(strings.Repeat("😀", 300)) {
		t.Fatalf("expected 300 emoji to pass a max length of 500")
	}
	if MinLength(10, "too short").Passes(strings.Repeat("😀", 5)) {
		t.Fatalf("expected 5 emoji to fail a min length of 10")
	}
}

func TestEmailPatternAcceptsLongLocalPart(t *testing.T) {
	long := strings.Repeat("a", 101) + "@example.com"
	if !EmailPattern.MatchString(long) {
		t.Fatalf("expected long local part to match the email format")
	}
}
