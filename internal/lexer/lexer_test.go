package lexer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Token
		wantErr bool
	}{
		{
			name:  "simple words",
			input: "echo hello world",
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: "hello", Origin: Bare},
				{Text: "world", Origin: Bare},
			},
		},
		{
			name:  "collapses adjacent whitespace",
			input: "echo    hello",
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: "hello", Origin: Bare},
			},
		},
		{
			name:  "single quotes are literal",
			input: `echo 'hello $VAR  world'`,
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: "hello $VAR  world", Origin: SingleQuoted},
			},
		},
		{
			name:  "double quotes preserve internal spacing",
			input: `echo "hello   world"`,
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: "hello   world", Origin: DoubleQuoted},
			},
		},
		{
			name:  "backslash escapes next byte outside single quotes",
			input: `echo hello\ world`,
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: "hello world", Origin: Bare},
			},
		},
		{
			name:  "backslash is literal inside single quotes",
			input: `echo 'a\b'`,
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: `a\b`, Origin: SingleQuoted},
			},
		},
		{
			name:  "empty input produces no tokens",
			input: "   ",
			want:  nil,
		},
		{
			name:    "unterminated single quote is an error",
			input:   "echo 'unterminated",
			wantErr: true,
		},
		{
			name:    "unterminated double quote is an error",
			input:   `echo "unterminated`,
			wantErr: true,
		},
		{
			name:  "trailing lone backslash is literal",
			input: `echo abc\`,
			want: []Token{
				{Text: "echo", Origin: Bare},
				{Text: `abc\`, Origin: Bare},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Tokenize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitStages(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStages []string
		wantBg     bool
		wantErr    bool
	}{
		{
			name:       "single stage",
			input:      "echo hello",
			wantStages: []string{"echo hello"},
		},
		{
			name:       "pipeline",
			input:      "cat file | grep foo | wc -l",
			wantStages: []string{"cat file", "grep foo", "wc -l"},
		},
		{
			name:       "trailing ampersand backgrounds",
			input:      "sleep 5 &",
			wantStages: []string{"sleep 5"},
			wantBg:     true,
		},
		{
			name:       "quoted pipe is literal",
			input:      `echo 'a|b'`,
			wantStages: []string{`echo 'a|b'`},
		},
		{
			name:       "quoted ampersand is literal, not backgrounded",
			input:      `echo 'a&'`,
			wantStages: []string{`echo 'a&'`},
			wantBg:     false,
		},
		{
			name:    "unterminated quote is an error",
			input:   `echo "unterminated`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages, bg, err := SplitStages(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitStages(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(stages, tt.wantStages) {
				t.Errorf("SplitStages(%q) stages = %#v, want %#v", tt.input, stages, tt.wantStages)
			}
			if bg != tt.wantBg {
				t.Errorf("SplitStages(%q) background = %v, want %v", tt.input, bg, tt.wantBg)
			}
		})
	}
}
