package lexer

import "testing"

func TestBasicTokens(t *testing.T) {
	input := `int main(void) {
	return 0;
}`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenKeyword, "int"},
		{TokenWhitespace, " "},
		{TokenIdentifier, "main"},
		{TokenPunct, "("},
		{TokenKeyword, "void"},
		{TokenPunct, ")"},
		{TokenWhitespace, " "},
		{TokenPunct, "{"},
		{TokenNewline, "\n"},
		{TokenWhitespace, "\t"},
		{TokenKeyword, "return"},
		{TokenWhitespace, " "},
		{TokenNumber, "0"},
		{TokenPunct, ";"},
		{TokenNewline, "\n"},
		{TokenPunct, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestSelfIsOrdinaryIdentifier(t *testing.T) {
	l := New("self")
	tok := l.NextToken()

	if tok.Type != TokenIdentifier {
		t.Fatalf("self should lex as identifier, got %q", tok.Type)
	}
	if tok.Literal != "self" {
		t.Fatalf("literal wrong. expected=%q, got=%q", "self", tok.Literal)
	}
}

func TestMultiCharPunctuators(t *testing.T) {
	input := `-> ++ -- <<= >>= ... == != <= >= && || += ##`

	expected := []string{
		"->", "++", "--", "<<=", ">>=", "...", "==", "!=", "<=", ">=", "&&", "||", "+=", "##",
	}

	l := New(input)
	var got []string
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			break
		}
		if tok.Type == TokenWhitespace {
			continue
		}
		if tok.Type != TokenPunct {
			t.Fatalf("expected punct, got %s", tok)
		}
		got = append(got, tok.Literal)
	}

	if len(got) != len(expected) {
		t.Fatalf("punct count wrong. expected=%d, got=%d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("punct[%d] wrong. expected=%q, got=%q", i, expected[i], got[i])
		}
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	tests := []struct {
		input         string
		expectedType  TokenType
		expectedValue string
	}{
		{`"hello"`, TokenString, `"hello"`},
		{`"a \"quoted\" word"`, TokenString, `"a \"quoted\" word"`},
		{`"tab\t"`, TokenString, `"tab\t"`},
		{`'x'`, TokenChar, `'x'`},
		{`'\n'`, TokenChar, `'\n'`},
		{`'\''`, TokenChar, `'\''`},
	}

	for i, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []string{
		"0", "42", "3.14", "0x1F", "0b101", "1e9", "1e+9", "2.5e-3",
		"0x1p-3", "100ULL", "1.5f", ".5",
	}

	for i, input := range tests {
		l := New(input)
		tok := l.NextToken()

		if tok.Type != TokenNumber {
			t.Fatalf("tests[%d] - %q should lex as number, got %q", i, input, tok.Type)
		}
		if tok.Literal != input {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, input, tok.Literal)
		}
	}
}

func TestComments(t *testing.T) {
	input := "// line comment\n/* block\ncomment */x"

	l := New(input)

	tok := l.NextToken()
	if tok.Type != TokenComment || tok.Literal != "// line comment" {
		t.Fatalf("line comment wrong: %s", tok)
	}

	tok = l.NextToken()
	if tok.Type != TokenNewline {
		t.Fatalf("expected newline, got %s", tok)
	}

	tok = l.NextToken()
	if tok.Type != TokenComment || tok.Literal != "/* block\ncomment */" {
		t.Fatalf("block comment wrong: %s", tok)
	}

	tok = l.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "x" {
		t.Fatalf("trailing identifier wrong: %s", tok)
	}
}

func TestUnterminatedLiterals(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{`"abc`, "unterminated string literal"},
		{"\"abc\nd\"", "unterminated string literal"},
		{`'a`, "unterminated character literal"},
		{`/* never closed`, "unterminated block comment"},
	}

	for i, tt := range tests {
		l := New(tt.input)
		var tok Token
		for {
			tok = l.NextToken()
			if tok.Type == TokenError || tok.Type == TokenEOF {
				break
			}
		}
		if tok.Type != TokenError {
			t.Fatalf("tests[%d] - expected error token for %q", i, tt.input)
		}
		errs := l.Errors()
		if len(errs) == 0 {
			t.Fatalf("tests[%d] - no lex error recorded", i)
		}
		if errs[0].Reason != tt.reason {
			t.Fatalf("tests[%d] - reason wrong. expected=%q, got=%q", i, tt.reason, errs[0].Reason)
		}
	}
}

func TestIllegalByte(t *testing.T) {
	l := New("int x; @")
	var tok Token
	for {
		tok = l.NextToken()
		if tok.Type == TokenError || tok.Type == TokenEOF {
			break
		}
	}
	if tok.Type != TokenError {
		t.Fatal("expected error token for illegal byte")
	}

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(errs))
	}
	if errs[0].Offset != 7 {
		t.Fatalf("offset wrong. expected=7, got=%d", errs[0].Offset)
	}
}

func TestTokenPositions(t *testing.T) {
	l := NewWithFilename("ab\ncd", "test.cz")

	tok := l.NextToken()
	if tok.Span.Start.Line != 1 || tok.Span.Start.Column != 1 || tok.Span.Start.Offset != 0 {
		t.Fatalf("first token position wrong: %+v", tok.Span.Start)
	}

	l.NextToken() // newline

	tok = l.NextToken()
	if tok.Literal != "cd" {
		t.Fatalf("expected cd, got %q", tok.Literal)
	}
	if tok.Span.Start.Line != 2 || tok.Span.Start.Offset != 3 {
		t.Fatalf("second identifier position wrong: %+v", tok.Span.Start)
	}
}
