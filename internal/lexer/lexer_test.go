package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func collect(input string) []Token {
	l := New(input, "test.fe")
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func kindsOf(toks []Token) []Kind {
	kinds := make([]Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestLexerSimpleFunction(t *testing.T) {
	toks := collect("function add(a: i32, b: i32) -> i32 { return a + b; }")
	want := []Kind{
		FUNCTION, IDENT, LPAREN, IDENT, COLON, IDENT, COMMA, IDENT, COLON, IDENT, RPAREN,
		ARROW, IDENT, LBRACE, RETURN, IDENT, PLUS, IDENT, SEMICOLON, RBRACE, EOF,
	}
	if diff := cmp.Diff(want, kindsOf(toks)); diff != "" {
		t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerTerminatesInEOF(t *testing.T) {
	inputs := []string{"", "   ", "\"unterminated", "'x", "@@@", "123.456.789"}
	for _, in := range inputs {
		toks := collect(in)
		assert.Equal(t, EOF, toks[len(toks)-1].Kind, "input %q: stream did not terminate in EOF", in)
	}
}

func TestLexerEqualityIsTwoChar(t *testing.T) {
	toks := collect("a == b === c")
	// === is not a token: lexed as EQ then ASSIGN
	kinds := kindsOf(toks)
	found := false
	for i := 0; i+1 < len(kinds); i++ {
		if kinds[i] == EQ && kinds[i+1] == ASSIGN {
			found = true
		}
	}
	assert.True(t, found, "expected EQ followed by ASSIGN when lexing '===', got %v", kinds)
}

func TestLexerOperatorMaximalMunch(t *testing.T) {
	cases := map[string]Kind{
		"<<": SHL, "<=": LTE, "<": LT,
		">>": SHR, ">=": GTE, ">": GT,
		"&&": ANDAND, "&": AMP,
		"||": OROR, "|": PIPE,
		"++": APPEND, "+": PLUS,
		"->": ARROW, "-": MINUS,
		"..=": RANGEI, "..": RANGE,
	}
	for src, want := range cases {
		toks := collect(src)
		assert.Equal(t, want, toks[0].Kind, "lexing %q", src)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := collect(`"hello\nworld"`)
	assert.Equal(t, STRING, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Lexeme)
}

func TestLexerUnterminatedStringIsInvalid(t *testing.T) {
	toks := collect(`"abc`)
	assert.Equal(t, ILLEGAL, toks[0].Kind, "expected ILLEGAL for unterminated string")
}

func TestLexerCharLiteral(t *testing.T) {
	toks := collect(`'a' '\n' '\''`)
	assert.Equal(t, CHAR, toks[0].Kind)
	assert.Equal(t, "a", toks[0].Lexeme)
	assert.Equal(t, CHAR, toks[1].Kind)
	assert.Equal(t, "\n", toks[1].Lexeme)
	assert.Equal(t, CHAR, toks[2].Kind)
	assert.Equal(t, "'", toks[2].Lexeme)
}

func TestLexerKeywords(t *testing.T) {
	toks := collect("function const var domain effects capability match ok err check ensure map_error")
	want := []Kind{FUNCTION, CONST, VAR, DOMAIN, EFFECTS, CAPABILITY, MATCH, OK, ERR, CHECK, ENSURE, MAP_ERROR}
	if diff := cmp.Diff(want, kindsOf(toks)[:len(want)]); diff != "" {
		t.Errorf("keyword kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerComments(t *testing.T) {
	toks := collect("const x = 1; // trailing\n/* block\ncomment */ const y = 2;")
	count := 0
	for _, tok := range toks {
		if tok.Kind == CONST {
			count++
		}
	}
	assert.Equal(t, 2, count, "expected 2 const tokens after comments stripped")
}

func TestLexerBytesLiteral(t *testing.T) {
	toks := collect(`b"abc"`)
	assert.Equal(t, BYTES, toks[0].Kind)
	assert.Equal(t, "abc", toks[0].Lexeme)
}

func TestLexerPositions(t *testing.T) {
	toks := collect("a\nb")
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}
