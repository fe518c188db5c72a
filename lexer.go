package main

import "strconv"

// Lexer input state. Init resets it; the input must end with a 0 byte.
var (
	input []byte
	pos   int
)

// Current token state, updated by NextToken.
var (
	CurrTokenType  TokenType
	CurrLiteral    string
	CurrIntValue   int64   // meaningful when CurrTokenType == INT
	CurrFloatValue float64 // meaningful when CurrTokenType == FLOAT
)

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT        = "IDENT"        // main, foo
	GLOBAL_IDENT = "GLOBAL_IDENT" // __counter
	INT          = "INT"
	FLOAT        = "FLOAT"
	STRING       = "STRING"

	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	CONCAT   = ".."

	LT     = "<"
	GT     = ">"
	LE     = "<="
	GE     = ">="
	EQ     = "=="
	NOT_EQ = "!="

	ASSIGN   = "="
	BANG     = "!"
	QUESTION = "?"
	COLON    = ":"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"
	COMMA  = ","
	DOT    = "."

	CLASS    = "CLASS"
	STATIC   = "STATIC"
	VAR      = "VAR"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	RETURN   = "RETURN"
	IMPORT   = "IMPORT"
	FOR      = "FOR"
	IS       = "IS"
	AND      = "AND"
	OR       = "OR"
	NULL     = "NULL"
	TRUE     = "TRUE"
	FALSE    = "FALSE"

	// type-name keywords, the only legal right-hand sides of `is`
	TYPE_NUM    = "TYPE_NUM"    // Num
	TYPE_STRING = "TYPE_STRING" // String
	TYPE_NULL   = "TYPE_NULL"   // Null
)

var keywords = map[string]TokenType{
	"class":    CLASS,
	"static":   STATIC,
	"var":      VAR,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"import":   IMPORT,
	"for":      FOR,
	"is":       IS,
	"and":      AND,
	"or":       OR,
	"null":     NULL,
	"true":     TRUE,
	"false":    FALSE,
	"Num":      TYPE_NUM,
	"String":   TYPE_STRING,
	"Null":     TYPE_NULL,
}

// Init initializes the lexer with the given input (must end with a 0 byte).
func Init(in []byte) {
	input = in
	pos = 0
}

// NextToken scans the next token and stores it in the globals.
// Call repeatedly until CurrTokenType == EOF.
func NextToken() {
	skipWhitespace()

	c := input[pos]
	CurrIntValue = 0
	CurrFloatValue = 0

	switch {
	case c == 0:
		CurrTokenType = EOF
		CurrLiteral = ""

	case c == '=':
		if input[pos+1] == '=' {
			CurrTokenType = EQ
			CurrLiteral = "=="
			pos += 2
		} else {
			CurrTokenType = ASSIGN
			CurrLiteral = "="
			pos++
		}

	case c == '!':
		if input[pos+1] == '=' {
			CurrTokenType = NOT_EQ
			CurrLiteral = "!="
			pos += 2
		} else {
			CurrTokenType = BANG
			CurrLiteral = "!"
			pos++
		}

	case c == '<':
		if input[pos+1] == '=' {
			CurrTokenType = LE
			CurrLiteral = "<="
			pos += 2
		} else {
			CurrTokenType = LT
			CurrLiteral = "<"
			pos++
		}

	case c == '>':
		if input[pos+1] == '=' {
			CurrTokenType = GE
			CurrLiteral = ">="
			pos += 2
		} else {
			CurrTokenType = GT
			CurrLiteral = ">"
			pos++
		}

	case c == '+':
		CurrTokenType = PLUS
		CurrLiteral = "+"
		pos++

	case c == '-':
		CurrTokenType = MINUS
		CurrLiteral = "-"
		pos++

	case c == '*':
		CurrTokenType = ASTERISK
		CurrLiteral = "*"
		pos++

	case c == '/':
		if input[pos+1] == '/' {
			skipLineComment()
			NextToken()
			return
		}
		CurrTokenType = SLASH
		CurrLiteral = "/"
		pos++

	case c == '.':
		if input[pos+1] == '.' {
			CurrTokenType = CONCAT
			CurrLiteral = ".."
			pos += 2
		} else {
			CurrTokenType = DOT
			CurrLiteral = "."
			pos++
		}

	case c == '?':
		CurrTokenType = QUESTION
		CurrLiteral = "?"
		pos++

	case c == ':':
		CurrTokenType = COLON
		CurrLiteral = ":"
		pos++

	case c == '(':
		CurrTokenType = LPAREN
		CurrLiteral = "("
		pos++

	case c == ')':
		CurrTokenType = RPAREN
		CurrLiteral = ")"
		pos++

	case c == '{':
		CurrTokenType = LBRACE
		CurrLiteral = "{"
		pos++

	case c == '}':
		CurrTokenType = RBRACE
		CurrLiteral = "}"
		pos++

	case c == ',':
		CurrTokenType = COMMA
		CurrLiteral = ","
		pos++

	case c == '"':
		readString()

	case c == '_':
		readGlobalIdent()

	case isLetter(c):
		lit := readIdentifier()
		if kw, ok := keywords[lit]; ok {
			CurrTokenType = kw
		} else {
			CurrTokenType = IDENT
		}
		CurrLiteral = lit

	case isDigit(c):
		readNumber()

	default:
		CurrTokenType = ILLEGAL
		CurrLiteral = string(c)
		pos++
	}
}

func skipWhitespace() {
	for {
		c := input[pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		pos++
	}
}

func skipLineComment() {
	for input[pos] != '\n' && input[pos] != 0 {
		pos++
	}
	if input[pos] == '\n' {
		pos++
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func readIdentifier() string {
	start := pos
	for isIdentChar(input[pos]) {
		pos++
	}
	return string(input[start:pos])
}

// readGlobalIdent scans a __name global identifier: exactly two leading
// underscores, then at least one identifier character. A lone underscore is
// not a token of the language.
func readGlobalIdent() {
	if input[pos+1] != '_' || !isIdentChar(input[pos+2]) {
		CurrTokenType = ILLEGAL
		CurrLiteral = string(input[pos])
		pos++
		return
	}
	start := pos
	pos += 2
	for isIdentChar(input[pos]) {
		pos++
	}
	CurrTokenType = GLOBAL_IDENT
	CurrLiteral = string(input[start:pos])
}

func readNumber() {
	start := pos

	// hex integer
	if input[pos] == '0' && (input[pos+1] == 'x' || input[pos+1] == 'X') {
		pos += 2
		var val int64
		for isHexDigit(input[pos]) {
			val = val*16 + int64(hexValue(input[pos]))
			pos++
		}
		CurrTokenType = INT
		CurrLiteral = string(input[start:pos])
		CurrIntValue = val
		return
	}

	for isDigit(input[pos]) {
		pos++
	}
	isFloat := false
	if input[pos] == '.' && isDigit(input[pos+1]) {
		isFloat = true
		pos++
		for isDigit(input[pos]) {
			pos++
		}
	}
	if input[pos] == 'e' || input[pos] == 'E' {
		next := pos + 1
		if input[next] == '+' || input[next] == '-' {
			next++
		}
		if isDigit(input[next]) {
			isFloat = true
			pos = next
			for isDigit(input[pos]) {
				pos++
			}
		}
	}

	lit := string(input[start:pos])
	CurrLiteral = lit
	if isFloat {
		CurrTokenType = FLOAT
		CurrFloatValue, _ = strconv.ParseFloat(lit, 64)
	} else {
		CurrTokenType = INT
		CurrIntValue, _ = strconv.ParseInt(lit, 10, 64)
	}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

func readString() {
	pos++ // opening quote
	var out []byte
	for {
		c := input[pos]
		if c == '"' {
			pos++
			CurrTokenType = STRING
			CurrLiteral = string(out)
			return
		}
		if c == 0 || c == '\n' {
			CurrTokenType = ILLEGAL
			CurrLiteral = "\"" + string(out)
			return
		}
		if c == '\\' {
			switch input[pos+1] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				CurrTokenType = ILLEGAL
				CurrLiteral = string(input[pos : pos+2])
				pos += 2
				return
			}
			pos += 2
			continue
		}
		out = append(out, c)
		pos++
	}
}

// PeekToken reports the type of the token after the current one without
// consuming it.
func PeekToken() TokenType {
	savedPos := pos
	savedTokenType := CurrTokenType
	savedLiteral := CurrLiteral
	savedIntValue := CurrIntValue
	savedFloatValue := CurrFloatValue

	NextToken()
	nextType := CurrTokenType

	pos = savedPos
	CurrTokenType = savedTokenType
	CurrLiteral = savedLiteral
	CurrIntValue = savedIntValue
	CurrFloatValue = savedFloatValue

	return nextType
}
