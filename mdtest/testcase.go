// Package mdtest extracts checker test cases from Markdown documents. A test
// case is a "# Test: <name>" heading followed by one `lumen` input fence and
// one or more assertion fences.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AssertionType is the fence language of an assertion.
type AssertionType string

const (
	// AssertionCheckError expects the check to fail. The fence holds the
	// expected exit code, optionally followed by ": <message substring>".
	AssertionCheckError AssertionType = "check-error"
	// AssertionGlobals lists the expected globals in first-appearance
	// order, one "name type" pair per line.
	AssertionGlobals AssertionType = "globals"
	// AssertionNames lists the expected backend names of the program's
	// variable declarations in source order, one per line.
	AssertionNames AssertionType = "names"
)

const inputFence = "lumen"

// Assertion is one assertion fence of a test case.
type Assertion struct {
	Type    AssertionType
	Content string
}

// TestCase is one extracted test: a named input plus its assertions.
type TestCase struct {
	Name       string
	Input      string
	Assertions []Assertion
}

// ExpectedError decodes an AssertionCheckError fence into the expected exit
// code and optional message substring.
func (a Assertion) ExpectedError() (code int, substr string, err error) {
	content := strings.TrimSpace(a.Content)
	head, tail, found := strings.Cut(content, ":")
	if _, err := fmt.Sscanf(strings.TrimSpace(head), "%d", &code); err != nil {
		return 0, "", fmt.Errorf("check-error fence must start with an exit code, got %q", content)
	}
	if found {
		substr = strings.TrimSpace(tail)
	}
	return code, substr, nil
}

// Lines splits the assertion content into trimmed non-empty lines.
func (a Assertion) Lines() []string {
	var out []string
	for _, line := range strings.Split(a.Content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ExtractTestCases parses a Markdown document and collects its test cases.
// Fences with unknown languages, fences outside a test, and tests missing an
// input or an assertion are all errors.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)
	doc := md.Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	walkErr := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			if language == "" {
				return ast.WalkContinue, nil
			}
			content := fenceContent(n, source)
			line := lineNumber(n, source)

			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, language)
			}

			switch {
			case language == inputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test %q", line, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, language, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionCheckError, AssertionGlobals, AssertionNames:
		return true
	}
	return false
}

func validate(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test %q has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", tc.Name)
	}
	return nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		seg := block.Lines().At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
