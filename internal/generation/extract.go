package generation

import "regexp"

// FallbackClassName is used when no class declaration can be found in
// generated code.
const FallbackClassName = "ComplianceGovernor"

var (
	classNameRe = regexp.MustCompile(`class\s+(\w+)`)
	testTokenRe = regexp.MustCompile(`\[(Fact|Test)\]`)
)

// ExtractClassName pulls the first class name out of generated code.
// This is a best-effort heuristic over model output, not a parse.
func ExtractClassName(code string) string {
	match := classNameRe.FindStringSubmatch(code)
	if match == nil {
		return FallbackClassName
	}
	return match[1]
}

// CountTests counts recognized test-annotation tokens ([Fact] for xunit,
// [Test] for nunit) in generated test code. An approximation: attribute
// tokens inside strings or comments are counted too.
func CountTests(testCode string) int {
	return len(testTokenRe.FindAllString(testCode, -1))
}
