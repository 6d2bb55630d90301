package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClassName(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			name:     "simple class",
			code:     "public class DataRetentionGovernor\n{\n}",
			expected: "DataRetentionGovernor",
		},
		{
			name:     "class in markdown fence",
			code:     "```csharp\nnamespace Compliance;\n\npublic sealed class AccessAuditor { }\n```",
			expected: "AccessAuditor",
		},
		{
			name:     "first of multiple classes",
			code:     "class First { }\nclass Second { }",
			expected: "First",
		},
		{
			name:     "no class declaration",
			code:     "// the model returned prose instead of code",
			expected: FallbackClassName,
		},
		{
			name:     "empty response",
			code:     "",
			expected: FallbackClassName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractClassName(tt.code))
		})
	}
}

func TestCountTests(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{
			name:     "xunit facts",
			code:     "[Fact]\npublic void A() { }\n\n[Fact]\npublic void B() { }",
			expected: 2,
		},
		{
			name:     "nunit tests",
			code:     "[Test]\npublic void Validates() { }",
			expected: 1,
		},
		{
			name:     "mixed annotations",
			code:     "[Fact]\nvoid A() { }\n[Test]\nvoid B() { }\n[Fact]\nvoid C() { }",
			expected: 3,
		},
		{
			name:     "theory not counted",
			code:     "[Theory]\n[InlineData(1)]\npublic void Cases(int n) { }",
			expected: 0,
		},
		{
			name:     "no tests",
			code:     "public class Empty { }",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountTests(tt.code))
		})
	}
}
