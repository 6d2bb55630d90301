package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeed_Valid(t *testing.T) {
	content := []byte(`{
		"rules": [
			{
				"rule_id": "GOV-001",
				"title": "Data retention limits",
				"statement": "Customer records must be deleted after 7 years.",
				"priority": "high",
				"status": "active"
			}
		],
		"context_documents": [
			{
				"title": "Retention Policy v3",
				"type": "regulatory_doc",
				"content": "Records are retained for at most 7 years.",
				"tags": ["retention", "gdpr"]
			}
		]
	}`)

	assert.NoError(t, ValidateSeed(content))
}

func TestValidateSeed_Empty(t *testing.T) {
	assert.NoError(t, ValidateSeed([]byte(`{}`)))
}

func TestValidateSeed_MissingRequiredFields(t *testing.T) {
	content := []byte(`{"rules": [{"title": "No rule_id or statement"}]}`)

	err := ValidateSeed(content)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateSeed_BadEnum(t *testing.T) {
	content := []byte(`{
		"rules": [
			{
				"rule_id": "GOV-001",
				"title": "T",
				"statement": "S",
				"priority": "urgent"
			}
		]
	}`)

	assert.Error(t, ValidateSeed(content))
}

func TestValidateSeed_UnknownProperty(t *testing.T) {
	content := []byte(`{"unexpected": true}`)
	assert.Error(t, ValidateSeed(content))
}

func TestValidateSeed_NotJSON(t *testing.T) {
	assert.Error(t, ValidateSeed([]byte("not json at all")))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))
	assert.Error(t, ValidateJSONString(schema, `{}`))
}
