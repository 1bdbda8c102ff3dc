package extraction

import (
	"fmt"

	"github.com/agenthands/tranche/internal/core/schema"
)

const systemContext = `You are a commercial loan document extraction specialist.
Extract the requested fields with high accuracy and provide specific citations.

CRITICAL RULES:
1. Extract ONLY from the provided document text
2. For each field found, provide the exact page and section reference
3. If a field is not found, mark as "NOT_FOUND"
4. Express confidence as a decimal between 0 and 1
5. For dates, use YYYY-MM-DD format
6. For amounts, use numeric values without currency symbols or commas
7. For rates, express as percentages (e.g., 5.25 for 5.25%)
8. For amendments, note which terms are being modified from the original

You MUST return a valid JSON object with this exact structure:
{
    "fields": {
        "field_name": "extracted_value"
    },
    "confidence_scores": {
        "field_name": 0.95
    },
    "citations": {
        "field_name": "Section X.Y, Page Z"
    },
    "gaps": ["list of fields not found"]
}`

// BuildPrompt assembles the extraction request for one document (or chunk).
func BuildPrompt(propertyID, documentName, text string, isAmendment bool, s *schema.Schema) string {
	docType := "LOAN DOCUMENT"
	if isAmendment {
		docType = "AMENDMENT/MODIFICATION DOCUMENT"
	}

	return fmt.Sprintf(`%s

PROPERTY: %s
DOCUMENT: %s
DOCUMENT TYPE: %s

FIELDS TO EXTRACT:
%s
DOCUMENT TEXT:
%s

Extract all requested fields and return the JSON response.`,
		systemContext, propertyID, documentName, docType, s.PromptFieldList(), text)
}
