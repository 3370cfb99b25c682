package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedResponse = `{
  "pdf_title": "TENDER ISSUED FOR LEASING OF JETTY SPACE",
  "laq_type": "Starred",
  "laq_number": "010C",
  "minister": "Shri. Aleixo Sequeira, Minister for Captain of Ports Department",
  "tabled_by": "Shri Digambar Kamat",
  "date": "08-08-2025",
  "qa_pairs": [
    {"question": "(a) the details of jetty spots in river Mandovi;", "answer": "Sir, there are 12 jetty spots. Details at Annexure - I."},
    {"question": "(b) the details of all tenders issued since 2020?", "answer": "Nil"}
  ],
  "attachments": ["Annexure - I"]
}`

func TestCoerceRecord_WellFormed(t *testing.T) {
	record, err := CoerceRecord(wellFormedResponse)
	require.NoError(t, err)

	assert.Equal(t, "TENDER ISSUED FOR LEASING OF JETTY SPACE", record.PDFTitle)
	assert.Equal(t, LAQTypeStarred, record.LAQType)
	assert.Equal(t, "010C", record.LAQNumber)
	assert.Equal(t, "Shri Digambar Kamat", record.TabledBy)
	assert.Equal(t, "08-08-2025", record.Date)
	assert.Equal(t, []string{"Annexure - I"}, record.Attachments)

	require.Len(t, record.QAPairs, 2)
	assert.Equal(t, "(a) the details of jetty spots in river Mandovi;", record.QAPairs[0].Question)
	assert.Equal(t, "Sir, there are 12 jetty spots. Details at Annexure - I.", record.QAPairs[0].Answer)
	assert.Equal(t, "Nil", record.QAPairs[1].Answer)
}

func TestCoerceRecord_ExtraneousProse(t *testing.T) {
	raw := "Sure! Here is the structured data you asked for:\n\n" +
		wellFormedResponse +
		"\n\nLet me know if you need anything else."

	record, err := CoerceRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "010C", record.LAQNumber)
	assert.Len(t, record.QAPairs, 2)
}

func TestCoerceRecord_CodeFences(t *testing.T) {
	raw := "```json\n" + wellFormedResponse + "\n```"

	record, err := CoerceRecord(raw)
	require.NoError(t, err)
	assert.Len(t, record.QAPairs, 2)
}

func TestCoerceRecord_RepairedKeyQuote(t *testing.T) {
	raw := `{"pdf_title": "T", laq_number": "7", "qa_pairs": [{"question": "q", "answer": "a"}]}`

	record, err := CoerceRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "7", record.LAQNumber)
}

func TestCoerceRecord_KeyWithCommaLeftIntact(t *testing.T) {
	// A comma inside a quoted key must not trip the key-quote repair; valid
	// responses are parsed as-is, untouched.
	raw := `{"notes, remarks": "tabled jointly", "laq_number": "9", "qa_pairs": [{"question": "q", "answer": "a"}]}`

	record, err := CoerceRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "9", record.LAQNumber)
	assert.Equal(t, "q", record.QAPairs[0].Question)
}

func TestCoerceRecord_NoBalancedBraces(t *testing.T) {
	raw := "I could not extract any structured data from that document."

	_, err := CoerceRecord(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, raw, malformed.Excerpt)
}

func TestCoerceRecord_ExcerptTruncatedTo500(t *testing.T) {
	raw := strings.Repeat("x", 2000)

	_, err := CoerceRecord(raw)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Len(t, malformed.Excerpt, 500)
}

func TestCoerceRecord_EmptyQAPairs(t *testing.T) {
	raw := `{"pdf_title": "T", "laq_number": "1", "qa_pairs": []}`

	_, err := CoerceRecord(raw)
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestCoerceRecord_MissingFieldsDefaulted(t *testing.T) {
	raw := `{"qa_pairs": [{"question": "q", "answer": "a"}]}`

	record, err := CoerceRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "N/A", record.PDFTitle)
	assert.Equal(t, "N/A", record.LAQNumber)
	assert.Equal(t, "N/A", record.Minister)
	assert.Equal(t, "N/A", record.TabledBy)
	assert.Equal(t, "N/A", record.Date)
	assert.Equal(t, LAQTypeUnknown, record.LAQType)
	assert.NotNil(t, record.Attachments)
	assert.Empty(t, record.Attachments)
}

func TestCoerceRecord_DomainTags(t *testing.T) {
	raw := `{
	  "laq_number": "42",
	  "qa_pairs": [{
	    "question": "q",
	    "answer": "a",
	    "domains": [
	      {"department": "Ports", "demand_number": "12", "role": "Primary", "confidence": 0.9},
	      {"department": "Tourism", "demand_number": null, "role": "Secondary", "confidence": 0.4}
	    ],
	    "total_domains_identified": 2,
	    "is_inter_domain": true
	  }]
	}`

	record, err := CoerceRecord(raw)
	require.NoError(t, err)

	pair := record.QAPairs[0]
	require.Len(t, pair.Domains, 2)
	assert.Equal(t, DomainRolePrimary, pair.Domains[0].Role)
	require.NotNil(t, pair.Domains[0].DemandNumber)
	assert.Equal(t, "12", *pair.Domains[0].DemandNumber)
	assert.Nil(t, pair.Domains[1].DemandNumber)
	require.NotNil(t, pair.TotalDomains)
	assert.Equal(t, 2, *pair.TotalDomains)
	require.NotNil(t, pair.IsInterDomain)
	assert.True(t, *pair.IsInterDomain)
}

func TestCoerceRecord_PreservesTextByteForByte(t *testing.T) {
	question := "(a) line one\nline two with  double spaces and “quotes”;"
	answer := "Sir,\n1. Tender No. GTDC/JETTY/2019-20/3185\n2. Rs. 1.23 Cr."
	raw, err := marshalQA(question, answer)
	require.NoError(t, err)

	record, err := CoerceRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, question, record.QAPairs[0].Question)
	assert.Equal(t, answer, record.QAPairs[0].Answer)
}

func TestOutermostObject(t *testing.T) {
	t.Run("prose around object", func(t *testing.T) {
		inner, ok := outermostObject(`prefix {"a": {"b": 1}} suffix`)
		require.True(t, ok)
		assert.Equal(t, `{"a": {"b": 1}}`, inner)
	})

	t.Run("no braces", func(t *testing.T) {
		_, ok := outermostObject("nothing here")
		assert.False(t, ok)
	})

	t.Run("reversed braces", func(t *testing.T) {
		_, ok := outermostObject("} backwards {")
		assert.False(t, ok)
	})
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"valid untouched", `{"a": 1, "b": 2}`, `{"a": 1, "b": 2}`},
		{"missing quote after comma", `{"a": 1, b": 2}`, `{"a": 1, "b": 2}`},
		{"missing quote after brace", `{a": 1}`, `{"a": 1}`},
		{"bare word value untouched", `{"a": true}`, `{"a": true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, repairJSON(tc.in))
		})
	}
}

// marshalQA builds a minimal valid response with exact question/answer text.
func marshalQA(question, answer string) (string, error) {
	record := LAQRecord{
		LAQNumber: "1",
		QAPairs:   []QAPair{{Question: question, Answer: answer}},
	}
	data, err := json.Marshal(record)
	return string(data), err
}
