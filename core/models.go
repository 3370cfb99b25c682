package core

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// LAQType identifies the category of a Legislative Assembly Question.
type LAQType string

const (
	// LAQTypeStarred marks questions answered orally on the assembly floor.
	LAQTypeStarred LAQType = "Starred"
	// LAQTypeUnstarred marks questions answered in writing.
	LAQTypeUnstarred LAQType = "Unstarred"
	// LAQTypeUnknown is the sentinel for anything the model could not classify.
	LAQTypeUnknown LAQType = "unknown"
)

// NormalizeLAQType maps free-form model output onto a known LAQType.
func NormalizeLAQType(s string) LAQType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starred":
		return LAQTypeStarred
	case "unstarred":
		return LAQTypeUnstarred
	default:
		return LAQTypeUnknown
	}
}

// DomainRole distinguishes the primary governance domain of a Q&A pair
// from secondary ones.
type DomainRole string

const (
	DomainRolePrimary   DomainRole = "Primary"
	DomainRoleSecondary DomainRole = "Secondary"
)

// DomainTag associates a Q&A pair with a governance domain.
// The model is asked for at most 3 tags with a single Primary role, but that
// is a soft hint; callers must not rely on it structurally.
type DomainTag struct {
	Department   string     `json:"department"`
	DemandNumber *string    `json:"demand_number"`
	Role         DomainRole `json:"role"`
	Confidence   float64    `json:"confidence"`
}

// QAPair is one sub-question/answer unit of an LAQ document.
// Question and Answer hold verbatim text; truncation happens only at the
// metadata persistence boundary, never here.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`

	Domains       []DomainTag `json:"domains,omitempty"`
	TotalDomains  *int        `json:"total_domains_identified,omitempty"`
	IsInterDomain *bool       `json:"is_inter_domain,omitempty"`
}

// LAQRecord is the validated form of one legislative question document,
// produced by CoerceRecord from raw model output. It exists only transiently
// during ingestion; QA pairs are consumed into stored items and discarded.
type LAQRecord struct {
	PDFTitle    string   `json:"pdf_title"`
	LAQType     LAQType  `json:"laq_type"`
	LAQNumber   string   `json:"laq_number"`
	Minister    string   `json:"minister"`
	TabledBy    string   `json:"tabled_by"`
	Date        string   `json:"date"`
	QAPairs     []QAPair `json:"qa_pairs"`
	Attachments []string `json:"attachments"`
}

// MatchQuality is the coarse classification of a retrieval similarity score.
type MatchQuality int

const (
	// QualityWeak covers similarity below 60.
	QualityWeak MatchQuality = iota + 1
	// QualityModerate covers similarity in [60, 80).
	QualityModerate
	// QualityStrong covers similarity of 80 and above.
	QualityStrong
)

// String returns the lowercase quality label.
func (q MatchQuality) String() string {
	switch q {
	case QualityStrong:
		return "strong"
	case QualityModerate:
		return "moderate"
	case QualityWeak:
		return "weak"
	default:
		return "unknown"
	}
}

// ItemMetadata is the flat string-keyed metadata snapshot persisted with each
// embedded Q&A pair.
type ItemMetadata map[string]string

// Metadata keys. Attachments is a JSON-encoded list of strings stored as a
// single string value.
const (
	MetaPDF         = "pdf"
	MetaPDFTitle    = "pdf_title"
	MetaLAQNum      = "laq_num"
	MetaQAPairNum   = "qa_pair_num"
	MetaType        = "type"
	MetaQuestion    = "question"
	MetaAnswer      = "answer"
	MetaMinister    = "minister"
	MetaDate        = "date"
	MetaAttachments = "attachments"
	MetaDocHash     = "doc_hash"
)

// SearchResult is an ephemeral, per-query view of one retrieved Q&A pair.
// Similarity is (1-distance)*100 rounded to two decimals and deliberately not
// clamped to [0,100]; out-of-range values signal a distance metric mismatch
// upstream and must stay observable.
type SearchResult struct {
	ID         string
	Similarity float64
	Quality    MatchQuality
	Metadata   ItemMetadata
}

// ItemID builds the deterministic id for one stored Q&A pair:
// "{stem(source)}_{laqNumber}_qa{1-based index}". Re-ingesting the same
// source with the same LAQ number produces the same ids, so the store
// overwrites rather than duplicates.
func ItemID(sourceName, laqNumber string, pairNum int) string {
	stem := filepath.Base(sourceName)
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	return fmt.Sprintf("%s_%s_qa%d", stem, laqNumber, pairNum)
}

// DocumentHash returns a short BLAKE2b fingerprint of document text.
// Identical converted text always yields the same hash, which makes repeat
// uploads of the same document observable in stored metadata.
func DocumentHash(text string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
