// Package prompt renders retrieved passages and conversation memory into the
// payload the answer model is grounded on.
package prompt

import (
	"fmt"
	"strings"

	"veritus-be/internal/constant"
	"veritus-be/pkg/rag/memory"
	"veritus-be/pkg/rag/retrieval"
)

// Assembled is the prompt material for one request.
type Assembled struct {
	ReferenceBlock string
	SummaryBlock   string // empty when there is no summary
}

type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble renders the numbered reference blocks and the labeled summary
// section. URLs are copied verbatim from passages or replaced with the
// unavailable marker, never synthesized.
func (a *Assembler) Assemble(passages []retrieval.Passage, chatCtx *memory.ChatContext, lang string) Assembled {
	return Assembled{
		ReferenceBlock: a.renderReferences(passages),
		SummaryBlock:   a.renderSummary(chatCtx, lang),
	}
}

func (a *Assembler) renderReferences(passages []retrieval.Passage) string {
	if len(passages) == 0 {
		return constant.NoDocumentsMarker
	}

	blocks := make([]string, len(passages))
	for i, p := range passages {
		url := p.SourceUrl
		if url == "" {
			url = constant.URLUnavailableMarker
		}

		var b strings.Builder
		fmt.Fprintf(&b, "[REFERENCE %d]\n", i+1)
		fmt.Fprintf(&b, "Document: %s\n", p.Title)
		fmt.Fprintf(&b, "EXACT URL TO CITE: %s\n", url)
		fmt.Fprintf(&b, "Jurisdiction: %s\n", renderJurisdiction(p))
		fmt.Fprintf(&b, "Type: %s\n", p.DocumentType)
		fmt.Fprintf(&b, "Content: %s", p.Text)
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n\n")
}

func (a *Assembler) renderSummary(chatCtx *memory.ChatContext, lang string) string {
	if chatCtx == nil || chatCtx.Summary == "" {
		return ""
	}
	label := constant.LocaleText(constant.SummaryLabels, constant.NormalizeLang(lang))
	return label + "\n" + chatCtx.Summary
}

func renderJurisdiction(p retrieval.Passage) string {
	switch {
	case p.Country != "" && p.State != "":
		return p.Country + ", " + p.State
	case p.Country != "":
		return p.Country
	case p.State != "":
		return p.State
	default:
		return "Unknown"
	}
}
