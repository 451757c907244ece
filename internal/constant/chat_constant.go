package constant

const (
	ChatMessageSenderUser = "user"
	ChatMessageSenderAI   = "ai"

	// DefaultLang is the fallback locale when a request carries an
	// unsupported language code.
	DefaultLang = "en"

	// StreamDoneToken is the literal token value that terminates every
	// successful answer stream.
	StreamDoneToken = "[DONE]"

	// URLUnavailableMarker is rendered in a reference block when a passage
	// carries no citable URL. It is never replaced with a guessed URL.
	URLUnavailableMarker = "[URL NOT AVAILABLE IN DATABASE]"

	// NoDocumentsMarker replaces the reference block when retrieval came
	// back empty, so the model is told explicitly there is nothing to
	// ground on.
	NoDocumentsMarker = "No legal documents retrieved for this query."

	// FederalJurisdiction is always part of the retrieval filter: a state
	// query never silently excludes nationally-applicable law.
	FederalJurisdiction = "Federal"
)

// SupportedLangs lists the locales with dedicated prompt templates.
var SupportedLangs = []string{"en", "pt"}

// NormalizeLang maps an arbitrary locale code onto a supported one.
func NormalizeLang(lang string) string {
	for _, l := range SupportedLangs {
		if lang == l {
			return l
		}
	}
	return DefaultLang
}
