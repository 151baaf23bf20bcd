package types

// FetchedDocument is the text used for analysis and where it came from
type FetchedDocument struct {
	// FinalURL differs from the requested URL when a fallback candidate was used
	FinalURL string
	Text     string
}
