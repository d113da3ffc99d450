package types

// ParseResult is the response of the document parsing API: a flat list of
// elements tagged with their page number.
type ParseResult struct {
	API      string         `json:"api"`
	Model    string         `json:"model"`
	Usage    ParseUsage     `json:"usage"`
	Elements []ParseElement `json:"elements"`
}

type ParseUsage struct {
	Pages int `json:"pages"`
}

type ParseElement struct {
	Page     int                 `json:"page"`
	Category string              `json:"category"`
	Content  ParseElementContent `json:"content"`
}

type ParseElementContent struct {
	Markdown string `json:"markdown"`
}
