package dto

type GetOpenAPISpecQuery struct{}

type OpenAPISpecOutput struct {
	Content     []byte
	ContentType string
	// ETag is a strong validator over Content, already quoted.
	ETag string
}
