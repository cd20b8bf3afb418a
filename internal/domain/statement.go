package domain

// StatementDocument is a rendered account statement. The transport layer
// decides how to encode and send it; this core only carries the bytes and
// enough metadata to serve them.
type StatementDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}
