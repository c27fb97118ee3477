package s3

type Document struct {
	// Name is the file name, the object key is derived from it
	Name string       `json:"name"`
	Data []byte       `json:"data"`
	Kind DocumentKind `json:"kind"`
}

type DocumentKind string

const (
	DocumentKindPdf DocumentKind = "pdf"
)

func NewPdfDocument(name string, data []byte) *Document {
	return &Document{
		Name: name,
		Data: data,
		Kind: DocumentKindPdf,
	}
}
