package generator

import "fmt"

// Contract tells the model, and the parser, what shape the reply has.
type Contract string

const (
	// ContractHTML: the reply is the HTML document itself.
	ContractHTML Contract = "html"
	// ContractFiles: the reply is {"files":[{"file_title","content"}]}.
	ContractFiles Contract = "files"
)

func ParseContract(s string) (Contract, error) {
	switch c := Contract(s); c {
	case ContractHTML, ContractFiles:
		return c, nil
	default:
		return "", fmt.Errorf("unknown output contract %q", s)
	}
}

// OutputKind tags which field of Output is set.
type OutputKind int

const (
	OutputSingle OutputKind = iota
	OutputFiles
)

// File is one named document of a multi-file reply.
type File struct {
	Title   string `json:"file_title"`
	Content string `json:"content"`
}

// Output is the generated page set, resolved once from the model reply.
type Output struct {
	Kind  OutputKind
	HTML  string
	Files []File
}
