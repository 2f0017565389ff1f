package security

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Résumé content types accepted on upload.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// SniffLength is how many leading bytes ValidateResume needs to look at.
const SniffLength = 3072

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	ContentType  string // Canonical declared type the file was accepted as
	Extension    string // Extension to use for the stored name, with leading dot
	DetectedMIME string // What the content sniffer saw
	Error        string // Error message if validation failed
}

type resumeKind struct {
	contentType string
	extension   string
	// sniffed types that count as a match; generic containers are allowed
	// because short or unusual files are not always identified precisely
	sniffed []string
}

var resumeKinds = []resumeKind{
	{MIMEPDF, ".pdf", []string{MIMEPDF}},
	{MIMEDOC, ".doc", []string{MIMEDOC, "application/x-ole-storage"}},
	{MIMEDOCX, ".docx", []string{MIMEDOCX, "application/zip"}},
}

// ValidateResume checks a résumé upload in two layers:
// 1. The declared content type must be PDF, legacy Word or OOXML Word.
// 2. The leading bytes must sniff as that same family.
func ValidateResume(filename, declaredType string, head []byte) FileValidationResult {
	result := FileValidationResult{}

	kind, ok := matchDeclared(declaredType)
	if !ok {
		result.Error = "Only PDF and Word documents are allowed"
		return result
	}
	result.ContentType = kind.contentType

	detected := mimetype.Detect(head)
	result.DetectedMIME = detected.String()
	if !sniffMatches(detected, kind.sniffed) {
		result.Error = "file content does not match its declared type"
		return result
	}

	result.Extension = storedExtension(filename, kind.extension)
	result.Valid = true
	return result
}

// matchDeclared compares by prefix so parameters such as "; charset=" pass.
func matchDeclared(declared string) (resumeKind, bool) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	for _, k := range resumeKinds {
		if strings.HasPrefix(declared, k.contentType) {
			return k, true
		}
	}
	return resumeKind{}, false
}

func sniffMatches(detected *mimetype.MIME, accepted []string) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range accepted {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// storedExtension keeps the client's extension when it is short and plain,
// otherwise falls back to the canonical one for the content type.
func storedExtension(filename, fallback string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 8 {
		return fallback
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fallback
		}
	}
	return ext
}

// IsAllowedResumeType reports whether a declared content type is accepted.
func IsAllowedResumeType(declared string) bool {
	_, ok := matchDeclared(declared)
	return ok
}
