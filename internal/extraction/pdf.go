package extraction

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts the plain text content of a PDF document.
func ExtractText(document []byte) (text string, err error) {
	// The pdf library panics on some malformed inputs, so a corrupt upload
	// must not take the job goroutine down with it.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Message: fmt.Sprintf("malformed PDF: %v", r)}
		}
	}()

	if len(document) == 0 {
		return "", &ExtractionError{Message: "document is empty"}
	}

	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", &ExtractionError{Message: "could not open PDF", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Message: "could not read PDF text", Cause: err}
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", &ExtractionError{Message: "could not read PDF text", Cause: err}
	}

	result := strings.TrimSpace(string(raw))
	if result == "" {
		return "", &ExtractionError{Message: "PDF contains no extractable text"}
	}
	return result, nil
}
