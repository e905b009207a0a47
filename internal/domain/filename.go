package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	FilePrefix      = "Yukleme_Plani"
	DefaultCustomer = "Musteri"
	DefaultQueueNo  = "SiraNo"
)

// SanitizeName keeps letters, digits, spaces, underscores and hyphens, trims
// the result and replaces the remaining spaces with underscores.
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// FileName builds the download name for a request.
func FileName(r DocumentRequest) string {
	customer := SanitizeName(r.CustomerName)
	if customer == "" {
		customer = DefaultCustomer
	}
	queue := SanitizeName(r.QueueNo)
	if queue == "" {
		queue = DefaultQueueNo
	}
	return FilePrefix + "_" + customer + "_" + queue + ".pdf"
}

// asciiFold strips combining marks after canonical decomposition, turning
// "Ş" into "S" and "İ" into "I".
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ASCIIName folds name to ASCII for legacy Content-Disposition filename
// parameters. Letters without a decomposition are mapped explicitly or
// replaced with '_'.
func ASCIIName(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r == 'ı':
			b.WriteRune('i')
		case r < 0x80 && r != '"' && r != '\\' && unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// RenderedDocument is a finished PDF and its suggested file name.
type RenderedDocument struct {
	Data     []byte
	FileName string
}
