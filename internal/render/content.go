package render

import "loadplan/internal/domain"

const (
	docTitle       = "Yükleme Planı"
	headerTitle    = "YÜKLEME PLANI"
	timestampLabel = "Oluşturulma: "
	notesHeading   = "ÖNEMLİ NOTLAR"
	footerNote     = "Not: Bu belge otomatik oluşturulmuştur."
)

// InfoRow is one labelled line inside the information box.
type InfoRow struct {
	Label string
	Value func(req domain.DocumentRequest) string
}

// InfoRows lists the box rows in print order.
var InfoRows = []InfoRow{
	{Label: "MÜŞTERİ ADI", Value: func(r domain.DocumentRequest) string { return r.CustomerName }},
	{Label: "SIRA NO", Value: func(r domain.DocumentRequest) string { return r.QueueNo }},
	{Label: "ÜRÜN TİPİ", Value: func(r domain.DocumentRequest) string { return r.ProductType }},
	{Label: "TARİH", Value: func(r domain.DocumentRequest) string { return domain.ParseDisplayDate(r.LoadDate).String() }},
	{Label: "SAAT ARALIĞI", Value: func(r domain.DocumentRequest) string { return r.TimeSlot }},
}

// Notes is the fixed operational notice printed under the box.
var Notes = []string{
	"Araç, belirtilen tarih ve saat aralığında yükleme alanında hazır bulunmalıdır. Geç kalan araçlar sıradaki boş zaman dilimine aktarılır.",
	"Sürücü, bu belgenin çıktısını veya dijital kopyasını ve geçerli kimlik belgesini güvenlik noktasında ibraz etmelidir.",
	"Yükleme alanında baret, reflektörlü yelek ve çelik burunlu ayakkabı kullanımı zorunludur.",
	"Aracın kasası temiz, kuru ve kokusuz olmalıdır; uygun olmayan araçlara yükleme yapılmaz.",
	"Sıra numarası devredilemez. Randevu değişiklikleri en az 24 saat önceden sevkiyat birimine bildirilmelidir.",
	"Yükleme sonrası mühür ve irsaliye kontrolü sürücü ile birlikte yapılır; sonradan yapılan itirazlar kabul edilmez.",
}

// Row is a resolved label/value pair.
type Row struct {
	Label string
	Value string
}

// Rows resolves InfoRows for req; values are trimmed.
func Rows(req domain.DocumentRequest) []Row {
	req.Normalize()
	rows := make([]Row, len(InfoRows))
	for i, ir := range InfoRows {
		rows[i] = Row{Label: ir.Label, Value: ir.Value(req)}
	}
	return rows
}
