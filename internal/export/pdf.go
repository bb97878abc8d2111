package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// Page layout in points on a US letter page.
const (
	pageMargin    = 72.0
	bodySize      = 12.0
	bodyLeading   = 18.0
	blockSpacing  = 12.0
	listIndent    = 20.0
	quoteIndent   = 40.0
	codeSize      = 10.0
	codeLeading   = 14.0
	tableSize     = 10.0
	tableRow      = 20.0
	pageNumberTop = 36.0
)

type headerStyle struct {
	size  float64
	style string
}

var headerStyles = map[int]headerStyle{
	1: {24, "B"},
	2: {18, "B"},
	3: {14, "B"},
	4: {12, "BI"},
}

func headerStyleFor(level int) headerStyle {
	if hs, ok := headerStyles[level]; ok {
		return hs
	}
	return headerStyle{12, "I"}
}

// RenderPDF writes doc as a paginated PDF with page numbers in the top
// right corner.
func RenderPDF(doc models.Document, w io.Writer) error {
	return renderPDF(doc, w, true)
}

func renderPDF(doc models.Document, w io.Writer, compress bool) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	pdf.SetHeaderFunc(func() {
		pdf.SetY(pageNumberTop)
		pdf.SetFont("Times", "", 10)
		pdf.CellFormat(0, 10, strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetY(pageMargin)
	})
	pdf.AddPage()

	for _, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case models.HeaderData:
			hs := headerStyleFor(data.Level)
			pdf.SetFont("Times", hs.style, hs.size)
			pdf.MultiCell(0, hs.size*1.2, tr(PlainText(data.Text)), "", "L", false)
			pdf.Ln(blockSpacing)

		case models.ParagraphData:
			pdf.SetFont("Times", "", bodySize)
			pdf.MultiCell(0, bodyLeading, tr(PlainText(data.Text)), "", "L", false)
			pdf.Ln(blockSpacing)

		case models.ListData:
			writePDFList(pdf, tr, data)

		case models.QuoteData:
			writePDFQuote(pdf, tr, data)

		case models.CodeData:
			pdf.SetFont("Courier", "", codeSize)
			pdf.SetFillColor(240, 240, 240)
			pdf.MultiCell(0, codeLeading, tr(strings.TrimRight(data.Code, "\n")), "", "L", true)
			pdf.Ln(blockSpacing)

		case models.DelimiterData:
			y := pdf.GetY() + bodyLeading/2
			pdf.SetDrawColor(150, 150, 150)
			pdf.SetLineWidth(1)
			pdf.Line(pageMargin+contentWidth/4, y, pageMargin+contentWidth*3/4, y)
			pdf.Ln(bodyLeading + 2)

		case models.TableData:
			writePDFTable(pdf, tr, data, contentWidth)
		}
	}

	if err := pdf.Output(w); err != nil {
		return domainErrors.ErrRenderFailed.WithContext("format", "pdf").WithError(err)
	}
	return nil
}

func writePDFList(pdf *fpdf.Fpdf, tr func(string) string, data models.ListData) {
	pdf.SetFont("Times", "", bodySize)
	n := 0
	for _, item := range data.Items {
		text := PlainText(item)
		if text == "" {
			continue
		}
		n++
		bullet := tr("• ")
		if data.Style == models.ListOrdered {
			bullet = strconv.Itoa(n) + ". "
		}
		bulletWidth := pdf.GetStringWidth(bullet)

		pdf.SetX(pageMargin + listIndent)
		pdf.CellFormat(bulletWidth, bodyLeading, bullet, "", 0, "L", false, 0, "")
		pdf.SetLeftMargin(pageMargin + listIndent + bulletWidth)
		pdf.MultiCell(0, bodyLeading, tr(text), "", "L", false)
		pdf.SetLeftMargin(pageMargin)
		pdf.Ln(6)
	}
	pdf.Ln(blockSpacing)
}

func writePDFQuote(pdf *fpdf.Fpdf, tr func(string) string, data models.QuoteData) {
	pdf.SetFont("Times", "I", bodySize)
	pdf.SetLeftMargin(pageMargin + quoteIndent)
	pdf.SetRightMargin(pageMargin + quoteIndent)
	pdf.SetX(pageMargin + quoteIndent)

	startPage, startY := pdf.PageNo(), pdf.GetY()
	pdf.MultiCell(0, bodyLeading, tr(PlainText(data.Text)), "", "L", false)
	if pdf.PageNo() == startPage {
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(2)
		x := pageMargin + quoteIndent - 10
		pdf.Line(x, startY, x, pdf.GetY())
	}

	pdf.SetLeftMargin(pageMargin)
	pdf.SetRightMargin(pageMargin)
	pdf.SetX(pageMargin)
	pdf.Ln(16)
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, data models.TableData, contentWidth float64) {
	if len(data.Content) == 0 || len(data.Content[0]) == 0 {
		return
	}

	colWidth := contentWidth / float64(len(data.Content[0]))
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	for i, row := range data.Content {
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont("Times", style, tableSize)
		for _, cell := range row {
			pdf.CellFormat(colWidth, tableRow, tr(fitText(pdf, PlainText(cell), colWidth-10)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(tableRow)
	}
	pdf.Ln(blockSpacing)
}

// fitText cuts s so it fits in width at the current font.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
