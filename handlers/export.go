package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"terracotta/services"
	"terracotta/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// download writes body as an attachment named filename.
func download(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(filename)))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}

// HandleQuoteExportPDF returns a handler that downloads one quote as a PDF.
// ?internal=1 adds the cost and margin rows.
func HandleQuoteExportPDF(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return jsonMessage(e, http.StatusBadRequest, "Missing quote ID.")
		}

		q, err := svc.Get(e.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return jsonMessage(e, http.StatusNotFound, "Quote not found.")
		}
		if err != nil {
			return serverError(e, "export_pdf: load quote", err, "Failed to generate PDF file.")
		}

		internal := e.Request.URL.Query().Get("internal") == "1"
		pdf, err := services.GenerateQuotePDF(services.NewQuoteDocument(svc.Company, *q, internal))
		if err != nil {
			return serverError(e, "export_pdf: generate", err, "Failed to generate PDF file.")
		}

		log.Debug().Str("quote", q.ID).Bool("internal", internal).Msg("export_pdf: generated")
		return download(e, "application/pdf", services.QuotePDFFileName(q.ID), pdf)
	}
}

// HandleQuoteExportExcel returns a handler that downloads every quote as a
// spreadsheet, highlighting margins under the configured threshold.
func HandleQuoteExportExcel(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotes, err := svc.List(e.Request.Context())
		if err != nil {
			return serverError(e, "export_excel: list quotes", err, "Failed to generate Excel file.")
		}

		xlsx, err := services.GenerateQuotesExcel(quotes, svc.MarginThreshold())
		if err != nil {
			return serverError(e, "export_excel: generate", err, "Failed to generate Excel file.")
		}

		filename := fmt.Sprintf("Quotes_%s.xlsx", time.Now().Format("2006-01-02"))
		return download(e, xlsxContentType, filename, xlsx)
	}
}
