package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"terracotta/services"
)

// maxImportSize caps customer import uploads.
const maxImportSize = 10 << 20

// HandleCustomerList returns all customers, newest first.
func HandleCustomerList(svc *services.CustomerService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		customers, err := svc.List(e.Request.Context())
		if err != nil {
			return serverError(e, "customers: list failed", err, "Failed to load customers.")
		}
		return e.JSON(http.StatusOK, map[string]any{"customers": customers})
	}
}

// HandleCustomerCreate saves a customer from a JSON body with name, email,
// phone and address.
func HandleCustomerCreate(svc *services.CustomerService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.CustomerInput
		if err := decodeJSON(e, &in); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Invalid request body.")
		}

		c, err := svc.Create(e.Request.Context(), in)
		switch {
		case errors.Is(err, services.ErrCustomerNameEmailRequired):
			return jsonMessage(e, http.StatusBadRequest, "Name and email are required.")
		case errors.Is(err, services.ErrCustomerExists):
			return jsonMessage(e, http.StatusBadRequest, "Customer already exists.")
		case err != nil:
			return serverError(e, "customers: create failed", err, "Error creating customer.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"message":  "Customer created.",
			"customer": c,
		})
	}
}

// HandleCustomerImport bulk-creates customers from a multipart "file" upload
// (.csv or .xlsx). With ?report=xlsx and row errors present, the errors are
// returned as a spreadsheet instead of JSON.
func HandleCustomerImport(svc *services.CustomerService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Upload a CSV or Excel file in the \"file\" field.")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Upload a CSV or Excel file in the \"file\" field.")
		}
		defer file.Close()

		result, err := svc.Import(e.Request.Context(), file, header.Filename)
		if err != nil {
			if result == nil {
				return jsonMessage(e, http.StatusBadRequest, err.Error())
			}
			return serverError(e, "customers: import failed", err, "Error importing customers.")
		}

		if e.Request.URL.Query().Get("report") == "xlsx" && len(result.Errors) > 0 {
			report, err := services.GenerateErrorReport(result.Errors)
			if err != nil {
				return serverError(e, "customers: error report failed", err, "Error importing customers.")
			}
			return download(e, xlsxContentType, "customer-import-errors.xlsx", report)
		}

		return e.JSON(http.StatusOK, result)
	}
}
