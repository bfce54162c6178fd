package workbook

import (
	"context"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "coqboard/internal/errors"
)

const sheetsFormat = "gsheets"

// loadSheets reads every tab of a spreadsheet as unformatted values, with
// dates as serial numbers so they normalize like xlsx cells
func (l *Loader) loadSheets(ctx context.Context, spreadsheetID string) (*Workbook, error) {
	spreadsheetID = strings.Trim(spreadsheetID, "/")
	if spreadsheetID == "" {
		return nil, apperrors.NewFetchError("spreadsheet id is empty", nil)
	}

	if l.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.FetchTimeout)
		defer cancel()
	}

	var opts []option.ClientOption
	switch {
	case l.cfg.GoogleCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(l.cfg.GoogleCredentialsFile))
	case l.cfg.GoogleAPIKey != "":
		opts = append(opts, option.WithAPIKey(l.cfg.GoogleAPIKey))
	}
	opts = append(opts, l.sheetsOpts...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewFetchError("creating sheets service", err)
	}

	meta, err := srv.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewFetchError("reading spreadsheet metadata", err)
	}

	var titles, ranges []string
	for _, s := range meta.Sheets {
		if s == nil || s.Properties == nil {
			continue
		}
		titles = append(titles, s.Properties.Title)
		ranges = append(ranges, quoteSheetTitle(s.Properties.Title))
	}
	if len(ranges) == 0 {
		return nil, apperrors.NewParsingError("spreadsheet has no sheets", nil)
	}

	resp, err := srv.Spreadsheets.Values.BatchGet(spreadsheetID).
		Ranges(ranges...).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewFetchError("reading spreadsheet values", err)
	}

	result := make([]*Sheet, 0, len(titles))
	for i, title := range titles {
		var values [][]any
		if i < len(resp.ValueRanges) && resp.ValueRanges[i] != nil {
			values = resp.ValueRanges[i].Values
		}
		result = append(result, buildTypedSheet(title, values))
	}
	return NewWorkbook(gsheetsScheme+spreadsheetID, sheetsFormat, result), nil
}

// quoteSheetTitle renders a title as an A1 range covering the whole sheet
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
