package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

func CreateSpreadsheet(ctx context.Context, srv *sheets.Service, title string) (*sheets.Spreadsheet, error) {
	// Create the new spreadsheet
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
	}

	return srv.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
}

// MoveSpreadsheet reparents a freshly created spreadsheet into the given Drive
// folder so journals do not pile up in the service account root.
func MoveSpreadsheet(ctx context.Context, sheetSrv *sheets.Spreadsheet, driveSrv *drive.Service, folderId string) error {
	file, err := driveSrv.Files.Get(sheetSrv.SpreadsheetId).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("MoveSpreadsheet: failed to get file: %w", err)
	}

	call := driveSrv.Files.Update(file.Id, &drive.File{}).AddParents(folderId)

	if len(file.Parents) > 0 {
		call = call.RemoveParents(file.Parents[0])
	}

	if _, err := call.Context(ctx).Do(); err != nil {
		return fmt.Errorf("MoveSpreadsheet: failed to move file: %w", err)
	}

	return nil
}

func appendRows(ctx context.Context, srv *sheets.Service, spreadsheetId string, sheetName string, values [][]interface{}) error {
	row := &sheets.ValueRange{
		Values: values,
	}

	response, err := srv.Spreadsheets.Values.Append(spreadsheetId, sheetName, row).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return err
	}

	if response.HTTPStatusCode != 200 {
		return fmt.Errorf("invalid http status code: %v", response.HTTPStatusCode)
	}

	return nil
}
