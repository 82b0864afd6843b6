package cards

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_syncer.go -package=mocks cardsync/internal/cards Syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardsync/internal/contextutil"
	"cardsync/internal/drive"
	"cardsync/internal/service"
	"cardsync/internal/sheets"
	"cardsync/internal/vision"
)

// SheetName is the tab holding the card database.
const SheetName = "名刺管理データベース"

// ExpectedHeader is the fixed five-column header of the card sheet.
var ExpectedHeader = []string{"名刺情報", "更新日", "メモ", "ファイル名", "File ID"}

// Positional columns of a data row, matching ExpectedHeader.
const (
	colText = iota
	colUpdated
	colMemo
	colFileName
	colFileID
	columnCount
)

// listPageSize bounds how many files one resync call processes. Folders with
// more images than this are only partially synchronized per invocation.
const listPageSize = 10

const noTextPlaceholder = "OCRでテキスト抽出不可"

// Row is one data row of the card sheet.
type Row struct {
	Text      string `json:"text"`
	UpdatedAt string `json:"updatedAt"`
	Memo      string `json:"memo"`
	FileName  string `json:"fileName"`
	FileID    string `json:"fileId"`
}

// ResyncResult summarizes a completed resync.
type ResyncResult struct {
	// FileCount is the number of rows written, equal to the number of
	// currently listed JPEG/PNG files.
	FileCount int
	// SkippedHEIC is how many of those rows are HEIC placeholders.
	SkippedHEIC int
}

// DeleteResult reports the outcome of a card deletion.
type DeleteResult struct {
	// SheetRowFound is false when the Drive file was trashed but no
	// matching sheet row existed.
	SheetRowFound bool
}

// Syncer defines the card-sheet reconciliation operations.
type Syncer interface {
	Resync(ctx context.Context, folderID, spreadsheetID string, keepMemos bool) (*ResyncResult, error)
	ProcessOne(ctx context.Context, spreadsheetID, fileID, fileName, memo string) error
	UpdateRow(ctx context.Context, spreadsheetID, fileID, newName, newMemo string) error
	DeleteRow(ctx context.Context, spreadsheetID, fileID string) (*DeleteResult, error)
	ReadRows(ctx context.Context, spreadsheetID string) ([]Row, error)
}

// Synchronizer reconciles a spreadsheet with the current contents of a Drive
// folder. All external clients are injected; the type holds no other state.
type Synchronizer struct {
	drive  drive.Gateway
	sheets sheets.Gateway
	vision vision.Gateway
	now    func() time.Time
}

// NewSynchronizer creates a Synchronizer over the given gateways.
func NewSynchronizer(driveGW drive.Gateway, sheetsGW sheets.Gateway, visionGW vision.Gateway) *Synchronizer {
	return &Synchronizer{
		drive:  driveGW,
		sheets: sheetsGW,
		vision: visionGW,
		now:    time.Now,
	}
}

func sheetRange(ref string) string {
	return fmt.Sprintf("'%s'!%s", SheetName, ref)
}

func columnLetter(idx int) string {
	return string(rune('A' + idx))
}

var (
	headerRange = sheetRange(fmt.Sprintf("A1:%s1", columnLetter(columnCount-1)))
	dataRange   = sheetRange(fmt.Sprintf("A2:%s", columnLetter(columnCount-1)))
	fullRange   = sheetRange(fmt.Sprintf("A:%s", columnLetter(columnCount-1)))
)

// EnsureHeader makes sure the sheet tab exists and carries the expected
// header row. Calling it again with a matching header performs no writes.
func (s *Synchronizer) EnsureHeader(ctx context.Context, spreadsheetID string) error {
	rows, err := s.sheets.ReadRange(ctx, spreadsheetID, headerRange)
	if err != nil {
		// A range-parse failure means the tab does not exist yet.
		if service.UpstreamStatus(err) != 400 {
			return err
		}
		if err := s.sheets.AddSheet(ctx, spreadsheetID, SheetName); err != nil {
			return err
		}
		rows = nil
	}

	if len(rows) > 0 && headerMatches(rows[0]) {
		return nil
	}

	if err := s.sheets.ClearRange(ctx, spreadsheetID, headerRange); err != nil {
		return err
	}
	return s.sheets.UpdateRange(ctx, spreadsheetID, sheetRange("A1"), [][]string{ExpectedHeader})
}

func headerMatches(row []string) bool {
	if len(row) != len(ExpectedHeader) {
		return false
	}
	for i, cell := range row {
		if cell != ExpectedHeader[i] {
			return false
		}
	}
	return true
}

// CollectExistingMemos returns a fileID->memo map of the non-empty memos
// currently stored in the sheet.
func (s *Synchronizer) CollectExistingMemos(ctx context.Context, spreadsheetID string) (map[string]string, error) {
	rows, err := s.sheets.ReadRange(ctx, spreadsheetID, dataRange)
	if err != nil {
		return nil, err
	}

	memos := make(map[string]string)
	for _, row := range rows {
		fileID := cellAt(row, colFileID)
		memo := cellAt(row, colMemo)
		if fileID != "" && memo != "" {
			memos[fileID] = memo
		}
	}
	return memos, nil
}

// Resync rewrites the sheet's data rows from the current Drive folder
// contents, running OCR on each image. When keepMemos is set, memos already
// stored for a file id survive the rewrite. A single file's OCR or download
// failure becomes an error placeholder in that file's row and never aborts
// the batch.
func (s *Synchronizer) Resync(ctx context.Context, folderID, spreadsheetID string, keepMemos bool) (*ResyncResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Header trouble is logged and does not stop the data sync.
	if err := s.EnsureHeader(ctx, spreadsheetID); err != nil {
		logger.WarnContext(ctx, "header processing failed, continuing with data sync", "error", err)
	}

	memos := map[string]string{}
	if keepMemos {
		var err error
		memos, err = s.CollectExistingMemos(ctx, spreadsheetID)
		if err != nil {
			return nil, service.WrapError(err, "failed to collect existing memos")
		}
	}

	if err := s.sheets.ClearRange(ctx, spreadsheetID, dataRange); err != nil {
		return nil, service.WrapError(err, "failed to clear data rows")
	}

	files, err := s.drive.ListImages(ctx, folderID, listPageSize)
	if err != nil {
		return nil, service.WrapError(err, "failed to list folder")
	}

	result := &ResyncResult{}
	values := make([][]string, 0, len(files))
	timestamp := s.now().UTC().Format(time.RFC3339)

	for _, file := range files {
		var text string
		switch {
		case isHEIC(file):
			logger.InfoContext(ctx, "skipping HEIC file", "file", file.Name)
			text = fmt.Sprintf("HEICファイルは処理対象外です (%s)", file.Name)
			result.SkippedHEIC++
		default:
			text = s.recognize(ctx, file.ID, file.Name)
		}

		memo := ""
		if keepMemos {
			memo = memos[file.ID]
		}

		values = append(values, []string{text, timestamp, memo, file.Name, file.ID})
		result.FileCount++
	}

	if len(values) > 0 {
		if err := s.sheets.UpdateRange(ctx, spreadsheetID, sheetRange("A2"), values); err != nil {
			return nil, service.WrapError(err, "failed to write data rows")
		}
	}

	logger.InfoContext(ctx, "resync complete", "files", result.FileCount, "heic_skipped", result.SkippedHEIC)
	return result, nil
}

// recognize downloads and OCRs one file, converting any failure into a
// placeholder so the caller's batch continues.
func (s *Synchronizer) recognize(ctx context.Context, fileID, fileName string) string {
	logger := contextutil.LoggerFromContext(ctx)

	image, err := s.drive.Download(ctx, fileID)
	if err != nil {
		logger.ErrorContext(ctx, "file download failed", "file", fileName, "error", err)
		return processingErrorText(fileName, err)
	}

	text, err := s.vision.DetectText(ctx, image)
	if err != nil {
		logger.ErrorContext(ctx, "text detection failed", "file", fileName, "error", err)
		return processingErrorText(fileName, err)
	}
	if strings.TrimSpace(text) == "" {
		return noTextPlaceholder
	}
	return normalizeText(text)
}

func processingErrorText(fileName string, err error) string {
	msg := err.Error()
	var ue *service.UpstreamError
	if errors.As(err, &ue) {
		msg = ue.Describe(msg)
	}
	return fmt.Sprintf("ファイル処理エラー (%s): %s", fileName, msg)
}

// normalizeText collapses the annotation's embedded newlines to spaces so
// the card text fits one cell.
func normalizeText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

func isHEIC(file drive.File) bool {
	return strings.HasSuffix(strings.ToLower(file.Name), ".heic") ||
		strings.Contains(strings.ToLower(file.MimeType), "heic")
}

// ProcessOne fetches and OCRs a single file and appends one row with the
// supplied memo. Repeated calls append duplicate rows; de-duplication by
// file id is the caller's responsibility.
func (s *Synchronizer) ProcessOne(ctx context.Context, spreadsheetID, fileID, fileName, memo string) error {
	text := s.recognize(ctx, fileID, fileName)
	row := []string{text, s.now().UTC().Format(time.RFC3339), memo, fileName, fileID}

	if err := s.sheets.AppendRows(ctx, spreadsheetID, fullRange, [][]string{row}); err != nil {
		return service.WrapError(err, "failed to append card row")
	}
	return nil
}

// UpdateRow updates the filename/memo/timestamp cells of the row whose file
// id column matches, touching only the cells that differ. The Drive file is
// renamed separately; a rename failure is logged and does not block the
// sheet update.
func (s *Synchronizer) UpdateRow(ctx context.Context, spreadsheetID, fileID, newName, newMemo string) error {
	logger := contextutil.LoggerFromContext(ctx)

	meta, err := s.drive.GetMetadata(ctx, fileID)
	if err != nil {
		logger.WarnContext(ctx, "could not read Drive file name", "file_id", fileID, "error", err)
	} else if meta.Name != newName {
		if err := s.drive.Rename(ctx, fileID, newName); err != nil {
			logger.WarnContext(ctx, "could not rename Drive file", "file_id", fileID, "error", err)
		}
	}

	rows, err := s.sheets.ReadRange(ctx, spreadsheetID, fullRange)
	if err != nil {
		return service.WrapError(err, "failed to read sheet")
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %q has no data: %w", SheetName, service.ErrNotFound)
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return err
	}

	target := findRowByFileID(rows, cols.fileID, fileID)
	if target == 0 {
		return fmt.Errorf("file id %s not present in sheet: %w", fileID, service.ErrNotFound)
	}

	current := rows[target-1]
	var updates []sheets.RangeUpdate
	if cellAt(current, cols.fileName) != newName {
		updates = append(updates, cellUpdate(cols.fileName, target, newName))
	}
	if cellAt(current, cols.memo) != newMemo {
		updates = append(updates, cellUpdate(cols.memo, target, newMemo))
	}
	updates = append(updates, cellUpdate(cols.updated, target, s.now().UTC().Format(time.RFC3339)))

	if err := s.sheets.BatchUpdateValues(ctx, spreadsheetID, updates); err != nil {
		return service.WrapError(err, "failed to update card row")
	}
	return nil
}

// DeleteRow trashes the Drive file, then blanks the matching sheet row.
// The row is overwritten with empty strings rather than removed so later
// row indexes stay stable. A missing row is a weaker success, not an error.
func (s *Synchronizer) DeleteRow(ctx context.Context, spreadsheetID, fileID string) (*DeleteResult, error) {
	if err := s.drive.Trash(ctx, fileID); err != nil {
		return nil, service.WrapError(err, "failed to trash Drive file")
	}

	rows, err := s.sheets.ReadRange(ctx, spreadsheetID, fullRange)
	if err != nil {
		return nil, service.WrapError(err, "failed to read sheet")
	}
	if len(rows) == 0 {
		return &DeleteResult{SheetRowFound: false}, nil
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	target := findRowByFileID(rows, cols.fileID, fileID)
	if target == 0 {
		return &DeleteResult{SheetRowFound: false}, nil
	}

	blank := make([]string, columnCount)
	blankRange := sheetRange(fmt.Sprintf("A%d:%s%d", target, columnLetter(columnCount-1), target))
	if err := s.sheets.UpdateRange(ctx, spreadsheetID, blankRange, [][]string{blank}); err != nil {
		return nil, service.WrapError(err, "failed to blank card row")
	}
	return &DeleteResult{SheetRowFound: true}, nil
}

// ReadRows returns the sheet's data rows. Blanked (deleted) rows are skipped.
func (s *Synchronizer) ReadRows(ctx context.Context, spreadsheetID string) ([]Row, error) {
	raw, err := s.sheets.ReadRange(ctx, spreadsheetID, dataRange)
	if err != nil {
		return nil, service.WrapError(err, "failed to read sheet")
	}

	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		row := Row{
			Text:      cellAt(r, colText),
			UpdatedAt: cellAt(r, colUpdated),
			Memo:      cellAt(r, colMemo),
			FileName:  cellAt(r, colFileName),
			FileID:    cellAt(r, colFileID),
		}
		if row == (Row{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type columnIndexes struct {
	fileID   int
	fileName int
	memo     int
	updated  int
}

// resolveColumns locates the columns by header name rather than trusting
// fixed positions, so a user-rearranged sheet still resolves.
func resolveColumns(header []string) (columnIndexes, error) {
	find := func(name string) int {
		for i, cell := range header {
			if cell == name {
				return i
			}
		}
		return -1
	}

	cols := columnIndexes{
		fileID:   find("File ID"),
		fileName: find("ファイル名"),
		memo:     find("メモ"),
		updated:  find("更新日"),
	}
	if cols.fileID == -1 || cols.fileName == -1 || cols.memo == -1 || cols.updated == -1 {
		return cols, fmt.Errorf("sheet header is missing required columns: %w", service.ErrInvalidInput)
	}
	return cols, nil
}

// findRowByFileID returns the 1-based sheet row number of the matching data
// row, or 0 when absent.
func findRowByFileID(rows [][]string, fileIDCol int, fileID string) int {
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], fileIDCol) == fileID {
			return i + 1
		}
	}
	return 0
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cellUpdate(col, row int, value string) sheets.RangeUpdate {
	return sheets.RangeUpdate{
		Range:  sheetRange(fmt.Sprintf("%s%d", columnLetter(col), row)),
		Values: [][]string{{value}},
	}
}
