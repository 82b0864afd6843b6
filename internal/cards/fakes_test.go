package cards

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"

	"cardsync/internal/drive"
	"cardsync/internal/service"
	"cardsync/internal/sheets"
)

// fakeDrive implements drive.Gateway over in-memory file fixtures.
type fakeDrive struct {
	files       []drive.File
	contents    map[string][]byte
	downloadErr map[string]error
	listErr     error
	metaErr     error
	renameErr   error
	trashErr    error

	renamed map[string]string
	trashed []string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		contents:    map[string][]byte{},
		downloadErr: map[string]error{},
		renamed:     map[string]string{},
	}
}

func (f *fakeDrive) addFile(file drive.File, content []byte) {
	f.files = append(f.files, file)
	f.contents[file.ID] = content
}

func (f *fakeDrive) ListImages(ctx context.Context, folderID string, pageSize int64) ([]drive.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if int64(len(f.files)) > pageSize {
		return f.files[:pageSize], nil
	}
	return f.files, nil
}

func (f *fakeDrive) Download(ctx context.Context, fileID string) ([]byte, error) {
	if err := f.downloadErr[fileID]; err != nil {
		return nil, err
	}
	content, ok := f.contents[fileID]
	if !ok {
		return nil, service.WrapUpstream("drive.files.get", &googleapi.Error{Code: 404, Message: "File not found"})
	}
	return content, nil
}

func (f *fakeDrive) GetMetadata(ctx context.Context, fileID string) (*drive.File, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	for _, file := range f.files {
		if file.ID == fileID {
			copied := file
			return &copied, nil
		}
	}
	return nil, service.WrapUpstream("drive.files.get", &googleapi.Error{Code: 404, Message: "File not found"})
}

func (f *fakeDrive) Rename(ctx context.Context, fileID, name string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	f.renamed[fileID] = name
	return nil
}

func (f *fakeDrive) Trash(ctx context.Context, fileID string) error {
	if f.trashErr != nil {
		return f.trashErr
	}
	f.trashed = append(f.trashed, fileID)
	for i, file := range f.files {
		if file.ID == fileID {
			f.files = append(f.files[:i], f.files[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeDrive) Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (*drive.File, error) {
	return nil, fmt.Errorf("not supported in fake")
}

// fakeSheets implements sheets.Gateway over an in-memory grid. Row 0 is the
// header; data rows follow. Cell ranges are resolved the same way the card
// sheet addresses them.
type fakeSheets struct {
	tabExists bool
	header    []string
	data      [][]string

	readErr   error
	clearErr  error
	updateErr error

	clearCalls  int
	updateCalls int
	appendCalls int
}

func newFakeSheets(withTab bool) *fakeSheets {
	return &fakeSheets{tabExists: withTab}
}

func stripSheetPrefix(rangeA1 string) string {
	if i := strings.Index(rangeA1, "!"); i >= 0 {
		return rangeA1[i+1:]
	}
	return rangeA1
}

func (f *fakeSheets) ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if !f.tabExists {
		return nil, service.WrapUpstream("sheets.values.get",
			&googleapi.Error{Code: 400, Message: "Unable to parse range: " + rangeA1})
	}

	switch ref := stripSheetPrefix(rangeA1); ref {
	case "A1:E1":
		if f.header == nil {
			return nil, nil
		}
		return [][]string{f.header}, nil
	case "A2:E":
		return f.data, nil
	case "A:E":
		if f.header == nil {
			return f.data, nil
		}
		return append([][]string{f.header}, f.data...), nil
	default:
		return nil, fmt.Errorf("fakeSheets: unexpected read range %q", ref)
	}
}

func (f *fakeSheets) UpdateRange(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++

	ref := stripSheetPrefix(rangeA1)
	switch {
	case ref == "A1":
		f.header = values[0]
		return nil
	case ref == "A2":
		f.data = values
		return nil
	case strings.HasPrefix(ref, "A") && strings.Contains(ref, ":"):
		// Single-row overwrite, e.g. A3:E3.
		rowNum, err := strconv.Atoi(strings.TrimPrefix(ref[:strings.Index(ref, ":")], "A"))
		if err != nil {
			return fmt.Errorf("fakeSheets: bad range %q", ref)
		}
		f.data[rowNum-2] = values[0]
		return nil
	default:
		return fmt.Errorf("fakeSheets: unexpected update range %q", ref)
	}
}

func (f *fakeSheets) ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearCalls++

	switch ref := stripSheetPrefix(rangeA1); ref {
	case "A1:E1":
		f.header = nil
	case "A2:E":
		f.data = nil
	default:
		return fmt.Errorf("fakeSheets: unexpected clear range %q", ref)
	}
	return nil
}

func (f *fakeSheets) AppendRows(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error {
	f.appendCalls++
	f.data = append(f.data, values...)
	return nil
}

func (f *fakeSheets) BatchUpdateValues(ctx context.Context, spreadsheetID string, updates []sheets.RangeUpdate) error {
	for _, u := range updates {
		ref := stripSheetPrefix(u.Range)
		col := int(ref[0] - 'A')
		rowNum, err := strconv.Atoi(ref[1:])
		if err != nil {
			return fmt.Errorf("fakeSheets: bad cell range %q", ref)
		}
		row := f.data[rowNum-2]
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = u.Values[0][0]
		f.data[rowNum-2] = row
	}
	return nil
}

func (f *fakeSheets) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	f.tabExists = true
	return nil
}

// fakeVision maps image bytes to recognized text.
type fakeVision struct {
	texts map[string]string
	err   error
}

func (f *fakeVision) DetectText(ctx context.Context, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[string(image)], nil
}
