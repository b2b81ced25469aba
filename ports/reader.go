package ports

import (
	"context"
	"io"

	"uidlens/domain/social"
)

// SpreadsheetReader converts an uploaded spreadsheet into ordered row-objects.
// Implementations must keep column order within each row.
type SpreadsheetReader interface {
	Read(ctx context.Context, name string, src io.Reader) ([]social.Row, error)
}
