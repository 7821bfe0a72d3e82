package contracts

import "context"

// ReportStorage keeps result report attachments out of the ledger rows.
type ReportStorage interface {
	StoreReportAttachment(ctx context.Context, orderID, fileName, contentType string, data []byte) (string, error)
}
