package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MDLGR_SVC_"
)

const (
	ResourceCharges     = "charges"
	ResourceInvoices    = "invoices"
	ResourcePayments    = "payments"
	ResourceCreditNotes = "credit-notes"
	ResourceOrders      = "orders"
	ResourceStatements  = "statements"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

// Money values are fixed-point decimals with three fractional digits.
const MoneyScale = 3

const (
	InvoiceLockKeyFormat = "billing:lock:invoice:%s"
	OrderLockKeyFormat   = "billing:lock:order:%s"
)

const (
	MongoCollectionAuditTrail = "billing_audit_trail"
)

const (
	DefaultCurrency = "USD"
)
