package constvars

const (
	LoggingRequestIDKey    = "request_id"
	LoggingRequestKey      = "request"
	LoggingResponseKey     = "response"
	LoggingDataKey         = "data"
	LoggingMethodKey       = "method"
	LoggingEndpointKey     = "endpoint"
	LoggingQueryKey        = "query"
	LoggingRemoteAddrKey   = "remote_addr"
	LoggingUserAgentKey    = "user_agent"
	LoggingStatusCodeKey   = "status_code"
	LoggingDurationKey     = "duration"
	LoggingSuccessKey      = "success"
	LoggingErrorTypeKey    = "error_type"
	LoggingEncounterIDKey  = "encounter_id"
	LoggingPatientIDKey    = "patient_id"
	LoggingChargeIDKey     = "charge_id"
	LoggingInvoiceIDKey    = "invoice_id"
	LoggingPaymentIDKey    = "payment_id"
	LoggingCreditNoteIDKey = "credit_note_id"
	LoggingOrderIDKey      = "order_id"
	LoggingAmountKey       = "amount"
	LoggingInvoiceStatus   = "invoice_status"
	LoggingPaymentStatus   = "payment_status"
	LoggingResultStatus    = "result_status"

	LoggingRedisKey                  = "redis_key"
	LoggingLockValueKey              = "lock_value"
	LoggingLockStoredValueKey        = "lock_stored_value"
	LoggingLockExpectedValueKey      = "lock_expected_value"
	LoggingLockExpirationTimeKey     = "lock_expiration_time"
	LoggingDispatchQueueKey          = "dispatch_queue"
	LoggingAuditCollectionKey        = "audit_collection"
	LoggingAttachmentObjectKey       = "attachment_object"
	LoggingAttachmentBucketKey       = "attachment_bucket"
	LoggingSafetyOverrideKey         = "safety_override"
	LoggingInteractionPairCountKey   = "interaction_pair_count"
	LoggingStatementRowCountKey      = "statement_row_count"
	LoggingStatementFinalBalanceKey  = "statement_final_balance"
	LoggingOrdersFlippedKey          = "orders_flipped"
	LoggingOrdersResetKey            = "orders_reset"
	LoggingOrdersKeptCompletedKey    = "orders_kept_completed"
	LoggingChargeCountKey            = "charge_count"
	LoggingInvoiceNetAmountKey       = "invoice_net_amount"
	LoggingInvoicePaidAmountKey      = "invoice_paid_amount"
	LoggingInvoiceDiscountAmountKey  = "invoice_discount_amount"
	LoggingInvoiceTotalAmountKey     = "invoice_total_amount"
)
