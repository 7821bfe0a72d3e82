package constvars

// Client-facing messages. The UI maps these straight onto banners and
// inline form errors, so keep them actionable.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process request, please check your input"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again later"
	ErrClientResourceNotFound              = "The requested resource could not be found"
	ErrClientResourceBusy                  = "The document is being updated by another request, please retry"

	ErrClientInvalidDiscount     = "Discount must be between zero and the invoice total"
	ErrClientInvoiceNotPayable   = "This invoice cannot accept payments"
	ErrClientOverpaymentRejected = "Payment exceeds the remaining balance of the invoice"
	ErrClientInvalidAmount       = "Payment amount must be greater than zero"
	ErrClientReturnAlreadyExists = "A credit note already exists for this invoice"
	ErrClientReasonRequired      = "A reason is required to create a credit note"
	ErrClientInvalidTransition   = "The order cannot move to the requested state"
	ErrClientPaymentRequired     = "Billing must be settled before this step can proceed"
	ErrClientSafetyWarning       = "Prescription blocked by drug interaction warnings"

	ErrClientChargeAlreadyInvoiced = "One or more charges are already attached to an invoice"
	ErrClientEncounterMismatch     = "All charges on an invoice must belong to the same encounter"
)

// Developer messages, logged but hidden from production responses.
const (
	ErrDevValidationFailed               = "Request validation failed"
	ErrDevCannotParseJSON                = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON              = "Failed to marshal value to JSON"
	ErrDevURLParamIDValidationFailed     = "URL parameter '%s' failed validation"
	ErrDevServerDeadlineExceeded         = "Server deadline exceeded"
	ErrDevInvalidInput                   = "Invalid input"
	ErrDevDBFailedToFindData             = "Postgres failed to find data"
	ErrDevDBFailedToInsertData           = "Postgres failed to insert data"
	ErrDevDBFailedToUpdateData           = "Postgres failed to update data"
	ErrDevDBFailedToBeginTransaction     = "Postgres failed to begin transaction"
	ErrDevDBFailedToCommitTransaction    = "Postgres failed to commit transaction"
	ErrDevDBStaleState                   = "Row version changed between read and write"
	ErrDevMongoDBFailedToInsertDocument  = "MongoDB failed to insert document"
	ErrDevMongoDBFailedToFindDocument    = "MongoDB failed to find document"
	ErrDevRedisFailedToSetData           = "Redis failed to set data"
	ErrDevRedisFailedToGetData           = "Redis failed to get data with key: %s"
	ErrDevRedisFailedToDeleteData        = "Redis failed to delete data"
	ErrDevRedisFailedToUnlock            = "Redis failed to release lock"
	ErrDevLockNotAcquired                = "Could not acquire serialization lock"
	ErrDevRabbitMQFailedToPublish        = "RabbitMQ failed to publish message"
	ErrDevRabbitMQPublishNotConfirmed    = "RabbitMQ did not confirm publish"
	ErrDevMinioFailedToCreateObject      = "Minio failed to create object in bucket: %s"
	ErrDevInvalidDecimal                 = "Value is not a valid fixed-point decimal"
	ErrDevInvalidAttachmentData          = "Attachment data is not valid base64"
	ErrDevCreateHTTPRequest              = "Failed to build outbound HTTP request"
	ErrDevSendHTTPRequest                = "Failed to send outbound HTTP request"
	ErrDevDecodeResponse                 = "Failed to decode response from: %s"
	ErrDevUpstreamBadStatus              = "Upstream %s responded with an unexpected status"
)
