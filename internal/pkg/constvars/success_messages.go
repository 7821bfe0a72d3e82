package constvars

const (
	SuccessCreateCharge     = "Charge created successfully"
	SuccessCreateInvoice    = "Invoice created successfully"
	SuccessAddCharges       = "Charges attached to invoice successfully"
	SuccessIssueInvoice     = "Invoice issued successfully"
	SuccessCancelInvoice    = "Invoice cancelled successfully"
	SuccessGetInvoice       = "Invoice retrieved successfully"
	SuccessApplyPayment     = "Payment applied successfully"
	SuccessCreateReturn     = "Credit note created successfully"
	SuccessCreateOrder      = "Order created successfully"
	SuccessStartOrder       = "Order started successfully"
	SuccessCompleteOrder    = "Order result recorded successfully"
	SuccessCancelOrder      = "Order cancelled successfully"
	SuccessWaiveOrder       = "Order payment waived successfully"
	SuccessGetOrder         = "Order retrieved successfully"
	SuccessGetStatement     = "Statement projected successfully"
	SuccessGetCharge        = "Charge retrieved successfully"
	SuccessGetCharges       = "Charges retrieved successfully"
	SuccessGetPayments      = "Payments retrieved successfully"
)
