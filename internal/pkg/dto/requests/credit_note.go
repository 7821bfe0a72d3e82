package requests

type CreateReturnRequest struct {
	Reason string `json:"reason" validate:"required"`
}
