package register_for_class

// RegisterRequest HTTP request model
type RegisterRequest struct {
	MemberID int64 `json:"memberId"`
}
