package domain

import "errors"

// Status 审核处置结果
type Status string

const (
	StatusBenign  Status = "Reviewed - Benign"
	StatusBlocked Status = "Reviewed - Blocked"
	StatusPending Status = "Pending Investigation"
)

var (
	ErrStatusRequired = errors.New("status is required")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrNotInQueue     = errors.New("merchant is not in the review queue")
)

// ParseStatus 校验并解析处置结果
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", ErrStatusRequired
	}
	switch Status(s) {
	case StatusBenign, StatusBlocked, StatusPending:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
