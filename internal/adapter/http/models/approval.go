package models

import (
	"errors"
	"strings"
)

type ApproveAccountRequest struct {
	CallerID string `json:"callerId"`
}

func (r ApproveAccountRequest) Validate() error {
	if strings.TrimSpace(r.CallerID) == "" {
		return errors.New("callerId is required")
	}
	return nil
}

type RejectAccountRequest struct {
	CallerID string `json:"callerId"`
}

func (r RejectAccountRequest) Validate() error {
	if strings.TrimSpace(r.CallerID) == "" {
		return errors.New("callerId is required")
	}
	return nil
}
